// SPDX-License-Identifier: MIT

// Package pathcache memoizes routes between station pairs.
//
// The cache is split into a fixed number of buckets with a fixed number of
// slots each. A pair (a, b) lives in bucket (a+b) mod Buckets, so (a, b) and
// (b, a) always share a bucket and one stored route serves both directions:
// a lookup for the reversed key returns pathfind.Path.Reversed of the stored
// route.
//
// Eviction is an approximate LRU. Every slot carries an idle counter. Each
// access to a bucket resets the touched slot to zero and ages every other
// occupied slot by one; a miss ages every slot. When a bucket is full, Put
// replaces the slot with the highest idle counter (lowest index on ties)
// and reports true; every other Put reports false.
//
// Put is first-writer-wins: if either orientation of the key is already
// stored, Put only refreshes that slot and reports false.
//
// All operations take a single mutex, since a read updates idle counters.
// Returned paths are private copies.
package pathcache
