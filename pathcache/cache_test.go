package pathcache_test

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathcache"
	"github.com/katalvlaran/citysim/pathfind"
	"github.com/stretchr/testify/suite"
)

// direct returns a two-step path a → b on line 1.
func direct(a, b network.StationID) pathfind.Path {
	return pathfind.Path{{Station: a, Line: 1}, {Station: b, Line: network.NoLine}}
}

type CacheSuite struct {
	suite.Suite
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) newCache(buckets, size int) *pathcache.Cache {
	c, err := pathcache.New(pathcache.WithBuckets(buckets), pathcache.WithBucketSize(size))
	s.Require().NoError(err)

	return c
}

func (s *CacheSuite) TestBadGeometry() {
	_, err := pathcache.New(pathcache.WithBuckets(0))
	s.Require().ErrorIs(err, pathcache.ErrBadGeometry)
	_, err = pathcache.New(pathcache.WithBucketSize(-1))
	s.Require().ErrorIs(err, pathcache.ErrBadGeometry)
}

func (s *CacheSuite) TestReverseLookupShiftsLines() {
	const a, x, b network.StationID = 3, 7, 9
	c := s.newCache(4, 2)
	p := pathfind.Path{{Station: a, Line: 1}, {Station: x, Line: 2}, {Station: b, Line: network.NoLine}}
	s.Require().False(c.Put(a, b, p))

	got, ok := c.Get(a, b)
	s.Require().True(ok)
	s.Equal(p, got)

	rev, ok := c.Get(b, a)
	s.Require().True(ok)
	s.Equal(pathfind.Path{{Station: b, Line: 2}, {Station: x, Line: 1}, {Station: a, Line: network.NoLine}}, rev)

	st := c.Stats()
	s.EqualValues(2, st.Hits)
	s.EqualValues(1, st.ReverseHits)
	s.EqualValues(0, st.Misses)
}

func (s *CacheSuite) TestReturnedPathsArePrivate() {
	c := s.newCache(1, 1)
	p := direct(1, 2)
	s.Require().False(c.Put(1, 2, p))
	p[0].Station = 42

	got, ok := c.Get(1, 2)
	s.Require().True(ok)
	s.Equal(network.StationID(1), got[0].Station)
	got[1].Station = 77

	again, _ := c.Get(1, 2)
	s.Equal(network.StationID(2), again[1].Station)
}

func (s *CacheSuite) TestFirstWriterWins() {
	c := s.newCache(2, 2)
	first := direct(1, 2)
	s.Require().False(c.Put(1, 2, first))

	other := pathfind.Path{{Station: 1, Line: 5}, {Station: 2, Line: network.NoLine}}
	s.False(c.Put(1, 2, other))
	s.False(c.Put(2, 1, direct(2, 1)))

	got, ok := c.Get(1, 2)
	s.Require().True(ok)
	s.Equal(first, got)
	s.Equal(1, c.Len())
}

func (s *CacheSuite) TestRejectsMalformed() {
	c := s.newCache(2, 2)
	s.False(c.Put(1, 2, nil))
	s.False(c.Put(1, 2, pathfind.Path{{Station: 1, Line: network.NoLine}}))
	s.False(c.Put(1, 3, direct(1, 2)))
	long := make(pathfind.Path, pathfind.MaxPathLen+1)
	long[0].Station, long[len(long)-1].Station = 1, 2
	s.False(c.Put(1, 2, long))
	s.Zero(c.Len())
}

// TestEvictsMostIdle fills one bucket and checks that each over-capacity
// insert evicts exactly the slot with the highest idle counter.
func (s *CacheSuite) TestEvictsMostIdle() {
	c := s.newCache(1, 4)
	keys := [][2]network.StationID{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}, {11, 12}}
	for _, k := range keys[:4] {
		s.Require().False(c.Put(k[0], k[1], direct(k[0], k[1])), "free slot evicts nothing")
	}
	s.Equal(4, c.Len())

	// {1,2} is the oldest untouched entry.
	s.Require().True(c.Put(9, 10, direct(9, 10)), "full bucket evicts")
	s.Equal(4, c.Len())
	_, ok := c.Get(1, 2)
	s.False(ok)

	// Touch {3,4}; {5,6} becomes the most idle.
	_, ok = c.Get(3, 4)
	s.Require().True(ok)
	s.Require().True(c.Put(11, 12, direct(11, 12)))
	_, ok = c.Get(5, 6)
	s.False(ok)
	for _, k := range [][2]network.StationID{{3, 4}, {7, 8}, {9, 10}, {11, 12}} {
		_, ok = c.Get(k[0], k[1])
		s.True(ok, "key %v", k)
	}

	st := c.Stats()
	s.EqualValues(2, st.Evictions)
	s.EqualValues(6, st.Inserts)
	s.Equal(4, st.Entries)
	s.Equal(4, st.Capacity)
}

func (s *CacheSuite) TestPutReportsEvictionOnly() {
	c := s.newCache(1, 2)
	s.False(c.Put(1, 2, direct(1, 2)))
	s.False(c.Put(3, 4, direct(3, 4)))
	s.True(c.Put(5, 6, direct(5, 6)))
	s.False(c.Put(5, 6, direct(5, 6)), "duplicate")
	s.EqualValues(1, c.Stats().Evictions)
}

func (s *CacheSuite) TestNegativeIDsMiss() {
	c := s.newCache(4, 2)
	s.NotPanics(func() {
		_, ok := c.Get(network.NoStation, network.NoStation)
		s.False(ok)
		_, ok = c.Get(network.NoStation, 3)
		s.False(ok)
	})
	p := pathfind.Path{{Station: network.NoStation, Line: 1}, {Station: 3, Line: network.NoLine}}
	s.NotPanics(func() { s.False(c.Put(network.NoStation, 3, p)) })
	s.Zero(c.Len())
	s.EqualValues(2, c.Stats().Misses)
}

func (s *CacheSuite) TestNeverExceedsCapacity() {
	c := s.newCache(8, 3)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 5000; i++ {
		a := network.StationID(rng.IntN(100))
		b := network.StationID(rng.IntN(100))
		if a == b {
			continue
		}
		if rng.IntN(2) == 0 {
			c.Put(a, b, direct(a, b))
		} else {
			c.Get(a, b)
		}
		s.Require().LessOrEqual(c.Len(), 24)
	}
	st := c.Stats()
	s.Equal(st.Inserts-st.Evictions, uint64(st.Entries))
}

func (s *CacheSuite) TestConcurrentAccess() {
	c := s.newCache(16, 4)
	const workers, rounds = 8, 2000
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed))
			for i := 0; i < rounds; i++ {
				a := network.StationID(rng.IntN(50))
				b := a + 1 + network.StationID(rng.IntN(20))
				if p, ok := c.Get(a, b); ok {
					s.Equal(a, p.Start())
					s.Equal(b, p.End())
				} else {
					c.Put(a, b, direct(a, b))
				}
			}
		}(uint64(w))
	}
	wg.Wait()
	st := c.Stats()
	s.EqualValues(workers*rounds, st.Hits+st.Misses)
	s.LessOrEqual(st.Entries, 64)
}
