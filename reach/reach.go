// SPDX-License-Identifier: MIT

package reach

import (
	"github.com/samber/lo"

	"github.com/katalvlaran/citysim/network"
)

type queueItem struct {
	id    network.StationID
	depth int
}

// walker holds the state of one breadth-first traversal.
type walker struct {
	net   *network.Network
	opts  Options
	queue []queueItem
	res   *Result
}

// Reachable runs BFS from start.
func Reachable(n *network.Network, start network.StationID, opts ...Option) (*Result, error) {
	if n == nil {
		return nil, ErrNilNetwork
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if n.Station(start) == nil {
		return nil, ErrStartNotFound
	}

	V := n.StationCount()
	w := &walker{
		net:   n,
		opts:  o,
		queue: make([]queueItem, 0, V),
		res: &Result{
			Order:  make([]network.StationID, 0, V),
			Depth:  make([]int, V),
			Parent: make([]network.StationID, V),
		},
	}
	for i := 0; i < V; i++ {
		w.res.Depth[i] = -1
		w.res.Parent[i] = network.NoStation
	}
	w.enqueue(start, 0, network.NoStation)

	return w.res, w.loop()
}

func (w *walker) enqueue(id network.StationID, d int, parent network.StationID) {
	w.res.Depth[id] = d
	w.res.Parent[id] = parent
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)

		next := item.depth + 1
		if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
			continue
		}
		for _, e := range w.net.Adjacent(item.id) {
			if !w.opts.FilterEdge(item.id, e) || w.res.Depth[e.To] >= 0 {
				continue
			}
			w.enqueue(e.To, next, item.id)
		}
	}

	return nil
}

// Components labels stations by component.
type Components struct {
	Label []int // component index per station
	Sizes []int // station count per component
}

// Count returns the number of components.
func (c *Components) Count() int { return len(c.Sizes) }

// Same reports whether a and b share a component.
func (c *Components) Same(a, b network.StationID) bool {
	if a < 0 || b < 0 || int(a) >= len(c.Label) || int(b) >= len(c.Label) {
		return false
	}

	return c.Label[a] == c.Label[b]
}

// Largest returns the size of the biggest component.
func (c *Components) Largest() int { return lo.Max(c.Sizes) }

// Isolated returns stations alone in their component.
func (c *Components) Isolated() []network.StationID {
	var out []network.StationID
	for i, l := range c.Label {
		if c.Sizes[l] == 1 {
			out = append(out, network.StationID(i))
		}
	}

	return out
}

// LabelComponents runs one BFS per unlabelled station. The edge filter and
// context options apply; MaxDepth is ignored.
func LabelComponents(n *network.Network, opts ...Option) (*Components, error) {
	if n == nil {
		return nil, ErrNilNetwork
	}
	V := n.StationCount()
	c := &Components{Label: make([]int, V)}
	for i := range c.Label {
		c.Label[i] = -1
	}
	opts = append(opts, WithMaxDepth(0))
	for i := 0; i < V; i++ {
		if c.Label[i] >= 0 {
			continue
		}
		res, err := Reachable(n, network.StationID(i), opts...)
		if err != nil {
			return nil, err
		}
		id := len(c.Sizes)
		size := 0
		for _, v := range res.Order {
			if c.Label[v] < 0 {
				c.Label[v] = id
				size++
			}
		}
		c.Sizes = append(c.Sizes, size)
	}

	return c, nil
}
