package pathfind_test

import (
	"fmt"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/pathfind"
)

// ExampleFinder_Find routes across two lines that meet at one station.
func ExampleFinder_Find() {
	n, _ := network.New(network.WithDistanceScale(1))
	a, _ := n.AddStation(network.StationInfo{Code: 1, Name: "A", Pos: network.Point{X: 0, Y: 0}})
	x, _ := n.AddStation(network.StationInfo{Code: 2, Name: "X", Pos: network.Point{X: 1, Y: 0}})
	b, _ := n.AddStation(network.StationInfo{Code: 3, Name: "B", Pos: network.Point{X: 1, Y: 1}})
	red, _ := n.AddLine("red", "#f00", []network.StationID{a, x})
	blue, _ := n.AddLine("blue", "#00f", []network.StationID{x, b})
	_ = n.AddEdge(a, x, red, 1)
	_ = n.AddEdge(x, b, blue, 1)
	n.Seal()

	f, _ := pathfind.NewFinder(n)
	p, _ := f.Find(a, b)
	for _, s := range p {
		fmt.Println(n.Station(s.Station).Name, s.Line)
	}
	// Output:
	// A 1
	// X 2
	// B -1
}
