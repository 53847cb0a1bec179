// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/citysim/network"
	"github.com/katalvlaran/citysim/sim"
)

func newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route FROM TO",
		Short: "Print the route between two stations",
		Long: `Route prints the path a citizen would take between two stations, given
as station codes or names. It does not run the simulation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			from, err := resolveStation(a.net, args[0])
			if err != nil {
				return err
			}
			to, err := resolveStation(a.net, args[1])
			if err != nil {
				return err
			}

			e, err := sim.New(a.net, a.engineOptions(sim.WithMaxCitizens(1), sim.WithWorkers(1))...)
			if err != nil {
				return fmt.Errorf("creating engine: %w", err)
			}
			defer e.Close()

			p, err := e.QueryPath(from, to)
			if err != nil {
				return fmt.Errorf("no route from %s to %s: %w", args[0], args[1], err)
			}

			out := cmd.OutOrStdout()
			for _, s := range p {
				st := a.net.Station(s.Station)
				switch s.Line {
				case network.NoLine:
					fmt.Fprintf(out, "%-16s (arrive)\n", st.Name)
				case network.WalkingLine:
					fmt.Fprintf(out, "%-16s walk\n", st.Name)
				default:
					fmt.Fprintf(out, "%-16s %s\n", st.Name, a.net.Line(s.Line).Name)
				}
			}
			fmt.Fprintf(out, "%d stops, %d transfers\n", p.Len()-1, p.Transfers())

			return nil
		},
	}
}
