package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func createGazetteerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gazetteer",
		Short: "List the towns and indicators in use",
		Run: func(cmd *cobra.Command, args []string) {
			g := seg.Gazetteer()
			towns := g.Towns()
			fmt.Printf("Towns (%d):\n", len(towns))
			for _, t := range towns {
				fmt.Printf("  %s\n", t)
			}
			fmt.Printf("\nStreet indicators: %s\n", strings.Join(g.StreetIndicators(), ", "))
			fmt.Printf("Area indicators: %s\n", strings.Join(g.AreaIndicators(), ", "))
		},
	}
}
