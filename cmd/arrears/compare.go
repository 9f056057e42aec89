package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicl-arrears/internal/addrsplit"
	"github.com/nicl-arrears/internal/postal"
)

func createCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [address]",
		Short: "Compare the segmenter with libpostal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")

			components, err := postal.Parse(raw)
			if err != nil {
				return err
			}
			expansions, err := postal.Expand(raw)
			if err != nil {
				return err
			}
			writeComparison(os.Stdout, raw, seg.Split(raw), components, expansions)
			return nil
		},
	}
}

// writeComparison prints both splits side by side, marking lines that
// differ, followed by libpostal's components and normalised expansions
func writeComparison(w io.Writer, raw string, ours addrsplit.Lines, components []postal.Component, expansions []string) {
	theirs := postal.Lines(components)

	fmt.Fprintf(w, "Input: %s\n\n", raw)
	fmt.Fprintf(w, "%-4s %-40s %s\n", "", "segmenter", "libpostal")
	for i := range ours {
		marker := " "
		if !strings.EqualFold(ours[i], theirs[i]) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-3d %-40s %s\n", marker, i+1, ours[i], theirs[i])
	}

	fmt.Fprintln(w, "\nlibpostal components:")
	for _, c := range components {
		fmt.Fprintf(w, "  %-15s %s\n", c.Label, c.Value)
	}

	if len(expansions) > 0 {
		fmt.Fprintln(w, "\nlibpostal expansions:")
		for _, e := range expansions {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}
