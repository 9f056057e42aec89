package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicl-arrears/internal/merge"
)

func createMergeCmd() *cobra.Command {
	var (
		root       string
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge letter PDFs per category in row order",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &merge.Merger{Root: root, Concat: merge.PDFCPU{}}
			results, err := m.RunAll(context.Background(), merge.Plan(categories))
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%-4s %4d files, %4d pages -> %s (%s)\n", r.Job.Category, r.Files, r.Pages, r.Output, r.Sequence)
			}
			if len(results) == 0 {
				fmt.Println("No letters found to merge")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Directory holding the category folders")
	cmd.Flags().StringSliceVar(&categories, "categories", merge.Categories, "Categories to merge")
	return cmd
}
