package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nicl-arrears/internal/db"
	import_pkg "github.com/nicl-arrears/internal/import"
)

var outputHeader = []string{
	"POL_NO", "POLICY_HOLDER", "ADDRESS_1", "ADDRESS_2", "ADDRESS_3", "TRUEARREARS", "FILE_NAME", "COMMENTS",
}

func createBatchCmd() *cobra.Command {
	var (
		flags   letterFlags
		workers int
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "batch [filename]",
		Short: "Prepare letters for an arrears CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := flags.reader()
			if err != nil {
				return err
			}
			records, err := reader.ReadFile(args[0])
			if err != nil {
				return err
			}

			processor := import_pkg.NewBatchProcessor(flags.options(), workers, app.Debug)
			results, stats, err := processor.Process(context.Background(), records)
			if err != nil {
				return err
			}

			for _, r := range results {
				if r.Letter != nil {
					fmt.Printf("%4d  %-10s %s\n", r.Row, "prepared", r.Letter.FileName)
				} else {
					fmt.Printf("%4d  %-10s %s\n", r.Row, "rejected", r.Comment())
				}
			}
			fmt.Printf("\n%d rows: %d prepared, %d rejected in %v\n", stats.Rows, stats.Prepared, stats.Rejected, stats.Duration)

			if outPath != "" {
				if err := writeResults(outPath, results); err != nil {
					return err
				}
				fmt.Printf("Results written to %s\n", outPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (default: number of CPUs)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write rows with address lines and COMMENTS to this CSV")
	return cmd
}

func writeResults(path string, results []import_pkg.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(outputHeader); err != nil {
		return err
	}
	for _, r := range results {
		lines := seg.Split(r.Record.FullAddress)
		fileName := ""
		if r.Letter != nil {
			fileName = r.Letter.FileName
			lines = r.Letter.Columns
		}
		row := []string{
			r.Record.PolicyNo, r.Record.PolicyHolder,
			lines[0], lines[1], lines[2],
			strconv.FormatFloat(r.Record.Arrears, 'f', 2, 64),
			fileName, r.Comment(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func createImportCmd() *cobra.Command {
	var (
		flags   letterFlags
		workers int
	)

	cmd := &cobra.Command{
		Use:   "import [filename]",
		Short: "Prepare an arrears CSV and store the batch in Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := flags.reader()
			if err != nil {
				return err
			}

			conn, err := db.NewConnection(app.Database)
			if err != nil {
				return err
			}
			defer conn.Close()

			store := db.NewLetterStore(conn.DB)
			ctx := context.Background()
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}

			processor := import_pkg.NewBatchProcessor(flags.options(), workers, app.Debug)
			importer := import_pkg.NewImporter(store, reader, processor)

			summary, err := importer.Import(ctx, args[0])
			if err != nil {
				return err
			}
			log.Printf("Batch %d stored: %d rows, %d prepared, %d rejected in %v",
				summary.BatchID, summary.Rows, summary.Prepared, summary.Rejected, summary.Duration)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (default: number of CPUs)")
	return cmd
}
