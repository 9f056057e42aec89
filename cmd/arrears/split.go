package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func createSplitCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "split [address...]",
		Short: "Split addresses into three lines",
		Long:  `Split each address argument, or each line of stdin when none are given, into three address lines`,
		RunE: func(cmd *cobra.Command, args []string) error {
			emit := func(raw string) error {
				lines := seg.Split(raw)
				if asJSON {
					return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
						"input": raw,
						"lines": lines.Slice(),
					})
				}
				fmt.Printf("%s\n  1: %s\n  2: %s\n  3: %s\n", raw, lines[0], lines[1], lines[2])
				return nil
			}

			if len(args) > 0 {
				for _, raw := range args {
					if err := emit(raw); err != nil {
						return err
					}
				}
				return nil
			}

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				raw := scanner.Text()
				if strings.TrimSpace(raw) == "" {
					continue
				}
				if err := emit(raw); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per address")
	return cmd
}
