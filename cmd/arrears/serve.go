package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/nicl-arrears/internal/db"
	"github.com/nicl-arrears/internal/web"
	"github.com/nicl-arrears/internal/web/handlers"
)

func createServeCmd() *cobra.Command {
	var (
		port   int
		noDB   bool
		letter string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the address and letters HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := web.ConfigFromApp(app)
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			var store handlers.LetterLister
			if !noDB {
				conn, err := db.NewConnection(app.Database)
				if err != nil {
					log.Printf("Database unavailable, batch routes disabled: %v", err)
				} else {
					defer conn.Close()
					ls := db.NewLetterStore(conn.DB)
					if err := ls.EnsureSchema(context.Background()); err != nil {
						return err
					}
					store = ls
				}
			}

			server := web.NewServer(cfg, letterOptions(letter, app.MinArrears), store)
			return server.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Listen port (default from WEB_PORT)")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "Serve without the Postgres batch routes")
	cmd.Flags().StringVar(&letter, "category", "L0", "Default letter type for /api/letters/prepare")
	return cmd
}
