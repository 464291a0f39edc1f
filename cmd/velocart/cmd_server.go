package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/velocart/velocart/app/routes"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/internal/server"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/event"
	"github.com/velocart/velocart/pkg/router"
)

// velocart serve starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// velocart route:list prints all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := event.NewBus()
		board := services.NewDeliveryBoard(bus)
		defer board.Close()

		r := router.New()
		routes.RegisterAPI(r, routes.Deps{
			Verifier: auth.NewHMACVerifier(""),
			Issuer:   auth.NewHMACVerifier(""),
			Bus:      bus,
			Board:    board,
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
