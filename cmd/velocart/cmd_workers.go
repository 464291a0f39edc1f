package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/velocart/velocart/app/jobs"
	"github.com/velocart/velocart/config"
	"github.com/velocart/velocart/pkg/cache"
	"github.com/velocart/velocart/pkg/queue"
)

var queueWorkersFlag int

// velocart queue:work runs notification jobs outside the web process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		queue.UseDB(db)

		if config.QueueDriver() == "redis" {
			if err := cache.Connect(); err != nil {
				return fmt.Errorf("queue driver is redis but redis is unreachable: %w", err)
			}
			queue.SetDriver(queue.NewRedisDriver(cache.Client()))
		}
		jobs.RegisterAll()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
