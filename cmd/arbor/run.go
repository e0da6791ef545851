package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/display"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Tick a tree document",
	Long:  `Loads a tree document and ticks it, rendering the tree after every tick. Use --count for a fixed number of ticks or interrupt to stop.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		count, _ := cmd.Flags().GetInt("count")
		period, _ := cmd.Flags().GetDuration("period")
		coverage, _ := cmd.Flags().GetBool("coverage")
		redisAddr, _ := cmd.Flags().GetString("redis")
		verbose, _ := cmd.Flags().GetBool("verbose")

		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("Error reading tree document: %v\n", err)
			os.Exit(1)
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		engine, err := arbor.FromYAML(data, arbor.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error assembling tree: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-shutdown
			cancel()
		}()

		if redisAddr != "" {
			recorder := redis.New(redisAddr, "", 0)
			defer recorder.Close()
			engine.Tree().AddPostTickHandler(recorderHandler(ctx, recorder, engine.Board(), logger))
		}

		engine.Tree().AddPostTickHandler(func(t *tree.BehaviourTree) {
			fmt.Printf("\n--- tick %d ---\n", t.Count())
			fmt.Print(engine.Render())
		})

		err = engine.TickTock(ctx, period, count)
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Println("\nInterrupted.")
		case err != nil:
			fmt.Printf("Tick error: %v\n", err)
			os.Exit(1)
		}

		if coverage {
			fmt.Println()
			fmt.Print(engine.RenderCoverage())
			fmt.Println(display.CoverageSummaryLine(engine.CoverageSummary()))
		}
	},
}

func recorderHandler(ctx context.Context, recorder *redis.Recorder, board *blackboard.Blackboard, logger *slog.Logger) tree.Handler {
	return recorder.PostTickHandler(ctx, board, func(err error) {
		logger.Error("failed to record tick", "err", err)
	})
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntP("count", "c", 1, "Number of ticks to run (negative runs until interrupted)")
	runCmd.Flags().Duration("period", 500*time.Millisecond, "Delay between ticks")
	runCmd.Flags().Bool("coverage", false, "Print a coverage report after the run")
	runCmd.Flags().String("redis", "", "Record tick snapshots to this Redis address")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
}
