package cli

import (
	"KzDB/server"
	storageengine "KzDB/storage_engine"
	checkpoint "KzDB/storage_engine/checkpoint_manager"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr          string
	checkpointInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the database over HTTP",
	Long:  "Serves GET/PUT /keys/:key, GET /scan?from=&to=&limit= and GET /stats until interrupted, checkpointing in the background.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withEngine(func(se *storageengine.StorageEngine) error {
			cm, err := checkpoint.NewCheckpointManager(se, checkpointInterval, logger.Named("checkpoint"))
			if err != nil {
				return err
			}
			app := server.New(se, logger.Named("http"))

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.Serve(gctx, app, serveAddr, logger.Named("http")) })
			g.Go(func() error { return cm.Run(gctx) })
			err = g.Wait()

			last := cm.LastCheckpoint()
			logger.Info("server stopped",
				zap.Uint64("checkpoints", last.Seq),
				zap.Uint64("checkpoint_failures", cm.Failures()))
			return err
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":3000", "listen address")
	serveCmd.Flags().DurationVar(&checkpointInterval, "checkpoint-interval", 5*time.Second, "how often dirty pages are flushed")
}
