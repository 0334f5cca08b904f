package cli

import (
	"KzDB/logging"
	storageengine "KzDB/storage_engine"
	"KzDB/types"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dbPath           string
	poolSize         int
	victimCacheBytes int64
	logLevel         string
	logFormat        string
	logFile          string

	logger = zap.NewNop()
)

// Root command for the CLI
var RootCmd = &cobra.Command{
	Use:           "kzdb",
	Short:         "Page-based key/value storage engine",
	Long:          "kzdb stores uint64 keys and byte values in a single paged file: a heap of slotted pages for values and a B+ tree index over them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Config{Level: logLevel, Format: logFormat, OutputPath: logFile})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", "kzdb.db", "database file")
	flags.IntVar(&poolSize, "pool-size", types.BufferPoolSize, "buffer pool frames")
	flags.Int64Var(&victimCacheBytes, "victim-cache", 32*storageengine.MiB, "bytes of evicted pages kept in memory, 0 to disable")
	flags.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "console", "console or json")
	flags.StringVar(&logFile, "log-file", "", "log to this file instead of stderr")

	RootCmd.AddCommand(putCmd, getCmd, scanCmd, statsCmd, inspectCmd, seedCmd, dumpCmd, serveCmd, shellCmd)
}

func openEngine() (*storageengine.StorageEngine, error) {
	return storageengine.Open(dbPath,
		storageengine.WithPoolSize(poolSize),
		storageengine.WithVictimCacheBytes(victimCacheBytes),
		storageengine.WithLogger(logger),
	)
}

// withEngine opens the database, runs fn and closes it, keeping fn's error first.
func withEngine(fn func(se *storageengine.StorageEngine) error) (err error) {
	se, err := openEngine()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := se.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(se)
}

func parseKey(s string) (uint64, error) {
	key, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid key %q: keys are unsigned 64-bit integers", s)
	}
	return key, nil
}
