package cli

import (
	storageengine "KzDB/storage_engine"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var scanLimit int

var putCmd = &cobra.Command{
	Use:   "put [key] [value]",
	Short: "Store a value under a key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		return withEngine(func(se *storageengine.StorageEngine) error {
			replaced, err := se.Put(key, []byte(args[1]))
			if err != nil {
				return err
			}
			if replaced {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated key %d.\n", key)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Inserted key %d.\n", key)
			}
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the value stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		return withEngine(func(se *storageengine.StorageEngine) error {
			value, ok, err := se.Get(key)
			if err != nil {
				return err
			}
			if !ok {
				return errors.Errorf("key %d not found", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(value))
			return nil
		})
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [from] [to]",
	Short: "Print keys in [from, to) in order",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := uint64(0), uint64(math.MaxUint64)
		var err error
		if len(args) > 0 {
			if from, err = parseKey(args[0]); err != nil {
				return err
			}
		}
		if len(args) > 1 {
			if to, err = parseKey(args[1]); err != nil {
				return err
			}
		}
		return withEngine(func(se *storageengine.StorageEngine) error {
			n := 0
			err := se.Scan(from, to, func(key uint64, value []byte) bool {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", key, value)
				n++
				return scanLimit <= 0 || n < scanLimit
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "(%s rows)\n", humanize.Comma(int64(n)))
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show file, heap, index and buffer pool statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			s, err := se.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:         %s (%s)\n", s.Path, s.UUID)
			fmt.Fprintf(out, "size:         %s in %s pages\n", humanize.IBytes(uint64(s.FileSize)), humanize.Comma(s.FilePages))
			fmt.Fprintf(out, "keys:         %s\n", humanize.Comma(int64(s.Keys)))
			fmt.Fprintf(out, "heap pages:   %s\n", humanize.Comma(int64(s.HeapPages)))
			fmt.Fprintf(out, "index:        root page %d, height %d\n", s.IndexRoot, s.IndexHeight)
			bp := s.BufferPool
			fmt.Fprintf(out, "buffer pool:  %d/%d frames, %d dirty, %d pinned\n", bp.TotalPages, bp.Capacity, bp.DirtyPages, bp.PinnedPages)
			fmt.Fprintf(out, "cache:        %s hits, %s misses, %s evictions, %s victim hits (%.1f%% hit rate)\n",
				humanize.Comma(int64(bp.Hits)), humanize.Comma(int64(bp.Misses)),
				humanize.Comma(int64(bp.Evictions)), humanize.Comma(int64(bp.VictimHits)), bp.HitRate*100)
			return nil
		})
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the B+ tree index level by level and verify it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			if err := se.Inspect(cmd.OutOrStdout()); err != nil {
				return err
			}
			if err := se.Check(); err != nil {
				return errors.WithMessage(err, "index check failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "index check passed")
			return nil
		})
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanLimit, "limit", 0, "stop after this many rows, 0 for no limit")
}
