package cli

import (
	storageengine "KzDB/storage_engine"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	seedCount  int
	seedRandom bool
)

// seedCmd fills the database with sample rows, value-<key> under each key.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample rows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]uint64, seedCount)
		for i := range keys {
			keys[i] = uint64(i + 1)
		}
		if seedRandom {
			rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		}

		return withEngine(func(se *storageengine.StorageEngine) error {
			start := time.Now()
			for _, k := range keys {
				if _, err := se.Put(k, fmt.Appendf(nil, "value-%d", k)); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %s rows in %s.\n", humanize.Comma(int64(len(keys))), time.Since(start).Round(time.Millisecond))
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 1000, "number of rows")
	seedCmd.Flags().BoolVar(&seedRandom, "random", false, "insert keys in random order")
}
