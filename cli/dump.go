package cli

import (
	storageengine "KzDB/storage_engine"
	"KzDB/types"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// dumpCmd prints the heap in physical order, one tuple per line.
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every heap tuple with its record id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			var n, size int
			err := se.ScanHeap(func(rid types.RecordID, data []byte) bool {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%q\n", rid, humanize.Bytes(uint64(len(data))), preview(data))
				n++
				size += len(data)
				return true
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tuples, %s\n", n, humanize.Bytes(uint64(size)))
			return nil
		})
	},
}

func preview(data []byte) []byte {
	const limit = 48
	if len(data) > limit {
		return data[:limit]
	}
	return data
}
