package cli

import (
	storageengine "KzDB/storage_engine"
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive prompt: put, get, scan, stats, flush, exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(se *storageengine.StorageEngine) error {
			return runShell(se, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

// runShell reads one command per line until exit or EOF. Errors are printed
// and the loop continues.
func runShell(se *storageengine.StorageEngine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "kzdb> ")
		if !scanner.Scan() { // Ctrl+D
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		op := strings.ToLower(fields[0])
		if op == "exit" || op == "quit" {
			return nil
		}
		if err := shellExec(se, op, fields[1:], out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func shellExec(se *storageengine.StorageEngine, op string, args []string, out io.Writer) error {
	switch op {
	case "put":
		if len(args) < 2 {
			return errors.Errorf("usage: put <key> <value>")
		}
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		replaced, err := se.Put(key, []byte(strings.Join(args[1:], " ")))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "ok (replaced=%t)\n", replaced)

	case "get":
		if len(args) != 1 {
			return errors.Errorf("usage: get <key>")
		}
		key, err := parseKey(args[0])
		if err != nil {
			return err
		}
		value, ok, err := se.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "(not found)")
			return nil
		}
		fmt.Fprintln(out, string(value))

	case "scan":
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
		return se.Scan(from, to, func(key uint64, value []byte) bool {
			fmt.Fprintf(out, "%d\t%s\n", key, value)
			return true
		})

	case "stats":
		s, err := se.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "keys=%d heap_pages=%d index_height=%d hits=%d misses=%d\n",
			s.Keys, s.HeapPages, s.IndexHeight, s.BufferPool.Hits, s.BufferPool.Misses)

	case "flush":
		if err := se.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out, "ok")

	default:
		return errors.Errorf("unknown command %q", op)
	}
	return nil
}
