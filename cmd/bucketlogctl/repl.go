package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/bucketlog/pkg/bucketlog"
)

// errScanLimitReached is a sentinel used only to stop an Iterate call early
// from within its callback; it is never returned to a caller of cmdScan.
var errScanLimitReached = errors.New("bucketlogctl: scan limit reached")

// REPL is the interactive command loop, structured after the teacher's
// cmd/sloty REPL.
type REPL struct {
	store *bucketlog.Store
	liner *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".bucketlogctl_history")
}

// Run starts the REPL loop. It always closes the store before returning,
// including when an unrecoverable input error cuts the loop short.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("bucketlogctl - %s (%d buckets)\n", r.store.Path(), r.store.NumBuckets())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	runErr := r.loop()

	r.saveHistory()

	if err := r.store.Close(); err != nil {
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}

func (r *REPL) loop() error {
	for {
		line, err := r.liner.Prompt("bucketlog> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")

			return nil

		case "help", "?":
			r.printHelp()

		case "put", "set":
			r.cmdPut(args)

		case "get":
			r.cmdGet(args)

		case "del", "delete":
			r.cmdDelete(args)

		case "scan", "ls", "list":
			r.cmdScan(args)

		case "stats", "info":
			r.cmdStats()

		case "sync":
			r.cmdSync()

		case "compact":
			r.cmdCompact()

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	commands := []string{
		"put", "get", "del", "delete", "scan", "ls", "list",
		"stats", "info", "sync", "compact", "help", "exit", "quit", "q",
	}

	var matches []string

	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			matches = append(matches, c)
		}
	}

	return matches
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  put <key> <value>   Insert or overwrite a key
  get <key>           Retrieve a key's value
  del <key>           Delete a key (tombstone)
  scan [limit]        List live keys
  stats               Show store statistics
  sync                Flush the mapping to disk
  compact             Reclaim space by rewriting the file
  help                Show this help
  exit / quit / q     Exit`)
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: put <key> <value>")

		return
	}

	key := args[0]
	value := strings.Join(args[1:], " ")

	if err := r.store.Set([]byte(key), []byte(value)); err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	fmt.Println("OK")
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")

		return
	}

	value, err := r.store.Get([]byte(args[0]))
	if err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	if value == nil {
		fmt.Println("(not found)")

		return
	}

	fmt.Printf("%s\n", value)
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: del <key>")

		return
	}

	if err := r.store.Delete([]byte(args[0])); err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	fmt.Println("OK")
}

func (r *REPL) cmdScan(args []string) {
	limit := -1

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("usage: scan [limit]")

			return
		}

		limit = n
	}

	count := 0

	err := r.store.Iterate(func(kv bucketlog.KeyValue) error {
		if limit >= 0 && count >= limit {
			return errScanLimitReached
		}

		fmt.Printf("%s = %s\n", kv.Key, kv.Value)
		count++

		return nil
	})
	if err != nil && !errors.Is(err, errScanLimitReached) {
		fmt.Printf("error: %v\n", err)
	}

	fmt.Printf("(%d entries)\n", count)
}

func (r *REPL) cmdStats() {
	s := r.store.Stats()
	fmt.Printf("eof:           %d bytes\n", s.EOF)
	fmt.Printf("mmap_alloc:    %d bytes\n", s.MmapAlloc)
	fmt.Printf("buckets:       %d\n", s.BucketCount)
	fmt.Printf("seek_average:  %.2f\n", s.SeekAverage)
	fmt.Printf("live_estimate: %d\n", s.LiveEstimate)
}

func (r *REPL) cmdSync() {
	if err := r.store.Sync(); err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	fmt.Println("OK")
}

func (r *REPL) cmdCompact() {
	before := r.store.Stats()

	if err := r.store.Compact(); err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	after := r.store.Stats()
	fmt.Printf("compacted: %d -> %d bytes\n", before.EOF, after.EOF)
}
