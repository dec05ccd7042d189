// bucketlogctl is a REPL for inspecting and editing bucketlog files.
//
// Usage:
//
//	bucketlogctl <file>              Open an existing bucketlog file
//	bucketlogctl new [opts] <file>   Create a new bucketlog file
//
// Options for 'new':
//
//	-b, --buckets       Hash-bucket count (default: from config, or 1024)
//
// Commands (in REPL):
//
//	put <key> <value>   Insert or overwrite a key
//	get <key>            Retrieve a key's value
//	del <key>            Delete a key (tombstone)
//	scan [limit]         List live keys
//	stats                Show store statistics
//	sync                 Flush the mapping to disk
//	compact              Reclaim space by rewriting the file
//	help                 Show this help
//	exit / quit / q      Exit
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/bucketlog/internal/diskfile"
	"github.com/calvinalkan/bucketlog/pkg/bucketlog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bucketlogctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		printUsage()

		return errors.New("missing command or file path")
	}

	cfg, err := loadConfig(configPath())
	if err != nil {
		return err
	}

	fs := diskfile.NewReal()

	if args[0] == "new" {
		return runNew(fs, cfg, args[1:])
	}

	return runOpen(fs, args[0])
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  bucketlogctl <file>              Open an existing bucketlog file")
	fmt.Fprintln(os.Stderr, "  bucketlogctl new [opts] <file>   Create a new bucketlog file")
	fmt.Fprintln(os.Stderr, "\nRun 'bucketlogctl new --help' for options when creating a new file.")
}

// logf bridges bucketlog.Options.Logf's printf-style hook to charmbracelet/log's
// structured logger, used throughout the CLI (the library itself never logs).
func logf(format string, args ...any) {
	log.Info(fmt.Sprintf(format, args...))
}

func runNew(fs diskfile.FS, cfg config, args []string) error {
	fset := flag.NewFlagSet("new", flag.ExitOnError)
	buckets := fset.Uint32P("buckets", "b", cfg.DefaultNumBuckets, "hash-bucket count")

	fset.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bucketlogctl new [options] <file>")
		fmt.Fprintln(os.Stderr)
		fset.PrintDefaults()
	}

	if err := fset.Parse(args); err != nil {
		return err
	}

	if fset.NArg() < 1 {
		fset.Usage()

		return errors.New("missing file path")
	}

	path := fset.Arg(0)

	if exists, err := fs.Exists(path); err != nil {
		return fmt.Errorf("bucketlogctl: checking %s: %w", path, err)
	} else if exists {
		return fmt.Errorf("bucketlogctl: %s already exists (use 'bucketlogctl %s' to open it)", path, path)
	}

	store, err := bucketlog.Open(bucketlog.Options{
		Path:       path,
		NumBuckets: *buckets,
		Logf:       logf,
	})
	if err != nil {
		return fmt.Errorf("bucketlogctl: creating %s: %w", path, err)
	}

	repl := &REPL{store: store}

	return repl.Run()
}

func runOpen(fs diskfile.FS, path string) error {
	if exists, err := fs.Exists(path); err != nil {
		return fmt.Errorf("bucketlogctl: checking %s: %w", path, err)
	} else if !exists {
		return fmt.Errorf("bucketlogctl: %s does not exist (use 'bucketlogctl new %s' to create it)", path, path)
	}

	store, err := bucketlog.Open(bucketlog.Options{Path: path, Logf: logf})
	if err != nil {
		if errors.Is(err, bucketlog.ErrCorrupt) {
			return fmt.Errorf("bucketlogctl: %s: %w (consider restoring from a backup)", path, err)
		}

		return fmt.Errorf("bucketlogctl: opening %s: %w", path, err)
	}

	repl := &REPL{store: store}

	return repl.Run()
}
