// Command bctc drives the segmenter/chunker/tokenizer/bracer/line-view
// pipeline over a single source file, for inspection and for watching a
// file as it's edited.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/waverly-lang/bct/bracer"
	"github.com/waverly-lang/bct/chunk"
	"github.com/waverly-lang/bct/pipeline"
	"github.com/waverly-lang/bct/srctext"
)

func main() {
	var debug bool

	root := &cobra.Command{
		Use:   "bctc",
		Short: "Inspect the bracket-matched tree for an opal source file",
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	treeCmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the chunked, bracket-matched tree for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(debug)
			db := pipeline.NewDatabase()
			return runTree(cmd.OutOrStdout(), logger, db, args[0])
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run the tree view on every write to a file, printing only changed lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(debug)
			return runWatch(cmd.OutOrStdout(), logger, args[0])
		},
	}

	root.AddCommand(treeCmd, watchCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger mirrors the teacher's --debug gate: Info level by default,
// Debug level when the flag is set, with timestamps stripped since each
// invocation is short-lived.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// renderChunks runs path's contents through db and returns one rendered
// tree string per chunk, plus that chunk's flattened diagnostics.
func renderChunks(logger *slog.Logger, db *pipeline.Database, path string) ([]string, [][]bracer.Diagnostic, error) {
	src, err := srctext.FromFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := db.Segment(src)
	chunks := db.Chunk(doc, chunk.Default())
	logger.Debug("chunked source", slog.String("file", path), slog.Int("chunks", len(chunks)))

	rendered := make([]string, len(chunks))
	diags := make([][]bracer.Diagnostic, len(chunks))
	for i, c := range chunks {
		tokens := db.Lex(c)
		tree := db.Bracer(tokens)
		rendered[i] = bracer.DebugStr(tree.Iter())
		diags[i] = tree.Errors
		logger.Debug("bracered chunk", slog.Int("chunk", i), slog.Int("errors", len(tree.Errors)))
	}
	return rendered, diags, nil
}

// runTree prints one rendered tree line per chunk, followed by the
// diagnostics collected across all chunks.
func runTree(out io.Writer, logger *slog.Logger, db *pipeline.Database, path string) error {
	rendered, diags, err := renderChunks(logger, db, path)
	if err != nil {
		return err
	}

	for i, r := range rendered {
		fmt.Fprintf(out, "%d: %s\n", i, r)
	}

	total := 0
	for _, d := range diags {
		total += len(d)
	}
	if total == 0 {
		fmt.Fprintln(out, "no diagnostics")
		return nil
	}
	fmt.Fprintf(out, "%d diagnostic(s):\n", total)
	for chunkIdx, d := range diags {
		for _, diag := range d {
			fmt.Fprintf(out, "  chunk %d [%d,%d): %s\n", chunkIdx, diag.ByteRange.Start, diag.ByteRange.End, diag.Sigil)
		}
	}
	return nil
}

// runWatch re-renders path on every write, printing only the chunk lines
// whose rendering actually changed. A single shared pipeline.Database is
// reused across re-renders, so chunks whose text didn't change are served
// from cache rather than re-lexed and re-bracered.
func runWatch(out io.Writer, logger *slog.Logger, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify watches the containing directory rather than the file
	// itself: many editors replace a file on save (rename over it) rather
	// than writing it in place, and a watch on the old inode would go
	// silent after the first save.
	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	db := pipeline.NewDatabase()
	var previous []string

	render := func() {
		rendered, _, err := renderChunks(logger, db, path)
		if err != nil {
			logger.Warn("re-render failed", slog.String("error", err.Error()))
			return
		}
		printChanged(out, previous, rendered)
		previous = rendered
	}

	render()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// printChanged prints only the chunk indices whose rendering differs
// between previous and current, demonstrating that unchanged chunks were
// served from the pipeline's memoized cache rather than recomputed from
// scratch.
func printChanged(out io.Writer, previous, current []string) {
	changed := 0
	for i, r := range current {
		if i >= len(previous) || previous[i] != r {
			fmt.Fprintf(out, "%d: %s\n", i, r)
			changed++
		}
	}
	if changed == 0 && len(previous) == len(current) {
		return
	}
	fmt.Fprintf(out, "(%d of %d chunks changed)\n", changed, len(current))
}
