// Package main implements the tracky command line time tracker.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/highstreeto/tracky/internal/config"
	"github.com/highstreeto/tracky/internal/repl"
	"github.com/highstreeto/tracky/internal/store"
	"github.com/highstreeto/tracky/internal/tracker"
	"github.com/highstreeto/tracky/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the root command and maps its error to an exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// exitError carries an exit code for failures the loop already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

type options struct {
	file       string
	configPath string
}

var fileFlagAliases = map[string]string{
	"snapshot": "file",
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "tracky",
		Short:         "Tracky - track time spent on project activities",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTracky(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "snapshot file; .db, .sqlite and .sqlite3 use SQLite, anything else JSON (default ~/tracky.json)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/tracky/config.toml)")
	setFlagAliases(flags, fileFlagAliases)

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func runTracky(cmd *cobra.Command, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))

	path := cfg.SnapshotPath(opts.file, store.DefaultPath())
	s := store.New(path)
	styles := repl.NewStyles(repl.Renderer(out, cfg.Color))
	trackerOpts := []tracker.Option{tracker.WithMinDuration(cfg.MinDurationValue())}

	fmt.Fprintf(out, "Hello and Welcome to %s!\n", styles.Heading.Render("Tracky"))
	fmt.Fprintf(out, "Loading from %s...\n", path)
	t, err := s.Load(trackerOpts...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no snapshot yet", "path", path)
		} else {
			logger.Warn("load snapshot failed", "path", path, "error", err)
			fmt.Fprintf(out, " Could not load %s: %v\n", path, err)
		}
		fmt.Fprintln(out, " Creating empty tracker")
		t = tracker.New(trackerOpts...)
	}

	dispatchOpts := []repl.Option{repl.WithSaver(s), repl.WithStyles(styles)}
	var loopOpts []repl.LoopOption
	if w, ok := terminalWidth(out); ok {
		dispatchOpts = append(dispatchOpts, repl.WithWidth(w))
	}
	if isTerminal(in) {
		board := tui.New(tui.WithInput(in), tui.WithOutput(out), tui.WithExportDir(filepath.Dir(path)))
		dispatchOpts = append(dispatchOpts, repl.WithViewer(board))
		loopOpts = append(loopOpts, repl.WithPrompt(repl.Prompt))
	}
	loopOpts = append(loopOpts, repl.WithLogger(logger))

	d := repl.New(t, out, dispatchOpts...)
	if err := repl.Run(in, out, d, loopOpts...); err != nil {
		return &exitError{code: 1, err: err}
	}
	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(v any) (int, bool) {
	f, ok := v.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}
