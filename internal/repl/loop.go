package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Prompt is printed before each command when input is interactive.
const Prompt = "> "

type loopConfig struct {
	prompt string
	logger *slog.Logger
}

type LoopOption func(*loopConfig)

// WithPrompt prints p before every read. An empty prompt disables it.
func WithPrompt(p string) LoopOption {
	return func(c *loopConfig) { c.prompt = p }
}

func WithLogger(l *slog.Logger) LoopOption {
	return func(c *loopConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Run reads commands from in until quit or end of input, then saves
// through the dispatcher's saver. It returns an error when reading or the
// final save fails.
func Run(in io.Reader, out io.Writer, d *Dispatcher, opts ...LoopOption) error {
	cfg := loopConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := bufio.NewReader(in)
	for {
		if cfg.prompt != "" {
			fmt.Fprint(out, cfg.prompt)
		}

		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			writeError(out, d.styles, "Could not read command! "+err.Error())
			return fmt.Errorf("read command: %w", err)
		}
		eof := err != nil
		line = strings.TrimSpace(line)

		if eof && line == "" {
			if cfg.prompt != "" {
				fmt.Fprintln(out)
			}
			cfg.logger.Debug("end of input")
			return shutdown(out, d, cfg.logger)
		}

		outcome, herr := d.Handle(line)
		cfg.logger.Debug("handled command", "line", line, "outcome", outcome, "error", herr)
		if herr != nil {
			writeError(out, d.styles, herr.Error())
		}
		if outcome == Quit || eof {
			return shutdown(out, d, cfg.logger)
		}
	}
}

func shutdown(out io.Writer, d *Dispatcher, logger *slog.Logger) error {
	if d.saver != nil {
		path := d.saver.Path()
		fmt.Fprintf(out, "Saving to %s...\n", path)
		if err := d.saver.Save(d.tracker); err != nil {
			logger.Error("save failed", "path", path, "error", err)
			writeError(out, d.styles, fmt.Sprintf("Could not save to %s: %v", path, err))
			return fmt.Errorf("save %s: %w", path, err)
		}
		logger.Info("saved tracker", "path", path, "projects", d.tracker.Len(), "tasks", d.tracker.TaskCount())
	}
	fmt.Fprintln(out, "Bye!")
	return nil
}

func writeError(out io.Writer, s Styles, msg string) {
	fmt.Fprintf(out, "%s %s\n", s.ErrorPrefix.Render("error:"), msg)
}
