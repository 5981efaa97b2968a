package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"commitsugar/internal/events"
	"commitsugar/internal/models"
	"commitsugar/internal/services"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Stream a commit message draft for the repository at path (default .)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGenerate,
	}
	cmd.Flags().BoolP("verbose", "v", false, "Print log events to stderr")
	cmd.Flags().BoolP("quiet", "q", false, "Print only the final message")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	repoPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	st, err := openStack()
	if err != nil {
		return err
	}
	defer st.Close()

	stderr := cmd.ErrOrStderr()
	events.SetCustomEmitter(newStderrEmitter(stderr, verbose))
	defer events.SetCustomEmitter(nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		st.commits.Abort()
	}()

	sink := newTerminalSink(cmd.OutOrStdout(), !quiet)
	result := st.commits.Generate(ctx, services.GenerateRequest{RepoPath: repoPath, Sink: sink})
	sink.Finish(result.Message)

	switch result.Status {
	case models.GenerationDone:
		return nil
	case models.GenerationAborted:
		return errExit(130)
	default:
		// The notice on stderr already explains the failure.
		return errExit(1)
	}
}

// newStderrEmitter prints notices, and log events when verbose, one per line.
func newStderrEmitter(w io.Writer, verbose bool) func(context.Context, string, events.Event) {
	var mu sync.Mutex
	return func(_ context.Context, name string, evt events.Event) {
		var line string
		switch name {
		case events.CommitEventNotice:
			line = evt.Message
			if action := evt.Metadata[events.MetaAction]; action != "" {
				line += " Run `commitsugar config` or `commitsugar key set`."
			}
		case events.CommitEventProgress:
			if evt.Metadata[events.MetaActive] == "true" && verbose {
				line = evt.Message
			}
		case events.CommitEventLog:
			if verbose {
				line = fmt.Sprintf("[%s] %s", evt.Type, evt.Message)
			}
		}
		if line == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, line)
	}
}

// terminalSink streams a draft to a writer that cannot rewrite earlier output.
// Only completed lines are printed while streaming; Finish prints the rest.
type terminalSink struct {
	w       io.Writer
	stream  bool
	mu      sync.Mutex
	printed string
}

func newTerminalSink(w io.Writer, stream bool) *terminalSink {
	return &terminalSink{w: w, stream: stream}
}

func (t *terminalSink) SetValue(value string) {
	if !t.stream {
		return
	}
	cut := strings.LastIndex(value, "\n")
	if cut < 0 {
		return
	}
	stable := value[:cut+1]

	t.mu.Lock()
	defer t.mu.Unlock()
	if strings.HasPrefix(stable, t.printed) && len(stable) > len(t.printed) {
		fmt.Fprint(t.w, stable[len(t.printed):])
		t.printed = stable
	}
}

// Finish prints whatever part of the final message has not been printed yet.
func (t *terminalSink) Finish(final string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if final == "" && t.printed == "" {
		return
	}
	rest := ""
	if strings.HasPrefix(final, t.printed) {
		rest = final[len(t.printed):]
	}
	if rest != "" {
		fmt.Fprint(t.w, rest)
	}
	if !strings.HasSuffix(t.printed+rest, "\n") {
		fmt.Fprintln(t.w)
	}
	t.printed = ""
}
