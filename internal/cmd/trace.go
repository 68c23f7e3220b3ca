package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/codeplay/internal/config"
	"github.com/iw2rmb/codeplay/internal/logging"
	"github.com/iw2rmb/codeplay/internal/termwatch"
	"github.com/iw2rmb/codeplay/reflow"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the layout decisions made for this terminal",
	Long: `Attach the layout scheduler to the current terminal and print every
layout it performs. Resize the window to watch resize signals being
throttled and coalesced into layouts.

Runs until interrupted, or for --duration when set.`,
	Args: cobra.NoArgs,
	RunE: runTrace,
}

var traceDuration time.Duration

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().DurationVarP(&traceDuration, "duration", "d", 0, "stop after this long (0 runs until interrupted)")
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fd := int(os.Stdout.Fd())
	if !termwatch.IsTerminal(fd) {
		return fmt.Errorf("trace needs a terminal on stdout")
	}

	out := cmd.OutOrStdout()
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), cfg.Logging.Level)
	opts := append(cfg.Layout.ReflowOptions(),
		reflow.WithLogger(logger.Slog()),
		reflow.WithPresentation(cfg.Editor.EditorOptions().Presentation()),
	)
	sched, err := startTrace(out, termwatch.NewTermContainer(fd), termwatch.NewWatcher(), opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if traceDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, traceDuration)
		defer cancel()
	}
	<-ctx.Done()

	sched.Dispose()
	printStats(out, sched.Stats())
	return nil
}

// startTrace attaches a printing editor to container and returns the
// running scheduler.
func startTrace(out io.Writer, container reflow.Container, primitive reflow.Primitive, opts ...reflow.Option) (*reflow.Scheduler, error) {
	sched := reflow.NewScheduler(container, reflow.QuietPrimitive(primitive), opts...)
	if err := sched.Attach(&traceEditor{out: out}); err != nil {
		return nil, err
	}
	return sched, nil
}

func printStats(out io.Writer, st reflow.Stats) {
	_, _ = fmt.Fprintf(out, "requests=%d layouts=%d auto=%d unchanged=%d deferred=%d failures=%d\n",
		st.Requests, st.Layouts, st.AutoLayouts, st.Unchanged, st.Deferred, st.Failures)
}

// traceEditor is a reflow.Editor that prints what it is asked to do.
type traceEditor struct {
	mu  sync.Mutex
	out io.Writer
}

func (e *traceEditor) Layout(size *reflow.Size) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if size == nil {
		_, _ = fmt.Fprintln(e.out, "layout auto")
		return nil
	}
	_, _ = fmt.Fprintf(e.out, "layout %dx%d\n", size.Width, size.Height)
	return nil
}

func (e *traceEditor) UpdateOptions(opts reflow.Options) error {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range keys {
		_, _ = fmt.Fprintf(e.out, "option %s=%v\n", k, opts[k])
	}
	return nil
}

// OnDispose is a no-op: the trace editor is only torn down by the
// scheduler itself.
func (e *traceEditor) OnDispose(func()) {}
