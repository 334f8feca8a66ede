package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockevent/pkg/config"
	"github.com/getmockd/mockevent/pkg/metrics"
	"github.com/getmockd/mockevent/pkg/mockevent"
	"github.com/getmockd/mockevent/pkg/sse"
)

var (
	playTimeout     time.Duration
	playShowMetrics bool
	playRetry       int
)

// pollInterval is how often play checks whether the handler has drained.
const pollInterval = 5 * time.Millisecond

var playCmd = &cobra.Command{
	Use:   "play <file> <url>",
	Short: "Play a handler file against a URL and print the events",
	Long: `Play a handler file against a URL and print the events.

The file's handlers are registered, a mock connection is opened to the URL and
every event the matching handler dispatches is printed in text/event-stream
format. Handler errors are printed as comment lines. Playback ends when the
handler's queue drains or the timeout expires.

Exits with status 1 when no handler matches the URL.`,
	Example: `  # Play the handler serving /v1/users/42
  mockevent play handlers.yaml /v1/users/42

  # Load every file under mocks/ and show counters afterwards
  mockevent play --metrics 'mocks/**/*.yaml' /feed

  # Start the stream with a reconnection delay of three seconds
  mockevent play --retry 3000 handlers.yaml /feed`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), playTimeout)
		defer cancel()
		return runPlay(ctx, args[0], args[1], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func runPlay(ctx context.Context, file, url string, stdout, stderr io.Writer) error {
	f, err := config.Load(file)
	if err != nil {
		return err
	}

	logger := newLogger(stderr)
	m, err := metrics.New(nil)
	if err != nil {
		return err
	}

	opts := append(f.RegistryOptions(), mockevent.WithLogger(logger), mockevent.WithMetrics(m))
	reg := mockevent.NewRegistry(opts...)
	defer reg.Close()

	if _, err := config.Register(reg, f); err != nil {
		return err
	}

	transcript := sse.NewTranscript(stdout, logger)
	transcript.Retry(playRetry)
	conn := reg.Open(url, mockevent.ConnectionSettings{
		Bus: transcript,
		OnOpen: func(info mockevent.OpenInfo) {
			logger.Info(info.Message, "url", url)
		},
		// Handler error events already reach the transcript through the bus.
		OnError: func(ev mockevent.Event) {
			if errors.Is(ev.Err, mockevent.ErrConfiguration) {
				transcript.Comment("error: " + ev.Err.Error())
			}
		},
	})
	defer conn.Close()

	select {
	case <-conn.Ready():
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for %s", ErrTimeout, url)
	}

	h := conn.Handler()
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNoMatch, url)
	}

	err = waitDrained(ctx, h)
	if playShowMetrics {
		printMetrics(stderr, m, transcript)
	}
	if err != nil {
		return err
	}
	return transcript.Err()
}

// waitDrained blocks until the handler's playback loop has stopped.
func waitDrained(ctx context.Context, h *mockevent.Handler) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for h.Streaming() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %d response(s) pending", ErrTimeout, h.Pending())
		case <-ticker.C:
		}
	}
	return nil
}

// printMetrics writes one "name{labels} value" line per counter, followed by
// the transcript totals.
func printMetrics(w io.Writer, m *metrics.Metrics, transcript *sse.Transcript) {
	families, err := m.Gatherer().Gather()
	if err != nil {
		fmt.Fprintf(w, "# metrics unavailable: %v\n", err)
		return
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range metric.GetLabel() {
				name += fmt.Sprintf("{%s=%q}", lp.GetName(), lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("# %s %g", name, metric.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}

	frames, bytes := transcript.Stats()
	fmt.Fprintf(w, "# transcript_frames %d\n", frames)
	fmt.Fprintf(w, "# transcript_bytes %d\n", bytes)
}

func init() {
	playCmd.Flags().DurationVar(&playTimeout, "timeout", 5*time.Second, "Maximum time to wait for playback to finish")
	playCmd.Flags().BoolVar(&playShowMetrics, "metrics", false, "Print event counters to stderr when playback ends")
	playCmd.Flags().IntVar(&playRetry, "retry", 0, "Write a retry frame with this reconnection delay in milliseconds first")
	rootCmd.AddCommand(playCmd)
}
