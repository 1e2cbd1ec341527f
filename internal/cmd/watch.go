package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/bootwatch/internal/config"
	"github.com/harrison/bootwatch/internal/display"
	"github.com/harrison/bootwatch/internal/gateway"
	"github.com/harrison/bootwatch/internal/logger"
	"github.com/harrison/bootwatch/internal/models"
	"github.com/harrison/bootwatch/internal/monitor"
	"github.com/harrison/bootwatch/internal/patterns"
	"github.com/harrison/bootwatch/internal/source"
)

// maxLineBytes bounds one delivered line; JVM stack traces delivered with
// escaped newlines can be long.
const maxLineBytes = 1 << 20

// NewWatchCommand creates the watch subcommand. It reads a log stream from
// a file argument or stdin, prints reconstructed records, and classifies
// every error as it completes.
func NewWatchCommand() *cobra.Command {
	var (
		configPath string
		analyze    bool
		quiet      bool
		roots      []string
	)

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Tail a log stream and reconstruct errors",
		Long: `Watch reads a line-oriented log stream (a file, or stdin when no
argument or "-" is given), reconstructs structured records and multi-line
error blocks, and classifies each error against the pattern library.

With --analyze, errors that match no local pattern are sent to the remote
reasoning service, enriched with source snippets located under the
configured search roots.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if len(roots) > 0 {
				cfg.Source.Roots = roots
			}

			in, closer, err := openInput(args)
			if err != nil {
				return err
			}
			defer closer()

			return runWatch(cmd.Context(), cfg, in, cmd.OutOrStdout(), analyze, quiet)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "bootwatch.yml", "path to config file")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "send locally-unmatched errors to the remote analysis service")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only errors, verdicts, and analyses")
	cmd.Flags().StringSliceVar(&roots, "roots", nil, "source search roots (overrides config)")

	return cmd
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// watchSubscriber renders monitor emissions and triggers remote analysis
// for unmatched errors when enabled.
type watchSubscriber struct {
	ctx      context.Context
	renderer *display.Renderer
	mon      *monitor.Monitor
	analyze  bool
	quiet    bool
}

func (s *watchSubscriber) OnLogRecord(rec models.LogRecord) {
	if !s.quiet {
		s.renderer.LogRecord(rec)
	}
}

func (s *watchSubscriber) OnError(ce monitor.ClassifiedError) {
	s.renderer.Error(ce)
	if s.analyze && !ce.Verdict.Matched {
		s.mon.Analyze(s.ctx, ce.Record)
	}
}

func (s *watchSubscriber) OnAnalysis(outcome models.AnalysisOutcome) {
	s.renderer.Outcome(outcome)
}

func runWatch(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, analyze, quiet bool) error {
	diag := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)

	library, err := patterns.DefaultLibrary(cfg.RulesFile, diag)
	if err != nil {
		return err
	}

	gw := gateway.New(gateway.Config{
		Endpoint:    cfg.Gateway.Endpoint,
		Model:       cfg.Gateway.Model,
		APIKey:      cfg.Gateway.APIKey(),
		RateCeiling: cfg.Gateway.RateCeiling,
		Timeout:     cfg.Gateway.Timeout,
	})

	mon := monitor.New(monitor.Options{
		Library:      library,
		Gateway:      gw,
		Resolver:     source.NewResolver(cfg.Source.Roots, cfg.Source.WindowRadius),
		LineHistory:  cfg.History.Lines,
		ErrorHistory: cfg.History.Errors,
	})

	renderer := display.NewRenderer(out)
	mon.Subscribe(&watchSubscriber{
		ctx:      ctx,
		renderer: renderer,
		mon:      mon,
		analyze:  analyze,
		quiet:    quiet,
	})

	diag.LogDebug(fmt.Sprintf("watching stream %s with %d pattern rules", mon.StreamID(), library.Len()))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			mon.Flush()
			mon.Wait()
			return ctx.Err()
		default:
		}
		mon.Feed(scanner.Text())
	}

	// Stream ended: close any open record and let in-flight analyses land.
	mon.Flush()
	mon.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read log input: %w", err)
	}
	return nil
}
