package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pders01/fred/internal/config"
	"github.com/pders01/fred/internal/debuglog"
	"github.com/pders01/fred/internal/feed"
	"github.com/pders01/fred/internal/search"
	"github.com/pders01/fred/internal/state"
	"github.com/pders01/fred/internal/tui"
	"github.com/pders01/fred/internal/worker"
)

// Version is the version of the application, set at build time
var Version = "dev"

// FatalDelay keeps a configuration error on screen before exiting.
var FatalDelay = 5 * time.Second

type options struct {
	configPath     string
	generateConfig bool
	logLevel       string
	quiet          bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(exitWith(os.Stderr, err))
	}
}

// exitWith reports err and returns the process exit code. Configuration
// errors pause for FatalDelay so the message can be read.
func exitWith(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)

	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		time.Sleep(FatalDelay)
	}
	return 1
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           tui.AppName,
		Short:         "Terminal feed reader",
		Long:          "fred fetches RSS and Atom feeds in the background and lets you browse them in the terminal.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.generateConfig {
				return generateConfig(out, opts.configPath)
			}
			return run(cmd.Context(), opts, out)
		},
	}
	root.SetOut(out)

	flags := root.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file (default "+config.DefaultPath()+")")
	flags.BoolVar(&opts.generateConfig, "generate-config", false, "write the default configuration and exit")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug log level: off, error, warn, info, debug (overrides config)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "skip startup banner")

	root.AddCommand(newVersionCmd(out))

	return root
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
			fmt.Fprintln(out, "terminal feed reader")
			fmt.Fprintln(out, "github.com/pders01/fred")
		},
	}
}

func generateConfig(out io.Writer, path string) error {
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.GenerateDefaultConfig(path); err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}
	fmt.Fprintf(out, "Generated default configuration at: %s\n", path)
	return nil
}

func sourcesFrom(entries []config.FeedEntry) []feed.Source {
	sources := make([]feed.Source, len(entries))
	for i, e := range entries {
		sources[i] = feed.Source{Name: e.Name, URL: e.URL}
	}
	return sources
}

// run loads the configuration and then runs the UI and the fetch worker
// until the user quits. Nothing touches the terminal before the
// configuration is known to be valid.
func run(ctx context.Context, opts *options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(level), cfg.Log.Path); err != nil {
		return err
	}
	defer debuglog.Close()

	if !opts.quiet {
		tui.ShowBanner(out, Version)
	}

	debuglog.Infof("starting with %d feeds", len(cfg.Feeds))

	queue := worker.NewQueue()
	st := state.New(sourcesFrom(cfg.Feeds), queue)
	defer st.Close()

	g, gctx := errgroup.WithContext(ctx)
	workerCtx, stopWorker := context.WithCancel(gctx)
	defer stopWorker()

	p := tea.NewProgram(tui.NewApp(cfg, st), tea.WithAltScreen(), tea.WithContext(gctx))

	w := worker.New(queue, feed.NewFetcher(cfg), st,
		worker.WithIndexBuilder(search.Build),
		worker.WithOnComplete(func(req state.Request, err error) {
			p.Send(tui.FetchDoneMsg{Request: req, Err: err})
		}),
	)

	g.Go(func() error {
		return w.Run(workerCtx)
	})
	g.Go(func() error {
		defer stopWorker()
		defer queue.Close()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running ui: %w", err)
		}
		return nil
	})

	return g.Wait()
}
