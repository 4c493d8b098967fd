// Package cmd provides the root command and CLI setup for mdsift.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/mdsift/internal/adapter"
	"github.com/mouse-blink/mdsift/internal/config"
	"github.com/mouse-blink/mdsift/internal/controller"
	"github.com/mouse-blink/mdsift/internal/domain"
	"github.com/mouse-blink/mdsift/internal/logging"
	m "github.com/mouse-blink/mdsift/internal/model"
)

// workflowFactory builds the workflow for one command run. Tests replace it.
var workflowFactory = newWorkflow

func newWorkflow(cmd *cobra.Command, useColor bool, logger *slog.Logger) domain.Workflow {
	return domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		controller.NewUI(cmd, useColor),
		logger,
	)
}

// Flags shared by the root command and its subcommands.
var (
	configFlag     string
	extensionsFlag string
	noColorFlag    bool
	verboseFlag    bool
)

// searchOptions holds the flags of the search (root) command.
type searchOptions struct {
	keywords        string
	delimiter       string
	fileFolder      string
	caseSensitive   bool
	replaceNewlines bool
	matchContext    bool
	workers         int
	stats           bool
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "mdsift [paths...]",
		Short: "Search markdown files by heading structure",
		Long: `mdsift searches markdown files for blocks that contain every keyword.

Each file is split into blocks at its headings. A block is printed, prefixed
by the chain of headings that enclose it, when all keywords match it.
Keywords are regular expressions separated by the delimiter (a space by
default) and are case-insensitive unless --case-sensitive is given.
Heading-like lines inside fenced code blocks are treated as text.

Files are searched in parallel, so the order of files in the output may
change from run to run. Matches within a file keep document order.

A path literally named "list" is read as the subcommand; pass it with -f or
after "--".

Examples:
  mdsift -k "docker volume" ~/notes
  mdsift -k "ssh,config" -d "," -r README.md
  mdsift -k "^## Setup" --match-context --stats docs/`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to a YAML config file (default .mdsift.yaml)")
	cmd.PersistentFlags().StringVarP(&extensionsFlag, "extensions", "e", ".md", "comma separated file extensions searched inside directories")
	cmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable coloured output")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug logs to stderr")

	cmd.Flags().StringVarP(&opts.keywords, "keywords", "k", "", "keywords (regular expressions) that must all match a block")
	cmd.Flags().StringVarP(&opts.delimiter, "delimiter", "d", " ", "delimiter between keywords")
	cmd.Flags().StringVarP(&opts.fileFolder, "file-folder", "f", "", "file or folder to search, in addition to positional paths")
	cmd.Flags().BoolVarP(&opts.caseSensitive, "case-sensitive", "c", false, "match keywords case-sensitively")
	cmd.Flags().BoolVarP(&opts.replaceNewlines, "replace-newlines", "r", false, `print each match on one line, showing line breaks as "\n"`)
	cmd.Flags().BoolVar(&opts.matchContext, "match-context", false, "also match keywords against the enclosing headings")
	cmd.Flags().IntVarP(&opts.workers, "num-threads", "n", 10, "number of parallel search workers")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print a summary table after the results")

	_ = cmd.MarkFlagRequired("keywords")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string, opts searchOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("delimiter") {
		cfg.Delimiter = opts.delimiter
	}

	if cmd.Flags().Changed("case-sensitive") {
		cfg.CaseSensitive = opts.caseSensitive
	}

	if cmd.Flags().Changed("num-threads") {
		cfg.Workers = opts.workers
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if opts.fileFolder != "" {
		args = append(args, opts.fileFolder)
	}

	paths := parsePaths(args, cfg.Root)

	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	logger := newLogger(cmd, cfg)
	wf := workflowFactory(cmd, useColor(cmd, cfg), logger)

	summary, err := wf.Search(ctx, domain.SearchArgs{
		ListArgs: domain.ListArgs{
			Paths:      paths,
			Extensions: cfg.Extensions,
		},
		Keywords:          opts.keywords,
		Delimiter:         cfg.Delimiter,
		CaseSensitive:     cfg.CaseSensitive,
		ReplaceLineBreaks: opts.replaceNewlines,
		MatchContext:      opts.matchContext,
		Workers:           cfg.Workers,
		Stats:             opts.stats,
	})
	if err != nil {
		return err
	}

	if summary.Cancelled {
		logger.Info("search interrupted", slog.Int("files", summary.Files))
	}

	return nil
}

// interruptContext ends on the first SIGINT or SIGTERM. Signal handling is
// released as soon as the context ends, so a second interrupt kills the
// process even while a worker is stuck in a slow pattern.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, stop)

	return ctx, stop
}

// loadConfig reads the layered configuration and applies the persistent
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}

	if cmd.Flags().Changed("extensions") {
		cfg.Extensions = adapter.ParseExtensions(extensionsFlag)
	} else {
		cfg.Extensions = adapter.ParseExtensions(strings.Join(cfg.Extensions, ","))
	}

	if cmd.Flags().Changed("no-color") {
		cfg.NoColor = noColorFlag
	}

	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	if verboseFlag {
		return logging.ForVerbosity(cmd.ErrOrStderr(), true)
	}

	return logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))
}

func useColor(cmd *cobra.Command, cfg config.Config) bool {
	return !cfg.NoColor && controller.IsTTY(cmd.OutOrStdout())
}

func parsePaths(args []string, fallback string) []m.Path {
	if len(args) == 0 {
		return []m.Path{m.Path(fallback)}
	}

	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
