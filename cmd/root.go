package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tquery/internal/config"
	"github.com/gnolang/tquery/internal/fields"
	"github.com/gnolang/tquery/internal/query"
	"github.com/gnolang/tquery/internal/render"
)

var (
	cfgFile       string
	caseSensitive bool
	jsonOutput    bool
	colorOutput   bool
	showProgress  bool
	outPath       string
	verbose       bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tquery [-I] <corpus.json> <predicate>...",
	Short: "tquery - query lexical expressions of an annotated corpus",
	Long: `Select every lexical expression of a STREUSLE-style JSON corpus that
satisfies all predicates, and print one line per match.

A predicate is ['+']<field>['.'<subfield>][<op><pattern>], where op is one of
=, ==, != or !== (regex partial/full match and their negations). A leading '+'
prints the field's value in its own column: token fields print as a list over
the expression's tokens, null values print as "_", and a g./o. field whose
governor or object is absent prints as an empty column. Run "tquery fields"
for the list of fields.

Example) tquery streusle.json lc==P 'ss=Time' +w +g.lemma`,
	Args:             cobra.ArbitraryArgs,
	TraverseChildren: true, // Prioritize subcommands
	SilenceErrors:    true,
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no arguments: display help
		if len(args) == 0 {
			return cmd.Help()
		}
		if len(args) < 2 {
			return fmt.Errorf("expected a corpus file and at least one predicate, got %d argument(s)", len(args))
		}

		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return runQuery(logger, opts, args[0], args[1:], cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// Execute runs the command line and reports a failure once on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if logger != nil {
			logger.Error("tquery failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", config.DefaultPath, "Path to the configuration file")
	flags.BoolVarP(&caseSensitive, "case-sensitive", "I", false, "Match patterns case-sensitively")
	flags.BoolVar(&jsonOutput, "json", false, "Output matches as JSON lines")
	flags.BoolVar(&colorOutput, "color", false, "Highlight the matched expression")
	flags.BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")
	flags.StringVarP(&outPath, "output", "o", "", "Write matches to this file instead of stdout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(watchCmd)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// runOptions is the configuration file merged with command-line flags.
type runOptions struct {
	Query    query.Options
	Render   render.Options
	Registry *fields.Registry
	Progress bool
	Output   string
}

func loadOptions(cmd *cobra.Command) (runOptions, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return runOptions{}, err
	}
	registry, err := fields.Default().WithAliases(cfg.Aliases)
	if err != nil {
		return runOptions{}, fmt.Errorf("error in %s aliases: %w", cfgFile, err)
	}

	opts := runOptions{
		Query:    query.Options{CaseSensitive: cfg.CaseSensitive},
		Render:   render.Options{Color: cfg.Color, JSON: cfg.JSON},
		Registry: registry,
		Progress: showProgress,
		Output:   outPath,
	}

	// flags given on the command line override the configuration file
	flags := cmd.Flags()
	if flags.Changed("case-sensitive") {
		opts.Query.CaseSensitive = caseSensitive
	}
	if flags.Changed("color") {
		opts.Render.Color = colorOutput
	}
	if flags.Changed("json") {
		opts.Render.JSON = jsonOutput
	}
	return opts, nil
}
