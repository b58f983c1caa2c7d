package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/tquery/internal/corpus"
	"github.com/gnolang/tquery/internal/engine"
	"github.com/gnolang/tquery/internal/query"
	"github.com/gnolang/tquery/internal/render"
)

// runQuery compiles predicates, loads the corpus and prints every match to
// stdout (or opts.Output), then the summary line to stderr.
func runQuery(logger *zap.Logger, opts runOptions, corpusPath string, predicates []string, stdout, stderr io.Writer) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	q, err := query.NewCompiler(opts.Registry, opts.Query).Compile(predicates)
	if err != nil {
		return err
	}
	logger.Debug("query compiled",
		zap.Int("lexical", len(q.Lexical)),
		zap.Int("govobj", len(q.GovObj)),
		zap.Int("token", len(q.Token)),
		zap.Int("columns", len(q.Prints)),
		zap.Bool("caseSensitive", opts.Query.CaseSensitive))

	c, err := corpus.Load(corpusPath, logger)
	if err != nil {
		return err
	}

	out := stdout
	var file *os.File
	if opts.Output != "" {
		file, err = os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("error creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}
	w := bufio.NewWriter(out)

	printer := render.NewPrinter(w, q.Prints, opts.Render)
	engineOpts := []engine.Option{engine.WithLogger(logger)}
	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = newProgressBar(stderr, corpusPath, len(c.Sentences))
		engineOpts = append(engineOpts, engine.WithProgress(func() { _ = bar.Add(1) }))
	}

	_, err = engine.New(q, engineOpts...).Scan(c, printer.Print)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing matches: %w", err)
	}
	if file != nil {
		if err := file.Close(); err != nil {
			return fmt.Errorf("error closing output file: %w", err)
		}
	}

	fmt.Fprintln(stderr, printer.Summary())
	return nil
}

func newProgressBar(w io.Writer, description string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
