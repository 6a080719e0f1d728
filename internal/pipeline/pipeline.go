// Package pipeline drives lines from a source through the parser into a
// consumer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/LinkTsang/p0f-observer/internal/output"
	"github.com/LinkTsang/p0f-observer/internal/parser"
	"github.com/LinkTsang/p0f-observer/internal/record"
	"github.com/LinkTsang/p0f-observer/internal/source"
)

// LineReader yields input lines until io.EOF.
type LineReader interface {
	Next() (source.Line, error)
}

type Options struct {
	// Workers bounds how many lines of a batch are parsed at once.
	Workers   int
	BatchSize int
	// Strict stops the run at the first line that fails to parse.
	Strict bool
	// Modules keeps only records with these module tags; "unparsed"
	// selects unknown modules. Empty keeps everything.
	Modules []string
	Parser  *parser.Parser
	Logger  zerolog.Logger
}

// Stats summarises a run.
type Stats struct {
	Lines    int
	Parsed   int
	Failed   int
	Skipped  int
	ByModule map[string]int
}

// LineError is the parse failure that ended a strict run.
type LineError struct {
	Line int
	Raw  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type result struct {
	line source.Line
	rec  *record.Record
	err  error
}

// Run parses every line from lines and hands records to sink in input
// order. A nil sink only counts. Parse failures are logged and passed to
// the sink if it is an output.ErrorConsumer, unless opts.Strict is set.
// Read errors always end the run.
func Run(ctx context.Context, lines LineReader, sink output.RecordConsumer, opts Options) (Stats, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	if opts.Parser == nil {
		opts.Parser = parser.New()
	}
	keep := moduleFilter(opts.Modules)

	stats := Stats{ByModule: make(map[string]int)}
	for {
		batch, readErr := readBatch(ctx, lines, opts.BatchSize)
		for _, res := range parseBatch(ctx, opts.Parser, batch, opts.Workers) {
			if err := emit(&stats, res, sink, keep, opts); err != nil {
				return stats, err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return stats, nil
			}
			return stats, readErr
		}
	}
}

func readBatch(ctx context.Context, lines LineReader, size int) ([]source.Line, error) {
	batch := make([]source.Line, 0, size)
	for len(batch) < size {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		line, err := lines.Next()
		if err != nil {
			return batch, err
		}
		batch = append(batch, line)
	}
	return batch, nil
}

// parseBatch parses lines concurrently; result i belongs to batch[i].
func parseBatch(ctx context.Context, p *parser.Parser, batch []source.Line, workers int) []result {
	results := make([]result, len(batch))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range batch {
		i := i
		g.Go(func() error {
			results[i].line = batch[i]
			if strings.TrimSpace(batch[i].Text) == "" {
				return nil
			}
			results[i].rec, results[i].err = p.ParseLine(batch[i].Text)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func emit(stats *Stats, res result, sink output.RecordConsumer, keep func(*record.Record) bool, opts Options) error {
	stats.Lines++

	switch {
	case res.err != nil:
		stats.Failed++
		if opts.Strict {
			return &LineError{Line: res.line.Number, Raw: res.line.Text, Err: res.err}
		}
		logFailure(opts.Logger, res)
		if ec, ok := sink.(output.ErrorConsumer); ok {
			return ec.ConsumeError(res.line.Number, res.line.Text, res.err)
		}
		return nil
	case res.rec == nil || !keep(res.rec):
		stats.Skipped++
		return nil
	}

	stats.Parsed++
	stats.ByModule[res.rec.Module()]++
	if sink == nil {
		return nil
	}
	return sink.Consume(res.rec)
}

func logFailure(logger zerolog.Logger, res result) {
	ev := logger.Warn().Int("line", res.line.Number).Err(res.err)
	if pe, ok := parser.AsParseError(res.err); ok {
		ev = ev.Stringer("kind", pe.Kind).Int("offset", pe.Offset)
		if pe.Tag != "" {
			ev = ev.Str("tag", pe.Tag)
		}
	}
	ev.Msg("skipping unparsable line")
}

func moduleFilter(modules []string) func(*record.Record) bool {
	if len(modules) == 0 {
		return func(*record.Record) bool { return true }
	}
	want := make(map[string]bool, len(modules))
	for _, m := range modules {
		want[m] = true
	}
	return func(r *record.Record) bool {
		if r.Kind() == record.KindUnparsed {
			return want[record.KindUnparsed.String()]
		}
		return want[r.Module()]
	}
}
