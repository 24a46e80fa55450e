// Package notice classifies the lines of a maintenance notice and turns
// pod lines into resolved entries.
package notice

import (
	"errors"
	"strings"
	"time"

	"github.com/Nao-Mk2/pod-schedule/internal/logging"
	"github.com/Nao-Mk2/pod-schedule/internal/model"
	"github.com/Nao-Mk2/pod-schedule/internal/resolve"
)

var (
	ErrUnmatched    = errors.New("line matches neither a date header nor a pod entry")
	ErrDuplicatePod = errors.New("multiple entries for pod")
)

// Parser walks notice lines in order. It is not safe for concurrent use.
type Parser struct {
	grammar  *Grammar
	resolver *resolve.Resolver
	logger   *logging.Logger

	// current is the most recent date header, or today before the first one.
	current time.Time
	seen    map[string]struct{}
}

// NewParser returns a Parser whose date context starts at today.
func NewParser(g *Grammar, r *resolve.Resolver, today time.Time, logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Parser{
		grammar:  g,
		resolver: r,
		logger:   logger,
		current:  resolve.Today(today),
		seen:     make(map[string]struct{}),
	}
}

// CurrentDate returns the active date context.
func (p *Parser) CurrentDate() time.Time { return p.current }

// Parse processes every line and returns the accumulated report. Errors
// are recorded in the report; Parse itself never fails.
func (p *Parser) Parse(lines []string) *model.Report {
	report := &model.Report{}
	for i, line := range lines {
		p.ParseLine(i+1, line, report)
	}
	return report
}

// ParseLine processes one raw line, numbered n, into report.
func (p *Parser) ParseLine(n int, raw string, report *model.Report) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return
	}

	c := p.grammar.Classify(input)
	switch c.Kind {
	case Date:
		p.parseDate(n, input, c, report)
	case Pod:
		p.parsePod(n, input, c, report)
	default:
		p.fail(report, model.ParseError{Line: n, Input: input, Kind: model.ErrorUnmatched, Err: ErrUnmatched})
	}
}

func (p *Parser) parseDate(n int, input string, c Classification, report *model.Report) {
	d, err := resolve.ParseDateHeader(c.Day, c.Month, p.current)
	if err != nil {
		p.fail(report, model.ParseError{Line: n, Input: input, Kind: model.ErrorDate, Err: err})
		return
	}
	p.current = d
	p.logger.Debug(logging.ParseInput).
		Int("line", n).
		Str("input", input).
		Str("date", d.Format("2006-01-02")).
		Msg("date header")
}

func (p *Parser) parsePod(n int, input string, c Classification, report *model.Report) {
	ts, err := p.resolver.Resolve(c.Time, p.current)
	if err != nil {
		p.fail(report, model.ParseError{Line: n, Input: input, Kind: model.ErrorTimestamp, Err: err})
		return
	}
	p.logger.Debug(logging.ParseTime).
		Str("input", c.Time).
		Str("date", p.current.Format("2006-01-02")).
		Str("utc", ts.Format(time.RFC3339)).
		Msg("resolved time")

	entry := model.NewPodEntry(ts, c.Datacenter, c.Pod)
	p.logger.Debug(logging.ParseInput).
		Int("line", n).
		Str("input", input).
		Str("dc", c.Datacenter).
		Str("pod", c.Pod).
		Msg("pod entry")
	p.logger.Debug(logging.Output).Msg(entry.String())

	report.AddEntry(entry)
	if _, dup := p.seen[entry.PodName]; dup {
		p.fail(report, model.ParseError{Line: n, Input: input, Kind: model.ErrorDuplicate, Err: ErrDuplicatePod})
		return
	}
	p.seen[entry.PodName] = struct{}{}
}

func (p *Parser) fail(report *model.Report, e model.ParseError) {
	report.AddError(e)
	p.logger.Warn().
		Int("line", e.Line).
		Str("input", e.Input).
		Str("kind", string(e.Kind)).
		Err(e.Err).
		Msg("parse error")
}
