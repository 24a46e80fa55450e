package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Nao-Mk2/pod-schedule/internal/client"
	appconfig "github.com/Nao-Mk2/pod-schedule/internal/config"
	"github.com/Nao-Mk2/pod-schedule/internal/logging"
	"github.com/Nao-Mk2/pod-schedule/internal/model"
	"github.com/Nao-Mk2/pod-schedule/internal/notice"
	"github.com/Nao-Mk2/pod-schedule/internal/render"
	"github.com/Nao-Mk2/pod-schedule/internal/source"
	"github.com/Nao-Mk2/pod-schedule/internal/util"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitParseErrors = 3
)

// Env carries the process streams and clock.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    time.Time
}

// newLogsClient is replaced in tests.
var newLogsClient = func(ctx context.Context, o *Options) (source.LogsClient, error) {
	c, err := client.NewCloudWatchClient(ctx, o.BuildCloudWatchOptions()...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Execute loads configuration, reads the notice, parses it and writes the
// report. It returns the process exit code.
func Execute(ctx context.Context, o *Options, env Env) int {
	cfg := appconfig.Default()
	if o.ConfigPath != "" {
		loaded, err := appconfig.Load(o.ConfigPath)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return ExitUsage
		}
		cfg = loaded
	}
	o.ApplyTo(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}
	if o.Query != "" && cfg.Format != appconfig.FormatJSON {
		fmt.Fprintln(env.Stderr, "error: --query requires --format json")
		return ExitUsage
	}

	flags, _ := cfg.DebugFlags()
	logger := logging.New(env.Stderr, flags)

	today, err := ResolveToday(o.Today, env.Now)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	lines, err := readNotice(ctx, o, env)
	if err != nil {
		logger.Error().Err(err).Str("source", o.Source()).Msg("cannot read notice")
		return ExitFailure
	}

	grammar, _ := cfg.Grammar()
	resolver, _ := cfg.Resolver()
	report := notice.NewParser(grammar, resolver, today, logger).Parse(lines)

	if err := writeReport(env.Stdout, cfg, o, report); err != nil {
		logger.Error().Err(err).Msg("cannot write report")
		return ExitFailure
	}
	if cfg.Strict && report.ErrorCount() > 0 {
		return ExitParseErrors
	}
	return ExitOK
}

func readNotice(ctx context.Context, o *Options, env Env) ([]string, error) {
	switch o.Source() {
	case SourceCloudWatch:
		start, end, err := ResolveTimeWindow(o.StartRFC3339, o.EndRFC3339, env.Now)
		if err != nil {
			return nil, fmt.Errorf("invalid time window: %w", err)
		}
		logs, err := newLogsClient(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("failed to create CloudWatch client: %w", err)
		}
		cw := source.NewCloudWatch(logs, ParseGroupsCSV(o.GroupsCSV), start, end)
		cw.SetWorkers(o.Concurrency)
		cw.SetFilterPattern(o.FilterPattern)
		cw.SetMessagePath(o.MessagePath)
		return cw.Lines(ctx)
	case SourceMail:
		f, err := os.Open(o.Mail)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return source.MailLines(f)
	case SourceFile:
		f, err := os.Open(o.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return source.Lines(f)
	}
	return source.Lines(env.Stdin)
}

func writeReport(w io.Writer, cfg *appconfig.Config, o *Options, report *model.Report) error {
	if cfg.Format != appconfig.FormatJSON {
		return render.HTML(w, report)
	}
	if o.Query == "" {
		return render.JSON(w, report, o.PrettyJSON)
	}
	res, err := util.Query(render.NewDocument(report), o.Query)
	if err != nil {
		return err
	}
	out, err := util.Stringify(res, o.PrettyJSON)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
