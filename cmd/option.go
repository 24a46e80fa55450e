package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	flag "github.com/spf13/pflag"

	"github.com/Nao-Mk2/pod-schedule/internal/client"
	appconfig "github.com/Nao-Mk2/pod-schedule/internal/config"
)

// Options holds CLI options after parsing flags and env defaults.
type Options struct {
	ConfigPath    string
	Input         string
	Mail          string
	GroupsCSV     string
	Region        string
	Profile       string
	FilterPattern string
	MessagePath   string
	StartRFC3339  string
	EndRFC3339    string
	Concurrency   int
	Months        []string
	Debug         []string
	Format        string
	PrettyJSON    bool
	Query         string
	Strict        bool
	Today         string
}

// Source kinds returned by Options.Source.
const (
	SourceStdin      = "stdin"
	SourceFile       = "file"
	SourceMail       = "mail"
	SourceCloudWatch = "cloudwatch"
)

// Validate checks relationships between flags.
// Returns an error message and exit code; code 0 means valid.
func (o *Options) Validate() (string, int) {
	n := 0
	if o.Input != "" && o.Input != "-" {
		n++
	}
	if o.Mail != "" {
		n++
	}
	if o.GroupsCSV != "" {
		n++
	}
	if n > 1 {
		return "error: --input, --mail and --groups are mutually exclusive", 2
	}
	if o.GroupsCSV == "" && (o.FilterPattern != "" || o.MessagePath != "") {
		return "error: --filter-pattern and --message-path require --groups", 2
	}
	if o.Query != "" && o.Format == appconfig.FormatHTML {
		return "error: --query requires --format json", 2
	}
	if CountFlagOccurrences("--query") > 1 {
		return "error: --query specified multiple times", 2
	}
	return "", 0
}

// Source reports where the notice is read from.
func (o *Options) Source() string {
	switch {
	case o.GroupsCSV != "":
		return SourceCloudWatch
	case o.Mail != "":
		return SourceMail
	case o.Input != "" && o.Input != "-":
		return SourceFile
	}
	return SourceStdin
}

// ApplyTo overlays explicitly given flags on the loaded configuration.
func (o *Options) ApplyTo(cfg *appconfig.Config) {
	if len(o.Months) > 0 {
		cfg.Months = o.Months
	}
	if o.Debug != nil {
		cfg.Debug = o.Debug
	}
	if o.Format != "" {
		cfg.Format = o.Format
	}
	if o.Query != "" && o.Format == "" {
		cfg.Format = appconfig.FormatJSON
	}
	if o.Strict {
		cfg.Strict = true
	}
}

// BuildCloudWatchOptions returns AWS config load options for the region
// and profile flags.
func (o *Options) BuildCloudWatchOptions() []func(*config.LoadOptions) error {
	return client.NewCloudWatchOptions(client.AuthOptions{Region: o.Region, Profile: o.Profile})
}

// CollectOptions parses flags with environment-backed defaults and returns Options.
func CollectOptions() *Options {
	o := &Options{}
	var debug []string

	flag.StringVar(&o.ConfigPath, "config", os.Getenv("POD_SCHEDULE_CONFIG"), "Config file (.toml or .yaml)")
	flag.StringVarP(&o.Input, "input", "i", "-", "Notice text file ('-' reads stdin)")
	flag.StringVar(&o.Mail, "mail", "", "Read the notice from an RFC 5322 e-mail file")
	flag.StringVar(&o.GroupsCSV, "groups", os.Getenv("LOG_GROUP_NAMES"), "Comma-separated CloudWatch log groups holding forwarded notices")
	flag.StringVar(&o.Region, "region", os.Getenv("AWS_REGION"), "AWS region (optional; falls back to AWS defaults)")
	flag.StringVar(&o.Profile, "profile", "", "AWS shared config profile (or set AWS_PROFILE)")
	flag.StringVar(&o.FilterPattern, "filter-pattern", "", "CloudWatch Logs filter pattern for notice events")
	flag.StringVar(&o.MessagePath, "message-path", "", "JMESPath selecting the notice text from JSON log messages")
	flag.StringVar(&o.StartRFC3339, "start", "", "Start time RFC3339 (e.g., 2025-08-30T15:04:05Z)")
	flag.StringVar(&o.EndRFC3339, "end", "", "End time RFC3339 (e.g., 2025-08-31T15:04:05Z)")
	flag.IntVar(&o.Concurrency, "concurrency", 4, "Log groups fetched in parallel")
	flag.StringSliceVar(&o.Months, "months", nil, "Month abbreviations accepted in date headers (default: all twelve)")
	flag.StringSliceVarP(&debug, "debug", "d", nil, "Diagnostic categories: parse-error, parse-input, parse-time, output, all, none")
	flag.StringVarP(&o.Format, "format", "f", "", "Output format: html or json (default html)")
	flag.BoolVar(&o.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	flag.StringVarP(&o.Query, "query", "q", "", "JMESPath evaluated against the JSON report")
	flag.BoolVar(&o.Strict, "strict", false, "Exit with status 3 when any line could not be parsed")
	flag.StringVar(&o.Today, "today", "", "Run date YYYY-MM-DD used before the first date header (default: today)")
	flag.Parse()

	if flag.CommandLine.Changed("debug") {
		o.Debug = debug
		if o.Debug == nil {
			o.Debug = []string{}
		}
	}
	return o
}

// ParseGroupsCSV turns a comma-separated groups string into slice, trimming empties.
func ParseGroupsCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	var groups []string
	for _, g := range strings.Split(csv, ",") {
		g = strings.TrimSpace(g)
		if g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

// ResolveTimeWindow computes the [start,end] from optional RFC3339 strings.
// Rules:
// - both empty: last 24h ending at now
// - only start: end = now
// - only end: start = end - 24h
// - both set: validate start <= end
func ResolveTimeWindow(startStr, endStr string, now time.Time) (time.Time, time.Time, error) {
	if startStr == "" && endStr == "" {
		return now.Add(-24 * time.Hour), now, nil
	}
	var start time.Time
	var end time.Time
	var err error
	if startStr != "" {
		start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if startStr != "" && endStr == "" {
		end = now
	} else if startStr == "" && endStr != "" {
		start = end.Add(-24 * time.Hour)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrStartAfterEnd
	}
	return start, end, nil
}

// ResolveToday returns the run date: the --today value if given, else now.
func ResolveToday(today string, now time.Time) (time.Time, error) {
	if today == "" {
		return now, nil
	}
	t, err := time.Parse("2006-01-02", today)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q (expected YYYY-MM-DD): %w", today, err)
	}
	return t, nil
}

// ErrStartAfterEnd represents an invalid time window where start > end.
var ErrStartAfterEnd = &timeRangeError{"start is after end"}

type timeRangeError struct{ s string }

func (e *timeRangeError) Error() string { return e.s }

// CountFlagOccurrences counts how many times a long flag (e.g., "--query") appears
// considering both "--flag value" and "--flag=value" forms.
func CountFlagOccurrences(flagName string) int {
	count := 0
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == flagName {
			count++
			// Skip value if present and not another flag
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		if strings.HasPrefix(a, flagName+"=") {
			count++
			continue
		}
	}
	return count
}
