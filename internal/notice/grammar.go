package notice

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// DefaultMonths are the month abbreviations a date header may use.
var DefaultMonths = []string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// Kind is the category a notice line falls into.
type Kind int

const (
	Unmatched Kind = iota
	Date
	Pod
)

func (k Kind) String() string {
	switch k {
	case Date:
		return "date"
	case Pod:
		return "pod"
	default:
		return "unmatched"
	}
}

// Classification is the result of matching one line. Only the fields of
// the matched kind are set.
type Classification struct {
	Kind Kind

	Day   string
	Month string

	Datacenter string
	Pod        string
	Time       string
}

// Grammar holds the two line patterns.
type Grammar struct {
	date *regexp.Regexp
	pod  *regexp.Regexp
}

// NewGrammar compiles the date header pattern for the given months and
// the pod entry pattern for the given zone tokens.
func NewGrammar(months, zoneTokens []string) (*Grammar, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("no month abbreviations configured")
	}
	if len(zoneTokens) == 0 {
		return nil, fmt.Errorf("no zone tokens configured")
	}
	ms, err := alternation(months, isMonthAbbrev, "month abbreviation")
	if err != nil {
		return nil, err
	}
	zs, err := alternation(zoneTokens, isLetters, "zone token")
	if err != nil {
		return nil, err
	}
	return &Grammar{
		date: regexp.MustCompile(`(?i)^([0-9]{1,2})-(` + ms + `)`),
		pod: regexp.MustCompile(`(?i)^([A-Z]{3}[0-9]{2})\s+(POD\s+[0-9]{1,2})\s+` +
			`([0-9]{1,2}:[0-9]{2}\s+(?:AM|PM)\s+(?:` + zs + `))`),
	}, nil
}

// Classify matches a trimmed line against the date pattern, then the pod
// pattern.
func (g *Grammar) Classify(line string) Classification {
	if m := g.date.FindStringSubmatch(line); m != nil {
		return Classification{Kind: Date, Day: m[1], Month: strings.ToUpper(m[2])}
	}
	if m := g.pod.FindStringSubmatch(line); m != nil {
		return Classification{Kind: Pod, Datacenter: m[1], Pod: m[2], Time: m[3]}
	}
	return Classification{Kind: Unmatched}
}

func alternation(items []string, valid func(string) bool, what string) (string, error) {
	seen := make(map[string]bool, len(items))
	parts := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.ToUpper(strings.TrimSpace(it))
		if !valid(it) {
			return "", fmt.Errorf("invalid %s %q", what, it)
		}
		if seen[it] {
			continue
		}
		seen[it] = true
		parts = append(parts, regexp.QuoteMeta(it))
	}
	// Longest first so a token never matches as the prefix of another.
	sort.Slice(parts, func(i, j int) bool {
		if len(parts[i]) != len(parts[j]) {
			return len(parts[i]) > len(parts[j])
		}
		return parts[i] < parts[j]
	})
	return strings.Join(parts, "|"), nil
}

func isMonthAbbrev(s string) bool {
	if len(s) != 3 || !isLetters(s) {
		return false
	}
	_, err := time.Parse("Jan", s)
	return err == nil
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
