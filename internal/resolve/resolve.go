// Package resolve turns the bare times and date headers of a maintenance
// notice into absolute instants.
//
// Zone tokens such as "CDT" are looked up in a token table and resolved
// through the IANA database, so the offset follows the region's daylight
// saving rules for the resolved date rather than the literal abbreviation.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // notices must resolve on hosts without a zoneinfo tree
)

// DefaultZone is the region notices are written in.
const DefaultZone = "US/Central"

// DefaultZones maps the zone tokens seen in notices to IANA regions.
var DefaultZones = map[string]string{
	"CDT": DefaultZone,
}

var (
	ErrUnparseableTime = errors.New("unparseable time")
	ErrUnknownZone     = errors.New("unknown zone token")
	ErrInvalidDate     = errors.New("invalid date")
)

var clockLayouts = []string{
	"3:04 PM",
	"3:04:05 PM",
	"3 PM",
	"15:04",
	"15:04:05",
}

// Resolver resolves clock times against a date and a zone table.
type Resolver struct {
	zones    map[string]*time.Location
	fallback *time.Location
}

// New loads every region in zones plus the fallback region used when a
// time carries no zone token.
func New(zones map[string]string, fallback string) (*Resolver, error) {
	if fallback == "" {
		fallback = DefaultZone
	}
	fb, err := time.LoadLocation(fallback)
	if err != nil {
		return nil, fmt.Errorf("load fallback zone %q: %w", fallback, err)
	}
	r := &Resolver{zones: make(map[string]*time.Location, len(zones)), fallback: fb}
	for token, region := range zones {
		loc, err := time.LoadLocation(region)
		if err != nil {
			return nil, fmt.Errorf("load zone %q for token %q: %w", region, token, err)
		}
		r.zones[strings.ToUpper(strings.TrimSpace(token))] = loc
	}
	return r, nil
}

// Default returns a Resolver for DefaultZones.
func Default() (*Resolver, error) {
	return New(DefaultZones, DefaultZone)
}

// Tokens returns the known zone tokens, sorted.
func (r *Resolver) Tokens() []string {
	out := make([]string, 0, len(r.zones))
	for t := range r.zones {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Zone returns the location for a token.
func (r *Resolver) Zone(token string) (*time.Location, bool) {
	loc, ok := r.zones[strings.ToUpper(token)]
	return loc, ok
}

// Resolve parses a clock time such as "6:00 PM CDT" or "06:00pm", takes
// the calendar date from def, localises it to the token's region and
// returns the instant in UTC.
func (r *Resolver) Resolve(input string, def time.Time) (time.Time, error) {
	fields := strings.Fields(strings.ToUpper(input))
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnparseableTime)
	}

	loc := r.fallback
	if last := fields[len(fields)-1]; isZoneToken(last) {
		z, ok := r.zones[last]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %q: %w", ErrUnparseableTime, input, ErrUnknownZone)
		}
		loc = z
		fields = fields[:len(fields)-1]
	}

	clock, err := parseClock(splitMeridiem(fields))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableTime, input)
	}

	y, m, d := def.Date()
	local := time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
	return local.UTC(), nil
}

// ParseDateHeader turns a day and month abbreviation ("11", "AUG") into a
// civil date at midnight, taking the year from def.
func ParseDateHeader(day, month string, def time.Time) (time.Time, error) {
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", ErrInvalidDate, day)
	}
	mt, err := time.Parse("Jan", strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", ErrInvalidDate, month)
	}
	t := time.Date(def.Year(), mt.Month(), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != mt.Month() {
		return time.Time{}, fmt.Errorf("%w: %s-%s has no such day", ErrInvalidDate, day, month)
	}
	return t, nil
}

// Today returns the civil date of now at midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isZoneToken(s string) bool {
	if s == "AM" || s == "PM" || len(s) < 2 {
		return false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// splitMeridiem joins the clock fields and separates a glued AM/PM
// suffix, so "6:00PM" reads as "6:00 PM".
func splitMeridiem(fields []string) string {
	s := strings.Join(fields, " ")
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(s, suffix) && !strings.HasSuffix(s, " "+suffix) && len(s) > len(suffix) {
			return s[:len(s)-len(suffix)] + " " + suffix
		}
	}
	return s
}

func parseClock(s string) (time.Time, error) {
	var err error
	for _, layout := range clockLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
