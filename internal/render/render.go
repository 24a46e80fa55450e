// Package render writes a parsed report as the HTML schedule fragment or
// as a JSON document.
package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/Nao-Mk2/pod-schedule/internal/model"
)

const (
	headingFormat = "%B %d"
	clockFormat   = "%H:%M"
)

// Group is a contiguous run of entries sharing a UTC calendar date.
type Group struct {
	Date    time.Time
	Entries []model.PodEntry
}

// Heading returns the date as "August 11".
func (g Group) Heading() string {
	return strftime.Format(headingFormat, g.Date)
}

// Groups splits entries into runs of equal UTC calendar date, keeping
// input order. Non-contiguous entries for the same date form separate
// groups.
func Groups(entries []model.PodEntry) []Group {
	var groups []Group
	for _, e := range entries {
		d := e.Date()
		if n := len(groups); n == 0 || !groups[n-1].Date.Equal(d) {
			groups = append(groups, Group{Date: d})
		}
		last := &groups[len(groups)-1]
		last.Entries = append(last.Entries, e)
	}
	return groups
}

// HTML writes the schedule fragment followed by the error summary. The
// closing </div> is written even when there are no entries.
func HTML(w io.Writer, r *model.Report) error {
	bw := bufio.NewWriter(w)
	for i, g := range Groups(r.Entries) {
		if i > 0 {
			fmt.Fprintln(bw, "</div>")
			fmt.Fprintln(bw, "<br/>")
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "<strong>%s</strong>\n", g.Heading())
		fmt.Fprintln(bw, `<div class="pod-schedule">`)
		for _, e := range g.Entries {
			fmt.Fprintln(bw, e.String())
		}
	}
	fmt.Fprintln(bw, "</div>")
	if n := r.ErrorCount(); n > 0 {
		fmt.Fprintln(bw, Summary(n))
	}
	return bw.Flush()
}

// Summary is the trailing error count line.
func Summary(n int) string {
	return fmt.Sprintf("***** %d Errors during processing", n)
}

// Document is the JSON form of a report.
type Document struct {
	Groups     []GroupRecord `json:"groups"`
	Errors     []ErrorRecord `json:"errors"`
	ErrorCount int           `json:"error_count"`
}

type GroupRecord struct {
	Date    string        `json:"date"`
	Heading string        `json:"heading"`
	Entries []EntryRecord `json:"entries"`
}

type EntryRecord struct {
	Pod       string `json:"pod"`
	Time      string `json:"time"`
	Timestamp string `json:"timestamp"`
}

type ErrorRecord struct {
	Line    int    `json:"line"`
	Kind    string `json:"kind"`
	Input   string `json:"input"`
	Message string `json:"message"`
}

// NewDocument builds the JSON form of r.
func NewDocument(r *model.Report) Document {
	doc := Document{
		Groups:     []GroupRecord{},
		Errors:     []ErrorRecord{},
		ErrorCount: r.ErrorCount(),
	}
	for _, g := range Groups(r.Entries) {
		gr := GroupRecord{
			Date:    g.Date.Format("2006-01-02"),
			Heading: g.Heading(),
			Entries: make([]EntryRecord, 0, len(g.Entries)),
		}
		for _, e := range g.Entries {
			gr.Entries = append(gr.Entries, EntryRecord{
				Pod:       e.PodName,
				Time:      strftime.Format(clockFormat, e.TimestampUTC),
				Timestamp: e.TimestampUTC.Format(time.RFC3339),
			})
		}
		doc.Groups = append(doc.Groups, gr)
	}
	for _, e := range r.Errors {
		msg := ""
		if e.Err != nil {
			msg = e.Err.Error()
		}
		doc.Errors = append(doc.Errors, ErrorRecord{
			Line:    e.Line,
			Kind:    string(e.Kind),
			Input:   e.Input,
			Message: msg,
		})
	}
	return doc
}

// JSON writes the JSON form of r.
func JSON(w io.Writer, r *model.Report, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(r))
}
