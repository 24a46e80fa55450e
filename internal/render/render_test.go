package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nao-Mk2/pod-schedule/internal/model"
)

func entry(name string, month time.Month, day, hour, min int) model.PodEntry {
	return model.PodEntry{
		TimestampUTC: time.Date(2024, month, day, hour, min, 0, 0, time.UTC),
		PodName:      name,
	}
}

func TestHTMLScenario(t *testing.T) {
	r := &model.Report{Entries: []model.PodEntry{
		entry("DAL05    POD 3", time.August, 11, 23, 0),
		entry("DAL09    POD 7", time.August, 12, 12, 30),
	}}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, r))

	want := strings.Join([]string{
		"<strong>August 11</strong>",
		`<div class="pod-schedule">`,
		"DAL05    POD 3    23:00 UTC",
		"</div>",
		"<br/>",
		"",
		"<strong>August 12</strong>",
		`<div class="pod-schedule">`,
		"DAL09    POD 7    12:30 UTC",
		"</div>",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestHTMLGroupsContiguousRuns(t *testing.T) {
	r := &model.Report{Entries: []model.PodEntry{
		entry("DAL05    POD 1", time.August, 11, 1, 0),
		entry("DAL05    POD 2", time.August, 11, 2, 0),
		entry("DAL05    POD 3", time.August, 12, 3, 0),
		entry("DAL05    POD 4", time.August, 11, 4, 0),
	}}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, r))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)

	var headings []string
	doc.Find("strong").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, s.Text())
	})
	assert.Equal(t, []string{"August 11", "August 12", "August 11"}, headings)

	sections := doc.Find("div.pod-schedule")
	require.Equal(t, 3, sections.Length())
	assert.Equal(t, 2, strings.Count(sections.Eq(0).Text(), " UTC"))
	assert.Contains(t, sections.Eq(2).Text(), "DAL05    POD 4    04:00 UTC")
}

func TestHTMLDuplicatesAndSummary(t *testing.T) {
	r := &model.Report{
		Entries: []model.PodEntry{
			entry("DAL05    POD 3", time.August, 11, 23, 0),
			entry("DAL05    POD 3", time.August, 11, 23, 30),
		},
		Errors: []model.ParseError{{Line: 3, Input: "DAL05 POD 3 6:30 PM CDT", Kind: model.ErrorDuplicate}},
	}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, r))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "DAL05    POD 3"))
	assert.True(t, strings.HasSuffix(out, "</div>\n***** 1 Errors during processing\n"), out)
}

func TestHTMLEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, &model.Report{}))
	assert.Equal(t, "</div>\n", buf.String())
}

func TestHeadingPadsDay(t *testing.T) {
	g := Group{Date: time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "September 05", g.Heading())
}

func TestGroups(t *testing.T) {
	assert.Empty(t, Groups(nil))

	groups := Groups([]model.PodEntry{
		entry("A", time.August, 11, 23, 59),
		entry("B", time.August, 12, 0, 0),
		entry("C", time.August, 12, 5, 0),
	})
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Entries, 1)
	assert.Len(t, groups[1].Entries, 2)
	assert.True(t, groups[1].Date.Equal(time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)))
}

func TestJSON(t *testing.T) {
	r := &model.Report{
		Entries: []model.PodEntry{
			entry("DAL05    POD 3", time.August, 11, 23, 0),
			entry("DAL09    POD 7", time.August, 12, 12, 30),
		},
		Errors: []model.ParseError{{Line: 5, Input: "junk", Kind: model.ErrorUnmatched, Err: errors.New("no match")}},
	}

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, r, false))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.ErrorCount)
	require.Len(t, doc.Groups, 2)
	assert.Equal(t, "2024-08-11", doc.Groups[0].Date)
	assert.Equal(t, "August 11", doc.Groups[0].Heading)
	assert.Equal(t, EntryRecord{Pod: "DAL05    POD 3", Time: "23:00", Timestamp: "2024-08-11T23:00:00Z"}, doc.Groups[0].Entries[0])
	assert.Equal(t, ErrorRecord{Line: 5, Kind: "unmatched", Input: "junk", Message: "no match"}, doc.Errors[0])
}

func TestJSONEmptyUsesArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, &model.Report{}, true))
	assert.Contains(t, buf.String(), `"groups": []`)
	assert.Contains(t, buf.String(), `"errors": []`)
}
