package model

import (
	"fmt"
	"strings"
	"time"
)

// PodNameSeparator sits between the datacenter code and the pod label.
const PodNameSeparator = "    "

// PodEntry represents a single maintenance window resolved from a notice.
type PodEntry struct {
	TimestampUTC time.Time
	PodName      string
}

// NewPodEntry normalises the datacenter code and pod label into a pod name
// and stores the timestamp in UTC.
func NewPodEntry(ts time.Time, datacenter, pod string) PodEntry {
	return PodEntry{
		TimestampUTC: ts.UTC(),
		PodName:      PodName(datacenter, pod),
	}
}

// PodName builds "DAL05    POD 3" from "dal05" and "pod   3".
func PodName(datacenter, pod string) string {
	label := strings.Join(strings.Fields(pod), " ")
	return strings.ToUpper(strings.TrimSpace(datacenter) + PodNameSeparator + label)
}

// Date returns the UTC calendar date of the entry at midnight.
func (e PodEntry) Date() time.Time {
	y, m, d := e.TimestampUTC.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// String returns the schedule line: <pod name>    <HH:MM> UTC
func (e PodEntry) String() string {
	return fmt.Sprintf("%s    %s UTC", e.PodName, e.TimestampUTC.Format("15:04"))
}
