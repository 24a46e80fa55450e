package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/Nao-Mk2/pod-schedule/internal/util"
)

// LogsClient is the subset of CloudWatch Logs API we use.
type LogsClient interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// event is one log event carrying (part of) a forwarded notice.
type event struct {
	Timestamp time.Time
	LogGroup  string
	LogStream string
	Message   string
}

// CloudWatch reads notices that were forwarded into CloudWatch Logs, one
// or more lines per log event.
type CloudWatch struct {
	client        LogsClient
	groups        []string
	startTime     time.Time
	endTime       time.Time
	filterPattern string
	messagePath   string
	workers       int
}

// NewCloudWatch creates a CloudWatch source over the given groups and
// time window.
func NewCloudWatch(client LogsClient, groups []string, startTime, endTime time.Time) *CloudWatch {
	return &CloudWatch{client: client, groups: groups, startTime: startTime, endTime: endTime, workers: 4}
}

// SetWorkers bounds how many groups are fetched at once (minimum 1).
func (c *CloudWatch) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	c.workers = n
}

// SetFilterPattern restricts events to those containing pattern.
func (c *CloudWatch) SetFilterPattern(pattern string) {
	c.filterPattern = pattern
}

// SetMessagePath sets a JMESPath expression that selects the notice text
// from structured (JSON) log messages. Events where it yields nothing are
// skipped.
func (c *CloudWatch) SetMessagePath(jmes string) {
	c.messagePath = jmes
}

// Lines fetches every event in the window across all groups, orders them
// by timestamp and returns their text split into lines.
func (c *CloudWatch) Lines(ctx context.Context) ([]string, error) {
	events, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, e := range events {
		msg := e.Message
		if c.messagePath != "" {
			v, ok, err := util.ExtractValue(msg, c.messagePath)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			msg = v
		}
		lines = append(lines, SplitLines(msg)...)
	}
	return lines, nil
}

func (c *CloudWatch) fetch(ctx context.Context) ([]event, error) {
	if len(c.groups) == 0 {
		return nil, errors.New("no log groups configured")
	}
	// CloudWatch Logs filter pattern treats special characters as token separators
	// unless the term is quoted. Quote the string to match the literal sequence.
	fp := c.filterPattern
	if fp != "" && !(len(fp) >= 2 && fp[0] == '"' && fp[len(fp)-1] == '"') {
		fp = "\"" + fp + "\""
	}
	startMs := c.startTime.UnixMilli()
	endMs := c.endTime.UnixMilli()

	groupChan := make(chan string, len(c.groups))
	resultChan := make(chan []event, len(c.groups))
	errorChan := make(chan error, len(c.groups))

	for _, g := range c.groups {
		groupChan <- g
	}
	close(groupChan)

	workers := c.workers
	if workers > len(c.groups) {
		workers = len(c.groups)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range groupChan {
				events, err := c.fetchGroup(ctx, group, fp, startMs, endMs)
				if err != nil {
					errorChan <- fmt.Errorf("log group %s: %w", group, err)
					return
				}
				resultChan <- events
			}
		}()
	}
	wg.Wait()
	close(resultChan)
	close(errorChan)

	if err := <-errorChan; err != nil {
		return nil, err
	}
	var all []event
	for events := range resultChan {
		all = append(all, events...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			if all[i].LogGroup == all[j].LogGroup {
				return all[i].LogStream < all[j].LogStream
			}
			return all[i].LogGroup < all[j].LogGroup
		}
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all, nil
}

// fetchGroup pages through a single log group.
func (c *CloudWatch) fetchGroup(ctx context.Context, group, filterPattern string, startMs, endMs int64) ([]event, error) {
	var events []event
	var next *string
	for {
		in := &cloudwatchlogs.FilterLogEventsInput{
			LogGroupName: aws.String(group),
			StartTime:    aws.Int64(startMs),
			EndTime:      aws.Int64(endMs),
			NextToken:    next,
		}
		if filterPattern != "" {
			in.FilterPattern = aws.String(filterPattern)
		}
		out, err := c.client.FilterLogEvents(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, e := range out.Events {
			events = append(events, event{
				Timestamp: time.UnixMilli(aws.ToInt64(e.Timestamp)),
				LogGroup:  group,
				LogStream: aws.ToString(e.LogStreamName),
				Message:   aws.ToString(e.Message),
			})
		}
		if out.NextToken == nil || (next != nil && aws.ToString(out.NextToken) == aws.ToString(next)) {
			break
		}
		next = out.NextToken
	}
	return events, nil
}
