// Package source reads the text of a maintenance notice from the places
// notices arrive: a plain text stream, an e-mail message, or CloudWatch
// Logs.
package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single notice line.
const maxLineSize = 1024 * 1024

// Lines reads r line-by-line. Line endings are stripped; blank lines are
// kept so line numbers match the input.
func Lines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read notice: %w", err)
	}
	return lines, nil
}

// SplitLines splits a text blob the same way Lines does.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
