package source

import (
	"errors"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// ErrNoTextBody is returned when a message has no text/plain or
// text/html part.
var ErrNoTextBody = errors.New("message has no text body")

// MailLines extracts the notice text from an RFC 5322 message. The first
// text/plain part wins; otherwise the first text/html part is converted
// to text.
func MailLines(r io.Reader) ([]string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}
	defer mr.Close()

	var plain, html string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && (p == nil || !message.IsUnknownCharset(err)) {
			return nil, fmt.Errorf("failed to read next part: %w", err)
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		switch {
		case strings.HasPrefix(contentType, "text/plain") && plain == "":
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to read body: %w", err)
			}
			plain = string(b)
		case strings.HasPrefix(contentType, "text/html") && html == "":
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to read body: %w", err)
			}
			html = string(b)
		}
	}

	switch {
	case strings.TrimSpace(plain) != "":
		return SplitLines(plain), nil
	case strings.TrimSpace(html) != "":
		text, err := htmlToText(html)
		if err != nil {
			return nil, err
		}
		return SplitLines(text), nil
	}
	return nil, ErrNoTextBody
}

// htmlToText flattens an HTML notice body. Markdown escaping is disabled
// so pod lines come out exactly as written; emphasis markers around a
// whole line (a bold date header) are dropped.
func htmlToText(html string) (string, error) {
	conv := md.NewConverter("", true, &md.Options{EscapeMode: "disabled"})
	text, err := conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert html body: %w", err)
	}
	lines := SplitLines(text)
	for i, l := range lines {
		lines[i] = strings.Trim(strings.TrimSpace(l), "*_")
	}
	return strings.Join(lines, "\n"), nil
}
