package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
)

// maxBodySize caps the body text included in a read message. Longer
// bodies are truncated with a note.
const maxBodySize = 32 * 1024

// maxRawMessageSize caps the raw RFC822 bytes buffered from the IMAP
// literal. The remainder of oversized literals is drained to keep the
// stream in sync.
const maxRawMessageSize = 5 * 1024 * 1024

// ReadMessage fetches and parses one message by UID. The MIME
// structure is walked for text/plain and text/html parts. Fetching
// marks the message \Seen.
func (c *Client) ReadMessage(ctx context.Context, folder string, uid uint32) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	if folder == "" {
		folder = "INBOX"
	}
	if _, err := c.selectFolder(folder); err != nil {
		return nil, err
	}

	uidSet := imap.UIDSet{}
	uidSet.AddNum(imap.UID(uid))

	fetchOpts := &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		Flags:       true,
		BodySection: []*imap.FetchItemBodySection{{Peek: false}},
	}

	fetchCmd := c.client.Fetch(uidSet, fetchOpts)

	msg := fetchCmd.Next()
	if msg == nil {
		_ = fetchCmd.Close()
		return nil, fmt.Errorf("message UID %d not found in %s", uid, folder)
	}

	result := &Message{}
	var rawBody []byte

	for {
		item := msg.Next()
		if item == nil {
			break
		}

		switch data := item.(type) {
		case imapclient.FetchItemDataUID:
			result.UID = uint32(data.UID)
		case imapclient.FetchItemDataFlags:
			for _, f := range data.Flags {
				result.Flags = append(result.Flags, string(f))
			}
		case imapclient.FetchItemDataEnvelope:
			if data.Envelope != nil {
				result.Date = data.Envelope.Date
				result.Subject = data.Envelope.Subject
				if len(data.Envelope.From) > 0 {
					result.From = formatAddress(data.Envelope.From[0])
				}
				for _, addr := range data.Envelope.To {
					result.To = append(result.To, formatAddress(addr))
				}
			}
		case imapclient.FetchItemDataBodySection:
			// The literal streams from the connection; it must be
			// consumed before msg.Next() advances past it.
			if data.Literal == nil {
				c.logger.Debug("nil body literal", "uid", uid)
				continue
			}
			var readErr error
			rawBody, readErr = io.ReadAll(io.LimitReader(data.Literal, maxRawMessageSize))
			_, _ = io.Copy(io.Discard, data.Literal)
			if readErr != nil {
				c.logger.Debug("error reading body literal", "uid", uid, "error", readErr)
				rawBody = nil
			}
		}
	}

	if rawBody != nil {
		if err := c.parseBody(result, bytes.NewReader(rawBody)); err != nil {
			c.logger.Debug("body parse error", "uid", uid, "error", err)
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetch message UID %d: %w", uid, err)
	}
	return result, nil
}

// parseBody walks the MIME structure extracting text content.
//
// go-message's mail.CreateReader and NextPart may return both a valid
// reader/part AND an error on unknown charsets; those are non-fatal —
// slightly garbled content still beats no content.
func (c *Client) parseBody(msg *Message, r io.Reader) error {
	mailReader, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return fmt.Errorf("create mail reader: %w", err)
	}
	if mailReader == nil {
		return fmt.Errorf("create mail reader returned nil: %v", err)
	}

	for {
		part, err := mailReader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return fmt.Errorf("next part: %w", err)
		}
		if part == nil {
			continue
		}

		var contentType string
		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ = h.ContentType()
		default:
			// Attachments and anything else are skipped.
			continue
		}

		switch {
		case contentType == "text/plain" && msg.TextBody == "":
			msg.TextBody = readPartBody(part.Body)
		case contentType == "text/html" && msg.HTMLBody == "":
			msg.HTMLBody = readPartBody(part.Body)
		}
	}

	return nil
}

// readPartBody reads a MIME part body, truncating at maxBodySize.
func readPartBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return ""
	}
	text := string(body)
	if len(body) > maxBodySize {
		text = text[:maxBodySize] + "\n\n[truncated — message exceeds 32KB]"
	}
	return strings.TrimSpace(text)
}
