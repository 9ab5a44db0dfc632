// Package email gives the assistant native IMAP and SMTP access to a
// single mail account: listing and reading messages over IMAP, and
// sending markdown-composed MIME messages over SMTP. Outbound drafts
// arrive as "To:/Subject:/Body:" text produced by the model and are
// parsed by ParseDraft before composition.
package email

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
)

// drainLiteral reads and discards the contents of an IMAP literal
// reader so an unconsumed body section does not block the stream.
func drainLiteral(r imap.LiteralReader) {
	if r == nil {
		return
	}
	_, _ = io.Copy(io.Discard, r)
}

// Envelope is the summary metadata for a message, used in list output.
type Envelope struct {
	// UID is the IMAP unique identifier within the folder.
	UID uint32

	// Date is the message's Date header.
	Date time.Time

	// From is the sender, "Name <addr>" or just the address.
	From string

	// Subject is the message subject line.
	Subject string

	// Flags contains IMAP flags (e.g., \Seen).
	Flags []string
}

// Seen reports whether the message carries the \Seen flag.
func (e Envelope) Seen() bool {
	for _, f := range e.Flags {
		if f == `\Seen` {
			return true
		}
	}
	return false
}

// Message is a fully-fetched email with body content extracted from
// the MIME structure.
type Message struct {
	Envelope

	// To is the list of recipients.
	To []string

	// TextBody is the plain-text body. Preferred for model consumption.
	TextBody string

	// HTMLBody is the raw HTML body, if the message has no text part.
	HTMLBody string
}

// ListOptions controls message listing.
type ListOptions struct {
	// Folder is the mailbox to list. Default "INBOX".
	Folder string

	// Limit is the maximum number of messages to return. Default 10.
	Limit int

	// Unseen restricts the listing to unseen messages.
	Unseen bool
}

// FormatEnvelopes renders envelopes as a numbered text listing for the
// model, newest first.
func FormatEnvelopes(envelopes []Envelope) string {
	var sb strings.Builder
	for i, e := range envelopes {
		marker := " "
		if !e.Seen() {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%d.%s [uid %d] %s — %s (%s)\n",
			i+1, marker, e.UID, e.From, e.Subject, e.Date.Format("2006-01-02 15:04"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatMessage renders a full message as readable text for the model.
func FormatMessage(m *Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\n", m.From)
	if len(m.To) > 0 {
		fmt.Fprintf(&sb, "To: %s\n", strings.Join(m.To, ", "))
	}
	fmt.Fprintf(&sb, "Date: %s\n", m.Date.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Subject: %s\n\n", m.Subject)

	body := m.TextBody
	if body == "" && m.HTMLBody != "" {
		body = "[HTML-only message]\n" + m.HTMLBody
	}
	if body == "" {
		body = "[empty body]"
	}
	sb.WriteString(body)
	return sb.String()
}
