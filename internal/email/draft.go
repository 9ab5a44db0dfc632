package email

import (
	"fmt"
	"strings"
)

// Draft is an outbound message extracted from model-written draft
// text.
type Draft struct {
	// To is the list of recipient addresses.
	To []string

	// Subject is the subject line.
	Subject string

	// Body is the message body, in markdown.
	Body string
}

// ParseDraft extracts a Draft from the labeled text the model is
// prompted to produce:
//
//	To: alice@example.com, bob@example.com
//	Subject: Dinner on Friday
//	Body: Hi both,
//	...
//
// Labels are case-insensitive. Everything after the Body label,
// including subsequent lines, belongs to the body. Missing To or
// Subject is an error; a missing Body label makes the remaining text
// after Subject the body.
func ParseDraft(text string) (Draft, error) {
	var d Draft
	lines := strings.Split(text, "\n")

	subjectLine := -1
	bodyFound := false
	for i, line := range lines {
		label, rest, ok := splitLabel(line)
		if !ok {
			continue
		}
		switch label {
		case "to":
			if len(d.To) == 0 {
				d.To = splitAddresses(rest)
			}
		case "subject":
			if d.Subject == "" {
				d.Subject = strings.TrimSpace(rest)
				subjectLine = i
			}
		case "body":
			rem := []string{rest}
			rem = append(rem, lines[i+1:]...)
			d.Body = strings.TrimSpace(strings.Join(rem, "\n"))
			bodyFound = true
		}
		if bodyFound {
			break
		}
	}

	if !bodyFound && subjectLine >= 0 && subjectLine+1 < len(lines) {
		d.Body = strings.TrimSpace(strings.Join(lines[subjectLine+1:], "\n"))
	}

	if len(d.To) == 0 {
		return d, fmt.Errorf("draft has no To: line")
	}
	if d.Subject == "" {
		return d, fmt.Errorf("draft has no Subject: line")
	}
	if d.Body == "" {
		return d, fmt.Errorf("draft has no body")
	}
	return d, nil
}

// splitLabel splits "Label: rest" returning the lowercased label.
func splitLabel(line string) (label, rest string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	label = strings.ToLower(strings.TrimSpace(line[:idx]))
	switch label {
	case "to", "subject", "body":
		return label, line[idx+1:], true
	}
	return "", "", false
}

// splitAddresses splits a recipient list on commas and semicolons.
func splitAddresses(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
