package tools

import (
	"context"
	"fmt"

	"github.com/gladysproject/gladys/internal/email"
)

// RegisterEmailTools adds the list_email, read_email, and send_email
// tools backed by the mail service. Pass nil when no account is
// configured — the tools still register and answer with an error the
// model can relay.
func RegisterEmailTools(r *Registry, svc *email.Service) {
	r.Register(&Tool{
		Name: "list_email",
		Description: "List recent emails in the inbox, newest first. " +
			"Returns one line per message with its UID, sender, subject, and date.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"folder": map[string]any{
					"type":        "string",
					"description": "Mailbox to list (default INBOX).",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of messages to return (default 10).",
				},
				"unseen": map[string]any{
					"type":        "boolean",
					"description": "Only list unread messages.",
				},
			},
			"required": []string{},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if svc == nil {
				return "", fmt.Errorf("no email account is configured")
			}
			envelopes, err := svc.List(ctx, email.ListOptions{
				Folder: StringArg(args, "folder"),
				Limit:  IntArg(args, "limit"),
				Unseen: BoolArg(args, "unseen"),
			})
			if err != nil {
				return "", err
			}
			if len(envelopes) == 0 {
				return "No messages found.", nil
			}
			return email.FormatEnvelopes(envelopes), nil
		},
	})

	r.Register(&Tool{
		Name:        "read_email",
		Description: "Read one email by its UID, as returned by list_email.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"uid": map[string]any{
					"type":        "integer",
					"description": "UID of the message to read.",
				},
				"folder": map[string]any{
					"type":        "string",
					"description": "Mailbox containing the message (default INBOX).",
				},
			},
			"required": []string{"uid"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if svc == nil {
				return "", fmt.Errorf("no email account is configured")
			}
			msg, err := svc.Read(ctx, StringArg(args, "folder"), uint32(IntArg(args, "uid")))
			if err != nil {
				return "", err
			}
			return email.FormatMessage(msg), nil
		},
	})

	r.Register(&Tool{
		Name: "send_email",
		Description: "Send an email. The draft must contain labeled lines:\n" +
			"To: recipient@example.com\nSubject: the subject\nBody: the message body in markdown",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"draft": map[string]any{
					"type":        "string",
					"description": "Full draft text with To:, Subject:, and Body: lines.",
				},
			},
			"required": []string{"draft"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if svc == nil {
				return "", fmt.Errorf("no email account is configured")
			}
			return svc.Send(ctx, StringArg(args, "draft"))
		},
	})
}
