package email

import (
	"context"
	"fmt"
	"log/slog"
)

// Service is the mail facade the tool layer talks to: one IMAP client
// for reading and ephemeral SMTP sends for outbound drafts.
type Service struct {
	cfg    Config
	client *Client
	logger *slog.Logger
}

// NewService creates the mail service for a configured account.
func NewService(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: NewClient(cfg.IMAP, logger),
		logger: logger,
	}
}

// List returns recent message envelopes.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Envelope, error) {
	return s.client.ListMessages(ctx, opts)
}

// Read fetches one message by UID.
func (s *Service) Read(ctx context.Context, folder string, uid uint32) (*Message, error) {
	return s.client.ReadMessage(ctx, folder, uid)
}

// Send parses the model's draft text, composes a MIME message, and
// delivers it over SMTP. It returns a confirmation string describing
// what was sent.
func (s *Service) Send(ctx context.Context, draftText string) (string, error) {
	if !s.cfg.SMTPConfigured() {
		return "", fmt.Errorf("sending is not configured for this account")
	}

	draft, err := ParseDraft(draftText)
	if err != nil {
		return "", fmt.Errorf("parse draft: %w", err)
	}

	msg, err := ComposeMessage(s.cfg.From, draft)
	if err != nil {
		return "", fmt.Errorf("compose message: %w", err)
	}

	recipients := collectRecipients(draft.To)
	if err := SendMail(ctx, s.cfg.SMTP, s.cfg.From, recipients, msg); err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}

	s.logger.Info("email sent", "to", recipients, "subject", draft.Subject)
	return fmt.Sprintf("Email sent to %d recipient(s): %q", len(recipients), draft.Subject), nil
}

// Close releases the IMAP connection.
func (s *Service) Close() error {
	return s.client.Close()
}
