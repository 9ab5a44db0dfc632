package tools

import (
	"context"
	"fmt"

	"github.com/gladysproject/gladys/internal/contacts"
)

// RegisterContactTools adds the get_contacts and add_contact tools
// backed by the CardDAV address book. Pass nil when no address book is
// configured — the tools still register and answer with an error the
// model can relay.
func RegisterContactTools(r *Registry, client *contacts.Client) {
	r.Register(&Tool{
		Name:        "get_contacts",
		Description: "List the user's address book: one line per contact with name, email, and phone.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if client == nil {
				return "", fmt.Errorf("no address book is configured")
			}
			list, err := client.List(ctx)
			if err != nil {
				return "", err
			}
			if len(list) == 0 {
				return "The address book is empty.", nil
			}
			return contacts.FormatContacts(list), nil
		},
	})

	r.Register(&Tool{
		Name: "add_contact",
		Description: "Add a contact to the address book. The details must contain labeled lines:\n" +
			"Name: Full Name\nEmail: addr@example.com\nPhone: +33123456789\n" +
			"Email and Phone are optional.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"details": map[string]any{
					"type":        "string",
					"description": "Contact details with Name:, Email:, and Phone: lines.",
				},
			},
			"required": []string{"details"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if client == nil {
				return "", fmt.Errorf("no address book is configured")
			}
			contact, err := contacts.ParseDetails(StringArg(args, "details"))
			if err != nil {
				return "", err
			}
			if err := client.Add(ctx, contact); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s has been added to the address book.", contact.Name), nil
		},
	})
}
