// Package contacts connects the assistant to a CardDAV address book.
// It lists the address book as name/email/phone triples and creates
// new vCards from labeled "Name:/Email:/Phone:" text the model writes.
package contacts

import (
	"fmt"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
)

// Contact is the assistant-facing view of one address book entry.
type Contact struct {
	// Name is the contact's formatted display name.
	Name string

	// Email is the preferred email address, if any.
	Email string

	// Phone is the preferred phone number, if any.
	Phone string
}

// FromCard extracts a Contact from a vCard.
func FromCard(card vcard.Card) Contact {
	return Contact{
		Name:  card.PreferredValue(vcard.FieldFormattedName),
		Email: card.PreferredValue(vcard.FieldEmail),
		Phone: card.PreferredValue(vcard.FieldTelephone),
	}
}

// ToCard builds a v4 vCard for a new contact. The UID is generated;
// CardDAV servers require one.
func ToCard(c Contact) (vcard.Card, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("contact name is required")
	}

	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, c.Name)
	card.SetValue(vcard.FieldUID, "urn:uuid:"+uuid.NewString())
	if c.Email != "" {
		card.SetValue(vcard.FieldEmail, c.Email)
	}
	if c.Phone != "" {
		card.SetValue(vcard.FieldTelephone, c.Phone)
	}
	vcard.ToV4(card)
	return card, nil
}

// ParseDetails extracts contact fields from the labeled text the model
// is prompted to produce:
//
//	Name: Jean Duponteau
//	Email: jean@example.com
//	Phone: +33123456789
//
// Labels are case-insensitive; Email and Phone are optional.
func ParseDetails(text string) (Contact, error) {
	var c Contact
	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		switch strings.ToLower(strings.TrimSpace(line[:idx])) {
		case "name":
			if c.Name == "" {
				c.Name = value
			}
		case "email":
			if c.Email == "" {
				c.Email = value
			}
		case "phone":
			if c.Phone == "" {
				c.Phone = value
			}
		}
	}
	if c.Name == "" {
		return c, fmt.Errorf("contact details have no Name: line")
	}
	return c, nil
}

// FormatContacts renders contacts as one line each for the model.
func FormatContacts(contacts []Contact) string {
	var sb strings.Builder
	for _, c := range contacts {
		sb.WriteString("- " + c.Name)
		if c.Email != "" {
			sb.WriteString(" <" + c.Email + ">")
		}
		if c.Phone != "" {
			sb.WriteString(" " + c.Phone)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
