package contacts

import (
	"strings"
	"testing"

	"github.com/emersion/go-vcard"
)

func TestParseDetails(t *testing.T) {
	c, err := ParseDetails("Name: Jean Duponteau\nEmail: jean@example.com\nPhone: +33123456789")
	if err != nil {
		t.Fatalf("ParseDetails: %v", err)
	}
	if c.Name != "Jean Duponteau" || c.Email != "jean@example.com" || c.Phone != "+33123456789" {
		t.Errorf("contact = %+v", c)
	}
}

func TestParseDetailsOptionalFields(t *testing.T) {
	c, err := ParseDetails("name: Alice")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Alice" || c.Email != "" || c.Phone != "" {
		t.Errorf("contact = %+v", c)
	}
}

func TestParseDetailsMissingName(t *testing.T) {
	if _, err := ParseDetails("Email: a@x.com"); err == nil {
		t.Fatal("expected error without Name")
	}
}

func TestCardRoundTrip(t *testing.T) {
	card, err := ToCard(Contact{Name: "Alice", Email: "a@x.com", Phone: "+1555"})
	if err != nil {
		t.Fatalf("ToCard: %v", err)
	}

	if card.Value(vcard.FieldVersion) != "4.0" {
		t.Errorf("version = %q", card.Value(vcard.FieldVersion))
	}
	if !strings.HasPrefix(card.Value(vcard.FieldUID), "urn:uuid:") {
		t.Errorf("uid = %q", card.Value(vcard.FieldUID))
	}

	got := FromCard(card)
	if got != (Contact{Name: "Alice", Email: "a@x.com", Phone: "+1555"}) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestToCardRequiresName(t *testing.T) {
	if _, err := ToCard(Contact{Email: "a@x.com"}); err == nil {
		t.Fatal("expected error without name")
	}
}

func TestFormatContacts(t *testing.T) {
	got := FormatContacts([]Contact{
		{Name: "Alice", Email: "a@x.com", Phone: "+1555"},
		{Name: "Bob"},
	})
	want := "- Alice <a@x.com> +1555\n- Bob"
	if got != want {
		t.Errorf("FormatContacts = %q, want %q", got, want)
	}
}
