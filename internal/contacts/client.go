package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/emersion/go-vcard"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/carddav"
	"github.com/google/uuid"
)

// Client talks to a CardDAV server. The address book path is
// discovered from the server on first use and cached.
type Client struct {
	endpoint string
	username string
	password string
	logger   *slog.Logger

	mu       sync.Mutex
	client   *carddav.Client
	bookPath string
}

// NewClient creates a CardDAV client for the given endpoint with HTTP
// basic authentication.
func NewClient(endpoint, username, password string, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		username: username,
		password: password,
		logger:   logger,
	}
}

// ensureBook connects and discovers the default address book path.
// Caller must hold c.mu.
func (c *Client) ensureBook(ctx context.Context) error {
	if c.client != nil && c.bookPath != "" {
		return nil
	}

	httpClient := webdav.HTTPClientWithBasicAuth(http.DefaultClient, c.username, c.password)
	client, err := carddav.NewClient(httpClient, c.endpoint)
	if err != nil {
		return fmt.Errorf("create CardDAV client: %w", err)
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := client.FindAddressBookHomeSet(ctx, principal)
	if err != nil {
		return fmt.Errorf("find address book home set: %w", err)
	}
	books, err := client.FindAddressBooks(ctx, homeSet)
	if err != nil {
		return fmt.Errorf("find address books: %w", err)
	}
	if len(books) == 0 {
		return fmt.Errorf("no address books found at %s", c.endpoint)
	}

	c.client = client
	c.bookPath = books[0].Path
	c.logger.Info("CardDAV connected", "endpoint", c.endpoint, "address_book", c.bookPath)
	return nil
}

// List returns all contacts in the address book, sorted by name.
func (c *Client) List(ctx context.Context) ([]Contact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureBook(ctx); err != nil {
		return nil, err
	}

	objs, err := c.client.QueryAddressBook(ctx, c.bookPath, &carddav.AddressBookQuery{
		DataRequest: carddav.AddressDataRequest{
			Props: []string{
				vcard.FieldFormattedName,
				vcard.FieldEmail,
				vcard.FieldTelephone,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query address book: %w", err)
	}

	contacts := make([]Contact, 0, len(objs))
	for _, obj := range objs {
		contact := FromCard(obj.Card)
		if contact.Name == "" {
			continue
		}
		contacts = append(contacts, contact)
	}
	sort.Slice(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
	})
	return contacts, nil
}

// Add creates a new contact in the address book.
func (c *Client) Add(ctx context.Context, contact Contact) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureBook(ctx); err != nil {
		return err
	}

	card, err := ToCard(contact)
	if err != nil {
		return err
	}

	objPath := path.Join(c.bookPath, uuid.NewString()+".vcf")
	if _, err := c.client.PutAddressObject(ctx, objPath, card); err != nil {
		return fmt.Errorf("put address object: %w", err)
	}

	c.logger.Info("contact created", "name", contact.Name)
	return nil
}
