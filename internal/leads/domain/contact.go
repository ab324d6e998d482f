package domain

import (
	"errors"
	"strings"
	"time"

	"container_leads_backend/platform/phone"

	"github.com/google/uuid"
)

var (
	ErrContactNameRequired = errors.New("contact name is required")
	ErrContactPhoneInvalid = errors.New("contact phone must have 10 digits")
	ErrContactPhonePrefix  = errors.New("contact phone cannot start with 0 or 1")
)

// Contact is the person behind one or more opportunities. Phone is the
// natural key: saving a contact with a known phone updates that record.
type Contact struct {
	ID           uuid.UUID // uuid.Nil until persisted
	Name         string
	Phone        string // 10 digits, no separators, first digit 2-9
	Email        string // lowercase, empty when not given
	Company      string
	RegisteredAt time.Time
}

// NewContactParams is the raw input for NewContact.
type NewContactParams struct {
	Name    string
	Phone   string
	Email   string
	Company string
}

// NewContact normalizes and checks the contact invariants. Format rules for
// the end user live in the validation package; this only guards the entity.
func NewContact(p NewContactParams, now time.Time) (Contact, error) {
	name := strings.Join(strings.Fields(p.Name), " ")
	if name == "" {
		return Contact{}, ErrContactNameRequired
	}
	digits := phone.Digits(p.Phone)
	if len(digits) != 10 {
		return Contact{}, ErrContactPhoneInvalid
	}
	if digits[0] == '0' || digits[0] == '1' {
		return Contact{}, ErrContactPhonePrefix
	}
	return Contact{
		Name:         name,
		Phone:        digits,
		Email:        strings.ToLower(strings.TrimSpace(p.Email)),
		Company:      strings.TrimSpace(p.Company),
		RegisteredAt: now.UTC(),
	}, nil
}

// Persisted reports whether the store has assigned an ID.
func (c Contact) Persisted() bool {
	return c.ID != uuid.Nil
}

// FirstName is used to greet the customer.
func (c Contact) FirstName() string {
	if i := strings.IndexByte(c.Name, ' '); i > 0 {
		return c.Name[:i]
	}
	return c.Name
}
