package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/leads/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const contactColumns = `id, name, phone, COALESCE(email, ''), COALESCE(company, ''), registered_at`

// ContactRepository stores contacts in the contacts table.
type ContactRepository struct {
	pool PgxPool
}

var _ ports.ContactRepository = (*ContactRepository)(nil)

func NewContactRepository(pool PgxPool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Create inserts the contact or, when the phone exists, updates that row in
// place. Empty email and company never overwrite stored values.
func (r *ContactRepository) Create(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, phone, email, company, registered_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(EXCLUDED.email, contacts.email),
			company = COALESCE(EXCLUDED.company, contacts.company),
			updated_at = now()
		RETURNING `+contactColumns,
		c.Name, c.Phone, c.Email, c.Company, c.RegisteredAt,
	)
	saved, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("upsert contact: %w", err)
	}
	return saved, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	return findContact(row)
}

func (r *ContactRepository) FindByPhone(ctx context.Context, phone string) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE phone = $1`, phone)
	return findContact(row)
}

// Update overwrites the editable fields of an existing contact.
func (r *ContactRepository) Update(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE contacts
		SET name = $2, phone = $3, email = NULLIF($4, ''), company = NULLIF($5, ''), updated_at = now()
		WHERE id = $1
		RETURNING `+contactColumns,
		c.ID, c.Name, c.Phone, c.Email, c.Company,
	)
	saved, err := scanContact(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.Contact{}, ports.ErrNotFound
	case isUniqueViolation(err, constraintContactPhone):
		return domain.Contact{}, ports.ErrPhoneInUse
	case err != nil:
		return domain.Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return saved, nil
}

// List returns contacts newest first.
func (r *ContactRepository) List(ctx context.Context, f ports.ContactFilters) ([]domain.Contact, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	if f.CreatedAfter != nil {
		args = append(args, *f.CreatedAfter)
		where = append(where, fmt.Sprintf("registered_at > $%d", len(args)))
	}

	query := `SELECT ` + contactColumns + ` FROM contacts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, clampLimit(f.Limit), offset)
	query += fmt.Sprintf(` ORDER BY registered_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return contacts, nil
}

func findContact(row pgx.Row) (domain.Contact, error) {
	c, err := scanContact(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Contact{}, fmt.Errorf("find contact: %w", err)
	}
	return c, nil
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Company, &c.RegisteredAt)
	return c, err
}
