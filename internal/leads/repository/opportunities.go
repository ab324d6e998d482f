package repository

import (
	"context"
	"errors"
	"fmt"

	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/leads/ports"
	"container_leads_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const opportunityColumns = `id, contact_id, service_type, COALESCE(postal_code, ''), tracking_code, details,
	COALESCE(timeline, ''), COALESCE(budget, ''), COALESCE(contact_preference, ''), stage,
	estimated_value::text, COALESCE(score, -1), COALESCE(temperature, ''), source, created_at`

// OpportunityRepository stores opportunities and triggers scoring.
type OpportunityRepository struct {
	pool PgxPool
	log  *logger.Logger
}

var _ ports.OpportunityRepository = (*OpportunityRepository)(nil)

func NewOpportunityRepository(pool PgxPool, log *logger.Logger) *OpportunityRepository {
	return &OpportunityRepository{pool: pool, log: log}
}

// Create inserts the opportunity and then asks the database to score it.
// A tracking code collision returns ports.ErrTrackingCodeConflict. Scoring
// failures are logged; the returned opportunity then has no score.
func (r *OpportunityRepository) Create(ctx context.Context, o domain.Opportunity) (domain.Opportunity, error) {
	details, err := encodeDetails(o.Details)
	if err != nil {
		return domain.Opportunity{}, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO opportunities (
			contact_id, service_type, postal_code, tracking_code, details, timeline,
			budget, contact_preference, stage, estimated_value, source, created_at
		) VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10::numeric, $11, $12)
		RETURNING id, created_at`,
		o.ContactID, string(o.ServiceType), o.PostalCode, o.TrackingCode, details, o.Timeline,
		o.Budget, o.ContactPreference, string(o.Stage), o.EstimatedValue.StringFixed(2), o.Source, o.CreatedAt,
	).Scan(&o.ID, &o.CreatedAt)
	if isUniqueViolation(err, constraintOpportunityTracking) {
		return domain.Opportunity{}, ports.ErrTrackingCodeConflict
	}
	if err != nil {
		return domain.Opportunity{}, fmt.Errorf("insert opportunity: %w", err)
	}

	var (
		score       int
		temperature string
	)
	err = r.pool.QueryRow(ctx, `SELECT out_score, out_temperature FROM score_opportunity($1)`, o.ID).
		Scan(&score, &temperature)
	if err != nil {
		r.log.WithContext(ctx).Warn("opportunity scoring failed",
			"opportunity_id", o.ID, "tracking_code", o.TrackingCode, "error", err)
		return o, nil
	}
	o.Score = &score
	o.Temperature = &temperature
	return o, nil
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Opportunity, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id)
	return findOpportunity(row)
}

func (r *OpportunityRepository) FindByTrackingCode(ctx context.Context, code string) (domain.Opportunity, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE tracking_code = $1`, code)
	return findOpportunity(row)
}

// FindByContactID returns the contact's opportunities, newest first.
func (r *OpportunityRepository) FindByContactID(ctx context.Context, contactID uuid.UUID) ([]domain.Opportunity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+opportunityColumns+`
		FROM opportunities
		WHERE contact_id = $1
		ORDER BY created_at DESC`, contactID)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

// Update overwrites the intake fields. Stage changes go through UpdateStage.
func (r *OpportunityRepository) Update(ctx context.Context, o domain.Opportunity) (domain.Opportunity, error) {
	details, err := encodeDetails(o.Details)
	if err != nil {
		return domain.Opportunity{}, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE opportunities
		SET postal_code = NULLIF($2, ''), details = $3, timeline = NULLIF($4, ''), budget = NULLIF($5, ''),
			contact_preference = NULLIF($6, ''), estimated_value = $7::numeric, updated_at = now()
		WHERE id = $1
		RETURNING `+opportunityColumns,
		o.ID, o.PostalCode, details, o.Timeline, o.Budget, o.ContactPreference, o.EstimatedValue.StringFixed(2),
	)
	return findOpportunity(row)
}

// UpdateStage writes the new stage unless the row already sits in a
// terminal stage. A terminal row returns domain.ErrInvalidTransition and a
// missing one ports.ErrNotFound.
func (r *OpportunityRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.Stage) (domain.Opportunity, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE opportunities
		SET stage = $2, updated_at = now()
		WHERE id = $1 AND stage NOT IN ($3, $4)
		RETURNING `+opportunityColumns,
		id, string(stage), string(domain.StageClosed), string(domain.StageLost),
	)
	o, err := scanOpportunity(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Opportunity{}, fmt.Errorf("update stage: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM opportunities WHERE id = $1)`, id).Scan(&exists); err != nil {
		return domain.Opportunity{}, fmt.Errorf("check opportunity: %w", err)
	}
	if !exists {
		return domain.Opportunity{}, ports.ErrNotFound
	}
	return domain.Opportunity{}, domain.ErrInvalidTransition
}

func findOpportunity(row pgx.Row) (domain.Opportunity, error) {
	o, err := scanOpportunity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Opportunity{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Opportunity{}, err
	}
	return o, nil
}

func scanOpportunity(row pgx.Row) (domain.Opportunity, error) {
	var (
		o           domain.Opportunity
		serviceType string
		stage       string
		details     []byte
		estimated   string
		score       int
		temperature string
	)
	err := row.Scan(
		&o.ID, &o.ContactID, &serviceType, &o.PostalCode, &o.TrackingCode, &details,
		&o.Timeline, &o.Budget, &o.ContactPreference, &stage,
		&estimated, &score, &temperature, &o.Source, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Opportunity{}, err
		}
		return domain.Opportunity{}, fmt.Errorf("scan opportunity: %w", err)
	}

	o.ServiceType = domain.ServiceType(serviceType)
	o.Stage = domain.Stage(stage)
	if o.Details, err = decodeDetails(details, o.ServiceType); err != nil {
		return domain.Opportunity{}, err
	}
	if o.EstimatedValue, err = decimal.NewFromString(estimated); err != nil {
		return domain.Opportunity{}, fmt.Errorf("parse estimated value %q: %w", estimated, err)
	}
	if score >= 0 {
		o.Score = &score
	}
	if temperature != "" {
		o.Temperature = &temperature
	}
	return o, nil
}
