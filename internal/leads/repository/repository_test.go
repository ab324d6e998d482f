package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"container_leads_backend/internal/leads/domain"
	"container_leads_backend/internal/leads/ports"
	"container_leads_backend/internal/pricing"
	"container_leads_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contactCols     = []string{"id", "name", "phone", "email", "company", "registered_at"}
	opportunityCols = []string{
		"id", "contact_id", "service_type", "postal_code", "tracking_code", "details",
		"timeline", "budget", "contact_preference", "stage",
		"estimated_value", "score", "temperature", "source", "created_at",
	}
	registered = time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

// The store's ON CONFLICT (phone) upsert is what keeps one contact per phone;
// the mock plays the store and returns the same row for both calls.
func TestContactCreateUpsertsByPhone(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)
	ctx := context.Background()
	id := uuid.New()

	first, err := domain.NewContact(domain.NewContactParams{Name: "Ana López", Phone: "6621234567"}, registered)
	require.NoError(t, err)
	second, err := domain.NewContact(domain.NewContactParams{Name: "Ana María López", Phone: "662-123-4567", Email: "ana@example.mx"}, registered.Add(time.Hour))
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO contacts").
		WithArgs("Ana López", "6621234567", "", "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(contactCols).AddRow(id, "Ana López", "6621234567", "", "", registered))
	mock.ExpectQuery("INSERT INTO contacts").
		WithArgs("Ana María López", "6621234567", "ana@example.mx", "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(contactCols).AddRow(id, "Ana María López", "6621234567", "ana@example.mx", "", registered))

	a, err := repo.Create(ctx, first)
	require.NoError(t, err)
	b, err := repo.Create(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "Ana María López", b.Name)
	assert.Equal(t, registered, b.RegisteredAt, "registration date is kept on update")
}

func TestContactFindByPhoneNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)

	mock.ExpectQuery("SELECT .* FROM contacts WHERE phone").
		WithArgs("6620000000").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByPhone(context.Background(), "6620000000")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestContactUpdatePhoneConflict(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)
	c := domain.Contact{ID: uuid.New(), Name: "Luis", Phone: "6629999999"}

	mock.ExpectQuery("UPDATE contacts").
		WithArgs(c.ID, "Luis", "6629999999", "", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "contacts_phone_key"})

	_, err := repo.Update(context.Background(), c)
	assert.ErrorIs(t, err, ports.ErrPhoneInUse)
}

func TestContactListFilters(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)
	after := registered.Add(-24 * time.Hour)

	mock.ExpectQuery(`FROM contacts WHERE \(name ILIKE \$1 OR phone ILIKE \$1 OR email ILIKE \$1\) AND registered_at > \$2 ORDER BY registered_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("%ana%", after, 50, 0).
		WillReturnRows(pgxmock.NewRows(contactCols).
			AddRow(uuid.New(), "Ana", "6621234567", "ana@example.mx", "", registered).
			AddRow(uuid.New(), "Mariana", "6627654321", "", "Bodegas MX", registered))

	got, err := repo.List(context.Background(), ports.ContactFilters{Search: " ana ", CreatedAfter: &after, Limit: 0, Offset: -3})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bodegas MX", got[1].Company)
}

func TestContactListClampsLimit(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)

	mock.ExpectQuery(`FROM contacts ORDER BY registered_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(200, 400).
		WillReturnRows(pgxmock.NewRows(contactCols))

	got, err := repo.List(context.Background(), ports.ContactFilters{Limit: 5000, Offset: 400})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func newStorageOpportunity(t *testing.T) domain.Opportunity {
	t.Helper()
	d := pricing.Months(6)
	o, err := domain.NewOpportunity(domain.NewOpportunityParams{
		ContactID:         uuid.New(),
		PostalCode:        "83000",
		TrackingCode:      "CNT-2026-00042",
		Details:           domain.StorageDetails{Size: "20ft", Duration: &d, Location: pricing.LocationWarehouse},
		ContactPreference: "whatsapp",
		EstimatedValue:    decimal.NewFromInt(24000),
	}, registered)
	require.NoError(t, err)
	return o
}

func TestOpportunityCreateScores(t *testing.T) {
	mock := newMock(t)
	repo := NewOpportunityRepository(mock, logger.Discard())
	o := newStorageOpportunity(t)
	id := uuid.New()

	mock.ExpectQuery("INSERT INTO opportunities").
		WithArgs(o.ContactID, "storage", "83000", "CNT-2026-00042", pgxmock.AnyArg(), "",
			"", "whatsapp", "new", "24000.00", "website", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, registered))
	mock.ExpectQuery("SELECT out_score, out_temperature FROM score_opportunity").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"out_score", "out_temperature"}).AddRow(72, "hot"))

	saved, err := repo.Create(context.Background(), o)
	require.NoError(t, err)

	assert.Equal(t, id, saved.ID)
	require.NotNil(t, saved.Score)
	assert.Equal(t, 72, *saved.Score)
	assert.Equal(t, "hot", *saved.Temperature)
}

func TestOpportunityCreateSurvivesScoringFailure(t *testing.T) {
	mock := newMock(t)
	repo := NewOpportunityRepository(mock, logger.Discard())
	o := newStorageOpportunity(t)
	id := uuid.New()

	mock.ExpectQuery("INSERT INTO opportunities").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, registered))
	mock.ExpectQuery("score_opportunity").
		WithArgs(id).
		WillReturnError(errors.New("function score_opportunity(uuid) does not exist"))

	saved, err := repo.Create(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, id, saved.ID)
	assert.Nil(t, saved.Score)
}

func TestOpportunityCreateTrackingConflict(t *testing.T) {
	mock := newMock(t)
	repo := NewOpportunityRepository(mock, logger.Discard())
	o := newStorageOpportunity(t)

	mock.ExpectQuery("INSERT INTO opportunities").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "opportunities_tracking_code_key"})

	_, err := repo.Create(context.Background(), o)
	assert.ErrorIs(t, err, ports.ErrTrackingCodeConflict)
}

func TestOpportunityFindByTrackingCodeDecodesDetails(t *testing.T) {
	mock := newMock(t)
	repo := NewOpportunityRepository(mock, logger.Discard())
	id, contactID := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM opportunities WHERE tracking_code").
		WithArgs("CNT-2026-00042").
		WillReturnRows(pgxmock.NewRows(opportunityCols).AddRow(
			id, contactID, "storage", "83000", "CNT-2026-00042",
			[]byte(`{"kind":"storage","size":"20ft","duration":"12+","location":"warehouse"}`),
			"", "", "whatsapp", "quoted",
			"27000.00", -1, "", "website", registered,
		))

	o, err := repo.FindByTrackingCode(context.Background(), "CNT-2026-00042")
	require.NoError(t, err)

	assert.Equal(t, domain.StageQuoted, o.Stage)
	assert.True(t, decimal.NewFromInt(27000).Equal(o.EstimatedValue))
	assert.Nil(t, o.Score)
	assert.Nil(t, o.Temperature)
	details, ok := o.Details.(domain.StorageDetails)
	require.True(t, ok, "got %T", o.Details)
	assert.Equal(t, "20ft", details.Size)
	require.NotNil(t, details.Duration)
	assert.True(t, details.Duration.OpenEnded)
}

func TestOpportunityUpdateStageNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewOpportunityRepository(mock, logger.Discard())
	id := uuid.New()

	mock.ExpectQuery("UPDATE opportunities").
		WithArgs(id, "qualified", "closed", "lost").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.UpdateStage(context.Background(), id, domain.StageQualified)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestOpportunityUpdateStageKeepsTerminalRows(t *testing.T) {
	mock := newMock(t)
	repo := NewOpportunityRepository(mock, logger.Discard())
	id := uuid.New()

	mock.ExpectQuery("WHERE id = \\$1 AND stage NOT IN \\(\\$3, \\$4\\)").
		WithArgs(id, "qualifying", "closed", "lost").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.UpdateStage(context.Background(), id, domain.StageQualifying)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOpportunityUpdateStageReturnsRow(t *testing.T) {
	mock := newMock(t)
	repo := NewOpportunityRepository(mock, logger.Discard())
	id, contactID := uuid.New(), uuid.New()

	mock.ExpectQuery("UPDATE opportunities").
		WithArgs(id, "closed", "closed", "lost").
		WillReturnRows(pgxmock.NewRows(opportunityCols).AddRow(
			id, contactID, "moving", "", "CNT-2026-00007",
			[]byte(`{"kind":"moving"}`),
			"", "", "", "closed",
			"8000.00", 72, "hot", "website", registered,
		))

	o, err := repo.UpdateStage(context.Background(), id, domain.StageClosed)
	require.NoError(t, err)
	assert.Equal(t, domain.StageClosed, o.Stage)
	require.NotNil(t, o.Score)
	assert.Equal(t, 72, *o.Score)
}

func TestEncodeDetailsAddsKind(t *testing.T) {
	raw, err := encodeDetails(domain.MovingDetails{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"moving"}`, string(raw))

	rooms := 3
	raw, err = encodeDetails(domain.CustomDetails{Rooms: &rooms, Description: "Oficina con terraza"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"custom","rooms":3,"description":"Oficina con terraza"}`, string(raw))

	decoded, err := decodeDetails(raw, domain.ServiceGeneralInquiry)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceCustom, decoded.ServiceType(), "discriminator wins over the fallback")
}

func TestDecodeDetailsEmptyUsesFallback(t *testing.T) {
	d, err := decodeDetails(nil, domain.ServiceMoving)
	require.NoError(t, err)
	assert.Equal(t, domain.MovingDetails{}, d)
}
