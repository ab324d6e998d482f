package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestNewContactNormalizes(t *testing.T) {
	c, err := NewContact(NewContactParams{
		Name:  "  Ana   María  López ",
		Phone: "(662) 123-4567",
		Email: "  Ana.Lopez@Example.MX ",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "Ana María López", c.Name)
	assert.Equal(t, "6621234567", c.Phone)
	assert.Equal(t, "ana.lopez@example.mx", c.Email)
	assert.Equal(t, "Ana", c.FirstName())
	assert.False(t, c.Persisted())
}

func TestNewContactRejectsBrokenInvariants(t *testing.T) {
	_, err := NewContact(NewContactParams{Name: "   ", Phone: "6621234567"}, now)
	assert.ErrorIs(t, err, ErrContactNameRequired)

	_, err = NewContact(NewContactParams{Name: "Ana", Phone: "12345"}, now)
	assert.ErrorIs(t, err, ErrContactPhoneInvalid)

	_, err = NewContact(NewContactParams{Name: "Ana", Phone: "0621234567"}, now)
	assert.ErrorIs(t, err, ErrContactPhonePrefix)

	_, err = NewContact(NewContactParams{Name: "Ana", Phone: "(162) 123-4567"}, now)
	assert.ErrorIs(t, err, ErrContactPhonePrefix)
}

func TestNewOpportunityStartsAsNew(t *testing.T) {
	o, err := NewOpportunity(NewOpportunityParams{
		ContactID:      uuid.New(),
		TrackingCode:   "CNT-2026-00042",
		Details:        StandardModelDetails{Model: "casa-40"},
		EstimatedValue: decimal.NewFromInt(450000),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, StageNew, o.Stage)
	assert.Equal(t, ServiceStandardModel, o.ServiceType)
	assert.Equal(t, DefaultSource, o.Source)
}

func TestNewOpportunityGuards(t *testing.T) {
	_, err := NewOpportunity(NewOpportunityParams{TrackingCode: "CNT-2026-00001"}, now)
	assert.ErrorIs(t, err, ErrOpportunityContactMissing)

	_, err = NewOpportunity(NewOpportunityParams{ContactID: uuid.New()}, now)
	assert.ErrorIs(t, err, ErrTrackingCodeMissing)

	_, err = NewOpportunity(NewOpportunityParams{ContactID: uuid.New(), TrackingCode: "X-2026-00001", EstimatedValue: decimal.NewFromInt(-1)}, now)
	assert.ErrorIs(t, err, ErrNegativeEstimate)
}

func TestStageTransitions(t *testing.T) {
	assert.True(t, StageNew.CanTransitionTo(StageQuoted))
	assert.True(t, StageQuoted.CanTransitionTo(StageQualifying))
	assert.True(t, StageQualified.CanTransitionTo(StageLost))
	assert.False(t, StageClosed.CanTransitionTo(StageNew))
	assert.False(t, StageLost.CanTransitionTo(StageClosed))
	assert.True(t, StageLost.CanTransitionTo(StageLost))
	assert.False(t, StageNew.CanTransitionTo(Stage("archived")))

	s, ok := ParseStage(" Quoted ")
	assert.True(t, ok)
	assert.Equal(t, StageQuoted, s)
}

func TestParseBudget(t *testing.T) {
	cases := map[string]string{
		"150000":        "150000",
		"$150,000 MXN":  "150000",
		"200000-300000": "200000",
		"$ 75,500.50":   "75500.50",
	}
	for in, want := range cases {
		got, ok := ParseBudget(in)
		require.True(t, ok, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%s -> %s", in, got)
	}
	for _, bad := range []string{"", "a convenir", "-5"} {
		_, ok := ParseBudget(bad)
		assert.False(t, ok, bad)
	}
}

func TestRentalQuoteOnlyOnStorageVariants(t *testing.T) {
	assert.Nil(t, RentalQuote(MovingDetails{}))
	assert.Nil(t, RentalQuote(StorageDetails{}))
	assert.Equal(t, ServiceStorageAndMoving, EmptyDetails(ServiceStorageAndMoving).ServiceType())
	assert.Equal(t, ServiceGeneralInquiry, EmptyDetails("unknown").ServiceType())
}
