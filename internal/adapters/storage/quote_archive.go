package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"container_leads_backend/internal/leads/ports"
	"container_leads_backend/internal/pricing"
)

const snapshotContentType = "application/json"

// QuoteSnapshot is the archived document. It records exactly what the
// customer was shown at intake.
type QuoteSnapshot struct {
	TrackingCode string                 `json:"trackingCode"`
	CreatedAt    time.Time              `json:"createdAt"`
	Quote        pricing.QuoteBreakdown `json:"quote"`
}

// QuoteArchive writes quote snapshots to <year>/<trackingCode>.json.
type QuoteArchive struct {
	store  ObjectStore
	bucket string
}

var _ ports.QuoteArchive = (*QuoteArchive)(nil)

func NewQuoteArchive(store ObjectStore, bucket string) *QuoteArchive {
	return &QuoteArchive{store: store, bucket: bucket}
}

// SnapshotKey is the object key for a tracking code.
func SnapshotKey(trackingCode string, createdAt time.Time) string {
	return fmt.Sprintf("%04d/%s.json", createdAt.UTC().Year(), trackingCode)
}

func (a *QuoteArchive) ArchiveQuote(ctx context.Context, trackingCode string, createdAt time.Time, quote pricing.QuoteBreakdown) error {
	body, err := json.Marshal(QuoteSnapshot{
		TrackingCode: trackingCode,
		CreatedAt:    createdAt.UTC(),
		Quote:        quote,
	})
	if err != nil {
		return fmt.Errorf("marshal quote snapshot: %w", err)
	}
	return a.store.PutObject(ctx, a.bucket, SnapshotKey(trackingCode, createdAt), snapshotContentType, body)
}

// LoadQuote reads back the quote archived for trackingCode.
func (a *QuoteArchive) LoadQuote(ctx context.Context, trackingCode string, createdAt time.Time) (pricing.QuoteBreakdown, error) {
	snap, err := a.loadSnapshot(ctx, trackingCode, createdAt)
	if err != nil {
		return pricing.QuoteBreakdown{}, err
	}
	return snap.Quote, nil
}

func (a *QuoteArchive) loadSnapshot(ctx context.Context, trackingCode string, createdAt time.Time) (QuoteSnapshot, error) {
	rc, err := a.store.DownloadFile(ctx, a.bucket, SnapshotKey(trackingCode, createdAt))
	if errors.Is(err, ErrObjectNotFound) {
		return QuoteSnapshot{}, ports.ErrNotFound
	}
	if err != nil {
		return QuoteSnapshot{}, err
	}
	defer func() {
		_ = rc.Close()
	}()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return QuoteSnapshot{}, fmt.Errorf("read quote snapshot: %w", err)
	}
	var snap QuoteSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return QuoteSnapshot{}, fmt.Errorf("decode quote snapshot: %w", err)
	}
	if snap.TrackingCode != trackingCode {
		return QuoteSnapshot{}, fmt.Errorf("quote snapshot holds %q, want %q", snap.TrackingCode, trackingCode)
	}
	return snap, nil
}
