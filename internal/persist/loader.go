package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/record"
	"github.com/openrentals/listingdesk/internal/wizard"
)

// Loader reconstructs a populated draft store for edit mode. Loaders never
// touch an existing store: a fresh one is returned on success, so a fetch
// failure leaves the caller's current store untouched.
type Loader struct {
	records record.Store
	log     zerolog.Logger
}

// NewLoader creates a Loader over the given record store.
func NewLoader(records record.Store, log zerolog.Logger) *Loader {
	return &Loader{records: records, log: log}
}

// LoadProperty fetches a property with all of its units and listings and
// rebuilds a draft store positioned at the first step, revalidated against
// the fetched data.
func (l *Loader) LoadProperty(ctx context.Context, propertyID string) (*wizard.Store, error) {
	var prop PropertyRecord
	if err := l.records.Get(ctx, record.CollectionProperties, propertyID, &prop); err != nil {
		return nil, fmt.Errorf("loading property %s: %w", propertyID, err)
	}

	var unitRecs []UnitRecord
	if err := l.records.Query(ctx, record.CollectionUnits, record.Filter{"property_id": propertyID}, &unitRecs); err != nil {
		return nil, fmt.Errorf("loading units for property %s: %w", propertyID, err)
	}

	var listingRecs []ListingRecord
	if err := l.records.Query(ctx, record.CollectionListings, record.Filter{"property_id": propertyID}, &listingRecs); err != nil {
		return nil, fmt.Errorf("loading listings for property %s: %w", propertyID, err)
	}

	data := wizard.FormData{
		Property: prop.toDraft(),
		Units:    make([]draft.UnitDraft, len(unitRecs)),
		Listings: make([]draft.ListingDraft, len(listingRecs)),
	}
	for i, rec := range unitRecs {
		data.Units[i] = rec.toDraft()
	}
	for i, rec := range listingRecs {
		data.Listings[i] = rec.toDraft()
	}

	l.log.Info().
		Str("property_id", propertyID).
		Int("units", len(unitRecs)).
		Int("listings", len(listingRecs)).
		Msg("property loaded for editing")
	return wizard.Load(data, wizard.StepProperty), nil
}

// LoadListing fetches one listing plus its parent property and rebuilds a
// draft store holding just that listing, positioned directly on the
// listings step. The unit list stays empty — only the listing is being
// edited.
func (l *Loader) LoadListing(ctx context.Context, listingID string) (*wizard.Store, error) {
	var rec ListingRecord
	if err := l.records.Get(ctx, record.CollectionListings, listingID, &rec); err != nil {
		return nil, fmt.Errorf("loading listing %s: %w", listingID, err)
	}

	var prop PropertyRecord
	if err := l.records.Get(ctx, record.CollectionProperties, rec.PropertyID, &prop); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, fmt.Errorf("property not found for listing %s: %w", listingID, err)
		}
		return nil, fmt.Errorf("loading property for listing %s: %w", listingID, err)
	}

	data := wizard.FormData{
		Property: prop.toDraft(),
		Listings: []draft.ListingDraft{rec.toDraft()},
	}

	l.log.Info().
		Str("listing_id", listingID).
		Str("property_id", rec.PropertyID).
		Msg("listing loaded for editing")
	return wizard.Load(data, wizard.StepListings), nil
}
