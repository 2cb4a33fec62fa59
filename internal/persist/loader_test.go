package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/record"
	"github.com/openrentals/listingdesk/internal/wizard"
)

func seedProperty(t *testing.T, store record.Store) string {
	t.Helper()
	id, err := store.Create(context.Background(), record.CollectionProperties, PropertyRecord{
		LandlordID: "landlord-1",
		PropertyDraft: draft.PropertyDraft{
			Name:        "Maple Court",
			Title:       "Maple Court Apartments",
			Description: "Bright two-story fourplex a short walk from the waterfront.",
			Address: draft.Address{
				Line1: "12 Maple St", City: "Portland", State: "OR",
				PostalCode: "97204", Country: "US",
			},
			Location:      draft.GeoPoint{Lat: 45.52, Lng: -122.68},
			Bedrooms:      2,
			Bathrooms:     1.5,
			SquareFootage: 950,
			PropertyType:  "apartment",
			Rent:          1800,
			Rating:        4.5,
			Lease: draft.LeaseTerms{
				TermMonths: 12, Options: []string{"12 months"}, SecurityDepositMonths: 1,
			},
			Contact: draft.ContactDetails{
				Name: "Dana Reeve", Phone: "+15035550188", Email: "dana@example.com",
			},
		},
	})
	require.NoError(t, err)
	return id
}

func TestLoadPropertyRebuildsTheWizard(t *testing.T) {
	ctx := context.Background()
	store := record.NewMemoryStore()
	propID := seedProperty(t, store)

	unitID, err := store.Create(ctx, record.CollectionUnits, UnitRecord{
		PropertyID: propID,
		LandlordID: "landlord-1",
		UnitDraft: draft.UnitDraft{
			UnitNumber:  "2B",
			Description: "Corner unit with morning light",
			Bedrooms:    1, Bathrooms: 1, SquareFootage: 700,
			Rent: 1500, Deposit: 1500,
			Lease:   draft.LeaseTerms{TermMonths: 12},
			Contact: draft.ContactDetails{Name: "Dana Reeve", Phone: "+15035550188", Email: "dana@example.com"},
		},
	})
	require.NoError(t, err)

	listingID, err := store.Create(ctx, record.CollectionListings, ListingRecord{
		PropertyID: propID,
		UnitID:     unitID,
		LandlordID: "landlord-1",
		ListingDraft: draft.ListingDraft{
			Title:       "Sunny 1BR near downtown",
			Description: "Sunny one-bedroom with a balcony and covered parking.",
			Bedrooms:    1, Bathrooms: 1, SquareFootage: 700,
			Rent: 1500, Deposit: 1500,
			Lease:   draft.LeaseTerms{TermMonths: 12},
			Contact: draft.ContactDetails{Name: "Dana Reeve", Phone: "+15035550188", Email: "dana@example.com"},
		},
	})
	require.NoError(t, err)

	// A unit belonging to a different property must not be picked up.
	otherProp := seedProperty(t, store)
	_, err = store.Create(ctx, record.CollectionUnits, UnitRecord{
		PropertyID: otherProp,
		LandlordID: "landlord-1",
		UnitDraft:  draft.UnitDraft{UnitNumber: "9Z", Description: "elsewhere entirely"},
	})
	require.NoError(t, err)

	loader := NewLoader(store, zerolog.Nop())
	wiz, err := loader.LoadProperty(ctx, propID)
	require.NoError(t, err)

	state := wiz.State()
	assert.Equal(t, wizard.StepProperty, state.CurrentStep)
	assert.False(t, state.IsDirty)
	assert.Equal(t, propID, state.Data.Property.RecordID)
	assert.Equal(t, "Maple Court", state.Data.Property.Name)

	require.Len(t, state.Data.Units, 1)
	assert.Equal(t, unitID, state.Data.Units[0].RecordID)
	assert.Equal(t, propID, state.Data.Units[0].PropertyID)

	require.Len(t, state.Data.Listings, 1)
	assert.Equal(t, listingID, state.Data.Listings[0].RecordID)
	assert.Equal(t, unitID, state.Data.Listings[0].UnitID)

	// Fetched data is revalidated, so the statuses reflect it immediately.
	assert.True(t, state.Status[wizard.StepProperty].Valid)
	assert.True(t, state.Status[wizard.StepUnits].Valid)
	assert.True(t, state.Status[wizard.StepListings].Valid)
	assert.True(t, state.Status[wizard.StepReview].Valid)
}

func TestLoadPropertyNotFound(t *testing.T) {
	loader := NewLoader(record.NewMemoryStore(), zerolog.Nop())

	wiz, err := loader.LoadProperty(context.Background(), "missing")
	assert.Nil(t, wiz)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestLoadListingPositionsOnListingsStep(t *testing.T) {
	ctx := context.Background()
	store := record.NewMemoryStore()
	propID := seedProperty(t, store)

	listingID, err := store.Create(ctx, record.CollectionListings, ListingRecord{
		PropertyID: propID,
		UnitID:     "unit-1",
		LandlordID: "landlord-1",
		ListingDraft: draft.ListingDraft{
			Title:       "Sunny 1BR near downtown",
			Description: "Sunny one-bedroom with a balcony and covered parking.",
			Bedrooms:    1, Bathrooms: 1, SquareFootage: 700,
			Rent: 1500, Deposit: 1500,
			Lease:   draft.LeaseTerms{TermMonths: 12},
			Contact: draft.ContactDetails{Name: "Dana Reeve", Phone: "+15035550188", Email: "dana@example.com"},
		},
	})
	require.NoError(t, err)

	loader := NewLoader(store, zerolog.Nop())
	wiz, err := loader.LoadListing(ctx, listingID)
	require.NoError(t, err)

	state := wiz.State()
	assert.Equal(t, wizard.StepListings, state.CurrentStep)
	assert.Equal(t, propID, state.Data.Property.RecordID)
	assert.Empty(t, state.Data.Units, "only the listing is being edited")

	require.Len(t, state.Data.Listings, 1)
	assert.Equal(t, listingID, state.Data.Listings[0].RecordID)
	assert.Equal(t, propID, state.Data.Listings[0].PropertyID)
	assert.Equal(t, "unit-1", state.Data.Listings[0].UnitID)
}

func TestLoadListingWithMissingParentProperty(t *testing.T) {
	ctx := context.Background()
	store := record.NewMemoryStore()

	listingID, err := store.Create(ctx, record.CollectionListings, ListingRecord{
		PropertyID:   "ghost",
		LandlordID:   "landlord-1",
		ListingDraft: draft.ListingDraft{Title: "Orphaned listing"},
	})
	require.NoError(t, err)

	loader := NewLoader(store, zerolog.Nop())
	wiz, err := loader.LoadListing(ctx, listingID)
	assert.Nil(t, wiz)
	require.Error(t, err)
	assert.True(t, errors.Is(err, record.ErrNotFound))
	assert.Contains(t, err.Error(), "property not found")
}
