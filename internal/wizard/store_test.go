package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrentals/listingdesk/internal/draft"
)

func validProperty() draft.PropertyDraft {
	return draft.PropertyDraft{
		Name:        "Maple Court",
		Title:       "Maple Court Apartments",
		Description: "Bright two-story fourplex a short walk from the waterfront.",
		Address: draft.Address{
			Line1:      "12 Maple St",
			City:       "Portland",
			State:      "OR",
			PostalCode: "97204",
			Country:    "US",
		},
		Location:      draft.GeoPoint{Lat: 45.52, Lng: -122.68},
		Bedrooms:      2,
		Bathrooms:     1.5,
		SquareFootage: 950,
		PropertyType:  "apartment",
		Rent:          1800,
		Rating:        4.5,
		Amenities:     []string{"parking", "laundry"},
		Lease: draft.LeaseTerms{
			TermMonths:            12,
			Options:               []string{"12 months"},
			SecurityDepositMonths: 1,
		},
		Contact: draft.ContactDetails{
			Name:  "Dana Reeve",
			Phone: "+15035550188",
			Email: "dana@example.com",
		},
	}
}

func validUnit() draft.UnitDraft {
	return draft.UnitDraft{
		UnitNumber:    "2B",
		Description:   "Corner unit with morning light",
		Bedrooms:      1,
		Bathrooms:     1,
		SquareFootage: 700,
		Rent:          1500,
		Deposit:       1500,
		Lease:         draft.LeaseTerms{TermMonths: 12},
		Contact: draft.ContactDetails{
			Name:  "Dana Reeve",
			Phone: "+15035550188",
			Email: "dana@example.com",
		},
	}
}

func validListing() draft.ListingDraft {
	return draft.ListingDraft{
		Title:         "Sunny 1BR near downtown",
		Description:   "Sunny one-bedroom with a balcony and covered parking.",
		Bedrooms:      1,
		Bathrooms:     1,
		SquareFootage: 700,
		Rent:          1500,
		Deposit:       1500,
		Lease:         draft.LeaseTerms{TermMonths: 12},
		Contact: draft.ContactDetails{
			Name:  "Dana Reeve",
			Phone: "+15035550188",
			Email: "dana@example.com",
		},
	}
}

func TestNewStoreStartsCleanOnFirstStep(t *testing.T) {
	s := NewStore()
	state := s.State()

	assert.Equal(t, StepProperty, state.CurrentStep)
	assert.False(t, state.IsDirty)
	assert.False(t, state.IsSubmitting)
	assert.False(t, state.Status[StepProperty].Valid, "empty property draft cannot be valid")
	assert.True(t, state.Status[StepUnits].Valid, "empty unit list satisfies the step")
	assert.True(t, state.Status[StepListings].Valid, "empty listing list satisfies the step")
	assert.False(t, state.Status[StepReview].Valid)
}

func TestUnitsStepTracksWorstUnit(t *testing.T) {
	s := NewStore()
	s.OnPropertyChange(validProperty())

	assert.True(t, s.State().Status[StepUnits].Valid)

	s.AddUnit() // blank unit number and description
	assert.False(t, s.State().Status[StepUnits].Valid)

	s.OnUnitChange(0, validUnit())
	assert.True(t, s.State().Status[StepUnits].Valid)

	s.AddUnit()
	assert.False(t, s.State().Status[StepUnits].Valid, "one invalid unit fails the whole step")

	s.RemoveUnit(1)
	assert.True(t, s.State().Status[StepUnits].Valid)
}

func TestOnPropertyChangeMarksDirtyAndRevalidates(t *testing.T) {
	s := NewStore()
	s.OnPropertyChange(validProperty())

	state := s.State()
	assert.True(t, state.IsDirty)
	assert.True(t, state.Status[StepProperty].Valid)
	assert.True(t, state.Errors.Property.Empty())
	assert.True(t, state.Status[StepReview].Valid, "review derives from the other three")
}

func TestOnPropertyChangePropagatesSharedConfig(t *testing.T) {
	s := NewStore()
	prop := validProperty()
	s.OnPropertyChange(prop)
	s.AddUnit()
	s.AddListing()

	// Customize a child, then edit amenities at the property level.
	u := validUnit().WithAmenities([]string{"balcony"})
	s.OnUnitChange(0, u)

	prop = prop.WithAmenities([]string{"parking", "laundry", "gym"})
	s.OnPropertyChange(prop)

	state := s.State()
	assert.Equal(t, []string{"parking", "laundry", "gym"}, state.Data.Units[0].Amenities)
	assert.Equal(t, []string{"parking", "laundry", "gym"}, state.Data.Listings[0].Amenities)
}

func TestOnPropertyChangePreservesRecordIdentity(t *testing.T) {
	prop := validProperty()
	prop.RecordID = "prop-1"
	s := Load(FormData{Property: prop}, StepProperty)

	edited := validProperty() // no RecordID on the incoming payload
	edited.Name = "Maple Court North"
	s.OnPropertyChange(edited)

	assert.Equal(t, "prop-1", s.State().Data.Property.RecordID)
}

func TestOnUnitChangeIgnoresOutOfRangeIndex(t *testing.T) {
	s := NewStore()
	s.OnPropertyChange(validProperty())
	s.AddUnit()

	before := s.State()
	s.OnUnitChange(5, validUnit())
	s.OnUnitChange(-1, validUnit())
	assert.Equal(t, before.Data.Units, s.State().Data.Units)
}

func TestAddUnitInheritsSharedConfig(t *testing.T) {
	s := NewStore()
	prop := validProperty()
	s.OnPropertyChange(prop)

	u := s.AddUnit()
	assert.Equal(t, prop.Amenities, u.Amenities)
	assert.Equal(t, prop.Lease, u.Lease)
	assert.Equal(t, prop.Contact, u.Contact)

	l := s.AddListing()
	assert.Equal(t, prop.Amenities, l.Amenities)
	assert.Equal(t, prop.Lease, l.Lease)
}

func TestSyncUnitAmenitiesOverwritesOneUnit(t *testing.T) {
	s := NewStore()
	prop := validProperty()
	s.OnPropertyChange(prop)
	s.AddUnit()
	s.AddUnit()

	s.OnUnitChange(0, validUnit().WithAmenities([]string{"balcony"}))
	s.OnUnitChange(1, validUnit().WithAmenities([]string{"garage"}))

	s.SyncUnitAmenities(0)

	state := s.State()
	assert.Equal(t, prop.Amenities, state.Data.Units[0].Amenities)
	assert.Equal(t, []string{"garage"}, state.Data.Units[1].Amenities, "only the synced unit changes")
}

func TestReviewStepDerivesFromOthers(t *testing.T) {
	s := NewStore()
	assert.False(t, s.State().Status[StepReview].Valid)

	s.OnPropertyChange(validProperty())
	assert.True(t, s.State().Status[StepReview].Valid)

	s.AddListing() // blank listing invalidates the listings step
	assert.False(t, s.State().Status[StepReview].Valid)

	s.OnListingChange(0, validListing())
	assert.True(t, s.State().Status[StepReview].Valid)
}

func TestResetDiscardsEverything(t *testing.T) {
	s := NewStore()
	s.OnPropertyChange(validProperty())
	s.AddUnit()
	s.SetSubmitting(true)

	s.Reset()

	state := s.State()
	assert.Equal(t, StepProperty, state.CurrentStep)
	assert.Empty(t, state.Data.Units)
	assert.False(t, state.IsDirty)
	assert.False(t, state.IsSubmitting)
	assert.Equal(t, draft.NewProperty(), state.Data.Property)
}

func TestLoadRevalidatesFetchedData(t *testing.T) {
	prop := validProperty()
	prop.RecordID = "prop-1"
	u := validUnit()
	u.RecordID = "unit-1"

	s := Load(FormData{
		Property: prop,
		Units:    []draft.UnitDraft{u},
		Listings: []draft.ListingDraft{{}}, // invalid listing straight from the store
	}, StepListings)

	state := s.State()
	require.Equal(t, StepListings, state.CurrentStep)
	assert.False(t, state.IsDirty)
	assert.True(t, state.Status[StepProperty].Valid)
	assert.True(t, state.Status[StepUnits].Valid)
	assert.False(t, state.Status[StepListings].Valid)
	assert.False(t, state.Status[StepReview].Valid)
}

func TestLoadFallsBackToFirstStepOnUnknownStep(t *testing.T) {
	s := Load(FormData{Property: validProperty()}, Step("bogus"))
	assert.Equal(t, StepProperty, s.State().CurrentStep)
}
