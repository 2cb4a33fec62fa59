package validate

import (
	"testing"
	"time"

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
			Phone: "+1 (503) 555-0188",
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
		Lease: draft.LeaseTerms{
			TermMonths:            12,
			SecurityDepositMonths: 1,
		},
		Contact: draft.ContactDetails{
			Name:  "Dana Reeve",
			Phone: "503-555-0188",
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
		PetDeposit:    300,
		Lease: draft.LeaseTerms{
			TermMonths:            12,
			SecurityDepositMonths: 1,
		},
		Contact: draft.ContactDetails{
			Name:  "Dana Reeve",
			Phone: "5035550188",
			Email: "dana@example.com",
		},
	}
}

func TestPropertyValidDraftHasNoErrors(t *testing.T) {
	errs := Property(validProperty())
	assert.True(t, errs.Empty(), "unexpected errors: %+v", errs)
}

func TestPropertyValidationIsDeterministic(t *testing.T) {
	d := validProperty()
	d.Name = ""
	d.Rating = 0
	d.Address.PostalCode = "bogus"

	first := Property(d)
	second := Property(d)
	require.False(t, first.Empty())
	assert.Equal(t, first, second)
}

func TestPropertyRequiredFields(t *testing.T) {
	errs := Property(draft.PropertyDraft{})
	assert.Equal(t, "Name is required", errs.Fields["name"])
	assert.Equal(t, "Title is required", errs.Fields["title"])
	assert.Equal(t, "Description is required", errs.Fields["description"])
	assert.Equal(t, "Property type is required", errs.Fields["property_type"])
	assert.Equal(t, "Address line 1 is required", errs.Address["line1"])
	assert.Equal(t, "ZIP code is required", errs.Address["postal_code"])
	assert.Equal(t, "Location is required", errs.Location["lat"])
	assert.Equal(t, "Location is required", errs.Location["lng"])
	assert.Equal(t, "Contact name is required", errs.Contact["name"])
}

func TestPropertyMinLengths(t *testing.T) {
	d := validProperty()
	d.Name = "ab"
	d.Title = "tiny"
	d.Description = "too short"

	errs := Property(d)
	assert.Equal(t, "Name must be at least 3 characters", errs.Fields["name"])
	assert.Equal(t, "Title must be at least 5 characters", errs.Fields["title"])
	assert.Equal(t, "Description must be at least 20 characters", errs.Fields["description"])
}

func TestPropertyMinLengthCountsCharactersNotBytes(t *testing.T) {
	d := validProperty()

	d.Name = "Áñé" // three characters, six bytes
	assert.NotContains(t, Property(d).Fields, "name")

	d.Name = "Áñ"
	assert.Equal(t, "Name must be at least 3 characters", Property(d).Fields["name"])
}

func TestPropertyZIPFormat(t *testing.T) {
	d := validProperty()

	for _, zip := range []string{"97204", "97204-1234"} {
		d.Address.PostalCode = zip
		assert.NotContains(t, Property(d).Address, "postal_code", "zip %q", zip)
	}
	for _, zip := range []string{"9410", "972044", "abcde", "97204-12"} {
		d.Address.PostalCode = zip
		assert.Equal(t, "Invalid ZIP code format", Property(d).Address["postal_code"], "zip %q", zip)
	}
}

func TestPropertyRatingRange(t *testing.T) {
	d := validProperty()

	d.Rating = 6
	assert.Equal(t, "Rating must be between 1 and 5", Property(d).Fields["rating"])

	d.Rating = 0
	assert.Equal(t, "Rating must be between 1 and 5", Property(d).Fields["rating"])

	for _, r := range []float64{1, 3.5, 5} {
		d.Rating = r
		assert.NotContains(t, Property(d).Fields, "rating", "rating %v", r)
	}
}

func TestPropertyLocationBounds(t *testing.T) {
	d := validProperty()

	d.Location = draft.GeoPoint{Lat: 95, Lng: -122.68}
	errs := Property(d)
	assert.Equal(t, "Latitude must be between -90 and 90 degrees", errs.Location["lat"])
	assert.NotContains(t, errs.Location, "lng")

	d.Location = draft.GeoPoint{Lat: 45.52, Lng: 181}
	errs = Property(d)
	assert.Equal(t, "Longitude must be between -180 and 180 degrees", errs.Location["lng"])
	assert.NotContains(t, errs.Location, "lat")
}

func TestPropertyRentAndSquareFootage(t *testing.T) {
	d := validProperty()

	d.Rent = 0
	assert.Equal(t, "Rent must be greater than 0", Property(d).Fields["rent"])
	d.Rent = 60000
	assert.Equal(t, "Rent must be between 0 and 50000", Property(d).Fields["rent"])
	d.Rent = 1800

	d.SquareFootage = 0
	assert.Equal(t, "Square footage must be greater than 0", Property(d).Fields["square_footage"])
	d.SquareFootage = 20000
	assert.Equal(t, "Square footage must be between 0 and 10000", Property(d).Fields["square_footage"])
}

func TestPropertyAvailableDateConditional(t *testing.T) {
	d := validProperty()

	d.IsAvailable = false
	d.AvailableDate = nil
	assert.NotContains(t, Property(d).Fields, "available_date")

	d.IsAvailable = true
	assert.Equal(t, "Available date is required when marked as available",
		Property(d).Fields["available_date"])

	future := time.Now().AddDate(0, 1, 0)
	d.AvailableDate = &future
	assert.NotContains(t, Property(d).Fields, "available_date")

	past := time.Now().AddDate(0, 0, -2)
	d.AvailableDate = &past
	assert.Equal(t, "Available date cannot be in the past", Property(d).Fields["available_date"])
}

func TestPropertyLeaseRules(t *testing.T) {
	d := validProperty()

	d.Lease.TermMonths = 0
	d.Lease.Options = nil
	d.Lease.SecurityDepositMonths = 7

	errs := Property(d)
	assert.Equal(t, "Lease term must be between 1 and 36", errs.Lease["term_months"])
	assert.Equal(t, "Select at least one lease term option", errs.Lease["options"])
	assert.Equal(t, "Security deposit must be between 0 and 6", errs.Lease["security_deposit_months"])
}

func TestContactFormats(t *testing.T) {
	d := validProperty()

	d.Contact.Phone = "not a phone"
	d.Contact.Email = "not-an-email"
	errs := Property(d)
	assert.Equal(t, "Invalid phone number format", errs.Contact["phone"])
	assert.Equal(t, "Invalid email format", errs.Contact["email"])

	d.Contact.Phone = "+1 (503) 555-0188"
	d.Contact.Email = "dana@example.com"
	assert.True(t, Property(d).Contact.Empty())
}

func TestUnitValidDraftHasNoErrors(t *testing.T) {
	errs := Unit(validUnit())
	assert.True(t, errs.Empty(), "unexpected errors: %+v", errs)
}

func TestUnitRequiredFields(t *testing.T) {
	errs := Unit(draft.UnitDraft{})
	assert.Equal(t, "Unit number is required", errs.Fields["unit_number"])
	assert.Equal(t, "Description is required", errs.Fields["description"])
}

func TestUnitDescriptionMinLength(t *testing.T) {
	d := validUnit()
	d.Description = "short"
	assert.Equal(t, "Description must be at least 10 characters", Unit(d).Fields["description"])
}

func TestUnitLeaseOptionsNotRequired(t *testing.T) {
	d := validUnit()
	d.Lease.Options = nil
	assert.NotContains(t, Unit(d).Lease, "options")
}

func TestUnitAvailableDateNotCheckedAgainstPast(t *testing.T) {
	d := validUnit()
	d.IsAvailable = true
	d.AvailableDate = nil
	assert.Equal(t, "Available date is required when marked as available",
		Unit(d).Fields["available_date"])

	past := time.Now().AddDate(0, 0, -30)
	d.AvailableDate = &past
	assert.NotContains(t, Unit(d).Fields, "available_date")
}

func TestListingValidDraftHasNoErrors(t *testing.T) {
	errs := Listing(validListing())
	assert.True(t, errs.Empty(), "unexpected errors: %+v", errs)
}

func TestListingLeaseDates(t *testing.T) {
	d := validListing()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	end := start.AddDate(1, 0, 0)
	d.LeaseStart, d.LeaseEnd = &start, &end
	assert.NotContains(t, Listing(d).Fields, "lease_end")

	d.LeaseEnd = &start
	assert.Equal(t, "Lease end date must be after the start date", Listing(d).Fields["lease_end"])

	before := start.AddDate(0, -1, 0)
	d.LeaseEnd = &before
	assert.Equal(t, "Lease end date must be after the start date", Listing(d).Fields["lease_end"])
}

func TestListingFeeRanges(t *testing.T) {
	d := validListing()

	d.PetDeposit = 10001
	assert.Equal(t, "Pet deposit must be between 0 and 10000", Listing(d).Fields["pet_deposit"])
	d.PetDeposit = 300

	d.ApplicationFee = 1500
	assert.Equal(t, "Application fee must be between 0 and 1000", Listing(d).Fields["application_fee"])
}
