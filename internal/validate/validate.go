// Package validate holds the pure field validators for wizard drafts.
// Each validator returns a structured error map mirroring the draft's
// shape; an empty map means the draft is valid. Validators never fail and
// never mutate their input.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/openrentals/listingdesk/internal/draft"
)

var (
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phoneRe = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	phoneStrip = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Property validates a property draft.
func Property(d draft.PropertyDraft) PropertyErrors {
	errs := PropertyErrors{
		Fields:   FieldErrors{},
		Address:  FieldErrors{},
		Location: FieldErrors{},
		Contact:  FieldErrors{},
		Lease:    FieldErrors{},
	}

	requireMinLen(errs.Fields, "name", "Name", d.Name, 3)
	requireMinLen(errs.Fields, "title", "Title", d.Title, 5)
	requireMinLen(errs.Fields, "description", "Description", d.Description, 20)
	requireString(errs.Fields, "property_type", "Property type", d.PropertyType)

	requireString(errs.Address, "line1", "Address line 1", d.Address.Line1)
	requireString(errs.Address, "city", "City", d.Address.City)
	requireString(errs.Address, "state", "State", d.Address.State)
	requireString(errs.Address, "country", "Country", d.Address.Country)
	if requireString(errs.Address, "postal_code", "ZIP code", d.Address.PostalCode) {
		if !zipRe.MatchString(strings.TrimSpace(d.Address.PostalCode)) {
			errs.Address.set("postal_code", "Invalid ZIP code format")
		}
	}

	validateLocation(errs.Location, d.Location)

	requireRange(errs.Fields, "bedrooms", "Bedrooms", float64(d.Bedrooms), 0, 10)
	requireRange(errs.Fields, "bathrooms", "Bathrooms", d.Bathrooms, 0, 10)
	if d.SquareFootage <= 0 {
		errs.Fields.set("square_footage", "Square footage must be greater than 0")
	} else {
		requireRange(errs.Fields, "square_footage", "Square footage", d.SquareFootage, 0, 10000)
	}
	if d.Rent <= 0 {
		errs.Fields.set("rent", "Rent must be greater than 0")
	} else {
		requireRange(errs.Fields, "rent", "Rent", d.Rent, 0, 50000)
	}
	if d.Rating < 1 || d.Rating > 5 {
		errs.Fields.set("rating", "Rating must be between 1 and 5")
	}

	validateAvailability(errs.Fields, d.IsAvailable, d.AvailableDate, true)

	requireRange(errs.Lease, "term_months", "Lease term", float64(d.Lease.TermMonths), 1, 36)
	if len(d.Lease.Options) == 0 {
		errs.Lease.set("options", "Select at least one lease term option")
	}
	requireRange(errs.Lease, "security_deposit_months", "Security deposit", float64(d.Lease.SecurityDepositMonths), 0, 6)

	validateContact(errs.Contact, d.Contact)

	return errs
}

// Unit validates a unit draft.
func Unit(d draft.UnitDraft) UnitErrors {
	errs := UnitErrors{
		Fields:  FieldErrors{},
		Contact: FieldErrors{},
		Lease:   FieldErrors{},
	}

	requireString(errs.Fields, "unit_number", "Unit number", d.UnitNumber)
	requireMinLen(errs.Fields, "description", "Description", d.Description, 10)

	requireRange(errs.Fields, "bedrooms", "Bedrooms", float64(d.Bedrooms), 0, 10)
	requireRange(errs.Fields, "bathrooms", "Bathrooms", d.Bathrooms, 0, 10)
	requireRange(errs.Fields, "square_footage", "Square footage", d.SquareFootage, 0, 10000)
	requireRange(errs.Fields, "rent", "Rent", d.Rent, 0, 50000)
	requireRange(errs.Fields, "deposit", "Deposit", d.Deposit, 0, 100000)

	validateAvailability(errs.Fields, d.IsAvailable, d.AvailableDate, false)

	requireRange(errs.Lease, "term_months", "Lease term", float64(d.Lease.TermMonths), 1, 36)
	requireRange(errs.Lease, "security_deposit_months", "Security deposit", float64(d.Lease.SecurityDepositMonths), 0, 6)

	validateContact(errs.Contact, d.Contact)

	return errs
}

// Listing validates a listing draft.
func Listing(d draft.ListingDraft) ListingErrors {
	errs := ListingErrors{
		Fields:  FieldErrors{},
		Contact: FieldErrors{},
		Lease:   FieldErrors{},
	}

	requireMinLen(errs.Fields, "title", "Title", d.Title, 5)
	requireMinLen(errs.Fields, "description", "Description", d.Description, 20)

	requireRange(errs.Fields, "bedrooms", "Bedrooms", float64(d.Bedrooms), 0, 10)
	requireRange(errs.Fields, "bathrooms", "Bathrooms", d.Bathrooms, 0, 10)
	requireRange(errs.Fields, "square_footage", "Square footage", d.SquareFootage, 0, 10000)
	requireRange(errs.Fields, "rent", "Rent", d.Rent, 0, 50000)
	requireRange(errs.Fields, "deposit", "Deposit", d.Deposit, 0, 100000)
	requireRange(errs.Fields, "pet_deposit", "Pet deposit", d.PetDeposit, 0, 10000)
	requireRange(errs.Fields, "application_fee", "Application fee", d.ApplicationFee, 0, 1000)

	if d.LeaseStart != nil && d.LeaseEnd != nil && !d.LeaseEnd.After(*d.LeaseStart) {
		errs.Fields.set("lease_end", "Lease end date must be after the start date")
	}

	validateAvailability(errs.Fields, d.IsAvailable, d.AvailableDate, false)

	requireRange(errs.Lease, "term_months", "Lease term", float64(d.Lease.TermMonths), 1, 36)
	requireRange(errs.Lease, "security_deposit_months", "Security deposit", float64(d.Lease.SecurityDepositMonths), 0, 6)

	validateContact(errs.Contact, d.Contact)

	return errs
}

func validateContact(errs FieldErrors, c draft.ContactDetails) {
	requireString(errs, "name", "Contact name", c.Name)
	if requireString(errs, "phone", "Phone", c.Phone) {
		if !phoneRe.MatchString(phoneStrip.Replace(strings.TrimSpace(c.Phone))) {
			errs.set("phone", "Invalid phone number format")
		}
	}
	if requireString(errs, "email", "Email", c.Email) {
		if !emailRe.MatchString(strings.TrimSpace(c.Email)) {
			errs.set("email", "Invalid email format")
		}
	}
}

func validateLocation(errs FieldErrors, g draft.GeoPoint) {
	if g.IsZero() {
		errs.set("lat", "Location is required")
		errs.set("lng", "Location is required")
		return
	}
	if g.Lat < -90 || g.Lat > 90 {
		errs.set("lat", "Latitude must be between -90 and 90 degrees")
	}
	if g.Lng < -180 || g.Lng > 180 {
		errs.set("lng", "Longitude must be between -180 and 180 degrees")
	}
}

// validateAvailability enforces the conditional available-date requirement.
// Properties additionally may not advertise a date already in the past.
func validateAvailability(errs FieldErrors, available bool, date *time.Time, rejectPast bool) {
	if !available {
		return
	}
	if date == nil {
		errs.set("available_date", "Available date is required when marked as available")
		return
	}
	if rejectPast {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			errs.set("available_date", "Available date cannot be in the past")
		}
	}
}

// requireString records a required-field error for blank values and reports
// whether the value was present.
func requireString(errs FieldErrors, key, label, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.set(key, label+" is required")
		return false
	}
	return true
}

func requireMinLen(errs FieldErrors, key, label, value string, min int) {
	if !requireString(errs, key, label, value) {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		errs.set(key, fmt.Sprintf("%s must be at least %d characters", label, min))
	}
}

func requireRange(errs FieldErrors, key, label string, value, min, max float64) {
	if value < min || value > max {
		errs.set(key, fmt.Sprintf("%s must be between %s and %s", label, num(min), num(max)))
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
