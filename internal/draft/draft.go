// Package draft defines the in-memory entity shapes edited by the listing
// wizard. Drafts are value types: update helpers return a modified copy and
// never mutate the receiver, so the wizard store can compare old and new
// snapshots when deciding what to propagate.
package draft

import "time"

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the point has never been set.
func (g GeoPoint) IsZero() bool {
	return g.Lat == 0 && g.Lng == 0
}

// Address is a US postal address.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"` // 2-letter state code
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"` // ISO 3166-1 alpha-2
}

// ContactDetails identifies who to reach about a property, unit or listing.
type ContactDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// LeaseTerms are the lease-related defaults shared between a property and
// its child drafts. A property-level edit fully overwrites the children's
// copies (see the propagate package).
type LeaseTerms struct {
	TermMonths            int      `json:"term_months"`
	Options               []string `json:"options"` // offered lease-term labels, e.g. "12 months"
	SecurityDepositMonths int      `json:"security_deposit_months"`
	FirstMonthRequired    bool     `json:"first_month_required"`
	LastMonthRequired     bool     `json:"last_month_required"`
}

// Equal reports structural equality, including option order.
func (lt LeaseTerms) Equal(other LeaseTerms) bool {
	if lt.TermMonths != other.TermMonths ||
		lt.SecurityDepositMonths != other.SecurityDepositMonths ||
		lt.FirstMonthRequired != other.FirstMonthRequired ||
		lt.LastMonthRequired != other.LastMonthRequired {
		return false
	}
	return stringsEqual(lt.Options, other.Options)
}

// Clone returns a deep copy so child drafts never alias the parent's slice.
func (lt LeaseTerms) Clone() LeaseTerms {
	out := lt
	out.Options = cloneStrings(lt.Options)
	return out
}

// PropertyDraft is the parent entity of the wizard.
type PropertyDraft struct {
	// RecordID is the persisted identity, set only in edit mode.
	RecordID string `json:"-"`

	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Address  Address  `json:"address"`
	Location GeoPoint `json:"location"`

	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	SquareFootage float64 `json:"square_footage"`
	PropertyType  string  `json:"property_type"`

	Rent   float64 `json:"rent"`
	Rating float64 `json:"rating"`

	IsAvailable   bool       `json:"is_available"`
	AvailableDate *time.Time `json:"available_date,omitempty"`

	Amenities []string       `json:"amenities"`
	Lease     LeaseTerms     `json:"lease"`
	Contact   ContactDetails `json:"contact"`

	SocialHandles map[string]string `json:"social_handles,omitempty"`
	Images        []string          `json:"images"`
}

// UnitDraft is one rentable unit inside a property. The property foreign key
// is assigned at submission time, never while drafting.
type UnitDraft struct {
	RecordID   string `json:"-"`
	PropertyID string `json:"-"` // set by the edit-mode loader only

	UnitNumber  string `json:"unit_number"`
	Description string `json:"description"`

	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	SquareFootage float64 `json:"square_footage"`

	Rent    float64 `json:"rent"`
	Deposit float64 `json:"deposit"`

	IsAvailable   bool       `json:"is_available"`
	AvailableDate *time.Time `json:"available_date,omitempty"`

	Amenities []string       `json:"amenities"`
	Lease     LeaseTerms     `json:"lease"`
	Contact   ContactDetails `json:"contact"`

	Images    []string `json:"images"`
	FloorPlan string   `json:"floor_plan,omitempty"`
}

// ListingDraft is the public-facing advertisement derived from a unit.
type ListingDraft struct {
	RecordID   string `json:"-"`
	PropertyID string `json:"-"` // set by the edit-mode loader only
	UnitID     string `json:"-"` // assigned once at submission, never recomputed

	Title       string `json:"title"`
	Description string `json:"description"`

	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	SquareFootage float64 `json:"square_footage"`

	Rent    float64 `json:"rent"`
	Deposit float64 `json:"deposit"`

	IsAvailable   bool       `json:"is_available"`
	AvailableDate *time.Time `json:"available_date,omitempty"`

	LeaseStart *time.Time `json:"lease_start,omitempty"`
	LeaseEnd   *time.Time `json:"lease_end,omitempty"`

	PetDeposit     float64 `json:"pet_deposit"`
	ApplicationFee float64 `json:"application_fee"`

	Amenities []string       `json:"amenities"`
	Lease     LeaseTerms     `json:"lease"`
	Contact   ContactDetails `json:"contact"`

	Images []string `json:"images"`
}

// NewProperty returns an empty property draft with sane lease defaults.
func NewProperty() PropertyDraft {
	return PropertyDraft{
		Lease: LeaseTerms{TermMonths: 12},
	}
}

// NewUnit returns a unit draft inheriting the parent's amenities and lease
// terms, per the wizard's add-entry defaulting rule.
func NewUnit(parent PropertyDraft) UnitDraft {
	return UnitDraft{
		Amenities: cloneStrings(parent.Amenities),
		Lease:     parent.Lease.Clone(),
		Contact:   parent.Contact,
	}
}

// NewListing returns a listing draft inheriting the parent's shared config.
func NewListing(parent PropertyDraft) ListingDraft {
	return ListingDraft{
		Amenities: cloneStrings(parent.Amenities),
		Lease:     parent.Lease.Clone(),
		Contact:   parent.Contact,
	}
}

// WithAddress returns a copy of the draft with the address replaced.
func (p PropertyDraft) WithAddress(a Address) PropertyDraft {
	p.Address = a
	return p
}

// WithLocation returns a copy of the draft with the geocoordinate replaced.
func (p PropertyDraft) WithLocation(g GeoPoint) PropertyDraft {
	p.Location = g
	return p
}

// WithContact returns a copy of the draft with the contact details replaced.
func (p PropertyDraft) WithContact(c ContactDetails) PropertyDraft {
	p.Contact = c
	return p
}

// WithLease returns a copy of the draft with the lease terms replaced.
func (p PropertyDraft) WithLease(lt LeaseTerms) PropertyDraft {
	p.Lease = lt.Clone()
	return p
}

// WithAmenities returns a copy of the draft with the amenity set replaced.
func (p PropertyDraft) WithAmenities(amenities []string) PropertyDraft {
	p.Amenities = cloneStrings(amenities)
	return p
}

// WithLease returns a copy of the unit with the lease terms replaced.
func (u UnitDraft) WithLease(lt LeaseTerms) UnitDraft {
	u.Lease = lt.Clone()
	return u
}

// WithAmenities returns a copy of the unit with the amenity set replaced.
func (u UnitDraft) WithAmenities(amenities []string) UnitDraft {
	u.Amenities = cloneStrings(amenities)
	return u
}

// WithLease returns a copy of the listing with the lease terms replaced.
func (l ListingDraft) WithLease(lt LeaseTerms) ListingDraft {
	l.Lease = lt.Clone()
	return l
}

// WithAmenities returns a copy of the listing with the amenity set replaced.
func (l ListingDraft) WithAmenities(amenities []string) ListingDraft {
	l.Amenities = cloneStrings(amenities)
	return l
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
