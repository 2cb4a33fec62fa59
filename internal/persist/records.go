package persist

import "github.com/openrentals/listingdesk/internal/draft"

// PropertyRecord is the persisted document shape for a property. The
// draft's fields are embedded flat; identity and timestamps are assigned
// by the record store and read back on load.
type PropertyRecord struct {
	ID         string `json:"id,omitempty"`
	LandlordID string `json:"landlord_id"`
	draft.PropertyDraft
}

func (r PropertyRecord) toDraft() draft.PropertyDraft {
	d := r.PropertyDraft
	d.RecordID = r.ID
	return d
}

// UnitRecord is the persisted document shape for a unit.
type UnitRecord struct {
	ID         string `json:"id,omitempty"`
	PropertyID string `json:"property_id"`
	LandlordID string `json:"landlord_id"`
	draft.UnitDraft
}

func (r UnitRecord) toDraft() draft.UnitDraft {
	d := r.UnitDraft
	d.RecordID = r.ID
	d.PropertyID = r.PropertyID
	return d
}

// ListingRecord is the persisted document shape for a listing. UnitID is
// assigned once at submission time from the unit created at the same
// index, and never recomputed afterward.
type ListingRecord struct {
	ID         string `json:"id,omitempty"`
	PropertyID string `json:"property_id"`
	UnitID     string `json:"unit_id"`
	LandlordID string `json:"landlord_id"`
	draft.ListingDraft
}

func (r ListingRecord) toDraft() draft.ListingDraft {
	d := r.ListingDraft
	d.RecordID = r.ID
	d.PropertyID = r.PropertyID
	d.UnitID = r.UnitID
	return d
}
