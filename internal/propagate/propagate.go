// Package propagate keeps unit and listing drafts consistent with their
// parent property's shared configuration. When lease terms or amenities
// change at the property level, every child's copy is fully overwritten —
// a deliberate last-write-wins rule, not a merge. Child customizations do
// not survive a property-level edit of the same group.
package propagate

import "github.com/openrentals/listingdesk/internal/draft"

// LeaseChanged reports whether the shared lease-term fields differ.
func LeaseChanged(prev, next draft.PropertyDraft) bool {
	return !prev.Lease.Equal(next.Lease)
}

// AmenitiesChanged reports whether the amenity set differs, order included.
func AmenitiesChanged(prev, next draft.PropertyDraft) bool {
	if len(prev.Amenities) != len(next.Amenities) {
		return true
	}
	for i := range prev.Amenities {
		if prev.Amenities[i] != next.Amenities[i] {
			return true
		}
	}
	return false
}

// Apply compares the old and new property drafts and returns the unit and
// listing lists rewritten to match the new shared configuration. When
// nothing shared changed, the original slices are returned untouched so
// callers can skip re-validation via referential equality.
func Apply(prev, next draft.PropertyDraft, units []draft.UnitDraft, listings []draft.ListingDraft) ([]draft.UnitDraft, []draft.ListingDraft, bool) {
	leaseChanged := LeaseChanged(prev, next)
	amenitiesChanged := AmenitiesChanged(prev, next)
	if !leaseChanged && !amenitiesChanged {
		return units, listings, false
	}

	newUnits := make([]draft.UnitDraft, len(units))
	for i, u := range units {
		if leaseChanged {
			u = u.WithLease(next.Lease)
		}
		if amenitiesChanged {
			u = u.WithAmenities(next.Amenities)
		}
		newUnits[i] = u
	}

	newListings := make([]draft.ListingDraft, len(listings))
	for i, l := range listings {
		if leaseChanged {
			l = l.WithLease(next.Lease)
		}
		if amenitiesChanged {
			l = l.WithAmenities(next.Amenities)
		}
		newListings[i] = l
	}

	return newUnits, newListings, true
}

// SyncUnitAmenities is the manual per-child "sync with property" action:
// it overwrites one unit's amenity list on demand, independent of any
// property edit.
func SyncUnitAmenities(parent draft.PropertyDraft, u draft.UnitDraft) draft.UnitDraft {
	return u.WithAmenities(parent.Amenities)
}

// SyncListingAmenities overwrites one listing's amenity list on demand.
func SyncListingAmenities(parent draft.PropertyDraft, l draft.ListingDraft) draft.ListingDraft {
	return l.WithAmenities(parent.Amenities)
}
