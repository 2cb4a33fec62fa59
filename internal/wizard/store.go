// Package wizard implements the listing wizard's draft store and step
// machine. The store is the sole mutator of a FormState: every change
// handler re-validates the touched entities, reruns propagation when the
// property draft changes, and recomputes derived step validity from the
// new snapshot. Handlers never fail — invalid input surfaces as populated
// error maps, never as a blocked mutation.
package wizard

import (
	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/propagate"
	"github.com/openrentals/listingdesk/internal/validate"
)

// Store owns one FormState. It is not safe for concurrent use; each wizard
// session wraps its store in its own lock.
type Store struct {
	state FormState
}

// NewStore creates a store around an empty create-mode FormState.
func NewStore() *Store {
	s := &Store{
		state: FormState{
			CurrentStep: StepProperty,
			Data: FormData{
				Property: draft.NewProperty(),
			},
			Status: make(map[Step]StepStatus),
		},
	}
	s.Revalidate()
	s.state.IsDirty = false
	return s
}

// Load creates a store pre-populated for edit mode and revalidates every
// step so the status flags reflect the fetched data.
func Load(data FormData, current Step) *Store {
	if !current.Valid() {
		current = StepProperty
	}
	s := &Store{
		state: FormState{
			CurrentStep: current,
			Data:        data,
			Status:      make(map[Step]StepStatus),
		},
	}
	s.Revalidate()
	s.state.IsDirty = false
	return s
}

// State returns the current snapshot. Callers must treat it as read-only.
func (s *Store) State() FormState {
	return s.state
}

// OnPropertyChange replaces the property draft, propagates shared config
// to the children, and recomputes validity for every step the change
// touched.
func (s *Store) OnPropertyChange(d draft.PropertyDraft) {
	old := s.state.Data.Property
	d.RecordID = old.RecordID // identity never changes through edits
	s.state.Data.Property = d

	units, listings, touched := propagate.Apply(old, d, s.state.Data.Units, s.state.Data.Listings)
	if touched {
		s.state.Data.Units = units
		s.state.Data.Listings = listings
		s.revalidateUnits()
		s.revalidateListings()
	}

	s.revalidateProperty()
	s.refreshReview()
	s.state.IsDirty = true
}

// OnUnitChange replaces the unit at index and recomputes the units step.
// An out-of-range index is a no-op.
func (s *Store) OnUnitChange(index int, d draft.UnitDraft) {
	if index < 0 || index >= len(s.state.Data.Units) {
		return
	}
	prev := s.state.Data.Units[index]
	d.RecordID = prev.RecordID
	d.PropertyID = prev.PropertyID
	s.state.Data.Units[index] = d
	s.revalidateUnits()
	s.refreshReview()
	s.state.IsDirty = true
}

// OnListingChange replaces the listing at index and recomputes the
// listings step. An out-of-range index is a no-op.
func (s *Store) OnListingChange(index int, d draft.ListingDraft) {
	if index < 0 || index >= len(s.state.Data.Listings) {
		return
	}
	prev := s.state.Data.Listings[index]
	d.RecordID = prev.RecordID
	d.PropertyID = prev.PropertyID
	d.UnitID = prev.UnitID
	s.state.Data.Listings[index] = d
	s.revalidateListings()
	s.refreshReview()
	s.state.IsDirty = true
}

// AddUnit appends a unit draft defaulted from the property's shared config
// and returns it.
func (s *Store) AddUnit() draft.UnitDraft {
	u := draft.NewUnit(s.state.Data.Property)
	s.state.Data.Units = append(s.state.Data.Units, u)
	s.revalidateUnits()
	s.refreshReview()
	s.state.IsDirty = true
	return u
}

// RemoveUnit deletes the unit at index. Removing the last unit is allowed;
// an empty list trivially satisfies the step.
func (s *Store) RemoveUnit(index int) {
	if index < 0 || index >= len(s.state.Data.Units) {
		return
	}
	s.state.Data.Units = append(s.state.Data.Units[:index], s.state.Data.Units[index+1:]...)
	s.revalidateUnits()
	s.refreshReview()
	s.state.IsDirty = true
}

// AddListing appends a listing draft defaulted from the property's shared
// config and returns it.
func (s *Store) AddListing() draft.ListingDraft {
	l := draft.NewListing(s.state.Data.Property)
	s.state.Data.Listings = append(s.state.Data.Listings, l)
	s.revalidateListings()
	s.refreshReview()
	s.state.IsDirty = true
	return l
}

// RemoveListing deletes the listing at index.
func (s *Store) RemoveListing(index int) {
	if index < 0 || index >= len(s.state.Data.Listings) {
		return
	}
	s.state.Data.Listings = append(s.state.Data.Listings[:index], s.state.Data.Listings[index+1:]...)
	s.revalidateListings()
	s.refreshReview()
	s.state.IsDirty = true
}

// SyncUnitAmenities applies the manual "sync with property" action to one
// unit.
func (s *Store) SyncUnitAmenities(index int) {
	if index < 0 || index >= len(s.state.Data.Units) {
		return
	}
	s.state.Data.Units[index] = propagate.SyncUnitAmenities(s.state.Data.Property, s.state.Data.Units[index])
	s.revalidateUnits()
	s.refreshReview()
	s.state.IsDirty = true
}

// SyncListingAmenities applies the manual "sync with property" action to
// one listing.
func (s *Store) SyncListingAmenities(index int) {
	if index < 0 || index >= len(s.state.Data.Listings) {
		return
	}
	s.state.Data.Listings[index] = propagate.SyncListingAmenities(s.state.Data.Property, s.state.Data.Listings[index])
	s.revalidateListings()
	s.refreshReview()
	s.state.IsDirty = true
}

// SetSubmitting flips the submitting flag. Cleared by the caller after a
// failed submission so the user can retry.
func (s *Store) SetSubmitting(submitting bool) {
	s.state.IsSubmitting = submitting
}

// Reset discards everything and returns the store to an empty create-mode
// state. Called after a successful create-mode submission.
func (s *Store) Reset() {
	*s = *NewStore()
}

// Revalidate recomputes every error map and step status from the current
// drafts.
func (s *Store) Revalidate() {
	s.revalidateProperty()
	s.revalidateUnits()
	s.revalidateListings()
	s.refreshReview()
}

func (s *Store) revalidateProperty() {
	errs := validate.Property(s.state.Data.Property)
	s.state.Errors.Property = errs
	s.setStatus(StepProperty, errs.Empty())
}

// revalidateUnits recomputes the aggregate units step: valid if the list
// is empty, or every unit individually passes.
func (s *Store) revalidateUnits() {
	errs := make([]validate.UnitErrors, len(s.state.Data.Units))
	valid := true
	for i, u := range s.state.Data.Units {
		errs[i] = validate.Unit(u)
		if !errs[i].Empty() {
			valid = false
		}
	}
	s.state.Errors.Units = errs
	s.setStatus(StepUnits, valid)
}

func (s *Store) revalidateListings() {
	errs := make([]validate.ListingErrors, len(s.state.Data.Listings))
	valid := true
	for i, l := range s.state.Data.Listings {
		errs[i] = validate.Listing(l)
		if !errs[i].Empty() {
			valid = false
		}
	}
	s.state.Errors.Listings = errs
	s.setStatus(StepListings, valid)
}

// refreshReview derives the review step from the other three.
func (s *Store) refreshReview() {
	valid := s.state.Status[StepProperty].Valid &&
		s.state.Status[StepUnits].Valid &&
		s.state.Status[StepListings].Valid
	s.setStatus(StepReview, valid)
}

func (s *Store) setStatus(step Step, valid bool) {
	s.state.Status[step] = StepStatus{Completed: valid, Valid: valid}
}
