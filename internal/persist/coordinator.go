// Package persist bridges the wizard's in-memory drafts and the record
// store: the Coordinator turns a fully valid FormState into persisted
// records, and the Loader reconstructs a draft store from existing ones.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/openrentals/listingdesk/internal/draft"
	"github.com/openrentals/listingdesk/internal/event"
	"github.com/openrentals/listingdesk/internal/identity"
	"github.com/openrentals/listingdesk/internal/record"
	"github.com/openrentals/listingdesk/internal/wizard"
)

// Coordinator serializes validated drafts into record-store calls.
type Coordinator struct {
	records record.Store
	bus     event.Publisher
	log     zerolog.Logger
}

// NewCoordinator creates a Coordinator over the given record store.
func NewCoordinator(records record.Store, log zerolog.Logger) *Coordinator {
	return &Coordinator{records: records, log: log}
}

// SetPublisher attaches an event bus. Events are published after each
// successful persistence write.
func (c *Coordinator) SetPublisher(p event.Publisher) {
	c.bus = p
}

// CreateResult reports the identities generated by a create-mode
// submission.
type CreateResult struct {
	PropertyID string   `json:"property_id"`
	UnitIDs    []string `json:"unit_ids"`
	ListingIDs []string `json:"listing_ids"`
}

// Create persists a create-mode FormState: one property record, then the
// unit records as an unordered concurrent batch, then — after all units
// exist — the listing records, each tagged with the property id and with
// the unit id created at the same index (empty when no unit exists there).
//
// There is no rollback: a failure after the property is created leaves the
// already-created records in place, and the caller keeps the FormState so
// the user can retry.
func (c *Coordinator) Create(ctx context.Context, actor identity.Identity, data wizard.FormData) (CreateResult, error) {
	var res CreateResult

	propID, err := c.records.Create(ctx, record.CollectionProperties, PropertyRecord{
		LandlordID:    actor.ID,
		PropertyDraft: data.Property,
	})
	if err != nil {
		return res, fmt.Errorf("creating property: %w", err)
	}
	res.PropertyID = propID
	c.publish(ctx, "property.created", record.CollectionProperties, propID, actor)

	unitIDs := make([]string, len(data.Units))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range data.Units {
		g.Go(func() error {
			id, err := c.records.Create(gctx, record.CollectionUnits, UnitRecord{
				PropertyID: propID,
				LandlordID: actor.ID,
				UnitDraft:  u,
			})
			if err != nil {
				return fmt.Errorf("creating unit %d: %w", i, err)
			}
			unitIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logOrphan(propID, err)
		return res, err
	}
	res.UnitIDs = unitIDs
	for _, id := range unitIDs {
		c.publish(ctx, "unit.created", record.CollectionUnits, id, actor)
	}

	// Listings wait for the unit batch: their unit refs come from it.
	listingIDs := make([]string, len(data.Listings))
	g, gctx = errgroup.WithContext(ctx)
	for i, l := range data.Listings {
		unitID := ""
		if i < len(unitIDs) {
			unitID = unitIDs[i]
		}
		g.Go(func() error {
			id, err := c.records.Create(gctx, record.CollectionListings, ListingRecord{
				PropertyID:   propID,
				UnitID:       unitID,
				LandlordID:   actor.ID,
				ListingDraft: l,
			})
			if err != nil {
				return fmt.Errorf("creating listing %d: %w", i, err)
			}
			listingIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logOrphan(propID, err)
		return res, err
	}
	res.ListingIDs = listingIDs
	for _, id := range listingIDs {
		c.publish(ctx, "listing.created", record.CollectionListings, id, actor)
	}

	c.log.Info().
		Str("property_id", propID).
		Int("units", len(unitIDs)).
		Int("listings", len(listingIDs)).
		Msg("property submission committed")
	return res, nil
}

// UpdateProperty persists a property-edit FormState. Drafts carrying a
// record identity are updated in place; drafts added during the edit
// session are created and tagged with the property id, so no user input is
// silently dropped.
func (c *Coordinator) UpdateProperty(ctx context.Context, actor identity.Identity, data wizard.FormData) error {
	propID := data.Property.RecordID
	if propID == "" {
		return errors.New("property draft has no record identity")
	}

	err := c.records.Update(ctx, record.CollectionProperties, propID, PropertyRecord{
		LandlordID:    actor.ID,
		PropertyDraft: data.Property,
	})
	if err != nil {
		return fmt.Errorf("updating property %s: %w", propID, err)
	}
	c.publish(ctx, "property.updated", record.CollectionProperties, propID, actor)

	unitIDs := make([]string, len(data.Units))
	for i, u := range data.Units {
		rec := UnitRecord{PropertyID: propID, LandlordID: actor.ID, UnitDraft: u}
		if u.RecordID != "" {
			if err := c.records.Update(ctx, record.CollectionUnits, u.RecordID, rec); err != nil {
				return fmt.Errorf("updating unit %d: %w", i, err)
			}
			unitIDs[i] = u.RecordID
			c.publish(ctx, "unit.updated", record.CollectionUnits, u.RecordID, actor)
			continue
		}
		id, err := c.records.Create(ctx, record.CollectionUnits, rec)
		if err != nil {
			return fmt.Errorf("creating unit %d: %w", i, err)
		}
		unitIDs[i] = id
		c.publish(ctx, "unit.created", record.CollectionUnits, id, actor)
	}

	for i, l := range data.Listings {
		if l.RecordID != "" {
			rec := ListingRecord{
				PropertyID:   propID,
				UnitID:       l.UnitID, // assigned at first submission, kept as-is
				LandlordID:   actor.ID,
				ListingDraft: l,
			}
			if err := c.records.Update(ctx, record.CollectionListings, l.RecordID, rec); err != nil {
				return fmt.Errorf("updating listing %d: %w", i, err)
			}
			c.publish(ctx, "listing.updated", record.CollectionListings, l.RecordID, actor)
			continue
		}
		unitID := ""
		if i < len(unitIDs) {
			unitID = unitIDs[i]
		}
		id, err := c.records.Create(ctx, record.CollectionListings, ListingRecord{
			PropertyID:   propID,
			UnitID:       unitID,
			LandlordID:   actor.ID,
			ListingDraft: l,
		})
		if err != nil {
			return fmt.Errorf("creating listing %d: %w", i, err)
		}
		c.publish(ctx, "listing.created", record.CollectionListings, id, actor)
	}

	return nil
}

// UpdateListing persists a single-listing edit. Only the listing record is
// touched; the property is never mutated in this mode.
func (c *Coordinator) UpdateListing(ctx context.Context, actor identity.Identity, l draft.ListingDraft) error {
	if l.RecordID == "" {
		return errors.New("listing draft has no record identity")
	}
	err := c.records.Update(ctx, record.CollectionListings, l.RecordID, ListingRecord{
		PropertyID:   l.PropertyID,
		UnitID:       l.UnitID,
		LandlordID:   actor.ID,
		ListingDraft: l,
	})
	if err != nil {
		return fmt.Errorf("updating listing %s: %w", l.RecordID, err)
	}
	c.publish(ctx, "listing.updated", record.CollectionListings, l.RecordID, actor)
	return nil
}

func (c *Coordinator) publish(ctx context.Context, eventType, collection, recordID string, actor identity.Identity) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(ctx, event.Event{
		Type:       eventType,
		Collection: collection,
		RecordID:   recordID,
		Actor:      actor.ID,
		OccurredAt: time.Now(),
	})
}

func (c *Coordinator) logOrphan(propID string, err error) {
	c.log.Warn().Err(err).Str("property_id", propID).
		Msg("partial submission: property created without its full child set")
}
