// Package record defines the persistence collaborator the wizard core
// talks to: a flat document store keyed by collection name and generated
// id. Payloads are opaque JSON documents; the store assigns identities and
// creation/update timestamps server-side and injects them into the
// document on read.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Collection names used by the wizard.
const (
	CollectionProperties = "properties"
	CollectionUnits      = "units"
	CollectionListings   = "listings"
)

// ErrNotFound is returned by Get and Update when no record matches.
var ErrNotFound = errors.New("record not found")

// Filter selects records by top-level payload field equality.
type Filter map[string]any

// Store is the abstract persistence collaborator.
type Store interface {
	// Create stores a new document and returns its generated id.
	Create(ctx context.Context, collection string, payload any) (string, error)
	// Update replaces the document's payload. The original creation
	// timestamp is preserved.
	Update(ctx context.Context, collection, id string, payload any) error
	// Get unmarshals the document (with id and timestamps injected) into
	// dest.
	Get(ctx context.Context, collection, id string, dest any) error
	// Query unmarshals all matching documents into dest, which must be a
	// pointer to a slice. Results are ordered by creation time.
	Query(ctx context.Context, collection string, filter Filter, dest any) error
}

// document is the stored form shared by implementations.
type document struct {
	ID        string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// render injects the server-assigned fields into the payload and returns
// the full document JSON.
func (d document) render() (json.RawMessage, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(d.Payload, &fields); err != nil {
		return nil, fmt.Errorf("decoding stored payload %s: %w", d.ID, err)
	}
	fields["id"] = d.ID
	fields["created_at"] = d.CreatedAt.Format(time.RFC3339Nano)
	fields["updated_at"] = d.UpdatedAt.Format(time.RFC3339Nano)
	return json.Marshal(fields)
}

// matches applies a filter against the raw payload. Filter values are
// normalized through JSON so callers can pass plain Go values.
func (d document) matches(filter Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	fields := map[string]any{}
	if err := json.Unmarshal(d.Payload, &fields); err != nil {
		return false, fmt.Errorf("decoding stored payload %s: %w", d.ID, err)
	}
	for key, want := range filter {
		got, ok := fields[key]
		if !ok {
			return false, nil
		}
		normalized, err := normalize(want)
		if err != nil {
			return false, err
		}
		// DeepEqual, not ==: decoded object and array values are not
		// comparable and would panic.
		if !reflect.DeepEqual(got, normalized) {
			return false, nil
		}
	}
	return true, nil
}

func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding filter value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeInto unmarshals a JSON array of rendered documents into dest.
func decodeInto(docs []json.RawMessage, dest any) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
