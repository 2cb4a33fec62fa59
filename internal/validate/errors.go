package validate

// FieldErrors maps a field key to its validation message. An empty map
// means the group is clean.
type FieldErrors map[string]string

// Empty reports whether the group has no errors.
func (f FieldErrors) Empty() bool { return len(f) == 0 }

func (f FieldErrors) set(key, message string) {
	if _, exists := f[key]; exists {
		return // first failure per field wins
	}
	f[key] = message
}

// PropertyErrors mirrors the property draft's shape: top-level scalar
// fields live under Fields, nested groups under their own map.
type PropertyErrors struct {
	Fields   FieldErrors `json:"fields,omitempty"`
	Address  FieldErrors `json:"address,omitempty"`
	Location FieldErrors `json:"location,omitempty"`
	Contact  FieldErrors `json:"contact,omitempty"`
	Lease    FieldErrors `json:"lease,omitempty"`
}

// Empty reports whether the property draft passed every rule.
func (e PropertyErrors) Empty() bool {
	return e.Fields.Empty() && e.Address.Empty() && e.Location.Empty() &&
		e.Contact.Empty() && e.Lease.Empty()
}

// UnitErrors mirrors the unit draft's shape.
type UnitErrors struct {
	Fields  FieldErrors `json:"fields,omitempty"`
	Contact FieldErrors `json:"contact,omitempty"`
	Lease   FieldErrors `json:"lease,omitempty"`
}

// Empty reports whether the unit draft passed every rule.
func (e UnitErrors) Empty() bool {
	return e.Fields.Empty() && e.Contact.Empty() && e.Lease.Empty()
}

// ListingErrors mirrors the listing draft's shape.
type ListingErrors struct {
	Fields  FieldErrors `json:"fields,omitempty"`
	Contact FieldErrors `json:"contact,omitempty"`
	Lease   FieldErrors `json:"lease,omitempty"`
}

// Empty reports whether the listing draft passed every rule.
func (e ListingErrors) Empty() bool {
	return e.Fields.Empty() && e.Contact.Empty() && e.Lease.Empty()
}
