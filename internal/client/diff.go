package client

// FieldChange is a single field-level delta between two flattened records.
// Old or New is "" when the field was added or cleared.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Diff computes the field-level delta between two flattened records of the
// same variant. Every field whose serialized values differ appears exactly
// once, in registry order (shared fields first); unchanged fields never
// appear. An empty result means nothing changed and callers must not emit an
// UPDATE audit marker.
func Diff(v Variant, oldFlat, newFlat Flat) []FieldChange {
	var changes []FieldChange
	for _, name := range FieldNames(v) {
		o, n := oldFlat[name], newFlat[name]
		if o != n {
			changes = append(changes, FieldChange{Field: name, Old: o, New: n})
		}
	}
	return changes
}
