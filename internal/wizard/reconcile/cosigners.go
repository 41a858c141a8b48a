// internal/wizard/reconcile/cosigners.go

// Package reconcile derives system-owned collections from primary wizard
// state without destroying what the applicant edited by hand.
package reconcile

import "rental-wizard/internal/models"

// CoSigners rebuilds the co-signer list from the occupant list. Entries with
// a nil FromOccupantIndex were added manually and are never dropped or
// rewritten here; entries with a non-nil index are owned by this function.
//
// For every occupant marked will_sign_lease, in occupant order: an existing
// auto entry for that index keeps everything except its identity mirror
// fields, which are re-synced from the occupant; a missing one is
// synthesized with identity fields copied and the rest zero. Auto entries
// whose occupant no longer signs (or no longer exists) are dropped silently.
// Manual entries follow, in their existing order.
//
// Pure and idempotent: same input, bit-identical output. Callers compare old
// and new before persisting to avoid redundant writes.
func CoSigners(occupants []models.Occupant, current []models.CoSigner) []models.CoSigner {
	auto := make(map[int]models.CoSigner)
	var manual []models.CoSigner
	for _, cs := range current {
		if cs.FromOccupantIndex == nil {
			manual = append(manual, cs)
			continue
		}
		auto[*cs.FromOccupantIndex] = cs
	}

	out := make([]models.CoSigner, 0, len(current))
	for i, occ := range occupants {
		if !occ.WillSignLease {
			continue
		}
		idx := i
		entry, exists := auto[i]
		if !exists {
			entry = models.CoSigner{}
		}
		entry.FromOccupantIndex = &idx
		entry.FirstName = occ.FirstName
		entry.LastName = occ.LastName
		entry.DateOfBirth = occ.DateOfBirth
		entry.Relationship = occ.Relationship
		entry.RelationshipOther = occ.RelationshipOther
		out = append(out, entry)
	}

	return append(out, manual...)
}

// Equal reports whether two co-signer lists are field-for-field identical,
// so callers can skip a persistence round-trip after a no-op reconcile.
func Equal(a, b []models.CoSigner) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameIndex(a[i].FromOccupantIndex, b[i].FromOccupantIndex) {
			return false
		}
		x, y := a[i], b[i]
		x.FromOccupantIndex, y.FromOccupantIndex = nil, nil
		if x != y {
			return false
		}
	}
	return true
}

func sameIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
