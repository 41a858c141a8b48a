// internal/wizard/catalog/collections.go
package catalog

import (
	"fmt"

	"rental-wizard/internal/models"
)

// CollectionCheck validates a repeated sub-entity list. Field paths carry
// the row index so the UI can map an error back to the right row, e.g.
// occupant_2_relationship_other or ref_0_years_known.
type CollectionCheck func(s *models.Snapshot, env Env, report Report)

var collectionRules = map[Step][]CollectionCheck{
	StepHousehold:        {checkOccupants, checkPets},
	StepCoSigners:        {checkCoSigners, checkGuarantors},
	StepResidenceHistory: {checkPreviousAddresses, checkLandlordReferences, checkOtherReferences},
}

func checkOccupants(s *models.Snapshot, env Env, report Report) {
	for i, o := range s.Occupants {
		prefix := fmt.Sprintf("occupant_%d_", i)
		if msg := requiredText(o.FirstName, 100); msg != "" {
			report(prefix+"first_name", msg)
		}
		if msg := requiredText(o.LastName, 100); msg != "" {
			report(prefix+"last_name", msg)
		}
		if msg := requiredPastDate(o.DateOfBirth, env); msg != "" {
			report(prefix+"date_of_birth", msg)
		}
		if msg := requiredText(o.Relationship, 50); msg != "" {
			report(prefix+"relationship", msg)
		} else if o.Relationship == "other" {
			if msg := requiredText(o.RelationshipOther, 100); msg != "" {
				report(prefix+"relationship_other", msg)
			}
		}
	}
}

func checkPets(s *models.Snapshot, env Env, report Report) {
	if s.HasPets && len(s.Pets) == 0 {
		report("pets", "add at least one pet")
		return
	}
	for i, p := range s.Pets {
		prefix := fmt.Sprintf("pet_%d_", i)
		if msg := requiredText(p.Type, 50); msg != "" {
			report(prefix+"type", msg)
		} else if p.Type == "other" {
			if msg := requiredText(p.TypeOther, 100); msg != "" {
				report(prefix+"type_other", msg)
			}
		}
	}
}

func checkCoSigners(s *models.Snapshot, env Env, report Report) {
	for i, c := range s.CoSigners {
		prefix := fmt.Sprintf("co_signer_%d_", i)
		if msg := requiredText(c.FirstName, 100); msg != "" {
			report(prefix+"first_name", msg)
		}
		if msg := requiredText(c.LastName, 100); msg != "" {
			report(prefix+"last_name", msg)
		}
		if msg := requiredPastDate(c.DateOfBirth, env); msg != "" {
			report(prefix+"date_of_birth", msg)
		}
		if msg := requiredText(c.Relationship, 50); msg != "" {
			report(prefix+"relationship", msg)
		} else if c.Relationship == "other" {
			if msg := requiredText(c.RelationshipOther, 100); msg != "" {
				report(prefix+"relationship_other", msg)
			}
		}
		if msg := optionalEmail(c.Email); msg != "" {
			report(prefix+"email", msg)
		}
	}
}

func checkGuarantors(s *models.Snapshot, env Env, report Report) {
	for i, g := range s.Guarantors {
		if g.IsEmpty() {
			continue
		}
		prefix := fmt.Sprintf("guarantor_%d_", i)
		if msg := requiredText(g.FirstName, 100); msg != "" {
			report(prefix+"first_name", msg)
		}
		if msg := requiredText(g.LastName, 100); msg != "" {
			report(prefix+"last_name", msg)
		}
		if msg := requiredText(g.Phone, 50); msg != "" {
			report(prefix+"phone", msg)
		}
		if msg := requiredEmail(g.Email); msg != "" {
			report(prefix+"email", msg)
		}
		if msg := requiredText(g.Relationship, 50); msg != "" {
			report(prefix+"relationship", msg)
		}
		if g.ForSignerType == models.GuarantorForCoSigner {
			if g.ForCoSignerIndex == nil || *g.ForCoSignerIndex < 0 || *g.ForCoSignerIndex >= len(s.CoSigners) {
				report(prefix+"for_co_signer_index", "select which co-signer this guarantor backs")
			}
		}
	}
}

func checkPreviousAddresses(s *models.Snapshot, env Env, report Report) {
	for i, a := range s.PreviousAddresses {
		if a.IsEmpty() {
			continue
		}
		prefix := fmt.Sprintf("address_%d_", i)
		if msg := requiredText(a.AddressLine1, 255); msg != "" {
			report(prefix+"address_line1", msg)
		}
		if msg := requiredText(a.City, 100); msg != "" {
			report(prefix+"city", msg)
		}
		if msg := requiredText(a.PostalCode, 20); msg != "" {
			report(prefix+"postal_code", msg)
		}
		if msg := requiredPastDate(a.MoveInDate, env); msg != "" {
			report(prefix+"move_in_date", msg)
		}
	}
}

func checkLandlordReferences(s *models.Snapshot, env Env, report Report) {
	checkReferenceRows(s.LandlordReferences, "landlord_ref_%d_", report)
}

func checkOtherReferences(s *models.Snapshot, env Env, report Report) {
	checkReferenceRows(s.OtherReferences, "ref_%d_", report)
}

// checkReferenceRows applies the any-field-filled rule: an untouched row is
// valid and ignored, a partially filled one must be completed.
func checkReferenceRows(refs []models.Reference, pathFormat string, report Report) {
	for i, r := range refs {
		if r.IsEmpty() {
			continue
		}
		prefix := fmt.Sprintf(pathFormat, i)
		if msg := requiredText(r.Name, 100); msg != "" {
			report(prefix+"name", msg)
		}
		if msg := requiredText(r.Phone, 50); msg != "" {
			report(prefix+"phone", msg)
		}
		if msg := requiredEmail(r.Email); msg != "" {
			report(prefix+"email", msg)
		}
		if msg := requiredText(r.Relationship, 50); msg != "" {
			report(prefix+"relationship", msg)
		} else if r.Relationship == "other" {
			if msg := requiredText(r.RelationshipOther, 100); msg != "" {
				report(prefix+"relationship_other", msg)
			}
		}
		if r.YearsKnown == nil {
			report(prefix+"years_known", msgRequired)
		} else if *r.YearsKnown < 0 || *r.YearsKnown > 100 {
			report(prefix+"years_known", "must be between 0 and 100")
		}
	}
}
