package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-wizard/internal/common/errors"
	"rental-wizard/internal/models"
)

func TestValidateSnapshotPayload_AcceptsMarshalledSnapshot(t *testing.T) {
	// Everything the model can produce must pass the structural gate.
	yearsKnown := 3
	idx := 0
	snap := models.Snapshot{
		DesiredMoveInDate:   "2026-06-01",
		LeaseDurationMonths: 12,
		Occupants: []models.Occupant{
			{FirstName: "Luis", WillSignLease: true},
		},
		HasPets: true,
		Pets:    []models.Pet{{Type: "dog", Name: "Rex"}},
		CoSigners: []models.CoSigner{
			{FromOccupantIndex: &idx, FirstName: "Luis"},
		},
		Guarantors: []models.Guarantor{
			{ForSignerType: models.GuarantorForPrimary, FirstName: "Maria"},
		},
		LandlordReferences: []models.Reference{
			{Name: "John", YearsKnown: &yearsKnown},
		},
		NewDocuments: models.DocumentSet{models.DocIDFront: true},
	}
	payload, err := json.Marshal(snap)
	require.NoError(t, err)

	assert.NoError(t, ValidateSnapshotPayload(payload))
}

func TestValidateSnapshotPayload_AcceptsSparsePayload(t *testing.T) {
	assert.NoError(t, ValidateSnapshotPayload([]byte(`{}`)))
	assert.NoError(t, ValidateSnapshotPayload([]byte(`{"first_name":"Ana"}`)))
}

func TestValidateSnapshotPayload_AcceptsNullArrays(t *testing.T) {
	// An untouched slice is stored as null; stored rows must keep passing
	// the gate on the read path.
	assert.NoError(t, ValidateSnapshotPayload(
		[]byte(`{"occupants":null,"co_signers":null,"previous_addresses":null}`)))
}

func TestValidateSnapshotPayload_RejectsBadShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"unknown field", `{"favourite_colour":"blue"}`},
		{"wrong type for duration", `{"lease_duration_months":"twelve"}`},
		{"wrong type for consent", `{"accept_terms":"yes"}`},
		{"occupant with unknown field", `{"occupants":[{"first_name":"Luis","age":30}]}`},
		{"not an object", `[1,2,3]`},
		{"malformed json", `{"first_name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshotPayload([]byte(tt.payload))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodePayloadSchemaInvalid, errors.CodeOf(err))
		})
	}
}

func TestValidateSnapshotPayload_NullableIndices(t *testing.T) {
	assert.NoError(t, ValidateSnapshotPayload(
		[]byte(`{"co_signers":[{"from_occupant_index":null,"first_name":"Pat"}]}`)))
	assert.NoError(t, ValidateSnapshotPayload(
		[]byte(`{"guarantors":[{"for_signer_type":"co_signer","for_co_signer_index":0}]}`)))
}
