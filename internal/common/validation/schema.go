// internal/common/validation/schema.go

// Package validation guards the service boundary: incoming snapshot payloads
// are checked structurally before they reach the wizard core. Structural
// means types and shapes only; field-level business rules belong to the
// conditional validator, not here.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"rental-wizard/internal/common/errors"
)

// snapshotSchema accepts any subset of wizard fields with the right types.
// No field is structurally required; a snapshot is allowed to be sparse at
// every point before submission. Array fields also accept null, the stored
// form of a slice that was never touched.
const snapshotSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"desired_move_in_date":     {"type": "string"},
		"lease_duration_months":    {"type": "integer"},
		"reason_for_moving":        {"type": "string"},
		"reason_for_moving_other":  {"type": "string"},
		"first_name":               {"type": "string"},
		"last_name":                {"type": "string"},
		"date_of_birth":            {"type": "string"},
		"email":                    {"type": "string"},
		"phone":                    {"type": "string"},
		"nationality":              {"type": "string"},
		"immigration_status":       {"type": "string"},
		"permit_type":              {"type": "string"},
		"permit_expiry_date":       {"type": "string"},
		"occupants":                {"type": ["array", "null"], "items": {"$ref": "#/definitions/occupant"}},
		"has_pets":                 {"type": "boolean"},
		"pets":                     {"type": ["array", "null"], "items": {"$ref": "#/definitions/pet"}},
		"employment_status":        {"type": "string"},
		"employment_status_other":  {"type": "string"},
		"employer_name":            {"type": "string"},
		"job_title":                {"type": "string"},
		"employment_type":          {"type": "string"},
		"employment_start_date":    {"type": "string"},
		"net_monthly_income":       {"type": "string"},
		"gross_annual_income":      {"type": "string"},
		"business_name":            {"type": "string"},
		"business_type":            {"type": "string"},
		"self_employed_since":      {"type": "string"},
		"institution_name":         {"type": "string"},
		"course_name":              {"type": "string"},
		"pension_provider":         {"type": "string"},
		"unemployed_income_source": {"type": "string"},
		"co_signers":               {"type": ["array", "null"], "items": {"$ref": "#/definitions/co_signer"}},
		"guarantors":               {"type": ["array", "null"], "items": {"$ref": "#/definitions/guarantor"}},
		"previous_addresses":       {"type": ["array", "null"], "items": {"$ref": "#/definitions/address"}},
		"landlord_references":      {"type": ["array", "null"], "items": {"$ref": "#/definitions/reference"}},
		"other_references":         {"type": ["array", "null"], "items": {"$ref": "#/definitions/reference"}},
		"has_ccjs_or_bankruptcies": {"type": "boolean"},
		"ccj_details":              {"type": "string"},
		"has_eviction_history":     {"type": "boolean"},
		"eviction_details":         {"type": "string"},
		"accept_terms":             {"type": "boolean"},
		"consent_credit_check":     {"type": "boolean"},
		"consent_data_processing":  {"type": "boolean"},
		"declaration_truthful":     {"type": "boolean"},
		"digital_signature":        {"type": "string"},
		"new_documents":            {"type": "object", "additionalProperties": {"type": "boolean"}}
	},
	"definitions": {
		"occupant": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"first_name":         {"type": "string"},
				"last_name":          {"type": "string"},
				"date_of_birth":      {"type": "string"},
				"relationship":       {"type": "string"},
				"relationship_other": {"type": "string"},
				"will_sign_lease":    {"type": "boolean"}
			}
		},
		"pet": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"type":       {"type": "string"},
				"type_other": {"type": "string"},
				"name":       {"type": "string"},
				"breed":      {"type": "string"}
			}
		},
		"co_signer": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"from_occupant_index": {"type": ["integer", "null"]},
				"first_name":          {"type": "string"},
				"last_name":           {"type": "string"},
				"date_of_birth":       {"type": "string"},
				"relationship":        {"type": "string"},
				"relationship_other":  {"type": "string"},
				"email":               {"type": "string"},
				"phone":               {"type": "string"},
				"employment_status":   {"type": "string"},
				"net_monthly_income":  {"type": "string"},
				"current_address":     {"type": "string"},
				"has_id_front":        {"type": "boolean"},
				"has_id_back":         {"type": "boolean"}
			}
		},
		"guarantor": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"for_signer_type":     {"type": "string"},
				"for_co_signer_index": {"type": ["integer", "null"]},
				"first_name":          {"type": "string"},
				"last_name":           {"type": "string"},
				"email":               {"type": "string"},
				"phone":               {"type": "string"},
				"relationship":        {"type": "string"},
				"annual_income":       {"type": "string"}
			}
		},
		"address": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"address_line1": {"type": "string"},
				"city":          {"type": "string"},
				"postal_code":   {"type": "string"},
				"country":       {"type": "string"},
				"move_in_date":  {"type": "string"},
				"move_out_date": {"type": "string"}
			}
		},
		"reference": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"name":               {"type": "string"},
				"phone":              {"type": "string"},
				"email":              {"type": "string"},
				"relationship":       {"type": "string"},
				"relationship_other": {"type": "string"},
				"years_known":        {"type": ["integer", "null"]}
			}
		}
	}
}`

var compiledSnapshotSchema = gojsonschema.NewStringLoader(snapshotSchema)

// ValidateSnapshotPayload checks a raw snapshot payload against the
// structural schema. Returns a PAYLOAD_SCHEMA_INVALID error listing every
// violation, or nil.
func ValidateSnapshotPayload(payload []byte) error {
	result, err := gojsonschema.Validate(compiledSnapshotSchema, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return errors.NewPayloadSchemaInvalidError(fmt.Sprintf("schema evaluation failed: %v", err))
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return errors.NewPayloadSchemaInvalidError(strings.Join(msgs, "; "))
}
