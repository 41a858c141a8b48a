// internal/models/documents.go
package models

import "time"

// DocumentKey names a logical document slot on the applicant's file.
type DocumentKey string

// Primary applicant slots.
const (
	DocIDFront            DocumentKey = "id_document_front"
	DocIDBack             DocumentKey = "id_document_back"
	DocResidencePermit    DocumentKey = "residence_permit"
	DocPayslip1           DocumentKey = "payslip_1"
	DocPayslip2           DocumentKey = "payslip_2"
	DocPayslip3           DocumentKey = "payslip_3"
	DocEmploymentContract DocumentKey = "employment_contract"
	DocTaxReturn          DocumentKey = "tax_return"
	DocBusinessBank       DocumentKey = "business_bank_statement"
	DocProofOfEnrollment  DocumentKey = "proof_of_enrollment"
	DocPensionStatement   DocumentKey = "pension_statement"
	DocBenefitsStatement  DocumentKey = "benefits_statement"
	DocOtherIncomeProof   DocumentKey = "other_income_proof"
)

// Guarantor slots. Presence is checked the same way as primary slots.
const (
	DocGuarantorIDFront       DocumentKey = "guarantor_id_front"
	DocGuarantorIDBack        DocumentKey = "guarantor_id_back"
	DocGuarantorIncomeProof   DocumentKey = "guarantor_proof_of_income"
)

// DocumentSet is the existing-documents context: which slots already have a
// file on record for the applicant. A slot that is absent or false is not
// satisfied.
type DocumentSet map[DocumentKey]bool

// Has reports whether the slot already holds a file.
func (d DocumentSet) Has(key DocumentKey) bool {
	return d != nil && d[key]
}

// Clone returns an independent copy.
func (d DocumentSet) Clone() DocumentSet {
	if d == nil {
		return nil
	}
	out := make(DocumentSet, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// StoredDocument is the persisted reference returned by the document store.
type StoredDocument struct {
	ID               string      `json:"id"`
	ApplicantID      string      `json:"applicant_id"`
	Slot             DocumentKey `json:"slot"`
	OriginalFilename string      `json:"original_filename"`
	StoredAt         time.Time   `json:"stored_at"`
}
