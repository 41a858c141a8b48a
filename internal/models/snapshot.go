// internal/models/snapshot.go
package models

// EmploymentStatus selects which income field subset is mandatory.
type EmploymentStatus string

const (
	EmploymentEmployed     EmploymentStatus = "employed"
	EmploymentSelfEmployed EmploymentStatus = "self_employed"
	EmploymentStudent      EmploymentStatus = "student"
	EmploymentRetired      EmploymentStatus = "retired"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentOther        EmploymentStatus = "other"
)

// IncomeSourceBenefits is the unemployed income source that requires a
// benefits statement instead of the generic other-income proof.
const IncomeSourceBenefits = "unemployment_benefits"

// ImmigrationStatus values that require permit details.
type ImmigrationStatus string

const (
	ImmigrationCitizen             ImmigrationStatus = "citizen"
	ImmigrationPermanentResident   ImmigrationStatus = "permanent_resident"
	ImmigrationTemporaryResident   ImmigrationStatus = "temporary_resident"
	ImmigrationVisaHolder          ImmigrationStatus = "visa_holder"
	ImmigrationStudent             ImmigrationStatus = "student"
	ImmigrationWorkPermit          ImmigrationStatus = "work_permit"
	ImmigrationFamilyReunification ImmigrationStatus = "family_reunification"
	ImmigrationRefugeeOrProtected  ImmigrationStatus = "refugee_or_protected"
)

// RequiresPermitDetails reports whether the status makes permit type and
// expiry mandatory.
func (s ImmigrationStatus) RequiresPermitDetails() bool {
	switch s {
	case ImmigrationTemporaryResident, ImmigrationVisaHolder, ImmigrationStudent,
		ImmigrationWorkPermit, ImmigrationFamilyReunification, ImmigrationRefugeeOrProtected:
		return true
	}
	return false
}

// Occupant is a household member listed on the application.
type Occupant struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DateOfBirth       string `json:"date_of_birth"`
	Relationship      string `json:"relationship"`
	RelationshipOther string `json:"relationship_other"`
	WillSignLease     bool   `json:"will_sign_lease"`
}

// Pet on the application.
type Pet struct {
	Type      string `json:"type"`
	TypeOther string `json:"type_other"`
	Name      string `json:"name"`
	Breed     string `json:"breed"`
}

// CoSigner is an additional lease signer. FromOccupantIndex is nil for
// entries the applicant added by hand; those are never auto-managed. A
// non-nil index marks the entry as derived from the occupant at that slot:
// the reconciler keeps its identity fields in sync and preserves the rest.
type CoSigner struct {
	FromOccupantIndex *int   `json:"from_occupant_index"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DateOfBirth       string `json:"date_of_birth"`
	Relationship      string `json:"relationship"`
	RelationshipOther string `json:"relationship_other"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	EmploymentStatus  string `json:"employment_status"`
	NetMonthlyIncome  string `json:"net_monthly_income"`
	CurrentAddress    string `json:"current_address"`
	HasIDFront        bool   `json:"has_id_front"`
	HasIDBack         bool   `json:"has_id_back"`
}

// GuarantorSignerType associates a guarantor with a signer slot.
type GuarantorSignerType string

const (
	GuarantorForPrimary  GuarantorSignerType = "primary"
	GuarantorForCoSigner GuarantorSignerType = "co_signer"
)

// Guarantor backs either the primary applicant or a specific co-signer.
// Purely user-managed; the reconciler never touches these.
type Guarantor struct {
	ForSignerType    GuarantorSignerType `json:"for_signer_type"`
	ForCoSignerIndex *int                `json:"for_co_signer_index"`
	FirstName        string              `json:"first_name"`
	LastName         string              `json:"last_name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	Relationship     string              `json:"relationship"`
	AnnualIncome     string              `json:"annual_income"`
}

// IsEmpty reports whether no field of the row has been filled in.
func (g Guarantor) IsEmpty() bool {
	return g.FirstName == "" && g.LastName == "" && g.Email == "" &&
		g.Phone == "" && g.Relationship == "" && g.AnnualIncome == ""
}

// PreviousAddress is one row of residence history.
type PreviousAddress struct {
	AddressLine1 string `json:"address_line1"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	MoveInDate   string `json:"move_in_date"`
	MoveOutDate  string `json:"move_out_date"`
}

// IsEmpty reports whether no field of the row has been filled in.
func (a PreviousAddress) IsEmpty() bool {
	return a.AddressLine1 == "" && a.City == "" && a.PostalCode == "" &&
		a.Country == "" && a.MoveInDate == "" && a.MoveOutDate == ""
}

// Reference is a landlord or personal reference row. An entirely empty row
// is valid and ignored; once any field is filled, the whole row is required.
type Reference struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Relationship      string `json:"relationship"`
	RelationshipOther string `json:"relationship_other"`
	YearsKnown        *int   `json:"years_known"`
}

// IsEmpty reports whether no field of the row has been filled in.
func (r Reference) IsEmpty() bool {
	return r.Name == "" && r.Phone == "" && r.Email == "" &&
		r.Relationship == "" && r.RelationshipOther == "" && r.YearsKnown == nil
}

// Snapshot is the full wizard dataset for one draft. Fields live in a flat
// bag; step membership is a validation/navigation classification only.
// Profile-owned fields (identity, immigration, current employment) are read
// into the snapshot at load time and written back through the profile
// channel, never stored per-draft.
type Snapshot struct {
	// Tenancy details
	DesiredMoveInDate    string `json:"desired_move_in_date"`
	LeaseDurationMonths  int    `json:"lease_duration_months"`
	ReasonForMoving      string `json:"reason_for_moving"`
	ReasonForMovingOther string `json:"reason_for_moving_other"`

	// Personal details (profile-owned)
	FirstName         string            `json:"first_name"`
	LastName          string            `json:"last_name"`
	DateOfBirth       string            `json:"date_of_birth"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Nationality       string            `json:"nationality"`
	ImmigrationStatus ImmigrationStatus `json:"immigration_status"`
	PermitType        string            `json:"permit_type"`
	PermitExpiryDate  string            `json:"permit_expiry_date"`

	// Household
	Occupants []Occupant `json:"occupants"`
	HasPets   bool       `json:"has_pets"`
	Pets      []Pet      `json:"pets"`

	// Employment and income (profile-owned)
	EmploymentStatus       EmploymentStatus `json:"employment_status"`
	EmploymentStatusOther  string           `json:"employment_status_other"`
	EmployerName           string           `json:"employer_name"`
	JobTitle               string           `json:"job_title"`
	EmploymentType         string           `json:"employment_type"`
	EmploymentStartDate    string           `json:"employment_start_date"`
	NetMonthlyIncome       string           `json:"net_monthly_income"`
	GrossAnnualIncome      string           `json:"gross_annual_income"`
	BusinessName           string           `json:"business_name"`
	BusinessType           string           `json:"business_type"`
	SelfEmployedSince      string           `json:"self_employed_since"`
	InstitutionName        string           `json:"institution_name"`
	CourseName             string           `json:"course_name"`
	PensionProvider        string           `json:"pension_provider"`
	UnemployedIncomeSource string           `json:"unemployed_income_source"`

	// Co-signers and guarantors
	CoSigners  []CoSigner  `json:"co_signers"`
	Guarantors []Guarantor `json:"guarantors"`

	// Residence history
	PreviousAddresses  []PreviousAddress `json:"previous_addresses"`
	LandlordReferences []Reference       `json:"landlord_references"`
	OtherReferences    []Reference       `json:"other_references"`

	// Credit history
	HasCCJsOrBankruptcies bool   `json:"has_ccjs_or_bankruptcies"`
	CCJDetails            string `json:"ccj_details"`
	HasEvictionHistory    bool   `json:"has_eviction_history"`
	EvictionDetails       string `json:"eviction_details"`

	// Review and consent
	AcceptTerms           bool   `json:"accept_terms"`
	ConsentCreditCheck    bool   `json:"consent_credit_check"`
	ConsentDataProcessing bool   `json:"consent_data_processing"`
	DeclarationTruthful   bool   `json:"declaration_truthful"`
	DigitalSignature      string `json:"digital_signature"`

	// Slots carrying a freshly attached file in this snapshot. A document
	// requirement is satisfied by either this set or the existing-documents
	// context.
	NewDocuments DocumentSet `json:"new_documents,omitempty"`
}

// HasNewDocument reports whether this snapshot carries a fresh file for slot.
func (s *Snapshot) HasNewDocument(key DocumentKey) bool {
	return s.NewDocuments.Has(key)
}
