// internal/wizard/catalog/rules.go
package catalog

import "rental-wizard/internal/models"

// FieldRule is the declarative unit of the catalog: a field belongs to a
// step and becomes mandatory when its predicate holds against the full
// snapshot. A nil predicate means always applicable.
type FieldRule struct {
	Step  Step
	Field string
	When  func(s *models.Snapshot) bool
	Check func(s *models.Snapshot, env Env) string
}

func employed(s *models.Snapshot) bool     { return s.EmploymentStatus == models.EmploymentEmployed }
func selfEmployed(s *models.Snapshot) bool { return s.EmploymentStatus == models.EmploymentSelfEmployed }
func student(s *models.Snapshot) bool      { return s.EmploymentStatus == models.EmploymentStudent }
func retired(s *models.Snapshot) bool      { return s.EmploymentStatus == models.EmploymentRetired }
func unemployed(s *models.Snapshot) bool   { return s.EmploymentStatus == models.EmploymentUnemployed }
func otherWork(s *models.Snapshot) bool    { return s.EmploymentStatus == models.EmploymentOther }

func needsPermit(s *models.Snapshot) bool {
	return s.ImmigrationStatus.RequiresPermitDetails()
}

func hasGuarantor(s *models.Snapshot) bool {
	for _, g := range s.Guarantors {
		if !g.IsEmpty() {
			return true
		}
	}
	return false
}

func docRule(step Step, key models.DocumentKey, when func(*models.Snapshot) bool) FieldRule {
	return FieldRule{
		Step:  step,
		Field: string(key),
		When:  when,
		Check: func(s *models.Snapshot, env Env) string {
			return requiredDoc(s, env, key)
		},
	}
}

var fieldRules = []FieldRule{
	// --- tenancy_details ---
	{Step: StepTenancyDetails, Field: "desired_move_in_date",
		Check: func(s *models.Snapshot, env Env) string { return requiredFutureDate(s.DesiredMoveInDate, env) }},
	{Step: StepTenancyDetails, Field: "lease_duration_months",
		Check: func(s *models.Snapshot, _ Env) string { return intInRange(s.LeaseDurationMonths, 1, 60) }},
	{Step: StepTenancyDetails, Field: "reason_for_moving_other",
		When:  func(s *models.Snapshot) bool { return s.ReasonForMoving == "other" },
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.ReasonForMovingOther, 500) }},

	// --- personal_details ---
	// Identity text fields are owned by the profile and only format-checked
	// here; the document slots are what the step itself demands.
	docRule(StepPersonalDetails, models.DocIDFront, nil),
	docRule(StepPersonalDetails, models.DocIDBack, nil),
	{Step: StepPersonalDetails, Field: "email",
		Check: func(s *models.Snapshot, _ Env) string { return optionalEmail(s.Email) }},
	{Step: StepPersonalDetails, Field: "date_of_birth",
		Check: func(s *models.Snapshot, env Env) string { return optionalPastDate(s.DateOfBirth, env) }},
	{Step: StepPersonalDetails, Field: "permit_type", When: needsPermit,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.PermitType, 100) }},
	{Step: StepPersonalDetails, Field: "permit_expiry_date", When: needsPermit,
		Check: func(s *models.Snapshot, env Env) string { return requiredFutureDate(s.PermitExpiryDate, env) }},
	// Visa holders must additionally have the permit itself on file, beyond
	// the general permit-detail requirement.
	docRule(StepPersonalDetails, models.DocResidencePermit,
		func(s *models.Snapshot) bool { return s.ImmigrationStatus == models.ImmigrationVisaHolder }),

	// --- employment_income ---
	{Step: StepEmployment, Field: "employment_status",
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(string(s.EmploymentStatus), 50) }},

	{Step: StepEmployment, Field: "employer_name", When: employed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.EmployerName, 200) }},
	{Step: StepEmployment, Field: "job_title", When: employed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.JobTitle, 100) }},
	{Step: StepEmployment, Field: "employment_type", When: employed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.EmploymentType, 50) }},
	{Step: StepEmployment, Field: "employment_start_date", When: employed,
		Check: func(s *models.Snapshot, env Env) string { return requiredPastDate(s.EmploymentStartDate, env) }},
	{Step: StepEmployment, Field: "net_monthly_income", When: employed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredAmount(s.NetMonthlyIncome) }},
	{Step: StepEmployment, Field: "gross_annual_income", When: employed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredAmount(s.GrossAnnualIncome) }},
	docRule(StepEmployment, models.DocPayslip1, employed),
	docRule(StepEmployment, models.DocPayslip2, employed),
	docRule(StepEmployment, models.DocPayslip3, employed),
	docRule(StepEmployment, models.DocEmploymentContract, employed),

	{Step: StepEmployment, Field: "business_name", When: selfEmployed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.BusinessName, 200) }},
	{Step: StepEmployment, Field: "business_type", When: selfEmployed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.BusinessType, 100) }},
	{Step: StepEmployment, Field: "self_employed_since", When: selfEmployed,
		Check: func(s *models.Snapshot, env Env) string { return requiredPastDate(s.SelfEmployedSince, env) }},
	{Step: StepEmployment, Field: "net_monthly_income", When: selfEmployed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredAmount(s.NetMonthlyIncome) }},
	docRule(StepEmployment, models.DocTaxReturn, selfEmployed),
	docRule(StepEmployment, models.DocBusinessBank, selfEmployed),

	{Step: StepEmployment, Field: "institution_name", When: student,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.InstitutionName, 200) }},
	{Step: StepEmployment, Field: "course_name", When: student,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.CourseName, 200) }},
	docRule(StepEmployment, models.DocProofOfEnrollment, student),

	{Step: StepEmployment, Field: "pension_provider", When: retired,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.PensionProvider, 200) }},
	{Step: StepEmployment, Field: "net_monthly_income", When: retired,
		Check: func(s *models.Snapshot, _ Env) string { return requiredAmount(s.NetMonthlyIncome) }},
	docRule(StepEmployment, models.DocPensionStatement, retired),

	{Step: StepEmployment, Field: "unemployed_income_source", When: unemployed,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.UnemployedIncomeSource, 200) }},
	// Exactly one canonical proof per income source: the benefits statement
	// for unemployment benefits, the generic proof for everything else.
	docRule(StepEmployment, models.DocBenefitsStatement, func(s *models.Snapshot) bool {
		return unemployed(s) && s.UnemployedIncomeSource == models.IncomeSourceBenefits
	}),
	docRule(StepEmployment, models.DocOtherIncomeProof, func(s *models.Snapshot) bool {
		return unemployed(s) && s.UnemployedIncomeSource != "" && s.UnemployedIncomeSource != models.IncomeSourceBenefits
	}),

	{Step: StepEmployment, Field: "employment_status_other", When: otherWork,
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.EmploymentStatusOther, 200) }},
	{Step: StepEmployment, Field: "net_monthly_income", When: otherWork,
		Check: func(s *models.Snapshot, _ Env) string { return requiredAmount(s.NetMonthlyIncome) }},
	docRule(StepEmployment, models.DocOtherIncomeProof, otherWork),

	// --- co_signers_guarantors ---
	docRule(StepCoSigners, models.DocGuarantorIDFront, hasGuarantor),
	docRule(StepCoSigners, models.DocGuarantorIDBack, hasGuarantor),

	// --- credit_history ---
	{Step: StepCreditHistory, Field: "ccj_details",
		When:  func(s *models.Snapshot) bool { return s.HasCCJsOrBankruptcies },
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.CCJDetails, 2000) }},
	{Step: StepCreditHistory, Field: "eviction_details",
		When:  func(s *models.Snapshot) bool { return s.HasEvictionHistory },
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.EvictionDetails, 2000) }},

	// --- review_consent ---
	{Step: StepReviewConsent, Field: "accept_terms",
		Check: func(s *models.Snapshot, _ Env) string { return requiredTrue(s.AcceptTerms) }},
	{Step: StepReviewConsent, Field: "consent_credit_check",
		Check: func(s *models.Snapshot, _ Env) string { return requiredTrue(s.ConsentCreditCheck) }},
	{Step: StepReviewConsent, Field: "consent_data_processing",
		Check: func(s *models.Snapshot, _ Env) string { return requiredTrue(s.ConsentDataProcessing) }},
	{Step: StepReviewConsent, Field: "declaration_truthful",
		Check: func(s *models.Snapshot, _ Env) string { return requiredTrue(s.DeclarationTruthful) }},
	{Step: StepReviewConsent, Field: "digital_signature",
		Check: func(s *models.Snapshot, _ Env) string { return requiredText(s.DigitalSignature, 200) }},
}
