// internal/models/profile.go
package models

import "time"

// TenantProfile is the applicant's long-lived identity and financial record.
// It is the single source of truth for these fields across every draft the
// applicant has open: drafts read them at initialization and edits are
// written here directly, never into a draft row.
type TenantProfile struct {
	ApplicantID string `json:"applicant_id"`

	FirstName         string            `json:"first_name"`
	LastName          string            `json:"last_name"`
	DateOfBirth       string            `json:"date_of_birth"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Nationality       string            `json:"nationality"`
	ImmigrationStatus ImmigrationStatus `json:"immigration_status"`
	PermitType        string            `json:"permit_type"`
	PermitExpiryDate  string            `json:"permit_expiry_date"`

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

	// Verified is computed out-of-band once the minimum field and document
	// set is on file. The core consults it but never derives it.
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyTo copies the profile-owned fields into a draft snapshot. Called when
// a draft is loaded so conditional rules see current profile data.
func (p *TenantProfile) ApplyTo(s *Snapshot) {
	s.FirstName = p.FirstName
	s.LastName = p.LastName
	s.DateOfBirth = p.DateOfBirth
	s.Email = p.Email
	s.Phone = p.Phone
	s.Nationality = p.Nationality
	s.ImmigrationStatus = p.ImmigrationStatus
	s.PermitType = p.PermitType
	s.PermitExpiryDate = p.PermitExpiryDate
	s.EmploymentStatus = p.EmploymentStatus
	s.EmploymentStatusOther = p.EmploymentStatusOther
	s.EmployerName = p.EmployerName
	s.JobTitle = p.JobTitle
	s.EmploymentType = p.EmploymentType
	s.EmploymentStartDate = p.EmploymentStartDate
	s.NetMonthlyIncome = p.NetMonthlyIncome
	s.GrossAnnualIncome = p.GrossAnnualIncome
	s.BusinessName = p.BusinessName
	s.BusinessType = p.BusinessType
	s.SelfEmployedSince = p.SelfEmployedSince
	s.InstitutionName = p.InstitutionName
	s.CourseName = p.CourseName
	s.PensionProvider = p.PensionProvider
	s.UnemployedIncomeSource = p.UnemployedIncomeSource
}
