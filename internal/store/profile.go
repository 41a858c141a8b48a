// internal/store/profile.go
package store

import (
	"context"
	"database/sql"
	"time"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

// profileColumns is the fixed allow-list of writable profile fields, mapped
// to their columns. Identifier interpolation below is safe only because the
// column names come from this map, never from the caller.
var profileColumns = map[string]string{
	"first_name":               "first_name",
	"last_name":                "last_name",
	"date_of_birth":            "date_of_birth",
	"email":                    "email",
	"phone":                    "phone",
	"nationality":              "nationality",
	"immigration_status":       "immigration_status",
	"permit_type":              "permit_type",
	"permit_expiry_date":       "permit_expiry_date",
	"employment_status":        "employment_status",
	"employment_status_other":  "employment_status_other",
	"employer_name":            "employer_name",
	"job_title":                "job_title",
	"employment_type":          "employment_type",
	"employment_start_date":    "employment_start_date",
	"net_monthly_income":       "net_monthly_income",
	"gross_annual_income":      "gross_annual_income",
	"business_name":            "business_name",
	"business_type":            "business_type",
	"self_employed_since":      "self_employed_since",
	"institution_name":         "institution_name",
	"course_name":              "course_name",
	"pension_provider":         "pension_provider",
	"unemployed_income_source": "unemployed_income_source",
}

// ProfileStore owns the tenant_profiles table.
type ProfileStore struct {
	db  *sql.DB
	log logger.Logger
}

func NewProfileStore(db *sql.DB, log logger.Logger) *ProfileStore {
	return &ProfileStore{db: db, log: log}
}

// SetField writes one profile field immediately. Fields outside the
// allow-list are rejected with an error, never silently dropped: a rejected
// write the caller does not see about is a profile edit the applicant
// believes happened.
func (s *ProfileStore) SetField(ctx context.Context, applicantID, field, value string) error {
	column, ok := profileColumns[field]
	if !ok {
		return commonErrors.NewProfileFieldNotAllowedError(field)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE tenant_profiles SET `+column+` = $1, updated_at = $2 WHERE applicant_id = $3`,
		value, time.Now().UTC(), applicantID)
	if err != nil {
		return commonErrors.NewQueryExecutionFailedError("profile field update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return commonErrors.NewProfileNotFoundError(applicantID)
	}
	s.log.Debug("profile field saved", map[string]interface{}{
		"applicantId": applicantID,
		"field":       field,
	})
	return nil
}

// Get loads the applicant's profile.
func (s *ProfileStore) Get(ctx context.Context, applicantID string) (*models.TenantProfile, error) {
	var p models.TenantProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT applicant_id, first_name, last_name, date_of_birth, email, phone, nationality,
		        immigration_status, permit_type, permit_expiry_date,
		        employment_status, employment_status_other, employer_name, job_title,
		        employment_type, employment_start_date, net_monthly_income, gross_annual_income,
		        business_name, business_type, self_employed_since,
		        institution_name, course_name, pension_provider, unemployed_income_source,
		        verified, created_at, updated_at
		 FROM tenant_profiles WHERE applicant_id = $1`, applicantID).
		Scan(&p.ApplicantID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Email, &p.Phone, &p.Nationality,
			&p.ImmigrationStatus, &p.PermitType, &p.PermitExpiryDate,
			&p.EmploymentStatus, &p.EmploymentStatusOther, &p.EmployerName, &p.JobTitle,
			&p.EmploymentType, &p.EmploymentStartDate, &p.NetMonthlyIncome, &p.GrossAnnualIncome,
			&p.BusinessName, &p.BusinessType, &p.SelfEmployedSince,
			&p.InstitutionName, &p.CourseName, &p.PensionProvider, &p.UnemployedIncomeSource,
			&p.Verified, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, commonErrors.NewProfileNotFoundError(applicantID)
	}
	if err != nil {
		return nil, commonErrors.NewQueryExecutionFailedError("profile get", err)
	}
	return &p, nil
}

// SetVerified flips the verification flag. Only the verification hook calls
// this; the wizard core reads the flag but never computes it inline.
func (s *ProfileStore) SetVerified(ctx context.Context, applicantID string, verified bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tenant_profiles SET verified = $1, updated_at = $2 WHERE applicant_id = $3`,
		verified, time.Now().UTC(), applicantID)
	if err != nil {
		return commonErrors.NewQueryExecutionFailedError("profile verify", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return commonErrors.NewProfileNotFoundError(applicantID)
	}
	return nil
}

// IsWritableField reports whether a field name is on the profile allow-list.
func IsWritableField(field string) bool {
	_, ok := profileColumns[field]
	return ok
}
