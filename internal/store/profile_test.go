package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

func newProfileStore(t *testing.T) (*ProfileStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProfileStore(db, logger.NewTestLogger(t)), mock
}

// ==========================
// SetField
// ==========================

func TestSetField_WritesAllowedField(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectExec(`UPDATE tenant_profiles SET employer_name = \$1`).
		WithArgs("Acme Ltd", sqlmock.AnyArg(), "applicant-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SetField(context.Background(), "applicant-1", "employer_name", "Acme Ltd")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetField_RejectsFieldOutsideAllowList(t *testing.T) {
	store, mock := newProfileStore(t)

	tests := []string{
		"verified",               // system-owned, never writable through this path
		"applicant_id",           // identity
		"digital_signature",      // draft-owned
		"employer_name; DROP TABLE tenant_profiles", // hostile input
	}
	for _, field := range tests {
		err := store.SetField(context.Background(), "applicant-1", field, "x")
		require.Error(t, err, "field %q must be rejected", field)
		assert.Equal(t, commonErrors.ErrCodeProfileFieldNotAllowed, commonErrors.CodeOf(err))
	}

	// No SQL may have been issued for any rejected field.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetField_MissingProfile(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectExec(`UPDATE tenant_profiles SET first_name = \$1`).
		WithArgs("Ana", sqlmock.AnyArg(), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.SetField(context.Background(), "ghost", "first_name", "Ana")
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeProfileNotFound, commonErrors.CodeOf(err))
}

// ==========================
// Get
// ==========================

func TestGetProfile(t *testing.T) {
	store, mock := newProfileStore(t)

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM tenant_profiles WHERE applicant_id = \$1`).
		WithArgs("applicant-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"applicant_id", "first_name", "last_name", "date_of_birth", "email", "phone", "nationality",
			"immigration_status", "permit_type", "permit_expiry_date",
			"employment_status", "employment_status_other", "employer_name", "job_title",
			"employment_type", "employment_start_date", "net_monthly_income", "gross_annual_income",
			"business_name", "business_type", "self_employed_since",
			"institution_name", "course_name", "pension_provider", "unemployed_income_source",
			"verified", "created_at", "updated_at",
		}).AddRow(
			"applicant-1", "Ana", "Silva", "1990-04-12", "ana@example.com", "+447700900123", "Portuguese",
			"citizen", "", "",
			"employed", "", "Acme Ltd", "Engineer",
			"full_time", "2020-01-15", "3200.00", "45000",
			"", "", "",
			"", "", "", "",
			true, now, now,
		))

	p, err := store.Get(context.Background(), "applicant-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, models.ImmigrationCitizen, p.ImmigrationStatus)
	assert.Equal(t, models.EmploymentEmployed, p.EmploymentStatus)
	assert.True(t, p.Verified)
}

func TestGetProfile_NotFound(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM tenant_profiles WHERE applicant_id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeProfileNotFound, commonErrors.CodeOf(err))
}

// ==========================
// SetVerified
// ==========================

func TestSetVerified(t *testing.T) {
	store, mock := newProfileStore(t)

	mock.ExpectExec(`UPDATE tenant_profiles SET verified = \$1`).
		WithArgs(true, sqlmock.AnyArg(), "applicant-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SetVerified(context.Background(), "applicant-1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Allow-List
// ==========================

func TestIsWritableField(t *testing.T) {
	assert.True(t, IsWritableField("net_monthly_income"))
	assert.True(t, IsWritableField("unemployed_income_source"))
	assert.False(t, IsWritableField("verified"))
	assert.False(t, IsWritableField(""))
}
