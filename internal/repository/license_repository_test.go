package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/licensing-api/internal/models"
)

func TestLicenseRepositoryFindByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	expiry := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, hwid, expiry, created_at FROM licenses WHERE student_id = $1")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "hwid", "expiry", "created_at"}).
			AddRow("stu-1", "HW-abc", expiry, time.Now()))

	lic, err := repo.FindByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "HW-abc", lic.HWID)
	assert.Equal(t, "2026-09-30", lic.ExpiryDate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryFindByStudentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, hwid, expiry, created_at FROM licenses WHERE student_id = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByStudent(context.Background(), "ghost")
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestLicenseRepositoryApproveTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	lic := &models.License{
		StudentID: "stu-1",
		HWID:      "HW-abc",
		Expiry:    time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO licenses").
		WithArgs("stu-1", "HW-abc", lic.Expiry, lic.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE activation_requests SET status = $2, admin_note = $3 WHERE id = $1")).
		WithArgs(int64(5), models.RequestStatusApproved, "Approved 30d").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApproveTx(context.Background(), lic, 5, "Approved 30d")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryApproveTxRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	lic := &models.License{StudentID: "stu-1", HWID: "HW-abc", Expiry: time.Now(), CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO licenses").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.ApproveTx(context.Background(), lic, 5, "Approved 30d")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryExtend(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE licenses SET expiry = expiry + $2 * INTERVAL '1 day' WHERE student_id = $1")).
		WithArgs("stu-1", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Extend(context.Background(), "stu-1", 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryExtendMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE licenses SET expiry = expiry + $2 * INTERVAL '1 day' WHERE student_id = $1")).
		WithArgs("ghost", 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Extend(context.Background(), "ghost", 10)
	assert.Equal(t, sql.ErrNoRows, err)
}

func TestLicenseRepositoryRevoke(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLicenseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM licenses WHERE student_id = $1")).
		WithArgs("stu-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Revoking an absent license is still a success.
	err := repo.Revoke(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
