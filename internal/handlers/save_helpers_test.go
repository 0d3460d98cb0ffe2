package handlers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
)

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

const studioUpdatePattern = `UPDATE "studios" SET .+ WHERE id = \$\d+ AND version = \$\d+`

func TestSaveStudio_RejectsStaleVersion(t *testing.T) {
	db, mock := mockDB(t)

	// another session already bumped the row, so the conditional
	// update matches nothing
	mock.ExpectExec(studioUpdatePattern).
		WillReturnResult(sqlmock.NewResult(0, 0))

	studio := &models.Studio{ID: 1, StudioName: "Echo Chamber", Version: 1}
	err := saveStudio(db, studio)

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "version_conflict"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveStudio_BumpsVersionOnSuccess(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectExec(studioUpdatePattern).
		WillReturnResult(sqlmock.NewResult(0, 1))

	studio := &models.Studio{ID: 1, StudioName: "Echo Chamber", Version: 3}
	require.NoError(t, saveStudio(db, studio))

	assert.Equal(t, uint(4), studio.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMusician_RejectsStaleVersion(t *testing.T) {
	db, mock := mockDB(t)

	mock.ExpectExec(`UPDATE "musicians" SET .+ WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	musician := &models.Musician{ID: 7, FullName: "Nimal Silva", Version: 2}
	err := saveMusician(db, musician)

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "version_conflict"))
	require.NoError(t, mock.ExpectationsWereMet())
}
