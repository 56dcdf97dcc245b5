package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"angelina/internal/domain"
	apperrors "angelina/internal/errors"
	"angelina/internal/testutil"
)

var columns = []string{
	"id", "first_name", "middle_name", "surname", "email", "whatsapp", "phone", "location",
	"work_type", "ranking", "budget", "timeline", "description", "reference", "maintenance",
	"hosting", "seo", "hear_about", "status", "admin_notes", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*MySQLAppointmentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLAppointmentRepository(db), mock
}

func addRow(rows *sqlmock.Rows, id int64, status string, createdAt time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, "Ada", nil, "Lovelace", "ada@example.com", "+44 20 0000", "+44 20 0001", "London",
		"website", "basic", nil, nil, "Analytical engine site", nil, false,
		true, false, nil, status, nil, createdAt, nil,
	)
}

func strPtr(s string) *string {
	return &s
}

// Unit Tests

func TestNewMySQLAppointmentRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLAppointmentRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestAppointmentRepository_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO appointments \(.*\) VALUES \(.*NOW\(\)\)`).
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.Insert(context.Background(), domain.Appointment{
		FirstName:   "Ada",
		MiddleName:  strPtr("King"),
		Surname:     "Lovelace",
		Email:       "ada@example.com",
		WhatsApp:    "+44 20 0000",
		Phone:       "+44 20 0001",
		Location:    "London",
		WorkType:    "website",
		Ranking:     "basic",
		Description: "Analytical engine site",
		Status:      domain.AppointmentStatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_Insert_Error(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO appointments`).WillReturnError(errors.New("connection reset"))

	_, err := repo.Insert(context.Background(), domain.Appointment{Status: domain.AppointmentStatusPending})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting appointment")
}

func TestAppointmentRepository_List_WithStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(columns)
	addRow(rows, 5, "pending", now)
	addRow(rows, 4, "pending", now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE status = \? ORDER BY created_at DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs("pending", 2, 0).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), domain.AppointmentStatusPending, 2, 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)
	assert.Equal(t, domain.AppointmentStatusPending, got[0].Status)
	assert.True(t, got[0].Hosting)
	assert.Nil(t, got[0].MiddleName)
	assert.Nil(t, got[0].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_List_AllStatuses(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM appointments ORDER BY created_at DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs(50, 10).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background(), "", 50, 10)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE id = \?`).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(columns))

	a, err := repo.FindByID(context.Background(), 999)

	assert.Nil(t, a)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestAppointmentRepository_FindByID_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(addRow(sqlmock.NewRows(columns), 7, "accepted", now))

	a, err := repo.FindByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, domain.AppointmentStatusAccepted, a.Status)
	assert.Equal(t, now, a.CreatedAt)
}

func TestAppointmentRepository_UpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE appointments SET status = \?, admin_notes = \?, updated_at = NOW\(\) WHERE id = \?`).
		WithArgs("accepted", "call Monday", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE appointments`).
		WithArgs("rejected", nil, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	matched, err := repo.UpdateStatus(context.Background(), 3, domain.AppointmentStatusAccepted, strPtr("call Monday"))
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = repo.UpdateStatus(context.Background(), 404, domain.AppointmentStatusRejected, nil)
	require.NoError(t, err)
	assert.False(t, matched)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM appointments WHERE id = \?`).
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 12))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Integration Tests

func TestAppointmentRepository_Integration_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLAppointmentRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, domain.Appointment{
		FirstName:   "Ada",
		Surname:     "Lovelace",
		Email:       "ada@example.com",
		WhatsApp:    "+44 20 0000",
		Phone:       "+44 20 0001",
		Location:    "London",
		WorkType:    "website",
		Ranking:     "basic",
		Description: "Analytical engine site",
		Hosting:     true,
		Status:      domain.AppointmentStatusPending,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	a, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", a.FirstName)
	assert.Equal(t, domain.AppointmentStatusPending, a.Status)
	assert.True(t, a.Hosting)
	assert.Nil(t, a.UpdatedAt)

	matched, err := repo.UpdateStatus(ctx, id, domain.AppointmentStatusAccepted, strPtr("confirmed"))
	require.NoError(t, err)
	assert.True(t, matched)

	// Same value again still matches.
	matched, err = repo.UpdateStatus(ctx, id, domain.AppointmentStatusAccepted, strPtr("confirmed"))
	require.NoError(t, err)
	assert.True(t, matched)

	a, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusAccepted, a.Status)
	require.NotNil(t, a.AdminNotes)
	assert.Equal(t, "confirmed", *a.AdminNotes)
	assert.NotNil(t, a.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))

	_, err = repo.FindByID(ctx, id)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
