package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"angelina/internal/domain"
	"angelina/internal/errors"
)

const appointmentColumns = `id, first_name, middle_name, surname, email, whatsapp, phone, location,
	work_type, ranking, budget, timeline, description, reference, maintenance,
	hosting, seo, hear_about, status, admin_notes, created_at, updated_at`

type MySQLAppointmentRepository struct {
	db *sql.DB
}

func NewMySQLAppointmentRepository(db *sql.DB) *MySQLAppointmentRepository {
	return &MySQLAppointmentRepository{db: db}
}

func (r *MySQLAppointmentRepository) Insert(ctx context.Context, a domain.Appointment) (int64, error) {
	query := `
		INSERT INTO appointments (
			first_name, middle_name, surname, email, whatsapp, phone, location,
			work_type, ranking, budget, timeline, description, reference,
			maintenance, hosting, seo, hear_about, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`

	result, err := r.db.ExecContext(ctx, query,
		a.FirstName, a.MiddleName, a.Surname, a.Email, a.WhatsApp, a.Phone, a.Location,
		a.WorkType, a.Ranking, a.Budget, a.Timeline, a.Description, a.Reference,
		a.Maintenance, a.Hosting, a.SEO, a.HearAbout, string(a.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// List returns appointments newest first. An empty status matches every row.
func (r *MySQLAppointmentRepository) List(ctx context.Context, status domain.AppointmentStatus, limit, offset int) ([]domain.Appointment, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString("SELECT ")
	sb.WriteString(appointmentColumns)
	sb.WriteString(" FROM appointments")
	if status != "" {
		sb.WriteString(" WHERE status = ?")
		args = append(args, string(status))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	appointments := []domain.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}

	return appointments, nil
}

func (r *MySQLAppointmentRepository) FindByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := "SELECT " + appointmentColumns + " FROM appointments WHERE id = ?"

	a, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("appointment with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying appointment by id: %w", err)
	}

	return a, nil
}

// UpdateStatus reports whether a row matched. The connection reports found
// rows, so a same-value transition still counts as a match.
func (r *MySQLAppointmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, notes *string) (bool, error) {
	query := `UPDATE appointments SET status = ?, admin_notes = ?, updated_at = NOW() WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, string(status), notes, id)
	if err != nil {
		return false, fmt.Errorf("updating appointment status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *MySQLAppointmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a      domain.Appointment
		status string
	)
	err := row.Scan(
		&a.ID, &a.FirstName, &a.MiddleName, &a.Surname, &a.Email, &a.WhatsApp,
		&a.Phone, &a.Location, &a.WorkType, &a.Ranking, &a.Budget, &a.Timeline,
		&a.Description, &a.Reference, &a.Maintenance, &a.Hosting, &a.SEO,
		&a.HearAbout, &status, &a.AdminNotes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AppointmentStatus(status)
	return &a, nil
}
