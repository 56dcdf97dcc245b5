package dto

import (
	"strings"
	"time"

	"angelina/internal/domain"
)

// SubmitAppointmentRequest mirrors the booking form's field names.
type SubmitAppointmentRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	MiddleName  string `json:"middleName" validate:"max=100"`
	Surname     string `json:"surname" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	WhatsApp    string `json:"whatsapp" validate:"required,phone,max=30"`
	Phone       string `json:"phone" validate:"required,phone,max=30"`
	Location    string `json:"location" validate:"required,max=255"`
	Work        string `json:"work" validate:"required,max=50"`
	Ranking     string `json:"ranking" validate:"required,max=50"`
	Budget      string `json:"budget" validate:"max=100"`
	Timeline    string `json:"timeline" validate:"max=100"`
	Description string `json:"description" validate:"required,max=5000"`
	Reference   string `json:"reference" validate:"max=500"`
	Maintenance bool   `json:"maintenance"`
	Hosting     bool   `json:"hosting"`
	SEO         bool   `json:"seo"`
	Hear        string `json:"hear" validate:"max=100"`
}

// Normalize trims every text field so whitespace-only input counts as missing.
func (r *SubmitAppointmentRequest) Normalize() {
	for _, f := range []*string{
		&r.FirstName, &r.MiddleName, &r.Surname, &r.Email, &r.WhatsApp,
		&r.Phone, &r.Location, &r.Work, &r.Ranking, &r.Budget,
		&r.Timeline, &r.Description, &r.Reference, &r.Hear,
	} {
		*f = strings.TrimSpace(*f)
	}
}

func (r SubmitAppointmentRequest) ToDomain() domain.Appointment {
	return domain.Appointment{
		FirstName:   r.FirstName,
		MiddleName:  optional(r.MiddleName),
		Surname:     r.Surname,
		Email:       r.Email,
		WhatsApp:    r.WhatsApp,
		Phone:       r.Phone,
		Location:    r.Location,
		WorkType:    r.Work,
		Ranking:     r.Ranking,
		Budget:      optional(r.Budget),
		Timeline:    optional(r.Timeline),
		Description: r.Description,
		Reference:   optional(r.Reference),
		Maintenance: r.Maintenance,
		Hosting:     r.Hosting,
		SEO:         r.SEO,
		HearAbout:   optional(r.Hear),
		Status:      domain.AppointmentStatusPending,
	}
}

// UpdateStatusRequest caps notes well below the 64 KiB TEXT column even at
// four bytes per character.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes" validate:"max=10000"`
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type ListAppointmentsFilter struct {
	Status domain.AppointmentStatus
	Limit  int
	Offset int
}

// AppointmentDTO keeps the table's column names, which is what admin
// tooling built against the original API expects.
type AppointmentDTO struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	MiddleName  *string    `json:"middle_name"`
	Surname     string     `json:"surname"`
	Email       string     `json:"email"`
	WhatsApp    string     `json:"whatsapp"`
	Phone       string     `json:"phone"`
	Location    string     `json:"location"`
	WorkType    string     `json:"work_type"`
	Ranking     string     `json:"ranking"`
	Budget      *string    `json:"budget"`
	Timeline    *string    `json:"timeline"`
	Description string     `json:"description"`
	Reference   *string    `json:"reference"`
	Maintenance bool       `json:"maintenance"`
	Hosting     bool       `json:"hosting"`
	SEO         bool       `json:"seo"`
	HearAbout   *string    `json:"hear_about"`
	Status      string     `json:"status"`
	AdminNotes  *string    `json:"admin_notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func NewAppointmentDTO(a domain.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:          a.ID,
		FirstName:   a.FirstName,
		MiddleName:  a.MiddleName,
		Surname:     a.Surname,
		Email:       a.Email,
		WhatsApp:    a.WhatsApp,
		Phone:       a.Phone,
		Location:    a.Location,
		WorkType:    a.WorkType,
		Ranking:     a.Ranking,
		Budget:      a.Budget,
		Timeline:    a.Timeline,
		Description: a.Description,
		Reference:   a.Reference,
		Maintenance: a.Maintenance,
		Hosting:     a.Hosting,
		SEO:         a.SEO,
		HearAbout:   a.HearAbout,
		Status:      string(a.Status),
		AdminNotes:  a.AdminNotes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type SubmitAppointmentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AppointmentID int64  `json:"appointmentId"`
}

type AppointmentListResponse struct {
	Success bool             `json:"success"`
	Data    []AppointmentDTO `json:"data"`
	Total   int              `json:"total"`
}

type AppointmentResponse struct {
	Success bool           `json:"success"`
	Data    AppointmentDTO `json:"data"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
