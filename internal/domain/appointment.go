package domain

import "time"

type Appointment struct {
	ID          int64
	FirstName   string
	MiddleName  *string
	Surname     string
	Email       string
	WhatsApp    string
	Phone       string
	Location    string
	WorkType    string
	Ranking     string
	Budget      *string
	Timeline    *string
	Description string
	Reference   *string
	Maintenance bool
	Hosting     bool
	SEO         bool
	HearAbout   *string
	Status      AppointmentStatus
	AdminNotes  *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusReviewed  AppointmentStatus = "reviewed"
	AppointmentStatusAccepted  AppointmentStatus = "accepted"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusReviewed,
	AppointmentStatusAccepted,
	AppointmentStatusRejected,
	AppointmentStatusCompleted,
}

func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Notifies reports whether moving an appointment into s emails the client.
func (s AppointmentStatus) Notifies() bool {
	switch s {
	case AppointmentStatusAccepted, AppointmentStatusRejected, AppointmentStatusCompleted:
		return true
	}
	return false
}

// FullName joins first and last name the way client emails address people.
func (a Appointment) FullName() string {
	return a.FirstName + " " + a.Surname
}
