package domain

import "time"

// Cadence is the timing policy of a publication schedule.
type Cadence string

const (
	CadenceInstant Cadence = "instant"
	CadenceHourly  Cadence = "hourly"
	CadenceDaily   Cadence = "daily"
	CadenceManual  Cadence = "manual"
)

// Valid reports whether the cadence is one of the known values.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceInstant, CadenceHourly, CadenceDaily, CadenceManual:
		return true
	}
	return false
}

// ScheduleStatus is a schedule's lifecycle state.
//
// Allowed transitions: pending -> processing -> {completed | failed} and
// pending -> cancelled. Terminal states are never left; a failed attempt
// does not return to pending.
type ScheduleStatus string

const (
	StatusPending    ScheduleStatus = "pending"
	StatusProcessing ScheduleStatus = "processing"
	StatusCompleted  ScheduleStatus = "completed"
	StatusFailed     ScheduleStatus = "failed"
	StatusCancelled  ScheduleStatus = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave the status.
func (s ScheduleStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Schedule is a persisted request to publish a blog under a cadence.
// Title, CategoryID, Cadence and ScheduledAt are immutable after creation;
// only the engine advances Status, CreatedBlogID and ErrorMessage.
type Schedule struct {
	ID            int64
	Title         string
	CategoryID    int64
	Cadence       Cadence
	ScheduledAt   *time.Time // required iff Cadence is manual
	Status        ScheduleStatus
	CreatedBlogID *int64 // set on the transition to completed
	ErrorMessage  string // set on the transition to failed
	CreatedAt     time.Time
}
