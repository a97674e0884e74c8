package domain

import "errors"

var (
	// ErrValidation marks input rejected before anything is persisted.
	ErrValidation = errors.New("invalid input")

	// ErrCategoryNotFound is returned when a referenced category does not
	// exist; at process time it marks the schedule failed.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrScheduleNotFound is returned for lookups of unknown schedules.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrBlogNotFound is returned for lookups of unknown blogs.
	ErrBlogNotFound = errors.New("blog not found")

	// ErrAlreadyClaimed signals that a concurrent caller won the claim on
	// a schedule. It is a benign race outcome, not a processing failure.
	ErrAlreadyClaimed = errors.New("schedule already claimed")

	// ErrNotPending signals a conflicting operation on a schedule that has
	// been claimed or is already terminal.
	ErrNotPending = errors.New("schedule is not pending")

	// ErrSlugTaken is reported by the blog store when an insert hits the
	// unique slug index; the engine retries with the next suffix.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrSlugExhausted is returned when collision retries run out.
	ErrSlugExhausted = errors.New("slug allocation exhausted")
)
