package domain

import "time"

// Category groups published blogs; managed outside this engine, read here
// for existence checks and public listings.
type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Blog is a published article. It is created exactly once by the schedule
// engine, already published, and never mutated afterwards.
type Blog struct {
	ID              int64
	CategoryID      int64
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	MetaTitle       string
	MetaDescription string
	PublishedAt     time.Time
	CreatedAt       time.Time
}

// GeneratedContent is what a content generator produces for a title and
// category pair. Slug is the suggested base slug; the engine resolves
// collisions against already published blogs.
type GeneratedContent struct {
	Content         string
	Excerpt         string
	MetaTitle       string
	MetaDescription string
	Slug            string
}
