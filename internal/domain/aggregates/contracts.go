package aggregates

import (
	"context"

	"github.com/google/uuid"
)

// RatingAggregator keeps book.avg_rating and book.rate_count consistent with
// the book_rating rows as users create or change their ratings. All writes
// happen inside one transaction with the book row locked FOR UPDATE, so two
// concurrent submissions for the same book serialize and neither recomputes
// from a stale aggregate pair.
type RatingAggregator interface {
	// SubmitRating creates or updates the caller's rating for a book.
	// Created is true only when a new rating row was inserted. Submitting
	// the same value twice is a no-op and still succeeds.
	SubmitRating(ctx context.Context, in SubmitRatingInput) (SubmitRatingResult, error)
}

type SubmitRatingInput struct {
	BookID uuid.UUID
	UserID uuid.UUID
	Value  int
}

type SubmitRatingResult struct {
	Created   bool    `json:"created"`
	Changed   bool    `json:"changed"`
	AvgRating float64 `json:"avg_rating"`
	RateCount int     `json:"rate_count"`
}

// RelationKind selects which join table a relation operation targets.
type RelationKind string

const (
	RelationBookAuthor   RelationKind = "book_author"
	RelationBookCategory RelationKind = "book_category"
)

// RelationSynchronizer manages the book↔author and book↔category join tables
// with incremental single-pair operations and a bulk replace-all. ReplaceAll
// and the single-pair mutations for the same book serialize on the book row
// lock, so a concurrent pair insert cannot be silently undone by an in-flight
// replace (or vice versa).
type RelationSynchronizer interface {
	// AddPair inserts one relation row; duplicate pairs fail with CodeDuplicate.
	AddPair(ctx context.Context, kind RelationKind, bookID, rightID uuid.UUID) error
	// RemovePair deletes one relation row if present; Removed=false is not an error.
	RemovePair(ctx context.Context, kind RelationKind, bookID, rightID uuid.UUID) (RemovePairResult, error)
	// ReplaceAll atomically replaces the full relation set for a book. The new
	// set is deduplicated before insert; an empty set only clears. Any id not
	// referencing an existing row fails the whole call with
	// CodeReferentialIntegrity and leaves the previous set intact.
	ReplaceAll(ctx context.Context, kind RelationKind, bookID uuid.UUID, rightIDs []uuid.UUID) error
}

type RemovePairResult struct {
	Removed bool `json:"removed"`
}

// EntityKind selects the parent entity for a cascade delete.
type EntityKind string

const (
	EntityBook     EntityKind = "book"
	EntityAuthor   EntityKind = "author"
	EntityCategory EntityKind = "category"
)

// CascadeDeleter removes an entity together with every row that exists only
// to reference it, as one atomic unit. Child rows go first, in a fixed order:
// ratings, then relations, then the parent row.
type CascadeDeleter interface {
	// DeleteEntity returns Existed=false (and rolls back) when the parent row
	// was not there; deleting a nonexistent entity is a no-op, not an error.
	DeleteEntity(ctx context.Context, kind EntityKind, id uuid.UUID) (DeleteEntityResult, error)
}

type DeleteEntityResult struct {
	Existed bool `json:"existed"`
}
