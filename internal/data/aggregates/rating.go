package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	catalogrepo "github.com/yungbote/bookshelf-backend/internal/data/repos/catalog"
	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	types "github.com/yungbote/bookshelf-backend/internal/domain/catalog"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
)

type RatingAggregatorDeps struct {
	Base BaseDeps

	Books   catalogrepo.BookRepo
	Ratings catalogrepo.BookRatingRepo
}

type ratingAggregator struct {
	deps RatingAggregatorDeps
}

func NewRatingAggregator(deps RatingAggregatorDeps) domainagg.RatingAggregator {
	deps.Base = deps.Base.withDefaults()
	return &ratingAggregator{deps: deps}
}

// SubmitRating serializes on the book row lock: the locked read of
// (avg_rating, rate_count) and the recompute happen inside the same
// transaction, so concurrent submissions for one book cannot lose updates.
// Submissions for different books touch different rows and do not block
// each other.
func (a *ratingAggregator) SubmitRating(ctx context.Context, in domainagg.SubmitRatingInput) (domainagg.SubmitRatingResult, error) {
	const op = "Catalog.Rating.Submit"
	var out domainagg.SubmitRatingResult

	if in.BookID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing book_id", nil)
	}
	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.Value < 1 || in.Value > 10 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("rating value %d out of range [1,10]", in.Value), nil)
	}
	if a.deps.Books == nil || a.deps.Ratings == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "rating aggregator repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		book, err := a.deps.Books.LockByID(dbc, in.BookID)
		if err != nil {
			return err
		}

		existing, err := a.deps.Ratings.GetByBookAndUser(dbc, in.BookID, in.UserID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			row := &types.BookRating{BookID: in.BookID, UserID: in.UserID, Value: in.Value}
			if err := a.deps.Ratings.Create(dbc, row); err != nil {
				return err
			}
			newCount := book.RateCount + 1
			newAvg := (book.AvgRating*float64(book.RateCount) + float64(in.Value)) / float64(newCount)
			if err := a.deps.Books.UpdateAggregate(dbc, in.BookID, newAvg, newCount); err != nil {
				return err
			}
			out = domainagg.SubmitRatingResult{Created: true, Changed: true, AvgRating: newAvg, RateCount: newCount}

		case existing.Value == in.Value:
			out = domainagg.SubmitRatingResult{Created: false, Changed: false, AvgRating: book.AvgRating, RateCount: book.RateCount}

		default:
			if err := a.deps.Ratings.UpdateValue(dbc, in.BookID, in.UserID, in.Value); err != nil {
				return err
			}
			// rate_count >= 1 here because a rating row already exists.
			newAvg := (book.AvgRating*float64(book.RateCount) - float64(existing.Value) + float64(in.Value)) / float64(book.RateCount)
			if err := a.deps.Books.UpdateAggregate(dbc, in.BookID, newAvg, book.RateCount); err != nil {
				return err
			}
			out = domainagg.SubmitRatingResult{Created: false, Changed: true, AvgRating: newAvg, RateCount: book.RateCount}
		}
		return nil
	})
	if err != nil {
		return domainagg.SubmitRatingResult{}, err
	}
	return out, nil
}
