package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
)

var (
	// ErrValidation tags caller input the aggregate rejects.
	ErrValidation = errors.New("aggregate validation")
	// ErrNotFound tags a missing parent entity.
	ErrNotFound = errors.New("aggregate not found")
	// ErrDuplicate tags a uniqueness conflict detected in the aggregate itself.
	ErrDuplicate = errors.New("aggregate duplicate")
)

// ValidationError tags an error as a validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// NotFoundError tags an error as a missing-entity failure.
func NotFoundError(msg string) error {
	return errors.Join(ErrNotFound, errors.New(strings.TrimSpace(msg)))
}

// DuplicateError tags an error as a duplicate failure.
func DuplicateError(msg string) error {
	return errors.Join(ErrDuplicate, errors.New(strings.TrimSpace(msg)))
}

// MapError resolves store and tag errors into the fixed aggregate taxonomy.
// Postgres conditions: 23505 unique_violation, 23503 foreign_key_violation,
// 55P03 lock_not_available, 40001 serialization_failure, 40P01 deadlock.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*domainagg.Error); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrValidation):
		return domainagg.Wrap(domainagg.CodeValidation, op, err)
	case errors.Is(err, ErrNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, ErrDuplicate):
		return domainagg.Wrap(domainagg.CodeDuplicate, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainagg.Wrap(domainagg.CodeDuplicate, op, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domainagg.Wrap(domainagg.CodeReferentialIntegrity, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeBusy, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeDuplicate, op, err)
		case "23503":
			return domainagg.Wrap(domainagg.CodeReferentialIntegrity, op, err)
		case "55P03", "40001", "40P01":
			return domainagg.Wrap(domainagg.CodeBusy, op, err)
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return domainagg.Wrap(domainagg.CodeDuplicate, op, err)
	case strings.Contains(msg, "foreign key"):
		return domainagg.Wrap(domainagg.CodeReferentialIntegrity, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "lock timeout"),
		strings.Contains(msg, "could not obtain lock"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "serialization"):
		return domainagg.Wrap(domainagg.CodeBusy, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
}
