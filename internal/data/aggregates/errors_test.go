package aggregates

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
)

func TestMapError_Nil(t *testing.T) {
	if MapError("op", nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}

func TestMapError_PassesThroughDomainErrors(t *testing.T) {
	orig := domainagg.NewError(domainagg.CodeValidation, "op", "bad input", nil)
	mapped := MapError("other", orig)
	if mapped != orig {
		t.Fatalf("domain errors must pass through unchanged")
	}
}

func TestMapError_PostgresCodes(t *testing.T) {
	cases := []struct {
		pgCode string
		want   domainagg.ErrorCode
	}{
		{"23505", domainagg.CodeDuplicate},
		{"23503", domainagg.CodeReferentialIntegrity},
		{"55P03", domainagg.CodeBusy},
		{"40001", domainagg.CodeBusy},
		{"40P01", domainagg.CodeBusy},
	}
	for _, tc := range cases {
		err := MapError("op", &pgconn.PgError{Code: tc.pgCode})
		if !domainagg.IsCode(err, tc.want) {
			t.Fatalf("pg code %s: expected %s, got %v", tc.pgCode, tc.want, err)
		}
	}
}

func TestMapError_GormSentinels(t *testing.T) {
	if err := MapError("op", gorm.ErrRecordNotFound); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("record not found: got %v", err)
	}
	if err := MapError("op", gorm.ErrDuplicatedKey); !domainagg.IsCode(err, domainagg.CodeDuplicate) {
		t.Fatalf("duplicated key: got %v", err)
	}
	if err := MapError("op", gorm.ErrForeignKeyViolated); !domainagg.IsCode(err, domainagg.CodeReferentialIntegrity) {
		t.Fatalf("foreign key violated: got %v", err)
	}
}

func TestMapError_Tags(t *testing.T) {
	if err := MapError("op", ValidationError("bad")); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("validation tag: got %v", err)
	}
	if err := MapError("op", NotFoundError("gone")); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("not found tag: got %v", err)
	}
	if err := MapError("op", DuplicateError("again")); !domainagg.IsCode(err, domainagg.CodeDuplicate) {
		t.Fatalf("duplicate tag: got %v", err)
	}
}

func TestMapError_MessageSniffing(t *testing.T) {
	cases := []struct {
		msg  string
		want domainagg.ErrorCode
	}{
		{"ERROR: duplicate key value violates unique constraint", domainagg.CodeDuplicate},
		{"update violates foreign key constraint", domainagg.CodeReferentialIntegrity},
		{"deadlock detected", domainagg.CodeBusy},
		{"canceling statement due to lock timeout", domainagg.CodeBusy},
		{"database is locked", domainagg.CodeBusy},
		{"something exploded", domainagg.CodeInternal},
	}
	for _, tc := range cases {
		err := MapError("op", errors.New(tc.msg))
		if !domainagg.IsCode(err, tc.want) {
			t.Fatalf("%q: expected %s, got %v", tc.msg, tc.want, err)
		}
	}
}

func TestRetryable_OnlyBusy(t *testing.T) {
	busy := MapError("op", &pgconn.PgError{Code: "55P03"})
	if !domainagg.Retryable(busy) {
		t.Fatalf("busy must be retryable")
	}
	for _, err := range []error{
		MapError("op", gorm.ErrRecordNotFound),
		MapError("op", gorm.ErrDuplicatedKey),
		MapError("op", errors.New("boom")),
		nil,
	} {
		if domainagg.Retryable(err) {
			t.Fatalf("only busy is retryable, got retryable for %v", err)
		}
	}
}
