package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// executeWrite runs fn inside one transaction, maps the outcome into the
// aggregate error taxonomy, and records the operation for observability.
// Any failure anywhere inside fn rolls back every statement fn issued.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = string(domainagg.CodeOf(mapped))
		if status == "" {
			status = "failure"
		}
		if domainagg.IsCode(mapped, domainagg.CodeDuplicate) {
			deps.Hooks.IncDuplicate(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeBusy) {
			deps.Hooks.IncBusy(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}
