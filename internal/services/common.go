package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

// Notifier delivers hiring events to users.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, ev realtime.Event)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, uuid.UUID, realtime.Event) {}

// dbErr classifies a lookup error: record-not-found becomes NotFound with msg,
// anything else is Internal.
func dbErr(op, msg string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.E(utils.CodeNotFound, op, msg, utils.ErrNotFound)
	}
	return utils.E(utils.CodeInternal, op, "database error", err)
}

func internal(op string, err error) error {
	return utils.E(utils.CodeInternal, op, "database error", err)
}

func validate(op string, in any) error {
	if errs := utils.ValidateStruct(in); errs != nil {
		return utils.Invalid(op, errs)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
