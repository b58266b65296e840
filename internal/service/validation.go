package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"tush00nka/bbbab_chat/internal/event"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
)

var validate = validator.New()

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		msgs := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
			if fe.Param() != "" {
				return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
			}
			return fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag())
		})
		return apperr.Validation("invalid input: %s", strings.Join(msgs, "; "))
	}
	return apperr.Validation("invalid input: %v", err)
}

// publish hands ev to the broadcaster. The write that produced ev is already
// committed, so nothing the broadcaster does may reach the caller.
func publish(log *slog.Logger, broadcaster Broadcaster, ev event.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("broadcast panicked", "type", ev.Type, "panic", r)
		}
	}()

	delivered := broadcaster.Broadcast(ev)
	log.Debug("event broadcast", "type", ev.Type, "delivered", delivered)
}
