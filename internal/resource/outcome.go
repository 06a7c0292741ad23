package resource

import (
	"context"
	"errors"
	"log/slog"

	"github.com/simp-lee/parkadmin/internal/domain"
	"github.com/simp-lee/parkadmin/internal/middleware"
	"github.com/simp-lee/parkadmin/internal/pkg"
)

// Outcome is the explicit result of a mutation. The page layer inspects it
// and dispatches the toast; errors never travel further.
type Outcome struct {
	Message     string
	Kind        string
	FieldErrors map[string]string
	Err         error
}

// OK reports whether the mutation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Run executes op and folds its result into an Outcome. success is the toast
// on success; fallback is shown when the error carries no user-safe message.
func Run(ctx context.Context, success, fallback string, op func(ctx context.Context) error) Outcome {
	err := op(ctx)
	if err == nil {
		return Outcome{Message: success, Kind: pkg.ToastSuccess}
	}

	if id := middleware.RequestIDFromContext(ctx); id != "" && !isUserFacing(err) {
		fallback += " (reference " + id + ")"
	}
	o := Outcome{
		Message: safePageErrorMessage(err, fallback),
		Kind:    pkg.ToastError,
		Err:     err,
	}
	if field, msg, ok := domain.FieldOf(err); ok {
		o.FieldErrors = map[string]string{field: msg}
	} else if domain.IsAlreadyExists(err) {
		o.Message = "A record with the same unique value already exists."
	}

	if domain.IsInternal(err) || !isAppError(err) {
		slog.ErrorContext(ctx, "mutation failed", "error", err)
	} else {
		slog.DebugContext(ctx, "mutation rejected", "error", err)
	}
	return o
}

// safePageErrorMessage extracts a user-safe error message from an AppError.
// Only messages from user-facing error codes (NotFound, AlreadyExists, Validation,
// InUse, Busy) are returned. Internal or unknown error codes always return the
// fallback to prevent leaking technical details to end users.
func safePageErrorMessage(err error, fallback string) string {
	var appErr *domain.AppError
	if isUserFacing(err) && errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}

func isUserFacing(err error) bool {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Message == "" {
		return false
	}
	switch appErr.Code {
	case domain.CodeNotFound, domain.CodeAlreadyExists, domain.CodeValidation,
		domain.CodeInUse, domain.CodeBusy:
		return true
	}
	return false
}

func isAppError(err error) bool {
	var appErr *domain.AppError
	return errors.As(err, &appErr)
}
