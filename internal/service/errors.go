package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/amar-295/student-finance-db-sub001/internal/apperr"
	"github.com/amar-295/student-finance-db-sub001/internal/auth"
	"github.com/amar-295/student-finance-db-sub001/internal/middleware"
)

// connectError translates storage and validation errors into connect codes.
func connectError(err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case apperr.KindValidation:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case apperr.KindForbidden:
		return connect.NewError(connect.CodePermissionDenied, err)
	case apperr.KindConflict:
		return connect.NewError(connect.CodeAlreadyExists, err)
	case apperr.KindUnauthenticated:
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// requireUser returns the authenticated caller.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
