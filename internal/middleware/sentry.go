package middleware

import (
	"context"

	"connectrpc.com/connect"
	"github.com/getsentry/sentry-go"
)

// ErrorReporting sends failures the caller cannot fix (internal, unknown and
// data loss codes) to Sentry. Without a configured client it does nothing.
func ErrorReporting() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			resp, err := next(ctx, req)
			if err == nil || !reportable(connect.CodeOf(err)) {
				return resp, err
			}

			hub := sentry.GetHubFromContext(ctx)
			if hub == nil {
				hub = sentry.CurrentHub().Clone()
			}
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("procedure", req.Spec().Procedure)
				if userID := GetUserID(ctx); userID != "" {
					scope.SetUser(sentry.User{ID: userID})
				}
				hub.CaptureException(err)
			})
			return resp, err
		}
	}
}

func reportable(code connect.Code) bool {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss:
		return true
	}
	return false
}
