package client

import "context"

const (
	// ExpiredSessionErrorType is the wire marker for an expired session.
	ExpiredSessionErrorType = "expired_session"
	// SessionStorageKey is the persisted-session storage key cleared on teardown.
	SessionStorageKey = "session"
	// SessionDestroyAction is the store action dispatched on teardown.
	SessionDestroyAction = "session/destroy"
	// SessionAlertKey groups session alerts for dismissal.
	SessionAlertKey = "session"
)

// Storage is the persisted client-side key-value store (localStorage analog).
type Storage interface {
	Remove(key string)
}

var sessionExpiredAlert = AlertPayload{
	Kind:        "warning",
	Message:     "Your session has expired. Please log in again.",
	ContextKey:  SessionAlertKey,
	Dismissable: true,
}

// SessionExpiryTeardown wraps the performer and, when the resolved response
// reports an expired session, dispatches the session-destroy action, clears
// the persisted session, displays the fixed expiry alert and marks the
// response as already alerted. Repeated expiry signals re-dispatch the same
// teardown, which is a no-op for an already logged-out store. Other
// responses pass through untouched.
func SessionExpiryTeardown(dispatch DispatchFunc, storage Storage, alerts *AlertsContext) Middleware {
	return func(next Performer) Performer {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if resp == nil || resp.ErrorType != ExpiredSessionErrorType {
				return resp, err
			}
			if dispatch != nil {
				dispatch(StoreAction{Type: SessionDestroyAction})
			}
			if storage != nil {
				storage.Remove(SessionStorageKey)
			}
			if alerts != nil && alerts.Display != nil {
				alerts.Display(sessionExpiredAlert)
			}
			resp.AlertHandled = true
			return resp, err
		}
	}
}
