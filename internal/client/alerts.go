package client

// AlertPayload is a displayable notification.
type AlertPayload struct {
	Kind        string
	Message     string
	ContextKey  string
	Dismissable bool
}

// AlertsContext carries the injected alert operations. Handlers receive it
// through Options instead of reading any ambient store.
type AlertsContext struct {
	Display func(payload AlertPayload)
	Dismiss func(contextKey string)
}

// DispatchFunc sends an action to the client-side store.
type DispatchFunc func(action StoreAction)

// StoreAction is a store dispatch payload.
type StoreAction struct {
	Type string
}

// Options carries the injected dependencies for matcher handlers and effects.
type Options struct {
	Alerts   *AlertsContext
	Dispatch DispatchFunc
	Navigate func(path string)
}

// AlertDirective is a declarative routing rule: a response condition paired
// with a display or dismiss action.
type AlertDirective struct {
	ErrorType string
	Status    string
	Display   *AlertPayload
	Dismiss   string
}

func (d AlertDirective) condition() Condition {
	return Condition{ErrorType: d.ErrorType, Status: d.Status}
}

// Effect performs side effects for a response; it returns nothing to the
// response pipeline.
type Effect func(resp *Response, opts Options)

// DisplayAlerts compiles directives into an Effect. The directive list is
// reduced into chained On calls, so at most the first matching directive's
// action executes per response.
func DisplayAlerts(directives []AlertDirective) Effect {
	return func(resp *Response, opts Options) {
		m := Match(resp, opts)
		for _, d := range directives {
			directive := d
			m = m.On(directive.condition(), func(resp *Response, opts Options) {
				if opts.Alerts == nil {
					return
				}
				if directive.Dismiss != "" {
					opts.Alerts.Dismiss(directive.Dismiss)
					return
				}
				if directive.Display != nil {
					opts.Alerts.Display(*directive.Display)
				}
			})
		}
	}
}
