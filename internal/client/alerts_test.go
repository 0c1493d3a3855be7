package client

import "testing"

func collectingAlerts() (*AlertsContext, *[]AlertPayload, *[]string) {
	displayed := &[]AlertPayload{}
	dismissed := &[]string{}
	return &AlertsContext{
		Display: func(p AlertPayload) { *displayed = append(*displayed, p) },
		Dismiss: func(key string) { *dismissed = append(*dismissed, key) },
	}, displayed, dismissed
}

func TestDisplayAlertsFirstDirectiveOnly(t *testing.T) {
	alerts, displayed, _ := collectingAlerts()
	effect := DisplayAlerts([]AlertDirective{
		{ErrorType: "invalid_login", Display: &AlertPayload{Kind: "error", Message: "Bad login."}},
		{Status: StatusFailure, Display: &AlertPayload{Kind: "error", Message: "Something went wrong."}},
	})

	effect(&Response{Status: StatusFailure, ErrorType: "invalid_login"}, Options{Alerts: alerts})

	if len(*displayed) != 1 || (*displayed)[0].Message != "Bad login." {
		t.Fatalf("expected only the first matching directive, got %v", *displayed)
	}
}

func TestDisplayAlertsStatusFallback(t *testing.T) {
	alerts, displayed, _ := collectingAlerts()
	effect := DisplayAlerts([]AlertDirective{
		{ErrorType: "invalid_login", Display: &AlertPayload{Message: "Bad login."}},
		{Status: StatusFailure, Display: &AlertPayload{Message: "Something went wrong."}},
	})

	effect(&Response{Status: StatusFailure, ErrorType: "validation"}, Options{Alerts: alerts})

	if len(*displayed) != 1 || (*displayed)[0].Message != "Something went wrong." {
		t.Fatalf("expected the status fallback directive, got %v", *displayed)
	}
}

func TestDisplayAlertsDismissDirective(t *testing.T) {
	alerts, displayed, dismissed := collectingAlerts()
	effect := DisplayAlerts([]AlertDirective{
		{Status: StatusSuccess, Dismiss: "session"},
		{Status: StatusFailure, Display: &AlertPayload{Message: "Something went wrong."}},
	})

	effect(&Response{Status: StatusSuccess}, Options{Alerts: alerts})

	if len(*dismissed) != 1 || (*dismissed)[0] != "session" {
		t.Fatalf("expected session dismissal, got %v", *dismissed)
	}
	if len(*displayed) != 0 {
		t.Fatalf("dismiss directive must not display, got %v", *displayed)
	}
}

func TestDisplayAlertsNoMatchNoAction(t *testing.T) {
	alerts, displayed, dismissed := collectingAlerts()
	effect := DisplayAlerts([]AlertDirective{
		{ErrorType: "invalid_login", Display: &AlertPayload{Message: "Bad login."}},
	})

	effect(&Response{Status: StatusSuccess}, Options{Alerts: alerts})

	if len(*displayed) != 0 || len(*dismissed) != 0 {
		t.Fatalf("expected no actions, got %v / %v", *displayed, *dismissed)
	}
}

func TestDisplayAlertsNilAlertsContext(t *testing.T) {
	effect := DisplayAlerts([]AlertDirective{
		{Status: StatusFailure, Display: &AlertPayload{Message: "boom"}},
	})

	// Must not panic without an injected alerts context.
	effect(&Response{Status: StatusFailure}, Options{})
}
