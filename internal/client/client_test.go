package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestClientDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"failure","errorType":"invalid_login","message":"invalid login"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodPost, Path: "/auth/login"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.OK() {
		t.Fatalf("expected failure response")
	}
	if resp.ErrorType != "invalid_login" || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientSendsJSONBodyAndQuery(t *testing.T) {
	var gotBody map[string]string
	var gotQuery url.Values
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := c.Do(context.Background(), &Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Query:  url.Values{"verbose": []string{"1"}},
		Body:   map[string]string{"username": "gm"},
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected success, got %+v", resp)
	}
	if gotBody["username"] != "gm" {
		t.Fatalf("expected body to arrive, got %v", gotBody)
	}
	if gotQuery.Get("verbose") != "1" {
		t.Fatalf("expected query to arrive, got %v", gotQuery)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}
}

func TestClientShapesNonEnvelopeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.Status != StatusFailure || resp.ErrorType != "malformed_response" {
		t.Fatalf("expected shaped failure, got %+v", resp)
	}
}

func TestClientDefaultsStatusFromHTTPCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":1}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/api/sources/1"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected status defaulted to success, got %+v", resp)
	}
}

func TestClientPipelineEndToEnd(t *testing.T) {
	// Expired-session response from the server runs the full teardown stack.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stale-token" {
			t.Errorf("expected auth header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"failure","errorType":"expired_session"}`))
	}))
	defer srv.Close()

	var actions []StoreAction
	storage := &recordingStorage{}
	alerts, displayed, _ := collectingAlerts()
	generic := DisplayAlerts([]AlertDirective{
		{Status: StatusFailure, Display: &AlertPayload{Message: "Something went wrong."}},
	})

	// Teardown is innermost so it sees the response before the generic alert
	// layer does.
	c, err := New(srv.URL, srv.Client(),
		WithAuthHeader(func() string { return "stale-token" }),
		WithAlerts(generic, Options{Alerts: alerts}),
		SessionExpiryTeardown(func(a StoreAction) { actions = append(actions, a) }, storage, alerts),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/auth/session"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if !resp.AlertHandled {
		t.Fatalf("expected teardown to mark the response handled")
	}
	if len(actions) != 1 || actions[0].Type != SessionDestroyAction {
		t.Fatalf("expected destroy dispatch, got %v", actions)
	}
	if len(storage.removed) != 1 {
		t.Fatalf("expected session storage cleared, got %v", storage.removed)
	}
	if len(*displayed) != 1 || (*displayed)[0].ContextKey != SessionAlertKey {
		t.Fatalf("expected only the expiry alert, got %v", *displayed)
	}
}
