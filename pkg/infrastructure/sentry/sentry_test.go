package sentry

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
)

func TestInit_NoDSN(t *testing.T) {
	if err := Init(Config{}, nil); err != nil {
		t.Fatalf("Init without DSN should be a no-op, got: %v", err)
	}
}

func TestInit_InvalidDSN(t *testing.T) {
	if err := Init(Config{DSN: "not a dsn"}, nil); err == nil {
		t.Fatal("expected error for invalid DSN")
	}
}

func TestScrubEvent(t *testing.T) {
	event := &sentry.Event{
		Request: &sentry.Request{
			URL:         "http://localhost:8080/strava/auth/callback",
			QueryString: "code=secret-code&scope=activity:write",
			Headers: map[string]string{
				"Authorization": "Bearer abc",
				"Cookie":        "session=1",
				"User-Agent":    "curl",
			},
		},
	}

	out := scrubEvent(event, nil)

	if _, ok := out.Request.Headers["Authorization"]; ok {
		t.Error("Authorization header should be removed")
	}
	if _, ok := out.Request.Headers["Cookie"]; ok {
		t.Error("Cookie header should be removed")
	}
	if out.Request.Headers["User-Agent"] != "curl" {
		t.Error("Other headers should be kept")
	}
	if out.Request.QueryString != "" {
		t.Errorf("QueryString should be cleared, got %q", out.Request.QueryString)
	}
}

func TestScrubEvent_NoRequest(t *testing.T) {
	event := &sentry.Event{Message: "boom"}
	if scrubEvent(event, nil) != event {
		t.Error("event without request should pass through")
	}
}

func TestCapture_WithoutInit(t *testing.T) {
	// Uninitialized hub drops events
	CaptureException(errors.New("boom"), map[string]string{"execution_id": "x"}, nil)
	CaptureException(nil, nil, nil)
	CaptureMessage("hello", sentry.LevelWarning, nil, nil)
}
