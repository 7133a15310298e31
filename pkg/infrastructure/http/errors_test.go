package httputil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseErrorResponse_Success(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Body:       http.NoBody,
	}

	err := ParseErrorResponse(resp)
	if err != nil {
		t.Errorf("Expected nil error for 200 response, got: %v", err)
	}
}

func TestParseErrorResponse_Error(t *testing.T) {
	body := `{"message": "Bad Request", "errors": [{"resource": "Activity", "field": "start_date_local", "code": "invalid"}]}`
	resp := &http.Response{
		StatusCode: 400,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    httptest.NewRequest("POST", "https://www.strava.com/api/v3/activities", nil),
	}

	err := ParseErrorResponse(resp)
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}

	httpErr, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("Expected *HTTPError, got %T", err)
	}

	if httpErr.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", httpErr.StatusCode)
	}
	if httpErr.URL != "https://www.strava.com/api/v3/activities" {
		t.Errorf("Expected request URL, got %s", httpErr.URL)
	}
	if !strings.Contains(httpErr.Error(), "start_date_local") {
		t.Errorf("Expected Error() to contain body, got: %s", httpErr.Error())
	}
}

func TestParseErrorResponse_BodyRewrap(t *testing.T) {
	body := `{"error": "test"}`
	resp := &http.Response{
		StatusCode: 500,
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    httptest.NewRequest("GET", "https://www.strava.com/api/v3/athlete", nil),
	}

	_ = ParseErrorResponse(resp)

	rewrapped, _ := io.ReadAll(resp.Body)
	if string(rewrapped) != body {
		t.Errorf("Body not properly re-wrapped, got: %s", string(rewrapped))
	}
}

func TestExpectStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		want    int
		wantErr bool
	}{
		{"exact match", 201, 201, false},
		{"other success is an error", 200, 201, true},
		{"rate limited", 429, 201, true},
		{"server error", 503, 201, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader("body")),
			}
			err := ExpectStatus(resp, tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExpectStatus(%d, %d) error = %v, wantErr %v", tt.status, tt.want, err, tt.wantErr)
			}
			if err != nil && StatusCode(err) != tt.status {
				t.Errorf("StatusCode() = %d, want %d", StatusCode(err), tt.status)
			}
		})
	}
}

func TestExpectStatus_NilBody(t *testing.T) {
	err := ExpectStatus(&http.Response{StatusCode: 500}, 201)
	if err == nil {
		t.Fatal("Expected error")
	}
	if err.Error() != "Internal Server Error (status 500)" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestStatusCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("create activity: %w", &HTTPError{StatusCode: 422, Status: "Unprocessable Entity"})
	if StatusCode(err) != 422 {
		t.Errorf("Expected 422, got %d", StatusCode(err))
	}
	if StatusCode(fmt.Errorf("plain")) != 0 {
		t.Error("Expected 0 for non-HTTP error")
	}
}

func TestTruncate(t *testing.T) {
	short := "hello"
	if truncate(short, 10) != "hello" {
		t.Error("Short string should not be truncated")
	}

	long := strings.Repeat("a", 600)
	truncated := truncate(long, 500)
	if len(truncated) != 503 { // 500 + "..."
		t.Errorf("Expected length 503, got %d", len(truncated))
	}
	if !strings.HasSuffix(truncated, "...") {
		t.Error("Truncated string should end with ...")
	}
}
