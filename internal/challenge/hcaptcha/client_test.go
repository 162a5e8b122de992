package hcaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifySuccess(t *testing.T) {
	var gotSecret, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/siteverify" {
			t.Errorf("path = %s, want /siteverify", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotSecret = r.PostForm.Get("secret")
		gotToken = r.PostForm.Get("response")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	result, err := client.Verify(context.Background(), "0xsecret", "tok-123")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if gotSecret != "0xsecret" || gotToken != "tok-123" {
		t.Errorf("form = (%q, %q), want (0xsecret, tok-123)", gotSecret, gotToken)
	}
}

func TestVerifyFailureWithErrorCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	result, err := client.Verify(context.Background(), "0xsecret", "bad-token")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if result.Success {
		t.Error("expected failure")
	}
	if len(result.ErrorCodes) != 1 || result.ErrorCodes[0] != "invalid-input-response" {
		t.Errorf("error codes = %v", result.ErrorCodes)
	}
}

func TestVerifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	if _, err := client.Verify(context.Background(), "s", "t"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestDefaultTransportRejectsLoopback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	// Default client keeps the SSRF guard; only an explicit WithHTTPClient
	// may reach loopback.
	client := New(WithBaseURL(server.URL))

	if _, err := client.Verify(context.Background(), "s", "t"); err == nil {
		t.Fatal("expected loopback dial to be denied")
	}
}
