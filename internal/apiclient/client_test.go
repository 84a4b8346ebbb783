package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tngss/attendee-sync/internal/domain"
)

func TestCreatePass_Created(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", 0)
	res, err := c.CreatePass(context.Background(), &domain.Attendee{PassID: "P-1"})
	if err != nil {
		t.Fatalf("CreatePass: %v", err)
	}
	if res != ResultCreated {
		t.Errorf("result: %s", res)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth header: %q", gotAuth)
	}
	if gotPath != "/attendee-passes/create" {
		t.Errorf("path: %q", gotPath)
	}
}

func TestCreatePass_ConflictIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	res, err := New(srv.URL, "tok", 0).CreatePass(context.Background(), &domain.Attendee{PassID: "P-1"})
	if err != nil {
		t.Fatalf("conflict must not error: %v", err)
	}
	if res != ResultConflict {
		t.Errorf("result: %s", res)
	}
}

func TestCreatePass_ValidationRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"validation failed"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "tok", 0).CreatePass(context.Background(), &domain.Attendee{PassID: "P-1"})
	if err == nil {
		t.Fatal("expected an error for 400")
	}
}

func TestCreatePass_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	res, err := New(srv.URL, "tok", 0).CreatePass(context.Background(), &domain.Attendee{PassID: "P-1"})
	if err != nil {
		t.Fatalf("CreatePass: %v", err)
	}
	if res != ResultCreated || attempts != 3 {
		t.Errorf("result %s after %d attempts", res, attempts)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := New(srv.URL, "tok", 0).Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}
