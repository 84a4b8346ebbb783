package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

// memRepo is an in-memory attendee.Repository for handler tests.
type memRepo struct {
	items map[string]domain.Attendee
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]domain.Attendee)}
}

func (m *memRepo) Create(_ context.Context, a *domain.Attendee) error {
	if _, ok := m.items[a.PassID]; ok {
		return attendee.ErrDuplicatePass
	}
	m.items[a.PassID] = *a
	return nil
}

func (m *memRepo) Put(_ context.Context, a *domain.Attendee) error {
	m.items[a.PassID] = *a
	return nil
}

func (m *memRepo) Delete(_ context.Context, passID string) error {
	delete(m.items, passID)
	return nil
}

func (m *memRepo) GetByPassID(_ context.Context, passID string) (*domain.Attendee, error) {
	a, ok := m.items[passID]
	if !ok {
		return nil, attendee.ErrNotFound
	}
	return &a, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) ([]domain.Attendee, error) {
	var out []domain.Attendee
	for _, a := range m.items {
		if a.Email == email {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) Page(_ context.Context, limit int) ([]domain.Attendee, error) {
	var out []domain.Attendee
	for _, a := range m.items {
		if len(out) == limit {
			break
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) All(_ context.Context) ([]domain.Attendee, error) {
	var out []domain.Attendee
	for _, a := range m.items {
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) Count(_ context.Context) (int, error) {
	return len(m.items), nil
}

// stubLimiter allows or denies everything.
type stubLimiter struct {
	denied bool
}

func (s *stubLimiter) Allow(_ context.Context, _, _ string, _ int) (bool, time.Duration, error) {
	if s.denied {
		return false, 30 * time.Second, nil
	}
	return true, 0, nil
}

func newTestRouter(repo *memRepo, limiter TokenLimiter) http.Handler {
	h := NewHandlers(attendee.NewService(repo), limiter, 500, 5, 1000, 1<<20)
	return NewRouter(h, []string{"secret-token"}, nil)
}

func validBody(passID string) string {
	return bodyWithEmail(passID, strings.ToLower(passID)+"@example.com")
}

func bodyWithEmail(passID, email string) string {
	return fmt.Sprintf(`{
		"pass_id": %q, "name": "Asha Rao", "email": %q,
		"mobile": "+91-9000000001", "visitor_id": "V-1",
		"conference_name": "TNGSS 2025"
	}`, passID, email)
}

func doPost(t *testing.T, router http.Handler, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePass_Created(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo, &stubLimiter{})

	rec := doPost(t, router, "/attendee-passes/create", "secret-token", validBody("P-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if _, ok := repo.items["P-1"]; !ok {
		t.Error("record not stored")
	}
}

func TestCreatePass_MissingToken(t *testing.T) {
	router := newTestRouter(newMemRepo(), &stubLimiter{})

	rec := doPost(t, router, "/attendee-passes/create", "", validBody("P-1"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status %d", rec.Code)
	}
}

func TestCreatePass_WrongToken(t *testing.T) {
	router := newTestRouter(newMemRepo(), &stubLimiter{})

	rec := doPost(t, router, "/attendee-passes/create", "wrong", validBody("P-1"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status %d", rec.Code)
	}
}

func TestCreatePass_APIKeyHeaderAccepted(t *testing.T) {
	router := newTestRouter(newMemRepo(), &stubLimiter{})

	req := httptest.NewRequest(http.MethodPost, "/attendee-passes/create", strings.NewReader(validBody("P-1")))
	req.Header.Set("X-API-Key", "secret-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("status %d: %s", rec.Code, rec.Body)
	}
}

func TestCreatePass_DuplicateConflict(t *testing.T) {
	router := newTestRouter(newMemRepo(), &stubLimiter{})

	if rec := doPost(t, router, "/attendee-passes/create", "secret-token", validBody("P-1")); rec.Code != http.StatusCreated {
		t.Fatalf("first create: %d", rec.Code)
	}
	rec := doPost(t, router, "/attendee-passes/create", "secret-token", validBody("P-1"))
	if rec.Code != http.StatusConflict {
		t.Errorf("status %d, want 409", rec.Code)
	}
}

func TestCreatePass_ValidationFieldPaths(t *testing.T) {
	router := newTestRouter(newMemRepo(), &stubLimiter{})

	rec := doPost(t, router, "/attendee-passes/create", "secret-token",
		`{"pass_id": "P-1", "email": "not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}

	body := rec.Body.String()
	for _, field := range []string{"name", "email", "mobile", "visitor_id", "conference_name"} {
		if !strings.Contains(body, fmt.Sprintf("%q", field)) {
			t.Errorf("missing field path %q in %s", field, body)
		}
	}
}

func TestCreatePass_RateLimited(t *testing.T) {
	router := newTestRouter(newMemRepo(), &stubLimiter{denied: true})

	rec := doPost(t, router, "/attendee-passes/create", "secret-token", validBody("P-1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "30" {
		t.Errorf("Retry-After: %q", rec.Header().Get("Retry-After"))
	}
}

func TestCreateBulk_AllSettled(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo, &stubLimiter{})

	// P-1 pre-exists so it upserts; the middle item is invalid; P-2 is fresh.
	if rec := doPost(t, router, "/attendee-passes/create", "secret-token", validBody("P-1")); rec.Code != http.StatusCreated {
		t.Fatal("seed failed")
	}

	body := fmt.Sprintf(`{"items": [%s, {"pass_id": "P-X"}, %s]}`,
		strings.TrimSpace(validBody("P-1")), strings.TrimSpace(validBody("P-2")))
	rec := doPost(t, router, "/attendee-passes/bulk", "secret-token", body)
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp BulkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 3 || resp.Created != 1 || resp.Updated != 1 || resp.Invalid != 1 {
		t.Errorf("summary: %+v", resp)
	}
	if resp.Results[0].Status != "updated_by_pass_id" {
		t.Errorf("item 0: %+v", resp.Results[0])
	}
	if resp.Results[1].Status != "invalid" {
		t.Errorf("item 1: %+v", resp.Results[1])
	}
	found := false
	for _, fe := range resp.Results[1].Errors {
		if fe.Field == "items[1].email" {
			found = true
		}
	}
	if !found {
		t.Errorf("bulk field paths must carry the item index: %+v", resp.Results[1].Errors)
	}
	if _, ok := repo.items["P-2"]; !ok {
		t.Error("valid item must be created despite neighbors failing")
	}
}

func TestCreateBulk_PassIDMatchOverwritesEmail(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo, &stubLimiter{})

	first := fmt.Sprintf(`{"items": [%s]}`, bodyWithEmail("P-1", "a@example.com"))
	if rec := doPost(t, router, "/attendee-passes/bulk", "secret-token", first); rec.Code != http.StatusMultiStatus {
		t.Fatalf("seed: %d", rec.Code)
	}

	second := fmt.Sprintf(`{"items": [%s]}`, bodyWithEmail("P-1", "b@example.com"))
	rec := doPost(t, router, "/attendee-passes/bulk", "secret-token", second)
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp BulkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Updated != 1 || resp.Results[0].Status != "updated_by_pass_id" {
		t.Errorf("resend must overwrite, not conflict: %+v", resp)
	}
	if got := repo.items["P-1"].Email; got != "b@example.com" {
		t.Errorf("email correction must propagate, stored %q", got)
	}
}

func TestCreateBulk_EmailMatchMovesRecordToNewPassID(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo, &stubLimiter{})

	first := fmt.Sprintf(`{"items": [%s]}`, bodyWithEmail("P-1", "a@example.com"))
	if rec := doPost(t, router, "/attendee-passes/bulk", "secret-token", first); rec.Code != http.StatusMultiStatus {
		t.Fatalf("seed: %d", rec.Code)
	}

	second := fmt.Sprintf(`{"items": [%s]}`, bodyWithEmail("P-9", "a@example.com"))
	rec := doPost(t, router, "/attendee-passes/bulk", "secret-token", second)
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp BulkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Updated != 1 || resp.Results[0].Status != "updated_by_email" {
		t.Errorf("summary: %+v", resp)
	}
	if _, ok := repo.items["P-1"]; ok {
		t.Error("stale pass_id must be deleted")
	}
	if got := repo.items["P-9"].Email; got != "a@example.com" {
		t.Errorf("record must move to the new pass_id, stored %q", got)
	}
}

func TestCreateBulk_TooManyItems(t *testing.T) {
	h := NewHandlers(attendee.NewService(newMemRepo()), &stubLimiter{}, 500, 5, 2, 1<<20)
	router := NewRouter(h, []string{"secret-token"}, nil)

	body := fmt.Sprintf(`{"items": [%s, %s, %s]}`,
		validBody("P-1"), validBody("P-2"), validBody("P-3"))
	rec := doPost(t, router, "/attendee-passes/bulk", "secret-token", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d, want 413", rec.Code)
	}
}

func TestCreateBulk_EmptyItems(t *testing.T) {
	router := newTestRouter(newMemRepo(), &stubLimiter{})

	rec := doPost(t, router, "/attendee-passes/bulk", "secret-token", `{"items": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d", rec.Code)
	}
}

func TestDecode_OversizedBody(t *testing.T) {
	h := NewHandlers(attendee.NewService(newMemRepo()), &stubLimiter{}, 500, 5, 1000, 64)
	router := NewRouter(h, []string{"secret-token"}, nil)

	rec := doPost(t, router, "/attendee-passes/create", "secret-token", validBody("P-1"))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d, want 413", rec.Code)
	}
}
