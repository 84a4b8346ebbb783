package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tngss/attendee-sync/internal/pkg/httputil"
	"github.com/tngss/attendee-sync/internal/pkg/logger"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

// Handlers serves the pass-creation endpoints.
type Handlers struct {
	svc     *attendee.Service
	limiter TokenLimiter

	singlePerMinute int
	bulkPerMinute   int
	maxBulkItems    int
	maxBodyBytes    int64
}

// NewHandlers wires the creation endpoints to the attendee service.
func NewHandlers(svc *attendee.Service, limiter TokenLimiter, singlePerMinute, bulkPerMinute, maxBulkItems int, maxBodyBytes int64) *Handlers {
	return &Handlers{
		svc:             svc,
		limiter:         limiter,
		singlePerMinute: singlePerMinute,
		bulkPerMinute:   bulkPerMinute,
		maxBulkItems:    maxBulkItems,
		maxBodyBytes:    maxBodyBytes,
	}
}

// Health reports liveness. Unauthenticated.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// CreatePass handles POST /attendee-passes/create.
func (h *Handlers) CreatePass(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "single", h.singlePerMinute) {
		return
	}

	var req CreateRequest
	if !httputil.Decode(w, r, &req, h.maxBodyBytes) {
		return
	}
	if fieldErrs := req.Validate(""); len(fieldErrs) > 0 {
		httputil.ValidationFailed(w, fieldErrs)
		return
	}

	a := req.ToAttendee()
	if err := h.svc.Create(r.Context(), a); err != nil {
		if errors.Is(err, attendee.ErrDuplicatePass) {
			httputil.Conflict(w, fmt.Sprintf("pass_id %s already exists", a.PassID))
			return
		}
		httputil.InternalError(w, err)
		return
	}

	logger.Info("pass created", "pass_id", a.PassID, "email", a.Email)
	httputil.Created(w, a)
}

// BulkItemResult reports the outcome of one item in a bulk request.
type BulkItemResult struct {
	Index  int                   `json:"index"`
	PassID string                `json:"pass_id,omitempty"`
	Status string                `json:"status"` // created, updated_by_pass_id, updated_by_email, invalid, error
	Errors []httputil.FieldError `json:"errors,omitempty"`
}

// BulkResponse is the 207 body: every item settles independently.
type BulkResponse struct {
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Invalid int              `json:"invalid"`
	Failed  int              `json:"failed"`
	Results []BulkItemResult `json:"results"`
}

// CreateBulk handles POST /attendee-passes/bulk. Items upsert with dual-key
// matching: a pass_id match is overwritten in place, email included; an email
// match moves the record to the incoming pass_id; anything else inserts.
// Items settle independently, so one bad item never aborts the rest.
func (h *Handlers) CreateBulk(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, "bulk", h.bulkPerMinute) {
		return
	}

	var req BulkRequest
	if !httputil.Decode(w, r, &req, h.maxBodyBytes) {
		return
	}
	if len(req.Items) == 0 {
		httputil.BadRequest(w, "items must contain at least one entry")
		return
	}
	if len(req.Items) > h.maxBulkItems {
		httputil.PayloadTooLarge(w, fmt.Sprintf("bulk requests are capped at %d items", h.maxBulkItems))
		return
	}

	resp := BulkResponse{Total: len(req.Items)}
	for i, item := range req.Items {
		result := BulkItemResult{Index: i, PassID: item.PassID}

		if fieldErrs := item.Validate(fmt.Sprintf("items[%d].", i)); len(fieldErrs) > 0 {
			result.Status = "invalid"
			result.Errors = fieldErrs
			resp.Invalid++
			resp.Results = append(resp.Results, result)
			continue
		}

		a := item.ToAttendee()
		outcome, err := h.svc.Upsert(r.Context(), a)
		switch {
		case err != nil:
			logger.Error("bulk item failed", "index", i, "pass_id", item.PassID, "error", err)
			result.Status = "error"
			resp.Failed++
		case outcome == attendee.OutcomeCreated:
			result.Status = string(outcome)
			resp.Created++
		default:
			result.Status = string(outcome)
			resp.Updated++
		}
		resp.Results = append(resp.Results, result)
	}

	logger.Info("bulk upsert settled",
		"total", resp.Total, "created", resp.Created,
		"updated", resp.Updated, "invalid", resp.Invalid, "failed", resp.Failed)
	httputil.MultiStatus(w, resp)
}

// allow runs the per-token rate limit for the scope, writing the 429 itself.
func (h *Handlers) allow(w http.ResponseWriter, r *http.Request, scope string, limit int) bool {
	token := tokenFromContext(r.Context())
	allowed, retryAfter, err := h.limiter.Allow(r.Context(), token, scope, limit)
	if err != nil {
		httputil.InternalError(w, err)
		return false
	}
	if !allowed {
		httputil.TooManyRequests(w, int(retryAfter.Seconds()))
		return false
	}
	return true
}
