package handler

import (
	"net/http"
	"strconv"
	"strings"

	"bimadesk/internal/audit"
	dErrors "bimadesk/pkg/domain-errors"
)

// AttachDocumentRequest is the HTTP request body for
// POST /clients/{clientID}/documents.
type AttachDocumentRequest struct {
	Type       string `json:"type"`
	StorageRef string `json:"storageRef"`
	FileName   string `json:"fileName"`
}

// Validate checks the required fields of the attach request.
func (r *AttachDocumentRequest) Validate() error {
	r.Type = strings.TrimSpace(r.Type)
	r.StorageRef = strings.TrimSpace(r.StorageRef)
	r.FileName = strings.TrimSpace(r.FileName)
	if r.Type == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "type is required")
	}
	if r.StorageRef == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "storageRef is required")
	}
	return nil
}

// auditListParams reads pagination query parameters, applying the same
// clamps the service uses so the echoed values match what was served.
func auditListParams(r *http.Request) (page, limit int, order audit.Order) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	order = audit.OrderNewestFirst
	if q.Get("order") == string(audit.OrderChronological) {
		order = audit.OrderChronological
	}
	return page, limit, order
}
