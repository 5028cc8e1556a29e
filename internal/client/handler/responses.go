package handler

import (
	"bimadesk/internal/audit"
	"bimadesk/internal/document"
)

// AuditLogResponse is the HTTP response for GET /clients/{clientID}/audit.
type AuditLogResponse struct {
	Entries []audit.Entry `json:"entries"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	Order   string        `json:"order"`
}

// DocumentListResponse is the HTTP response for
// GET /clients/{clientID}/documents.
type DocumentListResponse struct {
	Documents []document.Document `json:"documents"`
}
