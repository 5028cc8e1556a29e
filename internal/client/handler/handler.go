package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bimadesk/internal/audit"
	"bimadesk/internal/client"
	"bimadesk/internal/client/service"
	"bimadesk/internal/document"
	id "bimadesk/pkg/domain"
	"bimadesk/pkg/platform/httputil"
	"bimadesk/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks

// Service defines the interface for client record operations.
type Service interface {
	Create(ctx context.Context, in *client.Input) (*service.View, error)
	Get(ctx context.Context, clientID id.ClientID) (*service.View, error)
	Update(ctx context.Context, clientID id.ClientID, in *client.Input) (*service.View, error)
	Delete(ctx context.Context, clientID id.ClientID) error
	AttachDocument(ctx context.Context, clientID id.ClientID, docType, storageRef, fileName string) (*document.Document, error)
	Documents(ctx context.Context, clientID id.ClientID) ([]document.Document, error)
	AuditLog(ctx context.Context, clientID id.ClientID, page, limit int, order audit.Order) ([]audit.Entry, error)
	AuditStats(ctx context.Context, clientID id.ClientID) (audit.Stats, error)
}

// Handler wires client endpoints to the client service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a client handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts client endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/clients", h.HandleCreate)
	r.Get("/clients/{clientID}", h.HandleGet)
	r.Patch("/clients/{clientID}", h.HandleUpdate)
	r.Delete("/clients/{clientID}", h.HandleDelete)
	r.Post("/clients/{clientID}/documents", h.HandleAttachDocument)
	r.Get("/clients/{clientID}/documents", h.HandleListDocuments)
	r.Get("/clients/{clientID}/audit", h.HandleAuditLog)
	r.Get("/clients/{clientID}/audit/stats", h.HandleAuditStats)
}

// HandleCreate handles POST /clients requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	in, ok := httputil.DecodeAndPrepare[client.Input](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	view, err := h.service.Create(ctx, &in)
	if err != nil {
		h.logger.ErrorContext(ctx, "client create failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "client created",
		"request_id", requestID,
		"client_id", view.ID,
		"client_type", view.ClientType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /clients/{clientID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.service.Get(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleUpdate handles PATCH /clients/{clientID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	in, ok := httputil.DecodeAndPrepare[client.Input](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	view, err := h.service.Update(ctx, clientID, &in)
	if err != nil {
		h.logger.ErrorContext(ctx, "client update failed",
			"request_id", requestID,
			"client_id", clientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "client updated",
		"request_id", requestID,
		"client_id", clientID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /clients/{clientID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, clientID); err != nil {
		h.logger.ErrorContext(ctx, "client delete failed",
			"request_id", requestID,
			"client_id", clientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "client deleted",
		"request_id", requestID,
		"client_id", clientID,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleAttachDocument handles POST /clients/{clientID}/documents requests.
func (h *Handler) HandleAttachDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[AttachDocumentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	doc, err := h.service.AttachDocument(ctx, clientID, req.Type, req.StorageRef, req.FileName)
	if err != nil {
		h.logger.ErrorContext(ctx, "document attach failed",
			"request_id", requestID,
			"client_id", clientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

// HandleListDocuments handles GET /clients/{clientID}/documents requests.
func (h *Handler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	docs, err := h.service.Documents(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DocumentListResponse{Documents: docs})
}

// HandleAuditLog handles GET /clients/{clientID}/audit requests.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, limit, order := auditListParams(r)
	entries, err := h.service.AuditLog(ctx, clientID, page, limit, order)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditLogResponse{
		Entries: entries,
		Page:    page,
		Limit:   limit,
		Order:   string(order),
	})
}

// HandleAuditStats handles GET /clients/{clientID}/audit/stats requests.
func (h *Handler) HandleAuditStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := id.ParseClientID(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stats, err := h.service.AuditStats(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
