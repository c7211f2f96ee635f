package efilinghandler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peopleops/internal/domain/efiling"
	"peopleops/internal/transport/http/api"
	"peopleops/internal/transport/http/middleware"
	"peopleops/internal/transport/http/shared"
)

type Handler struct {
	Service  *efiling.Service
	MaxBytes int64
}

func NewHandler(service *efiling.Service, maxBytes int64) *Handler {
	return &Handler{Service: service, MaxBytes: maxBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/efiling", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/send", h.handleSend)
		r.Post("/forward", h.handleForward)
		r.Get("/inbox", h.handleInbox)
		r.Get("/sent", h.handleSent)
		r.Get("/history", h.handleHistory)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Get("/track/{transferID}", h.handleTrack)
		r.Get("/download/{transferID}", h.handleDownload)
		r.Patch("/{transferID}/read", h.handleMarkRead)
		r.Delete("/{transferID}", h.handleDelete)
	})
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	// Multipart headroom beyond the file cap covers the text fields.
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		api.Fail(w, http.StatusRequestEntityTooLarge, "upload too large", middleware.GetRequestID(r.Context()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "file field is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	in := efiling.SendInput{
		RecipientID: r.FormValue("recipientId"),
		Subject:     r.FormValue("subject"),
		Remarks:     r.FormValue("remarks"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	if in.RecipientID == "" || in.Subject == "" {
		api.Fail(w, http.StatusBadRequest, "recipientId and subject are required", middleware.GetRequestID(r.Context()))
		return
	}

	transfer, err := h.Service.Send(r.Context(), user.UserID, in)
	switch {
	case errors.Is(err, efiling.ErrFileTooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrUnsupportedType):
		api.Fail(w, http.StatusUnsupportedMediaType, "unsupported file type", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrSelfTransfer):
		api.Fail(w, http.StatusBadRequest, "cannot send a file to yourself", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to send file", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, transfer, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleForward(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload efiling.ForwardInput
	if err := shared.DecodeAndValidate(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error(), middleware.GetRequestID(r.Context()))
		return
	}

	transfer, err := h.Service.Forward(r.Context(), user, payload)
	switch {
	case errors.Is(err, efiling.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "transfer not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrNotParticipant):
		api.Fail(w, http.StatusForbidden, "not a participant of this transfer", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrSelfTransfer):
		api.Fail(w, http.StatusBadRequest, "cannot forward a file to yourself", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to forward file", middleware.GetRequestID(r.Context()))
	default:
		api.Created(w, transfer, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleInbox(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	limit, offset := shared.PageQuery(r)
	h.respondList(w, r)(h.Service.Inbox(r.Context(), user.UserID, limit, offset))
}

func (h *Handler) handleSent(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	limit, offset := shared.PageQuery(r)
	h.respondList(w, r)(h.Service.Sent(r.Context(), user.UserID, limit, offset))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	limit, offset := shared.PageQuery(r)
	h.respondList(w, r)(h.Service.History(r.Context(), user.UserID, r.URL.Query().Get("filter"), limit, offset))
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request) func([]efiling.Transfer, error) {
	return func(transfers []efiling.Transfer, err error) {
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "failed to list transfers", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, transfers, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	count, err := h.Service.UnreadCount(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "failed to count unread transfers", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int{"unreadCount": count}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	trail, err := h.Service.Track(r.Context(), user, chi.URLParam(r, "transferID"))
	switch {
	case errors.Is(err, efiling.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "transfer not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrNotParticipant):
		api.Fail(w, http.StatusForbidden, "not a participant of this thread", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to track transfer", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, trail, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	transfer, file, err := h.Service.Download(r.Context(), user, chi.URLParam(r, "transferID"))
	switch {
	case errors.Is(err, efiling.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "transfer not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, efiling.ErrNotParticipant):
		api.Fail(w, http.StatusForbidden, "not a participant of this transfer", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to open file", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", transfer.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(transfer.FileSize, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", transfer.FileName))
	http.ServeContent(w, r, transfer.FileName, transfer.CreatedAt, file)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	transfer, err := h.Service.MarkRead(r.Context(), user.UserID, chi.URLParam(r, "transferID"))
	switch {
	case errors.Is(err, efiling.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "transfer not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrNotParticipant):
		api.Fail(w, http.StatusForbidden, "only the recipient may mark a transfer read", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to mark transfer read", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, transfer, middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	err := h.Service.Delete(r.Context(), user.UserID, chi.URLParam(r, "transferID"))
	switch {
	case errors.Is(err, efiling.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "transfer not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrNotSender):
		api.Fail(w, http.StatusForbidden, "only the sender may delete a transfer", middleware.GetRequestID(r.Context()))
	case errors.Is(err, efiling.ErrDeleteWindowClosed):
		api.Fail(w, http.StatusBadRequest, "delete window has closed", middleware.GetRequestID(r.Context()))
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "failed to delete transfer", middleware.GetRequestID(r.Context()))
	default:
		api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
	}
}
