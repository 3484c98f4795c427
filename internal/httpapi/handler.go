package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pixelforge/internal/chat"
	"pixelforge/internal/history"
	"pixelforge/internal/kv"
	"pixelforge/internal/storage"
	"pixelforge/internal/training"
)

// Admin is the resolver surface the admin panel manages.
type Admin interface {
	Configure(credential string) bool
	IsConfigured() bool
	AddExample(ex training.Example) error
	ListExamples() []training.Example
	ClearExamples() error
}

type Handler struct {
	chat   *chat.Service
	admin  Admin
	flags  kv.Store
	logger *zap.Logger
}

func NewHandler(chatSvc *chat.Service, admin Admin, flags kv.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chat: chatSvc, admin: admin, flags: flags, logger: logger}
}

type Options struct {
	AllowedOrigins []string
	AdminToken     string
}

// Router mounts every route.
func (h *Handler) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(opts.AllowedOrigins))

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.postChat)
		r.Get("/chat/{sessionID}/history", h.getHistory)
		r.Delete("/chat/{sessionID}", h.deleteSession)

		r.Get("/prompt-seen", h.getPromptSeen)
		r.Put("/prompt-seen", h.putPromptSeen)

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuth(opts.AdminToken))
			r.Get("/status", h.adminStatus)
			r.Put("/credential", h.putCredential)
			r.Get("/examples", h.listExamples)
			r.Post("/examples", h.addExample)
			r.Delete("/examples", h.clearExamples)
		})
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string            `json:"sessionId"`
	Reply     any               `json:"reply"`
	History   []history.Message `json:"history"`
}

func (h *Handler) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	ex, err := h.chat.Ask(r.Context(), storage.ChannelWeb, req.SessionID, req.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("chat failed", zap.Error(err))
		Error(w, http.StatusInternalServerError, "chat failed")
		return
	}
	JSON(w, http.StatusOK, chatResponse{
		SessionID: ex.SessionID,
		Reply:     ex.Reply,
		History:   h.chat.History(ex.SessionID),
	})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	JSON(w, http.StatusOK, map[string]any{
		"sessionId": id,
		"messages":  h.chat.History(id),
	})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	h.chat.Reset(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

type promptSeen struct {
	Seen bool `json:"seen"`
}

func (h *Handler) getPromptSeen(w http.ResponseWriter, _ *http.Request) {
	v, ok, err := h.flags.Get(kv.KeySeenPrompt)
	if err != nil {
		h.logger.Error("read prompt flag", zap.Error(err))
		Error(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	seen := false
	if ok {
		seen, _ = strconv.ParseBool(v)
	}
	JSON(w, http.StatusOK, promptSeen{Seen: seen})
}

func (h *Handler) putPromptSeen(w http.ResponseWriter, r *http.Request) {
	var req promptSeen
	if !decode(w, r, &req) {
		return
	}
	if err := h.flags.Set(kv.KeySeenPrompt, strconv.FormatBool(req.Seen)); err != nil {
		h.logger.Error("write prompt flag", zap.Error(err))
		Error(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	JSON(w, http.StatusOK, req)
}

func (h *Handler) adminStatus(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"configured": h.admin.IsConfigured(),
		"examples":   len(h.admin.ListExamples()),
	})
}

type credentialRequest struct {
	Credential string `json:"credential"`
}

func (h *Handler) putCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if !decode(w, r, &req) {
		return
	}
	cred := strings.TrimSpace(req.Credential)
	if cred == "" {
		Error(w, http.StatusBadRequest, "credential must not be empty")
		return
	}
	if !h.admin.Configure(cred) {
		Error(w, http.StatusInternalServerError, "failed to save credential")
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"configured": true})
}

func (h *Handler) listExamples(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"examples": h.admin.ListExamples()})
}

func (h *Handler) addExample(w http.ResponseWriter, r *http.Request) {
	var ex training.Example
	if !decode(w, r, &ex) {
		return
	}
	ex.Input = strings.TrimSpace(ex.Input)
	ex.ExpectedOutput = strings.TrimSpace(ex.ExpectedOutput)
	ex.Category = strings.TrimSpace(ex.Category)
	if ex.Input == "" || ex.ExpectedOutput == "" {
		Error(w, http.StatusBadRequest, "input and expectedOutput are required")
		return
	}
	if err := h.admin.AddExample(ex); err != nil {
		Error(w, http.StatusInternalServerError, "failed to save example")
		return
	}
	JSON(w, http.StatusCreated, ex)
}

func (h *Handler) clearExamples(w http.ResponseWriter, _ *http.Request) {
	if err := h.admin.ClearExamples(); err != nil {
		Error(w, http.StatusInternalServerError, "failed to clear examples")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
