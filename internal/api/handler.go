package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/sharedpages/diary-server/internal/logger"
	"github.com/sharedpages/diary-server/internal/models"
	"github.com/sharedpages/diary-server/internal/service"
)

// Handler exposes the diary service over a single action-dispatched
// endpoint: POST /api/diary with {"action": "...", ...}. The action set is
// closed; dispatch goes through a lookup table and unknown actions are a
// 400, never a silent fallthrough.
type Handler struct {
	svc     service.Service
	log     *logger.Logger
	actions map[string]gin.HandlerFunc
}

// NewHandler creates a new API handler.
func NewHandler(svc service.Service, log *logger.Logger) *Handler {
	h := &Handler{svc: svc, log: log}
	h.actions = map[string]gin.HandlerFunc{
		"ping":               h.handlePing,
		"createDiary":        h.handleCreateDiary,
		"joinDiary":          h.handleJoinDiary,
		"createEntry":        h.handleCreateEntry,
		"verifyPasswords":    h.handleVerifyPasswords,
		"unlockEntries":      h.handleUnlockEntries,
		"getDiaryInfo":       h.handleGetDiaryInfo,
		"checkEntryStatus":   h.handleCheckEntryStatus,
		"getUnlockedEntries": h.handleGetUnlockedEntries,
		"getEntryDates":      h.handleGetEntryDates,
		"deleteDiary":        h.handleDeleteDiary,
	}
	return h
}

// SetupRoutes registers the API routes on the router.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.POST("/api/diary", h.dispatch)
}

type actionEnvelope struct {
	Action string `json:"action" binding:"required"`
}

func (h *Handler) dispatch(c *gin.Context) {
	var env actionEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		h.badRequest(c, "missing or malformed action")
		return
	}

	handle, ok := h.actions[env.Action]
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:    "UNKNOWN_ACTION",
			Message: "invalid action: " + env.Action,
		})
		return
	}

	c.Set("action", env.Action)
	handle(c)
}

func (h *Handler) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, models.PingResponse{
		Success:   true,
		Message:   "API is working",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleCreateDiary(c *gin.Context) {
	var req models.CreateDiaryRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing required parameters")
		return
	}

	resp, err := h.svc.CreateDiary(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleJoinDiary(c *gin.Context) {
	var req models.JoinDiaryRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing required parameters")
		return
	}

	resp, err := h.svc.JoinDiary(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleCreateEntry(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing required parameters")
		return
	}

	resp, err := h.svc.CreateEntry(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleVerifyPasswords(c *gin.Context) {
	var req models.VerifyPasswordsRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing required parameters")
		return
	}

	resp, err := h.svc.VerifyPasswords(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleUnlockEntries(c *gin.Context) {
	var req models.UnlockEntriesRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing required parameters")
		return
	}

	resp, err := h.svc.UnlockEntries(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleGetDiaryInfo(c *gin.Context) {
	var req models.DiaryInfoRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing diary ID")
		return
	}

	resp, err := h.svc.GetDiaryInfo(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleCheckEntryStatus(c *gin.Context) {
	var req models.EntryStatusRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing required parameters")
		return
	}

	resp, err := h.svc.CheckEntryStatus(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleGetUnlockedEntries(c *gin.Context) {
	var req models.UnlockedEntriesRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing diary ID")
		return
	}

	resp, err := h.svc.ListUnlockedEntries(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleGetEntryDates(c *gin.Context) {
	var req models.EntryDatesRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing diary ID")
		return
	}

	resp, err := h.svc.ListEntryDates(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleDeleteDiary(c *gin.Context) {
	var req models.DeleteDiaryRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.badRequest(c, "missing required parameters")
		return
	}

	resp, err := h.svc.DeleteDiary(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    string(service.KindValidation),
		Message: msg,
	})
}

// renderError maps the service error taxonomy onto HTTP statuses. Anything
// that is not a service error is a 500.
func (h *Handler) renderError(c *gin.Context, err error) {
	svcErr, ok := service.AsError(err)
	if !ok {
		h.log.Error().Err(err).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:    string(service.KindStore),
			Message: "internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case service.KindValidation, service.KindCountMismatch, service.KindUnknownUser:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindStore:
		h.log.Error().Err(svcErr).Msg("store error")
	}

	c.JSON(status, models.ErrorResponse{
		Code:     string(svcErr.Kind),
		Message:  svcErr.Message,
		User:     svcErr.User,
		Expected: svcErr.Expected,
		Provided: svcErr.Provided,
		Results:  svcErr.Results,
	})
}
