package academics

import (
	"net/http"
	"time"

	"verticx/internal/shared/apperror"
	"verticx/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("academics.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("academics.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("staff_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("academics request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetActiveSession(c *gin.Context) {
	branchID := c.GetString("branch_id")

	resp, err := h.service.GetActiveSession(c.Request.Context(), branchID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	branchID := c.GetString("branch_id")

	today := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "as_of must be YYYY-MM-DD", nil)
			return
		}
		today = parsed
	}

	resp, err := h.service.GetCalendar(c.Request.Context(), branchID, today)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) StartNewSession(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := getActorID(c)
	h.logger.Debug("http start new session", zap.String("branch_id", branchID), zap.String("actor_id", actorID))

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http start new session validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.StartNewSession(c.Request.Context(), branchID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) RecordGrades(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := getActorID(c)

	var req RecordGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http record grades validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.RecordGrades(c.Request.Context(), branchID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}
