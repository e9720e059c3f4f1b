package attendance

import (
	"net/http"
	"strconv"
	"time"

	"verticx/internal/shared/apperror"
	"verticx/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("staff_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) MarkClass(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := getActorID(c)

	var req MarkClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.MarkClass(c.Request.Context(), branchID, actorID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetClassAttendance(c *gin.Context) {
	branchID := c.GetString("branch_id")
	classID := c.Param("classId")
	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))

	resp, err := h.service.GetClassAttendance(c.Request.Context(), branchID, classID, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetStudentSummary(c *gin.Context) {
	branchID := c.GetString("branch_id")
	studentID := c.Param("studentId")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "year query parameter is required", nil)
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "month query parameter must be 1-12", nil)
		return
	}

	resp, err := h.service.StudentMonthlySummary(c.Request.Context(), branchID, studentID, year, time.Month(month))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
