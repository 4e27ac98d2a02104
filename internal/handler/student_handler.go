package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/service"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
	"github.com/dayoon-dev/homeroom-api/pkg/export"
	"github.com/dayoon-dev/homeroom-api/pkg/response"
)

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List returns the roster of a class sorted by number. With active=true
// only visible students are returned.
func (h *StudentHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "false") == "true"
	students, err := h.service.List(c.Request.Context(), c.Param("id"), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Create adds one student to a class.
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update modifies one student.
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete removes one student.
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PastePreview parses pasted roster text into drafts without persisting.
func (h *StudentHandler) PastePreview(c *gin.Context) {
	var req service.PastePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	drafts := h.service.PastePreview(req)
	response.JSON(c, http.StatusOK, drafts)
}

// Replace swaps the whole roster of a class with the posted drafts.
func (h *StudentHandler) Replace(c *gin.Context) {
	var req service.ReplaceRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	students, err := h.service.ReplaceRoster(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// ImportPaste parses pasted roster text and replaces the class roster.
func (h *StudentHandler) ImportPaste(c *gin.Context) {
	var req service.PastePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	students, err := h.service.ImportPaste(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

type autosaveRequest struct {
	Students []models.Student `json:"students"`
}

// Autosave stages edited records for the debounced batch writer and
// returns immediately.
func (h *StudentHandler) Autosave(c *gin.Context) {
	var req autosaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.service.QueueAutosave(req.Students)
	c.Status(http.StatusAccepted)
}

// ExportCSV streams the class roster as a spreadsheet-compatible CSV.
func (h *StudentHandler) ExportCSV(c *gin.Context) {
	classID := c.Param("id")
	students, err := h.service.List(c.Request.Context(), classID, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := export.RosterCSV(students)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "roster_"+classID+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
