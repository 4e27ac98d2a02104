package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dayoon-dev/homeroom-api/internal/service"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
	"github.com/dayoon-dev/homeroom-api/pkg/response"
)

// PrintHandler exposes template listing, calibration and rendering.
type PrintHandler struct {
	service *service.PrintService
	metrics *service.MetricsService
}

// NewPrintHandler constructs a print handler.
func NewPrintHandler(svc *service.PrintService, metrics *service.MetricsService) *PrintHandler {
	return &PrintHandler{service: svc, metrics: metrics}
}

// Templates lists every registered print template.
func (h *PrintHandler) Templates(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Templates())
}

// Profile resolves the calibration profile for templateId, optionally
// scoped to classId, creating the default lazily.
func (h *PrintHandler) Profile(c *gin.Context) {
	templateID := c.Query("templateId")
	if templateID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "templateId is required"))
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), templateID, optionalQuery(c, "classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// SaveProfile overwrites the editable calibration fields.
func (h *PrintHandler) SaveProfile(c *gin.Context) {
	templateID := c.Query("templateId")
	if templateID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "templateId is required"))
		return
	}
	var req service.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.service.SaveProfile(c.Request.Context(), templateID, optionalQuery(c, "classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// UpdateOffset sets the print-head calibration offset on a profile.
func (h *PrintHandler) UpdateOffset(c *gin.Context) {
	var req service.UpdateOffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	profile, err := h.service.UpdateOffset(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Render produces the PDF for a template and streams it inline.
func (h *PrintHandler) Render(c *gin.Context) {
	var req service.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	start := time.Now()
	pdf, err := h.service.Render(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveRender(req.TemplateID, time.Since(start))
	}
	c.Header("Content-Disposition", "inline; filename=\""+req.TemplateID+".pdf\"")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func optionalQuery(c *gin.Context, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}
