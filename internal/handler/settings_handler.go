package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayoon-dev/homeroom-api/internal/repository"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
	"github.com/dayoon-dev/homeroom-api/pkg/response"
)

// SettingsHandler exposes the string-keyed preference pairs. The surface
// is generic so new keys need no schema or handler change.
type SettingsHandler struct {
	settings *repository.SettingsRepository
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(settings *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type settingPayload struct {
	Value json.RawMessage `json:"value"`
}

// Get returns the stored value for a key, or null when unset.
func (h *SettingsHandler) Get(c *gin.Context) {
	var value json.RawMessage
	found, err := h.settings.Get(c.Request.Context(), c.Param("key"), &value)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		value = json.RawMessage("null")
	}
	response.JSON(c, http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

// Set stores a value under a key.
func (h *SettingsHandler) Set(c *gin.Context) {
	var payload settingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.settings.Set(c.Request.Context(), c.Param("key"), payload.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"key": c.Param("key"), "value": payload.Value})
}
