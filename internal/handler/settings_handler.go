package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/preference"
	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/utils"
)

// SettingsHandler serves the shop profile form and the theme switch.
type SettingsHandler struct {
	profile  *preference.ProfileStore
	theme    *preference.ThemeStore
	validate *validator.Validate
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(profile *preference.ProfileStore, theme *preference.ThemeStore, v *validator.Validate) *SettingsHandler {
	return &SettingsHandler{profile: profile, theme: theme, validate: v}
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	utils.Success(c, 200, "Settings", gin.H{
		"profile": h.profile.Get(),
		"theme":   h.theme.Name(),
	})
}

// SaveProfile handles PUT /settings/profile
func (h *SettingsHandler) SaveProfile(c *gin.Context) {
	var req models.ShopProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if fields := resource.ValidateForm(h.validate, req); fields != nil {
		respondError(c, fields)
		return
	}
	if err := h.profile.Save(c.Request.Context(), req); err != nil {
		log.Error().Err(err).Msg("Failed to save shop profile")
		utils.Error(c, 500, "SETTINGS_SAVE_FAILED", "Failed to save settings")
		return
	}
	utils.Success(c, 200, "Settings saved", h.profile.Get())
}

// ToggleTheme handles POST /settings/theme/toggle
func (h *SettingsHandler) ToggleTheme(c *gin.Context) {
	dark, err := h.theme.Toggle(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to save theme")
		utils.Error(c, 500, "SETTINGS_SAVE_FAILED", "Failed to save theme")
		return
	}
	utils.Success(c, 200, "Theme changed", gin.H{
		"theme": h.theme.Name(),
		"dark":  dark,
	})
}
