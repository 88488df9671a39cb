package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/session"
	"github.com/GTDGit/om_console/internal/shell"
	"github.com/GTDGit/om_console/internal/utils"
	"github.com/GTDGit/om_console/pkg/shopapi"
)

// AuthAPI is the token part of the shop API.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*models.TokenPair, error)
}

type AuthHandler struct {
	api     AuthAPI
	session *session.Store
	shell   *shell.Shell
}

func NewAuthHandler(api AuthAPI, sess *session.Store, sh *shell.Shell) *AuthHandler {
	return &AuthHandler{api: api, session: sess, shell: sh}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Username and password are required")
		return
	}

	ctx := c.Request.Context()
	tokens, err := h.api.Login(ctx, models.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		if shopapi.IsUnauthorized(err) {
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		respondError(c, err)
		return
	}
	if err := h.session.SetToken(ctx, tokens.Access, tokens.Refresh); err != nil {
		log.Error().Err(err).Msg("Failed to persist session")
		utils.Error(c, 500, "SESSION_STORE_FAILED", "Signed in, but the session could not be saved")
		return
	}
	log.Info().Str("username", req.Username).Msg("Console signed in")

	// The landing page loading is not part of signing in.
	if _, err := h.shell.Navigate(ctx, h.shell.Landing()); err != nil && !errors.Is(err, utils.ErrStaleResult) {
		log.Warn().Err(err).Msg("Landing page failed to load")
	}

	utils.Success(c, 200, "Login successful", h.sessionInfo())
}

// Refresh handles POST /auth/refresh. The console never refreshes on its own.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh := h.session.RefreshToken()
	if refresh == "" {
		utils.Error(c, 400, "NO_REFRESH_TOKEN", "No refresh token is stored for this session")
		return
	}

	ctx := c.Request.Context()
	tokens, err := h.api.RefreshToken(ctx, refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.session.SetToken(ctx, tokens.Access, tokens.Refresh); err != nil {
		log.Error().Err(err).Msg("Failed to persist refreshed session")
		utils.Error(c, 500, "SESSION_STORE_FAILED", "Token refreshed, but it could not be saved")
		return
	}

	utils.Success(c, 200, "Token refreshed", h.sessionInfo())
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.session.Clear(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to clear persisted session")
	}
	utils.Success(c, 200, "Logged out", h.sessionInfo())
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	utils.Success(c, 200, "Session state", h.sessionInfo())
}

func (h *AuthHandler) sessionInfo() gin.H {
	info := gin.H{
		"state":  h.session.State().String(),
		"layout": h.shell.Layout(),
	}
	if exp, ok := h.session.ExpiresAt(); ok {
		info["expiresAt"] = exp.Format(time.RFC3339)
		info["expired"] = h.session.Expired(time.Now())
	}
	return info
}

