package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/session"
	"github.com/GTDGit/om_console/internal/utils"
)

// SessionSource is the part of the session store the gate needs.
type SessionSource interface {
	State() session.State
	Expired(now time.Time) bool
}

// SessionMiddleware keeps /console routes behind the login screen.
type SessionMiddleware struct {
	session SessionSource
}

func NewSessionMiddleware(sess SessionSource) *SessionMiddleware {
	return &SessionMiddleware{session: sess}
}

func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.session.State() != session.Authenticated {
			utils.Error(c, 401, utils.ErrLoginRequired.Error(), "Please sign in to continue")
			c.Abort()
			return
		}
		// The backend decides; an expired token is only logged here and the
		// next API call's 401 ends the session.
		if m.session.Expired(time.Now()) {
			log.Debug().Str("request_id", c.GetString("request_id")).Msg("Access token past its exp claim")
		}
		c.Next()
	}
}
