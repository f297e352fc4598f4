package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
	workspacedomain "github.com/smallbiznis/workbill/internal/workspace/domain"
	"go.uber.org/zap"
)

const contextCurrentUserKey = "current_user"

// CurrentUser is the session-resolved user attached to every request,
// together with the workspaces it owns and their API tokens.
type CurrentUser struct {
	User       authdomain.User
	Workspaces []workspacedomain.Workspace
}

// CurrentUser resolves the request's user from the session cookie. The user
// and its workspaces are loaded with one bounded query each; requests without
// a valid session continue with no user set.
func (s *Server) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		sess, err := s.authsvc.Authenticate(ctx, token)
		if err != nil {
			if !isSessionError(err) {
				s.log.Error("authenticate session", zap.Error(err))
			}
			c.Next()
			return
		}

		user, err := s.users.FindByID(ctx, sess.UserID)
		if err != nil {
			if !errors.Is(err, authdomain.ErrUserNotFound) {
				s.log.Error("load session user", zap.Error(err))
			}
			c.Next()
			return
		}

		workspaces, err := s.workspaces.ListByOwner(ctx, user.ID)
		if err != nil {
			s.log.Error("load user workspaces", zap.Error(err))
			c.Next()
			return
		}

		c.Set(contextCurrentUserKey, &CurrentUser{
			User:       *user,
			Workspaces: workspaces,
		})
		c.Next()
	}
}

// LoginRequired redirects unauthenticated requests to the login page.
func (s *Server) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *CurrentUser {
	value, ok := c.Get(contextCurrentUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*CurrentUser)
	if !ok {
		return nil
	}
	return user
}

func isSessionError(err error) bool {
	return errors.Is(err, authdomain.ErrInvalidSession) ||
		errors.Is(err, authdomain.ErrSessionExpired) ||
		errors.Is(err, authdomain.ErrSessionRevoked)
}
