package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	workspacedomain "github.com/smallbiznis/workbill/internal/workspace/domain"
	"go.uber.org/zap"
)

func (s *Server) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"User": currentUser(c),
	})
}

func (s *Server) WorkspaceCreationPage(c *gin.Context) {
	c.HTML(http.StatusOK, "workspace_create.html", gin.H{
		"User": currentUser(c),
	})
}

// CreateWorkspace accepts the form post but performs no creation yet.
// TODO: persist the workspace once the creation flow is designed.
func (s *Server) CreateWorkspace(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (s *Server) WorkspaceBills(c *gin.Context) {
	user := currentUser(c)
	ctx := c.Request.Context()

	month := parseMonth(c.Query("month"))

	workspaceID, err := snowflake.ParseString(c.Param("workspaceId"))
	if err != nil {
		s.renderNotFound(c, "Workspace not found")
		return
	}

	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, workspacedomain.ErrWorkspaceNotFound) {
			s.renderNotFound(c, "Workspace not found")
			return
		}
		s.log.Error("load workspace", zap.Error(err))
		s.renderNotFound(c, "Workspace not found")
		return
	}

	// The ownership check runs only after a successful lookup so that a
	// missing workspace is always reported as not found, never forbidden.
	if ws.OwnerID != user.User.ID {
		s.renderForbidden(c, "You do not have access to this workspace")
		return
	}

	tokens, err := s.billing.WorkspaceUsage(ctx, ws.ID)
	if err != nil {
		s.log.Error("aggregate workspace usage", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "workspace_bills.html", gin.H{
		"User":      user,
		"Workspace": ws,
		"Month":     month,
		"Tokens":    tokens,
	})
}

func (s *Server) renderNotFound(c *gin.Context, description string) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"User":        currentUser(c),
		"Description": description,
	})
}

func (s *Server) renderForbidden(c *gin.Context, description string) {
	c.HTML(http.StatusForbidden, "403.html", gin.H{
		"User":        currentUser(c),
		"Description": description,
	})
}

// parseMonth parses the optional month filter. It is carried to the view but
// not applied to the query yet.
func parseMonth(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	return nil
}
