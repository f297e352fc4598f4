package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
	"go.uber.org/zap"
)

const (
	msgBadCredentials   = "Incorrect username or password"
	msgPasswordMismatch = "Passwords do not match"
	msgUsernameTaken    = "This username is already taken"
)

func (s *Server) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (s *Server) Login(c *gin.Context) {
	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Username:  c.PostForm("username"),
		Password:  c.PostForm("password"),
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		if !errors.Is(err, authdomain.ErrInvalidCredentials) {
			s.log.Error("login failed", zap.Error(err))
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": msgBadCredentials})
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil &&
			!errors.Is(err, authdomain.ErrInvalidSession) {
			s.log.Error("logout failed", zap.Error(err))
		}
	}
	s.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (s *Server) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	passwordRepeat := c.PostForm("password-repeat")

	if password != passwordRepeat {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Errors": gin.H{"Password": msgPasswordMismatch},
		})
		return
	}

	_, err := s.authsvc.Register(c.Request.Context(), authdomain.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		// Any creation failure surfaces as the duplicate-username message;
		// the duplicate is the only expected cause.
		if !errors.Is(err, authdomain.ErrUserExists) {
			s.log.Error("register failed", zap.Error(err))
		}
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Errors": gin.H{"Username": msgUsernameTaken},
		})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}
