package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
	"github.com/smallbiznis/workbill/internal/auth/repository"
	"github.com/smallbiznis/workbill/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) authdomain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&authdomain.User{}, &authdomain.Session{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(zap.NewNop(), repo, sessionRepo, node)
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "alice",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if user.PasswordHash == "correct-password" {
		t.Fatal("password stored in plaintext")
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "alice",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	if result.User.ID != user.ID {
		t.Fatalf("expected session for user %v, got %v", user.ID, result.User.ID)
	}
	if result.RawToken == "" {
		t.Fatal("expected session token")
	}

	session, err := svc.Authenticate(context.Background(), result.RawToken)
	if err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("expected session user %v, got %v", user.ID, session.UserID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "alice",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	if err != authdomain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "alice",
		Password: "first-password",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	_, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "alice",
		Password: "second-password",
	})
	if err != authdomain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(context.Background(), authdomain.RegisterRequest{
		Username: "alice",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	result, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Username: "alice",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}

	if err := svc.Logout(context.Background(), result.RawToken); err != nil {
		t.Fatalf("failed to logout: %v", err)
	}

	_, err = svc.Authenticate(context.Background(), result.RawToken)
	if err != authdomain.ErrSessionRevoked {
		t.Fatalf("expected ErrSessionRevoked, got %v", err)
	}
}
