package domain

import (
	"encoding/hex"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workbill/pkg/db"
)

func TestNewTokenValue(t *testing.T) {
	value, err := NewTokenValue()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if len(value) != 40 {
		t.Fatalf("expected 40-char token, got %d", len(value))
	}
	if _, err := hex.DecodeString(value); err != nil {
		t.Fatalf("expected hex token, got %v", err)
	}

	other, err := NewTokenValue()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if value == other {
		t.Fatal("expected distinct token values")
	}
}

func TestBeforeCreateFillsToken(t *testing.T) {
	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&APIToken{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	token := &APIToken{ID: node.Generate(), Name: "tok1", WorkspaceID: node.Generate()}
	if err := dbConn.Create(token).Error; err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	if len(token.Token) != 40 {
		t.Fatalf("expected generated 40-char token, got %q", token.Token)
	}

	// An explicitly provided value is kept as-is.
	fixed := &APIToken{ID: node.Generate(), Name: "tok2", WorkspaceID: token.WorkspaceID, Token: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	if err := dbConn.Create(fixed).Error; err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	if fixed.Token != "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Fatalf("expected provided token kept, got %q", fixed.Token)
	}
}
