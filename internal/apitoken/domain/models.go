// Package domain contains persistence models for workspace API tokens.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const tokenBytes = 20

// APIToken is a credential record scoped to a workspace. The token value is
// generated once at creation and never changes.
type APIToken struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Name        string       `gorm:"type:varchar(100);not null;uniqueIndex:ux_api_tokens_workspace_name,priority:2"`
	Token       string       `gorm:"type:char(40);not null"`
	RevokedAt   *time.Time   `gorm:"column:revoked_at"`
	WorkspaceID snowflake.ID `gorm:"column:workspace_id;not null;uniqueIndex:ux_api_tokens_workspace_name,priority:1"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (APIToken) TableName() string { return "api_tokens" }

// BeforeCreate fills in the token default value.
func (t *APIToken) BeforeCreate(tx *gorm.DB) error {
	_ = tx
	if t.Token != "" {
		return nil
	}
	value, err := NewTokenValue()
	if err != nil {
		return err
	}
	t.Token = value
	return nil
}

// NewTokenValue returns a 40-character random hex token.
func NewTokenValue() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
