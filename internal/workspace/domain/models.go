// Package domain contains persistence models for workspaces.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	apitokendomain "github.com/smallbiznis/workbill/internal/apitoken/domain"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
)

// Workspace is a billing unit owned by exactly one user.
type Workspace struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Title       string       `gorm:"type:varchar(100);not null;uniqueIndex:ux_workspaces_owner_title,priority:2"`
	Description string       `gorm:"type:text"`
	OwnerID     snowflake.ID `gorm:"column:owner_id;not null;uniqueIndex:ux_workspaces_owner_title,priority:1"`

	Owner        *authdomain.User          `gorm:"foreignKey:OwnerID"`
	APITokens    []apitokendomain.APIToken `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE"`
	BillingQuota *BillingQuota             `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Workspace) TableName() string { return "workspaces" }

// BillingQuota is a per-workspace spending limit. It is stored but not
// enforced anywhere yet.
type BillingQuota struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Limit       float64      `gorm:"column:limit_amount;not null"`
	WorkspaceID snowflake.ID `gorm:"column:workspace_id;not null;uniqueIndex"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BillingQuota) TableName() string { return "billing_quotas" }
