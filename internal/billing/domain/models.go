// Package domain contains persistence models for billable services and their
// usage records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	apitokendomain "github.com/smallbiznis/workbill/internal/apitoken/domain"
)

// Service is a billable unit under an API token with a per-millisecond cost.
type Service struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	Name       string       `gorm:"type:varchar(100);not null;uniqueIndex:ux_services_token_name,priority:2"`
	CostPerMs  float64      `gorm:"column:cost_per_ms;not null"`
	APITokenID snowflake.ID `gorm:"column:api_token_id;not null;uniqueIndex:ux_services_token_name,priority:1"`

	APIToken *apitokendomain.APIToken `gorm:"foreignKey:APITokenID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Service) TableName() string { return "services" }

// Bill is an immutable, append-only usage record for a service.
type Bill struct {
	ID                snowflake.ID `gorm:"primaryKey"`
	UsageStartedAt    time.Time    `gorm:"column:usage_started_at;not null"`
	UsageDurationInMs int64        `gorm:"column:usage_duration_in_ms;not null"`
	ServiceID         snowflake.ID `gorm:"column:service_id;not null;index"`

	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }
