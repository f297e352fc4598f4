package migration

import (
	apitokendomain "github.com/smallbiznis/workbill/internal/apitoken/domain"
	authdomain "github.com/smallbiznis/workbill/internal/auth/domain"
	billingdomain "github.com/smallbiznis/workbill/internal/billing/domain"
	"github.com/smallbiznis/workbill/internal/config"
	workspacedomain "github.com/smallbiznis/workbill/internal/workspace/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(Run),
)

// Run migrates the schema. Postgres uses the versioned SQL migrations; other
// dialects fall back to AutoMigrate.
func Run(conn *gorm.DB, cfg config.Config) error {
	if cfg.DBType != "postgres" {
		return AutoMigrate(conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

// AutoMigrate creates the schema from the model definitions.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&workspacedomain.Workspace{},
		&apitokendomain.APIToken{},
		&workspacedomain.BillingQuota{},
		&billingdomain.Service{},
		&billingdomain.Bill{},
	)
}
