package billing

import (
	"github.com/smallbiznis/workbill/internal/billing/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.New),
)
