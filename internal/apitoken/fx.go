package apitoken

import (
	"github.com/smallbiznis/workbill/internal/apitoken/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("apitoken.service",
	fx.Provide(repository.New),
)
