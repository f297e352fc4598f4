package workspace

import (
	"github.com/smallbiznis/workbill/internal/workspace/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("workspace.service",
	fx.Provide(repository.New),
)
