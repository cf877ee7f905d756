package auth

import (
	"context"

	"github.com/ghaggin/taskboard/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewTokensFromConfig,
		NewCredentialStoreFromConfig,
		NewIssuer,
	),
	fx.Invoke(seed),
)

func seed(lc fx.Lifecycle, i *Issuer, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return i.Seed(ctx, cfg.Auth.SeedUsers)
		},
	})
}
