package auth

import (
	"github.com/tokenbridge/discord-relay/internal/auth/providers"
	"github.com/tokenbridge/discord-relay/internal/config"
	"go.uber.org/fx"
)

// Module provides the auth service dependencies
var Module = fx.Options(
	fx.Provide(
		func(cfg *config.Config) *config.DiscordConfig { return &cfg.Discord },
		fx.Annotate(
			providers.NewDiscordProvider,
			fx.As(new(providers.Provider)),
		),
		NewService,
	),
)
