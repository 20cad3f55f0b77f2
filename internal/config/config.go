package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("discord-relay version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Discord DiscordConfig `mapstructure:"discord"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type ServerConfig struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// DiscordConfig holds the OAuth application credentials and the provider
// endpoints. The URLs default to Discord's production API and are only
// overridden in tests.
type DiscordConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURI  string   `mapstructure:"redirect_uri"`
	Scopes       []string `mapstructure:"scopes"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	UserURL      string   `mapstructure:"user_url"`
}

type CORSConfig struct {
	AllowOrigin string `mapstructure:"allow_origin"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.Int("port", 0, "Port to listen on (overrides config)")
	pflag.String("config", "", "Path to the config file")
	// Note: no pflag.Parse() here, cobra owns the command line
}

func setDefaults() {
	viper.SetDefault("server.name", "discord-relay")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3001)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.disable_stacktrace", false)
	viper.SetDefault("cors.allow_origin", "http://localhost:3000")
	// Credentials default to empty so the keys are visible to AutomaticEnv
	viper.SetDefault("discord.client_id", "")
	viper.SetDefault("discord.client_secret", "")
	viper.SetDefault("discord.redirect_uri", "")
	viper.SetDefault("discord.scopes", []string{"identify", "email"})
	viper.SetDefault("discord.auth_url", "https://discord.com/api/oauth2/authorize")
	viper.SetDefault("discord.token_url", "https://discord.com/api/oauth2/token")
	viper.SetDefault("discord.user_url", "https://discord.com/api/users/@me")
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state
	setDefaults()

	viper.SetEnvPrefix("DISCORD_RELAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/discord-relay")

		// A config file is optional, environment variables are enough
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if port := viper.GetInt("port"); port != 0 {
		config.Server.Port = port
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that the credentials the relay cannot run without are set.
func (c *Config) Validate() error {
	if c.Discord.ClientID == "" {
		return fmt.Errorf("discord.client_id is required, set it in the config or pass DISCORD_RELAY_DISCORD_CLIENT_ID")
	}
	if c.Discord.ClientSecret == "" {
		return fmt.Errorf("discord.client_secret is required, set it in the config or pass DISCORD_RELAY_DISCORD_CLIENT_SECRET")
	}
	if c.Discord.RedirectURI == "" {
		return fmt.Errorf("discord.redirect_uri is required, set it in the config or pass DISCORD_RELAY_DISCORD_REDIRECT_URI")
	}
	return nil
}
