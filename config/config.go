// Package config loads the board configuration from an optional YAML file
// and BOARD_ prefixed environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-board"
	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BOARD_AUTH_SECRET
const EnvPrefix = "BOARD"

type BaseConfig struct {
	App       AppConfig       `mapstructure:"app" yaml:"app" json:"app"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server" json:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database" json:"database"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth" json:"auth"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap" yaml:"bootstrap" json:"bootstrap"`
}

type AppConfig struct {
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	Debug bool   `mapstructure:"debug" yaml:"debug" json:"debug"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address" json:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	CORSOrigins     string        `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn" json:"dsn"`
}

type AuthConfig struct {
	Secret          string `mapstructure:"secret" yaml:"secret" json:"secret" mask:"fixed"`
	Algorithm       string `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes" yaml:"token_ttl_minutes" json:"token_ttl_minutes"`
	Issuer          string `mapstructure:"issuer" yaml:"issuer" json:"issuer"`
	CookieName      string `mapstructure:"cookie_name" yaml:"cookie_name" json:"cookie_name"`
	SecureCookie    bool   `mapstructure:"secure_cookie" yaml:"secure_cookie" json:"secure_cookie"`
	TokenLookup     string `mapstructure:"token_lookup" yaml:"token_lookup" json:"token_lookup"`
	AuthScheme      string `mapstructure:"auth_scheme" yaml:"auth_scheme" json:"auth_scheme"`
	LoginRateLimit  int    `mapstructure:"login_rate_limit" yaml:"login_rate_limit" json:"login_rate_limit"`
}

// BootstrapConfig seeds an admin account on start up when username and
// password are both set.
type BootstrapConfig struct {
	AdminUsername string `mapstructure:"admin_username" yaml:"admin_username" json:"admin_username"`
	AdminEmail    string `mapstructure:"admin_email" yaml:"admin_email" json:"admin_email"`
	AdminPassword string `mapstructure:"admin_password" yaml:"admin_password" json:"admin_password" mask:"fixed"`
}

var _ board.Config = (*BaseConfig)(nil)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-board")
	v.SetDefault("app.debug", false)
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("database.dsn", "file:board.db?cache=shared")
	v.SetDefault("auth.algorithm", board.DefaultSigningMethod)
	v.SetDefault("auth.token_ttl_minutes", 1440)
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.cookie_name", "access_token")
	v.SetDefault("auth.secure_cookie", false)
	v.SetDefault("auth.token_lookup", "cookie:access_token,header:Authorization")
	v.SetDefault("auth.auth_scheme", "Bearer")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("bootstrap.admin_username", "")
	v.SetDefault("bootstrap.admin_email", "")
	v.SetDefault("bootstrap.admin_password", "")
}

// Load reads path when given, otherwise an optional config.yml in the
// working directory, then applies environment overrides and validates.
func Load(path string) (*BaseConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// no default, so AutomaticEnv alone would not surface it to Unmarshal
	if err := v.BindEnv("auth.secret"); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to bind auth secret")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to read config file")
		}
	}

	cfg := &BaseConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that have no usable default
func (c BaseConfig) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return board.ErrMissingSecret
	}

	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return board.ErrUnsupportedAlgorithm.Clone().WithMetadata(map[string]any{
			"algorithm": c.Auth.Algorithm,
		})
	}

	if c.Auth.TokenTTLMinutes <= 0 {
		return goerrors.New("auth.token_ttl_minutes must be positive", goerrors.CategoryValidation).
			WithMetadata(map[string]any{"token_ttl_minutes": c.Auth.TokenTTLMinutes})
	}

	return nil
}

func (c BaseConfig) GetSigningKey() string {
	return c.Auth.Secret
}

func (c BaseConfig) GetSigningMethod() string {
	return c.Auth.Algorithm
}

func (c BaseConfig) GetTokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func (c BaseConfig) GetIssuer() string {
	return c.Auth.Issuer
}

func (c BaseConfig) GetContextKey() string {
	return c.Auth.CookieName
}

func (c BaseConfig) GetTokenLookup() string {
	return c.Auth.TokenLookup
}

func (c BaseConfig) GetAuthScheme() string {
	return c.Auth.AuthScheme
}

func (c BaseConfig) GetSecureCookie() bool {
	return c.Auth.SecureCookie
}
