package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort          string        `mapstructure:"HTTPPort"`
		Timeout           time.Duration `mapstructure:"HTTPTimeout"`
		StaticDir         string        `mapstructure:"staticDir"`
		AllowedOrigins    []string      `mapstructure:"allowedOrigins"`
		SignInPath        string        `mapstructure:"signInPath"`
		ProtectedPrefixes []string      `mapstructure:"protectedPrefixes"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			URL string `mapstructure:"url"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Session       SessionConfig   `mapstructure:"session"`
	PasswordReset struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"passwordReset"`
	Transform TransformConfig `mapstructure:"transform"`
	RateLimit struct {
		AuthRequests int           `mapstructure:"authRequests"`
		Window       time.Duration `mapstructure:"window"`
	} `mapstructure:"rateLimit"`
	Metrics struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

// SessionConfig holds the signing secret and cookie attributes of user sessions.
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookieName"`
}

// TransformConfig selects the content transform provider.
type TransformConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"apiKey"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (c Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// SESSION_SECRET, TRANSFORM_APIKEY, REPOSITORIES_POSTGRES_PASSWORD ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// AutomaticEnv only applies to keys viper already knows about, so the
	// secrets that ship empty in config.yml are bound explicitly.
	for _, key := range []string{"mode", "session.secret", "transform.apiKey", "transform.provider", "repositories.redis.url", "repositories.postgres.password"} {
		if err = v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate fills defaults and rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if c.Mode == "" {
		c.Mode = ModeDevelopment
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "session"
	}
	if c.Session.Secret == "" {
		if c.IsProduction() {
			return errors.New("session.secret must be set in production")
		}
		c.Session.Secret = "development-only-session-secret"
	}
	if c.PasswordReset.TTL <= 0 {
		c.PasswordReset.TTL = time.Hour
	}
	if c.Transform.Provider == "" {
		c.Transform.Provider = "mock"
	}
	if c.Transform.Timeout <= 0 {
		c.Transform.Timeout = 30 * time.Second
	}
	if c.Server.SignInPath == "" {
		c.Server.SignInPath = "/auth/sign-in"
	}
	if len(c.Server.ProtectedPrefixes) == 0 {
		c.Server.ProtectedPrefixes = []string{"/dashboard", "/settings"}
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	return nil
}
