package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env       string
	Debug     bool
	TestMode  bool
	AppName   string
	SecretKey string

	// SchoolName appears on generated mark lists and report cards.
	SchoolName string

	Server struct {
		Host                      string
		Port                      string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// Admin holds the credentials accepted for the admin role.
	Admin struct {
		Username string
		Password string
	}

	// Storage selects the key-value backend: "file" or "postgres".
	Storage struct {
		Backend string
		DataDir string
	}

	Database struct {
		Engine     string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	DefaultFromEmailAddr string
	SendgridApiKey       string
	RollbarToken         string
}

func (c Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmailAddr}
}

func (c Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c Config) DatabaseAddress() string {
	return c.Database.Host + ":" + c.Database.Port
}

// NewConfig loads the app configuration from the environment with
// defaults suited for local development.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "KJS")
	v.SetDefault("secretKey", "v3*2p&1l$8#ycb-q0(o7s&5m4^sw@+f6d_ez!rj9u)ghxn%ita")
	v.SetDefault("schoolName", "CBC Junior School")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	// the original front-end shipped with these; override outside DEV
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dataDir", "data")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "kjs")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "kjs")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("defaultFromEmailAddr", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetDefault("env", env)
	if env == "TEST" {
		v.Set("testMode", true)
	}

	// load config/.env.<env> if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	if env != "DEV" && env != "TEST" && conf.SecretKey == "" {
		return nil, fmt.Errorf("%s_SECRETKEY is required", env)
	}
	return conf, nil
}
