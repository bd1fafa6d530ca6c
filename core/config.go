package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		Port                      string
		DebugHost                 string
		ReadTimeout               time.Duration
		WriteTimeout              time.Duration
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		AllowedOrigins            []string
	}

	DatabaseConfig struct {
		Engine        string // postgres | mongodb | memory
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		URI           string // overrides the other connection settings
	}

	AuthConfig struct {
		PasswordResetTimeoutDelta time.Duration
		MaxLoginAttempts          int
		LoginLockoutDelta         time.Duration
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		RollbarToken     string
		SendgridApiKey   string
		ScoreQuestions   []string
		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Auth     AuthConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// DefaultFromEmail parses the configured sender address, falling back to a bare address.
func (c *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
	}
	return *addr
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "FeedbackFort")
	v.SetDefault("secretKey", "x9!kq2$vd7+fz)pw3ne(0rj8=ub*m4hc&ty6l@sga%5oi1")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("defaultFromEmail", "FeedbackFort <noreply@localhost>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("scoreQuestions", []string{"q2", "q3", "q4", "q7"})

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 4*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("database.engine", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "feedbackfort")
	v.SetDefault("database.user", "feedbackfort")
	v.SetDefault("database.password", "feedbackfort")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.uri", "")

	v.SetDefault("auth.passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("auth.maxLoginAttempts", 5)
	v.SetDefault("auth.loginLockoutDelta", 15*time.Minute)
}

// loadDotEnv loads config/.env.<env> from the working directory or one of its parents, if any.
func loadDotEnv(env string) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	name := ".env." + strings.ToLower(env)
	for dir := wd; ; dir = filepath.Dir(dir) {
		path := filepath.Join(dir, "config", name)
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				log.Fatalf("config.godotenv(%s): %v", path, err)
			}
			return
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", path, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil || dir == filepath.Dir(dir) {
			return
		}
	}
}

// NewConfig reads the configuration from defaults, an optional dotenv file and the environment.
// Environment keys are prefixed with the uppercased ENV value, e.g. DEV_DATABASE_ENGINE.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "QA", "PROD":
		v.SetDefault("debug", false)
	}
	loadDotEnv(env)

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		ScoreQuestions:   v.GetStringSlice("scoreQuestions"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Port:                      v.GetString("server.port"),
			DebugHost:                 v.GetString("server.debugHost"),
			ReadTimeout:               v.GetDuration("server.readTimeout"),
			WriteTimeout:              v.GetDuration("server.writeTimeout"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			AllowedOrigins:            v.GetStringSlice("server.allowedOrigins"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			URI:           v.GetString("database.uri"),
		},
		Auth: AuthConfig{
			PasswordResetTimeoutDelta: v.GetDuration("auth.passwordResetTimeoutDelta"),
			MaxLoginAttempts:          v.GetInt("auth.maxLoginAttempts"),
			LoginLockoutDelta:         v.GetDuration("auth.loginLockoutDelta"),
		},
	}
	return conf
}

// NewTestConfig returns the configuration used by tests: in-memory storage and no debug output.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.Env = "TEST"
	conf.SecretKey = "test-secret-key"
	conf.Database.Engine = "memory"
	return conf
}
