package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultConfigYAML configuração padrão embutida no binário
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// Config configuração da aplicação
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Email     EmailConfig     `mapstructure:"email"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configuração do servidor HTTP
type ServerConfig struct {
	Port     string `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`
	BaseURL  string `mapstructure:"base_url"`
	Timezone string `mapstructure:"timezone"`

	// resolvido em applyDefaults
	Location *time.Location `mapstructure:"-"`
}

// DatabaseConfig configuração do banco (mysql ou postgres)
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"` // quando preenchido substitui host/port/...
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// JWTConfig configuração dos tokens Bearer
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// SessionConfig cookies fx_session / fx_session_last
type SessionConfig struct {
	Secret             string        `mapstructure:"secret"`
	MaxAgeDays         int           `mapstructure:"max_age_days"`
	IdleTimeoutMinutes int           `mapstructure:"idle_timeout_minutes"`
	MaxAge             time.Duration `mapstructure:"-"`
	IdleTimeout        time.Duration `mapstructure:"-"`
}

// AuthConfig identidade de fallback no modo single-user
type AuthConfig struct {
	SingleUserEmail string `mapstructure:"single_user_email"`
}

// RedisConfig redis opcional para o rate limit de login
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig limites do endpoint de login
type RateLimitConfig struct {
	LoginMax           int `mapstructure:"login_max"`
	LoginWindowSeconds int `mapstructure:"login_window_seconds"`
}

// EmailConfig configuração SMTP
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// JobsConfig tarefas agendadas
type JobsConfig struct {
	WeeklyDigestEnabled bool   `mapstructure:"weekly_digest_enabled"`
	WeeklyDigestCron    string `mapstructure:"weekly_digest_cron"`
}

// LogConfig configuração do logrus
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

var (
	// GlobalConfig instância global
	GlobalConfig *Config
)

// LoadConfig carrega a configuração
// Prioridade: variáveis FINX_* > arquivo externo > default.yaml embutido
func LoadConfig(configPath string) (*Config, error) {
	// .env é opcional
	if err := godotenv.Load(); err == nil {
		logrus.Info("arquivo .env carregado")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("falha ao ler configuração embutida: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			logrus.Warnf("não foi possível ler o arquivo de configuração %s: %v", configPath, err)
		} else {
			logrus.Infof("configuração externa mesclada: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/financeirox")
		externalViper.AddConfigPath("$HOME/.financeirox")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				logrus.Warnf("falha ao mesclar configuração externa: %v", err)
			} else {
				logrus.Infof("configuração externa mesclada: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("FINX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// nome histórico da variável do modo single-user
	_ = v.BindEnv("auth.single_user_email", "FINX_SINGLE_USER_EMAIL", "FINX_AUTH_SINGLE_USER_EMAIL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao interpretar configuração: %w", err)
	}

	applyDefaults(&cfg)
	GlobalConfig = &cfg

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.Session.MaxAgeDays <= 0 {
		cfg.Session.MaxAgeDays = 7
	}
	if cfg.Session.IdleTimeoutMinutes <= 0 {
		cfg.Session.IdleTimeoutMinutes = 30
	}
	cfg.Session.MaxAge = time.Duration(cfg.Session.MaxAgeDays) * 24 * time.Hour
	cfg.Session.IdleTimeout = time.Duration(cfg.Session.IdleTimeoutMinutes) * time.Minute

	if cfg.RateLimit.LoginMax <= 0 {
		cfg.RateLimit.LoginMax = 10
	}
	if cfg.RateLimit.LoginWindowSeconds <= 0 {
		cfg.RateLimit.LoginWindowSeconds = 60
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = defaultTimezone
	}
	cfg.Server.Location = resolveLocation(cfg.Server.Timezone)
	cfg.Auth.SingleUserEmail = strings.TrimSpace(strings.ToLower(cfg.Auth.SingleUserEmail))
}

// GetConfig retorna a configuração global (nil antes de LoadConfig)
func GetConfig() *Config {
	return GlobalConfig
}

const defaultTimezone = "Asia/Tokyo"

var (
	defaultLocOnce sync.Once
	defaultLoc     *time.Location
)

// resolveLocation carrega o fuso; nome inválido ou sem tzdata vira JST (UTC+9)
func resolveLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("fuso horário %q indisponível (%v), usando JST fixo", name, err)
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// Location fuso horário usado em todos os cálculos de calendário
func Location() *time.Location {
	if GlobalConfig != nil && GlobalConfig.Server.Location != nil {
		return GlobalConfig.Server.Location
	}
	defaultLocOnce.Do(func() {
		defaultLoc = resolveLocation(defaultTimezone)
	})
	return defaultLoc
}

// PrintConfig registra a configuração atual (sem segredos)
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	logrus.WithFields(logrus.Fields{
		"port":        GlobalConfig.Server.Port,
		"mode":        GlobalConfig.Server.Mode,
		"timezone":    GlobalConfig.Server.Timezone,
		"db_driver":   GlobalConfig.Database.Driver,
		"db":          fmt.Sprintf("%s@%s:%s/%s", GlobalConfig.Database.Username, GlobalConfig.Database.Host, GlobalConfig.Database.Port, GlobalConfig.Database.DBName),
		"redis":       GlobalConfig.Redis.Addr != "",
		"email":       GlobalConfig.Email.Enabled,
		"single_user": GlobalConfig.Auth.SingleUserEmail != "",
	}).Info("configuração atual")
}
