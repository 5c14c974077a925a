package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigYAML 内置默认配置
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// 运行模式
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
	ModeTest    = "test"
)

const defaultJWTSecret = "daily-dev-secret-change-me"

// Config 应用配置，启动时加载一次后只读，通过参数显式传递
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Email     EmailConfig     `mapstructure:"email"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	BaseURL         string        `mapstructure:"base_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxIdle  int    `mapstructure:"max_idle"`
	MaxOpen  int    `mapstructure:"max_open"`
	LogLevel string `mapstructure:"log_level"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	CookieName  string        `mapstructure:"cookie_name"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// CORSConfig 跨域白名单
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// AllowPrivateNetwork 允许 localhost 与局域网地址（仅 debug 模式生效）
	AllowPrivateNetwork bool `mapstructure:"allow_private_network"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
	LoginWindow time.Duration `mapstructure:"login_window"`
	LoginMax    int           `mapstructure:"login_max"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// StorageConfig 对象存储配置（S3 兼容），用于图片直传
type StorageConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	PresignTTL    time.Duration `mapstructure:"presign_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SeedConfig 初始化数据配置
type SeedConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configPath, err)
		}
		slog.Info("已合并外部配置文件", "path", configPath)
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/daily")
		externalViper.AddConfigPath("$HOME/.daily")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				slog.Warn("合并外部配置失败", "error", err)
			} else {
				slog.Info("已合并外部配置文件", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 DAILY_SERVER_PORT、DAILY_JWT_SECRET
	v.SetEnvPrefix("DAILY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 24
	}
	c.JWT.ExpireTime = time.Duration(c.JWT.ExpireHours) * time.Hour
	if c.JWT.CookieName == "" {
		c.JWT.CookieName = "token"
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = 15 * time.Minute
	}
	if c.RateLimit.LoginWindow <= 0 {
		c.RateLimit.LoginWindow = time.Minute
	}
	if c.Storage.PresignTTL <= 0 {
		c.Storage.PresignTTL = 15 * time.Minute
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error
	switch c.Server.Mode {
	case ModeDebug, ModeRelease, ModeTest:
	default:
		errs = append(errs, fmt.Errorf("server.mode 取值无效: %q", c.Server.Mode))
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver 仅支持 mysql 或 postgres: %q", c.Database.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret 不能为空"))
	}
	if c.IsRelease() && (c.JWT.Secret == defaultJWTSecret || len(c.JWT.Secret) < 16) {
		errs = append(errs, errors.New("release 模式下必须配置至少 16 位的 jwt.secret"))
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.LoginMax <= 0 {
		errs = append(errs, errors.New("rate_limit 阈值必须大于 0"))
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		errs = append(errs, errors.New("启用对象存储时 storage.bucket 不能为空"))
	}
	return errors.Join(errs...)
}

// IsRelease 是否为生产模式
func (c *Config) IsRelease() bool {
	return c != nil && c.Server.Mode == ModeRelease
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func (c *Config) SafeErrorMessage(err error, fallback string) string {
	if err == nil || c.IsRelease() {
		return fallback
	}
	return err.Error()
}

// LogValue 打印配置时隐藏敏感信息
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Server.Port),
		slog.String("mode", c.Server.Mode),
		slog.String("database", fmt.Sprintf("%s://%s@%s:%s/%s",
			c.Database.Driver, c.Database.Username, c.Database.Host, c.Database.Port, c.Database.DBName)),
		slog.Any("cors", c.CORS.AllowedOrigins),
		slog.Bool("email", c.Email.Enabled),
		slog.Bool("storage", c.Storage.Enabled),
	)
}
