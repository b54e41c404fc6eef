package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用程序配置
type Config struct {
	APIPort       int
	LogLevel      string
	LogFile       LogFileConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Announcements AnnouncementsConfig
	Admin         AdminConfig
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled    bool
	Path       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // 天
	Compress   bool
}

// DatabaseConfig MySQL数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AnnouncementsConfig 公告抓取与滑块面板配置
type AnnouncementsConfig struct {
	// APIURL 是滑块未指定 apiUrl 时使用的后端地址
	APIURL            string
	CacheBackend      string // memory|redis
	CacheTTL          time.Duration
	CacheMaxEntries   int
	HTTPTimeout       time.Duration
	SanitizeContent   bool
	Workers           int
	QueueSize         int
	NewWindow         time.Duration
	// SliderIdleTimeout 滑块会话无访问超过该时长即回收
	SliderIdleTimeout time.Duration
	// MaxSliders 同时打开的滑块上限，0 表示不限制
	MaxSliders        int
}

// AdminConfig 管理接口配置
type AdminConfig struct {
	// TokenHash 为管理令牌的 bcrypt 哈希，空值表示关闭管理接口
	TokenHash string
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// .env 文件可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		APIPort:  intEnv("API_PORT", 8080),
		LogLevel: strings.ToLower(strEnv("LOG_LEVEL", "info")),
		LogFile: LogFileConfig{
			Enabled:    boolEnv("LOG_FILE_ENABLED", false),
			Path:       strEnv("LOG_FILE_PATH", "logs/app.log"),
			MaxSize:    intEnv("LOG_FILE_MAX_SIZE", 10),
			MaxBackups: intEnv("LOG_FILE_MAX_BACKUPS", 5),
			MaxAge:     intEnv("LOG_FILE_MAX_AGE", 7),
			Compress:   boolEnv("LOG_FILE_COMPRESS", true),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     intEnv("DB_PORT", 3306),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     strEnv("REDIS_HOST", "127.0.0.1"),
			Port:     intEnv("REDIS_PORT", 6379),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intEnv("REDIS_DB", 0),
		},
		Announcements: AnnouncementsConfig{
			APIURL:            strings.TrimRight(strEnv("ANNOUNCEMENTS_API_URL", "http://localhost:8080/api/v1"), "/"),
			CacheBackend:      strings.ToLower(strEnv("ANNOUNCEMENTS_CACHE_BACKEND", "memory")),
			CacheTTL:          durationEnv("ANNOUNCEMENTS_CACHE_TTL", time.Minute),
			CacheMaxEntries:   intEnv("ANNOUNCEMENTS_CACHE_MAX_ENTRIES", 0),
			HTTPTimeout:       durationEnv("ANNOUNCEMENTS_HTTP_TIMEOUT", 10*time.Second),
			SanitizeContent:   boolEnv("ANNOUNCEMENTS_SANITIZE_CONTENT", false),
			Workers:           intEnv("ANNOUNCEMENTS_WORKERS", 4),
			QueueSize:         intEnv("ANNOUNCEMENTS_QUEUE_SIZE", 64),
			NewWindow:         durationEnv("ANNOUNCEMENTS_NEW_WINDOW", 7*24*time.Hour),
			SliderIdleTimeout: durationEnv("SLIDER_IDLE_TIMEOUT", 30*time.Minute),
			MaxSliders:        intEnv("SLIDER_MAX_SESSIONS", 10000),
		},
		Admin: AdminConfig{
			TokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Announcements.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid ANNOUNCEMENTS_CACHE_BACKEND %q (memory|redis)", c.Announcements.CacheBackend)
	}
	if c.Announcements.CacheTTL <= 0 {
		return errors.New("ANNOUNCEMENTS_CACHE_TTL must be positive")
	}
	if c.Announcements.CacheMaxEntries < 0 {
		return errors.New("ANNOUNCEMENTS_CACHE_MAX_ENTRIES must not be negative")
	}
	if c.Announcements.SliderIdleTimeout < 0 || c.Announcements.MaxSliders < 0 {
		return errors.New("SLIDER_IDLE_TIMEOUT and SLIDER_MAX_SESSIONS must not be negative")
	}
	if c.Announcements.Workers < 1 || c.Announcements.QueueSize < 1 {
		return errors.New("ANNOUNCEMENTS_WORKERS and ANNOUNCEMENTS_QUEUE_SIZE must be at least 1")
	}
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("invalid API_PORT %d", c.APIPort)
	}
	return nil
}

// DatabaseEnabled 是否配置了 MySQL
func (c *Config) DatabaseEnabled() bool {
	return c.Database.Host != "" && c.Database.DBName != ""
}

func strEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func boolEnv(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}
