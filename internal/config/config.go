package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	validLogLevels      = []string{"debug", "info", "warn", "error"}
	validStorageDrivers = []string{"local", "s3"}
)

// Config 聚合服务启动需要的关键配置。启动时加载一次，之后只读。
type Config struct {
	HTTPPort           string
	UploadFolder       string
	MaxUploadBytes     int64
	LogLevel           string
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	DBHost             string
	DBPort             int
	DBUser             string
	DBPassword         string
	DBName             string
	DBSSLMode          string
	// 存储配置
	StorageDriver string // "local" 或 "s3"
	S3Endpoint    string // S3/MinIO 端点，不含协议
	S3AccessKey   string
	S3SecretKey   string
	S3Bucket      string
	S3Region      string
	S3UseSSL      bool
}

// Load 读取可选的 config.yaml（或 CONFIG_FILE 指定的文件）和环境变量，环境变量优先。
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("UPLOAD_FOLDER", "./data")
	v.SetDefault("UPLOAD_MAX_BYTES", int64(100<<20))
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "uploader")
	v.SetDefault("DB_PASSWORD", "uploader")
	v.SetDefault("DB_NAME", "uploader")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("S3_ENDPOINT", "localhost:9000")
	v.SetDefault("S3_ACCESS_KEY", "minioadmin")
	v.SetDefault("S3_SECRET_KEY", "minioadmin")
	v.SetDefault("S3_BUCKET", "uploader")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", false)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HTTPPort:           v.GetString("PORT"),
		UploadFolder:       v.GetString("UPLOAD_FOLDER"),
		MaxUploadBytes:     v.GetInt64("UPLOAD_MAX_BYTES"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSAllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimitRequests:  v.GetInt("RATE_LIMIT_REQUESTS"),
		RateLimitWindow:    v.GetDuration("RATE_LIMIT_WINDOW"),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetInt("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSL_MODE"),
		StorageDriver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
		S3Endpoint:         v.GetString("S3_ENDPOINT"),
		S3AccessKey:        v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:        v.GetString("S3_SECRET_KEY"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Region:           v.GetString("S3_REGION"),
		S3UseSSL:           v.GetBool("S3_USE_SSL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StorageDriver == "local" {
		if err := ensureDir(cfg.UploadFolder); err != nil {
			return nil, fmt.Errorf("确保上传目录失败: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if !slices.Contains(validStorageDrivers, c.StorageDriver) {
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.HTTPPort == "" {
		return errors.New("PORT must not be empty")
	}
	if c.UploadFolder == "" {
		return errors.New("UPLOAD_FOLDER must not be empty")
	}
	if c.DBPort <= 0 {
		return fmt.Errorf("invalid DB_PORT %d", c.DBPort)
	}
	if c.MaxUploadBytes < 0 {
		return errors.New("UPLOAD_MAX_BYTES must not be negative")
	}
	return nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("路径 %s 已存在但不是目录", path)
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}

	return err
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}

	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// PostgresDSN 生成标准 postgres:// 连接串，供数据访问层直接使用。
func (c *Config) PostgresDSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   c.DBName,
	}

	q := url.Values{}
	if c.DBSSLMode != "" {
		q.Set("sslmode", c.DBSSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
