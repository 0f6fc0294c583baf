package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name          string
	Env           string
	HTTP          HTTP
	Admin         AdminHTTP
	PublicBaseURL string   `mapstructure:"public_base_url"`
	CORSOrigins   []string `mapstructure:"cors_origins"`
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int `mapstructure:"access_token_ttl_min"`
}

type Auth struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type Redis struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	JobTTLSec int    `mapstructure:"job_ttl_sec"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Upload struct {
	Dir      string
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// AdminBootstrap 管理端启动时确保存在的管理员账号（可选）
type AdminBootstrap struct {
	Username string
	Email    string
	Password string
}

type Config struct {
	App            App
	Log            Log
	JWT            JWT
	Auth           Auth
	DB             DB
	Redis          Redis `mapstructure:"redis"`
	Upload         Upload
	AdminBootstrap AdminBootstrap `mapstructure:"admin_bootstrap"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "careerflow-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)
	v.SetDefault("app.public_base_url", "http://localhost:5000")
	v.SetDefault("app.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "careerflow")
	v.SetDefault("jwt.access_token_ttl_min", 30*24*60)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("redis.job_ttl_sec", 60)
	v.SetDefault("redis.key_prefix", "careerflow:")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.max_bytes", 5<<20)
}

// Load 读取 YAML + APP_ 前缀环境变量；文件缺失时仅用默认值与环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv 只对已知 key 生效，敏感项显式绑定
	for _, k := range []string{"jwt.secret", "db.dsn", "db.username", "db.password", "redis.addr", "redis.password",
		"admin_bootstrap.username", "admin_bootstrap.email", "admin_bootstrap.password"} {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate 启动前必填项检查
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.JWT.Secret) == "" {
		missing = append(missing, "jwt.secret")
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		missing = append(missing, "db.dsn")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
