package config

import (
	"fmt"
	"strings"

	"github.com/lumishop/lumishop/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置，config.yml 与环境变量按同名键覆盖
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	UserJWT     JWTConfig         `mapstructure:"user_jwt"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Queue       QueueConfig       `mapstructure:"queue"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Security    SecurityConfig    `mapstructure:"security"`
	Email       EmailConfig       `mapstructure:"email"`
	Captcha     CaptchaConfig     `mapstructure:"captcha"`
	StockNotify StockNotifyConfig `mapstructure:"stock_notify"`
	Coupon      CouponConfig      `mapstructure:"coupon"`
}

// ServerConfig HTTP 监听配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志落盘与轮转
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转成 logger 初始化参数
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabaseConfig 数据库驱动（sqlite/postgres）与连接串
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"`
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// DatabasePoolConfig 连接池参数，sqlite 建议单连接
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// JWTConfig token 签名密钥与有效期，后台与买家各一份
type JWTConfig struct {
	SecretKey             string `mapstructure:"secret"`
	ExpireHours           int    `mapstructure:"expire_hours"`
	RememberMeExpireHours int    `mapstructure:"remember_me_expire_hours"`
}

// RedisConfig 缓存连接，enabled=false 时全部降级
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig asynq 任务队列连接与并发
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// EmailConfig SMTP 发信配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	UseTLS   bool   `mapstructure:"use_tls"`
	UseSSL   bool   `mapstructure:"use_ssl"`
	// AdminEmail 接收后台通知（新评论待审核等）的邮箱
	AdminEmail string `mapstructure:"admin_email"`
}

// CaptchaConfig 验证码提供方与场景开关
type CaptchaConfig struct {
	Provider string             `mapstructure:"provider"`
	Scenes   CaptchaSceneConfig `mapstructure:"scenes"`
	Image    CaptchaImageConfig `mapstructure:"image"`
}

// CaptchaSceneConfig 哪些入口要过验证码
type CaptchaSceneConfig struct {
	Login    bool `mapstructure:"login"`
	Register bool `mapstructure:"register"`
}

// CaptchaImageConfig 图片验证码绘制参数
type CaptchaImageConfig struct {
	Length        int `mapstructure:"length"`
	Width         int `mapstructure:"width"`
	Height        int `mapstructure:"height"`
	NoiseCount    int `mapstructure:"noise_count"`
	ShowLine      int `mapstructure:"show_line"`
	ExpireSeconds int `mapstructure:"expire_seconds"`
	MaxStore      int `mapstructure:"max_store"`
}

// StockNotifyConfig 到货通知派发参数
type StockNotifyConfig struct {
	DispatchBatchSize int `mapstructure:"dispatch_batch_size"` // 单次派发的订阅数量上限
	WSSendBufferSize  int `mapstructure:"ws_send_buffer_size"` // WebSocket 单连接发送缓冲
}

// CouponConfig 新人欢迎券发放参数
type CouponConfig struct {
	WelcomeEnabled    bool   `mapstructure:"welcome_enabled"`
	WelcomeType       string `mapstructure:"welcome_type"` // percentage / fixed
	WelcomeValue      string `mapstructure:"welcome_value"`
	WelcomeExpireDays int    `mapstructure:"welcome_expire_days"`
	WelcomeCodePrefix string `mapstructure:"welcome_code_prefix"`
}

// CORSConfig 跨域白名单
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 登录限流与密码策略
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
}

// LoginRateLimitConfig 滑动窗口限流参数
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// PasswordPolicyConfig 密码复杂度要求
type PasswordPolicyConfig struct {
	MinLength      int  `mapstructure:"min_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// 缺省值，配置文件与环境变量都没给时生效
var defaults = map[string]any{
	"server.host": "0.0.0.0",
	"server.port": "8080",
	"server.mode": "debug",

	"log.dir":          "",
	"log.filename":     "lumishop.log",
	"log.max_size_mb":  100,
	"log.max_backups":  7,
	"log.max_age_days": 30,
	"log.compress":     true,

	"database.driver":                          "sqlite",
	"database.dsn":                             "./db/lumishop.db",
	"database.pool.max_open_conns":             1,
	"database.pool.max_idle_conns":             1,
	"database.pool.conn_max_lifetime_seconds":  0,
	"database.pool.conn_max_idle_time_seconds": 0,

	"jwt.secret":                        "change-me-in-production",
	"jwt.expire_hours":                  24,
	"user_jwt.secret":                   "user-change-me-in-production",
	"user_jwt.expire_hours":             24,
	"user_jwt.remember_me_expire_hours": 168,

	"redis.enabled":  true,
	"redis.host":     "127.0.0.1",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,
	"redis.prefix":   "ls",

	"queue.enabled":     true,
	"queue.host":        "127.0.0.1",
	"queue.port":        6379,
	"queue.password":    "",
	"queue.db":          1,
	"queue.concurrency": 10,
	"queue.queues":      map[string]int{"default": 10, "critical": 5},

	"cors.allowed_origins": []string{"*"},
	"cors.allowed_methods": []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"cors.allowed_headers": []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-CSRF-Token",
	},
	"cors.allow_credentials": true,
	"cors.max_age":           600,

	"security.login_rate_limit.window_seconds": 300,
	"security.login_rate_limit.max_attempts":   5,
	"security.login_rate_limit.block_seconds":  900,
	"security.password_policy.min_length":      8,
	"security.password_policy.require_upper":   true,
	"security.password_policy.require_lower":   true,
	"security.password_policy.require_number":  true,
	"security.password_policy.require_special": false,

	"email.enabled":     false,
	"email.host":        "",
	"email.port":        587,
	"email.username":    "",
	"email.password":    "",
	"email.from":        "",
	"email.from_name":   "",
	"email.use_tls":     true,
	"email.use_ssl":     false,
	"email.admin_email": "",

	"captcha.provider":             "none",
	"captcha.scenes.login":         false,
	"captcha.scenes.register":      false,
	"captcha.image.length":         5,
	"captcha.image.width":          240,
	"captcha.image.height":         80,
	"captcha.image.noise_count":    2,
	"captcha.image.show_line":      2,
	"captcha.image.expire_seconds": 300,
	"captcha.image.max_store":      10240,

	"stock_notify.dispatch_batch_size": 500,
	"stock_notify.ws_send_buffer_size": 64,

	"coupon.welcome_enabled":     true,
	"coupon.welcome_type":        "percentage",
	"coupon.welcome_value":       "10",
	"coupon.welcome_expire_days": 30,
	"coupon.welcome_code_prefix": "WELCOME",
}

// Load 加载配置。优先级：环境变量 > config.yml > 缺省值
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	// 兼容工作目录在仓库根或 cmd/server 下两种启动方式
	for _, path := range []string{".", "./", "../", "./etc"} {
		viper.AddConfigPath(path)
	}

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	// SERVER_PORT 这类环境变量覆盖 server.port
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return &cfg
}
