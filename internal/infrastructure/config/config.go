package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀,例如 BOOKRENTAL_DATABASE_PASSWORD → database.password
const EnvPrefix = "BOOKRENTAL"

// Config 全局配置结构
// 使用Viper管理配置,支持YAML文件、.env文件和环境变量覆盖
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成MySQL连接字符串
// loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

type LogConfig struct {
	Level     string `mapstructure:"level"`  // debug | info | warn | error
	Format    string `mapstructure:"format"` // text | json
	Output    string `mapstructure:"output"` // stdout | stderr | /path/to/file
	AddSource bool   `mapstructure:"add_source"`
}

// PaymentConfig 支付网关配置
type PaymentConfig struct {
	Provider        string        `mapstructure:"provider"` // midtrans | mock
	ServerKey       string        `mapstructure:"server_key"`
	Production      bool          `mapstructure:"production"`
	SuccessURL      string        `mapstructure:"success_url"`
	CancelURL       string        `mapstructure:"cancel_url"`
	MockCheckoutURL string        `mapstructure:"mock_checkout_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type RabbitMQConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	CollectorURL string `mapstructure:"collector_url"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	ReportInterval time.Duration `mapstructure:"report_interval"`
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
}

// BreakerConfig 支付网关熔断配置
type BreakerConfig struct {
	MaxRequests uint32        `mapstructure:"max_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFailures uint32        `mapstructure:"max_failures"`
}

// Load 加载配置文件
// 1. 先加载.env(如果存在),便于本地开发注入密钥
// 2. 默认读取 ./config/config.yaml 或 ./config.yaml
// 3. BOOKRENTAL_ENV=prod 时读取 config.prod.yaml
// 4. 环境变量覆盖(如 BOOKRENTAL_DATABASE_PASSWORD)
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	name := "config"
	if env := os.Getenv(EnvPrefix + "_ENV"); env != "" {
		name = "config." + env
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return unmarshal(v)
}

// LoadFile 从指定文件加载配置
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults 设置默认值,同时让这些key可以被环境变量覆盖
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("jwt.refresh_token_expire", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("payment.provider", "mock")
	v.SetDefault("payment.timeout", 10*time.Second)
	v.SetDefault("payment.server_key", "")
	v.SetDefault("payment.mock_checkout_url", "http://localhost:8080/mock-checkout")

	v.SetDefault("rabbitmq.exchange", "bookrental.notifications")

	v.SetDefault("tracing.service_name", "bookrental")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.sweep_interval", time.Minute)
	v.SetDefault("scheduler.report_interval", 24*time.Hour)
	v.SetDefault("scheduler.lock_ttl", 50*time.Second)

	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", time.Minute)
	v.SetDefault("breaker.timeout", 30*time.Second)
	v.SetDefault("breaker.max_failures", 5)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("无效的服务端口: %d", cfg.Server.Port))
	}
	if cfg.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret不能为空"))
	}
	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		errs = append(errs, errors.New("生产环境必须修改JWT密钥"))
	}

	switch cfg.Database.Driver {
	case "mysql", "memory":
	default:
		errs = append(errs, fmt.Errorf("不支持的数据库驱动: %q", cfg.Database.Driver))
	}

	switch cfg.Payment.Provider {
	case "mock":
	case "midtrans":
		if cfg.Payment.ServerKey == "" {
			errs = append(errs, errors.New("payment.server_key不能为空"))
		}
	default:
		errs = append(errs, fmt.Errorf("不支持的支付网关: %q", cfg.Payment.Provider))
	}
	if cfg.Payment.SuccessURL == "" || cfg.Payment.CancelURL == "" {
		errs = append(errs, errors.New("payment.success_url和payment.cancel_url不能为空"))
	}

	if cfg.RabbitMQ.Enabled && cfg.RabbitMQ.URL == "" {
		errs = append(errs, errors.New("启用rabbitmq时url不能为空"))
	}
	if cfg.Scheduler.Enabled && (cfg.Scheduler.SweepInterval <= 0 || cfg.Scheduler.ReportInterval <= 0) {
		errs = append(errs, errors.New("定时任务间隔必须大于0"))
	}

	return errors.Join(errs...)
}
