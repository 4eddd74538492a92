package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	SMS          SMSConfig          `mapstructure:"sms"`
	Email        EmailConfig        `mapstructure:"email"`
	Notification NotificationConfig `mapstructure:"notification"`
	RabbitMQ     RabbitMQConfig     `mapstructure:"rabbitmq"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Port    string        `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SMSConfig struct {
	Provider          string        `mapstructure:"provider"`
	MockMode          bool          `mapstructure:"mock_mode"`
	AccountSID        string        `mapstructure:"account_sid"`
	AuthToken         string        `mapstructure:"auth_token"`
	FromNumber        string        `mapstructure:"from_number"`
	StatusCallbackURL string        `mapstructure:"status_callback_url"`
	BatchSize         int           `mapstructure:"batch_size"`
	BatchDelay        time.Duration `mapstructure:"batch_delay"`
	MockMinDelay      time.Duration `mapstructure:"mock_min_delay"`
	MockMaxDelay      time.Duration `mapstructure:"mock_max_delay"`
	MockFailureRate   float64       `mapstructure:"mock_failure_rate"`
}

type EmailConfig struct {
	Provider   string        `mapstructure:"provider"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	FromName   string        `mapstructure:"from_name"`
	SMTPHost   string        `mapstructure:"smtp_host"`
	SMTPPort   int           `mapstructure:"smtp_port"`
	SMTPSecure bool          `mapstructure:"smtp_secure"`
	BatchSize  int           `mapstructure:"batch_size"`
	BatchDelay time.Duration `mapstructure:"batch_delay"`
}

type NotificationConfig struct {
	DefaultMethod   string `mapstructure:"default_method"`
	FallbackEnabled bool   `mapstructure:"fallback_enabled"`
	PortalURL       string `mapstructure:"portal_url"`
}

// RabbitMQConfig points at the exchange delivery events are published to. An
// empty URL disables publishing.
type RabbitMQConfig struct {
	URL        string `mapstructure:"url"`
	Exchange   string `mapstructure:"exchange"`
	EventQueue string `mapstructure:"event_queue"`
}

// RedisConfig points at the delivery-status cache. An empty Addr disables it.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	StatusTTL time.Duration `mapstructure:"status_ttl"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// legacyEnv maps config keys to the environment names the clinic's deployment
// already uses.
var legacyEnv = map[string][]string{
	"server.port":                   {"PORT"},
	"sms.provider":                  {"SMS_PROVIDER"},
	"sms.mock_mode":                 {"SMS_MOCK_MODE"},
	"sms.account_sid":               {"TWILIO_ACCOUNT_SID"},
	"sms.auth_token":                {"TWILIO_AUTH_TOKEN"},
	"sms.from_number":               {"TWILIO_PHONE_NUMBER"},
	"sms.status_callback_url":       {"TWILIO_STATUS_CALLBACK_URL"},
	"email.provider":                {"EMAIL_SERVICE"},
	"email.user":                    {"EMAIL_USER"},
	"email.password":                {"EMAIL_PASSWORD"},
	"email.from_name":               {"EMAIL_FROM_NAME"},
	"email.smtp_host":               {"SMTP_HOST"},
	"email.smtp_port":               {"SMTP_PORT"},
	"email.smtp_secure":             {"SMTP_SECURE"},
	"notification.default_method":   {"DEFAULT_NOTIFICATION_METHOD"},
	"notification.fallback_enabled": {"ENABLE_NOTIFICATION_FALLBACK"},
	"notification.portal_url":       {"PATIENT_PORTAL_URL"},
	"rabbitmq.url":                  {"RABBITMQ_URL"},
	"redis.addr":                    {"REDIS_ADDR"},
	"redis.password":                {"REDIS_PASSWORD"},
	"auth.jwt_secret":               {"JWT_SECRET"},
	"log.level":                     {"LOG_LEVEL"},
}

func LoadConfig() (*Config, error) {
	// a .env file is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Set defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", "10s")
	v.SetDefault("sms.provider", "twilio")
	v.SetDefault("sms.mock_mode", false)
	v.SetDefault("sms.account_sid", "")
	v.SetDefault("sms.auth_token", "")
	v.SetDefault("sms.from_number", "")
	v.SetDefault("sms.status_callback_url", "")
	v.SetDefault("sms.batch_size", 5)
	v.SetDefault("sms.batch_delay", "1s")
	v.SetDefault("sms.mock_min_delay", "1s")
	v.SetDefault("sms.mock_max_delay", "3s")
	v.SetDefault("sms.mock_failure_rate", 0.05)
	v.SetDefault("email.provider", "gmail")
	v.SetDefault("email.user", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_name", "Maybunga Health Center")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_secure", false)
	v.SetDefault("email.batch_size", 10)
	v.SetDefault("email.batch_delay", "2s")
	v.SetDefault("notification.default_method", "auto")
	v.SetDefault("notification.fallback_enabled", true)
	v.SetDefault("notification.portal_url", "")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.exchange", "notifications.events")
	v.SetDefault("rabbitmq.event_queue", "notifications.delivery")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.status_ttl", "24h")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("log.level", "info")

	// Read from environment
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key, strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)...); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found, use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Notification.DefaultMethod = strings.ToLower(strings.TrimSpace(config.Notification.DefaultMethod))
	config.Email.Provider = strings.ToLower(strings.TrimSpace(config.Email.Provider))

	return &config, nil
}
