package config

import (
	"net/netip"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Clinic    ClinicConfig    `yaml:"clinic"`
	Mail      MailConfig      `yaml:"mail"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr"                env:"INTAKE_ADDR"                env-default:":8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"INTAKE_READ_HEADER_TIMEOUT" env-default:"5s"`
	ReadTimeout       time.Duration `yaml:"read_timeout"        env:"INTAKE_READ_TIMEOUT"        env-default:"10s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"INTAKE_WRITE_TIMEOUT"       env-default:"60s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"INTAKE_IDLE_TIMEOUT"        env-default:"60s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"INTAKE_SHUTDOWN_TIMEOUT"    env-default:"15s"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"      env:"INTAKE_MAX_BODY_BYTES"      env-default:"65536"`
}

// ClinicConfig identifies the fixed recipient and its locale.
type ClinicConfig struct {
	Recipient string `yaml:"recipient" env:"CLINIC_RECIPIENT" env-required:"true"`
	Language  string `yaml:"language"  env:"INTAKE_LANGUAGE"  env-default:"pt-BR"`
	TimeZone  string `yaml:"timezone"  env:"CLINIC_TIMEZONE"  env-default:"America/Sao_Paulo"`

	// Location is resolved from TimeZone by Validate.
	Location *time.Location `yaml:"-"`
}

// MailConfig selects the mail driver and holds its credentials.
// User and Password are the sender account identity and credential.
type MailConfig struct {
	Driver         string        `yaml:"driver"           env:"MAIL_DRIVER"           env-default:"smtp"`
	FromName       string        `yaml:"from_name"        env:"MAIL_FROM_NAME"`
	FromAddress    string        `yaml:"from_address"     env:"MAIL_FROM_ADDRESS"`
	User           string        `yaml:"user"             env:"EMAIL_USER"`
	Password       string        `yaml:"password"         env:"EMAIL_PASS"`
	SMTPHost       string        `yaml:"smtp_host"        env:"SMTP_HOST"             env-default:"smtp.gmail.com"`
	SMTPPort       int           `yaml:"smtp_port"        env:"SMTP_PORT"             env-default:"587"`
	TLSPolicy      string        `yaml:"tls_policy"       env:"SMTP_TLS_POLICY"       env-default:"mandatory"`
	DialTimeout    time.Duration `yaml:"dial_timeout"     env:"SMTP_DIAL_TIMEOUT"     env-default:"10s"`
	SendGridAPIKey string        `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	SendTimeout    time.Duration `yaml:"send_timeout"     env:"MAIL_SEND_TIMEOUT"     env-default:"30s"`
}

// Sender returns the envelope sender address. It defaults to the
// authenticated account.
func (m MailConfig) Sender() string {
	if m.FromAddress != "" {
		return m.FromAddress
	}
	return m.User
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig bounds submissions per client IP. Set Disabled to turn
// limiting off; a zero rate in YAML falls back to the default.
//
// TrustedProxies lists the CIDRs (or bare IPs) of reverse proxies whose
// X-Forwarded-For and X-Real-IP headers are honoured. Requests from any
// other peer are keyed by their socket address.
type RateLimitConfig struct {
	Disabled          bool   `yaml:"disabled"            env:"RATELIMIT_DISABLED"`
	RequestsPerMinute int    `yaml:"requests_per_minute" env:"RATELIMIT_REQUESTS_PER_MINUTE" env-default:"10"`
	Burst             int    `yaml:"burst"               env:"RATELIMIT_BURST"               env-default:"5"`
	TrustedProxies    string `yaml:"trusted_proxies"     env:"RATELIMIT_TRUSTED_PROXIES"`

	// Proxies is parsed from TrustedProxies by Validate.
	Proxies []netip.Prefix `yaml:"-"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Content-Type,X-Request-Id"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}
