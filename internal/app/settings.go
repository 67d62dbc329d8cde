package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shandysiswandi/gootp/internal/pkg/config"
	"github.com/shandysiswandi/gootp/internal/pkg/validator"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongoDB  = "mongodb"

	envProduction = "production"
)

var (
	ErrDatabaseURLRequired = errors.New("app: database.url is required for the postgres store")
	ErrMongoURIRequired    = errors.New("app: mongodb.uri and mongodb.database are required for the mongodb store")
)

// Defaults registered on the configuration before any file or env is read.
var Defaults = map[string]any{
	"app.name":                 "gootp",
	"app.env":                  "development",
	"app.snowflake_node":       1,
	"app.server.max_goroutine": 16,

	"app.server.http.address":                     ":5000",
	"app.server.http.read_timeout_seconds":        15,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       15,
	"app.server.http.idle_timeout_seconds":        60,
	"app.server.cors":                             "http://localhost:3000",

	"jwt.ttl_days":        7,
	"cookie.name":         "token",
	"cookie.max_age_days": 1,
	"otp.digits":          4,
	"otp.ttl_minutes":     5,

	"hash.driver":      "bcrypt",
	"hash.bcrypt.cost": 10,
	"store.driver":     StoreDriverPostgres,

	"database.connect_retries":        5,
	"mongodb.database":                "gootp",
	"mongodb.connect_timeout_seconds": 5,
	"mongodb.socket_timeout_seconds":  45,

	"mail.timeout_seconds": 10,

	"instrument.log_level":               "info",
	"instrument.log_mask_fields":         "password,otp,token,authorization,cookie,set-cookie",
	"instrument.trace_sample_ratio":      1.0,
	"instrument.metric_interval_seconds": 60,
}

// Settings is the validated, read-only view of the configuration used to
// build the application. It is populated once at startup.
type Settings struct {
	App        AppSettings
	HTTP       HTTPSettings
	JWT        JWTSettings
	Cookie     CookieSettings
	OTP        OTPSettings
	Hash       HashSettings
	Store      StoreSettings
	Database   DatabaseSettings
	Mongo      MongoSettings
	Mail       MailSettings
	Instrument InstrumentSettings
}

type AppSettings struct {
	Name          string `validate:"required"`
	Env           string `validate:"required"`
	MaxGoroutine  int
	SnowflakeNode int64 `validate:"gte=0,lte=1023"`
}

// IsProduction reports whether secure cookies must be issued.
func (a AppSettings) IsProduction() bool {
	return strings.EqualFold(a.Env, envProduction)
}

type HTTPSettings struct {
	Address           string `validate:"required"`
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	CORSOrigins       []string
}

type JWTSettings struct {
	Secret    string `validate:"required"`
	Issuer    string
	Audiences []string
	TTL       time.Duration `validate:"gt=0"`
}

type CookieSettings struct {
	Name   string        `validate:"required"`
	MaxAge time.Duration `validate:"gt=0"`
}

type OTPSettings struct {
	Digits int           `validate:"gte=4,lte=9"`
	TTL    time.Duration `validate:"gt=0"`
}

type HashSettings struct {
	Driver     string `validate:"oneof=bcrypt argon2id"`
	BcryptCost int
	Pepper     string
}

type StoreSettings struct {
	Driver string `validate:"oneof=postgres mongodb"`
}

type DatabaseSettings struct {
	URL               string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectRetries    uint64
}

type MongoSettings struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
	MaxPoolSize    uint64
}

type MailSettings struct {
	Host     string `validate:"required"`
	Port     int    `validate:"gt=0,lte=65535"`
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

type InstrumentSettings struct {
	Enabled          bool
	ServiceName      string
	ServiceVersion   string
	OTLPEndpoint     string
	OTLPSecure       bool
	TraceSampleRatio float64
	MetricsInterval  time.Duration
	LogLevel         string
	MaskFields       []string
}

// LoadSettings reads every key the application uses from cfg and validates
// the result. Environment-specific rules (the store driver's connection string)
// are checked after the struct tags.
func LoadSettings(cfg config.Config, v validator.Validator) (Settings, error) {
	s := Settings{
		App: AppSettings{
			Name:          cfg.GetString("app.name"),
			Env:           cfg.GetString("app.env"),
			MaxGoroutine:  cfg.GetInt("app.server.max_goroutine"),
			SnowflakeNode: int64(cfg.GetInt("app.snowflake_node")),
		},
		HTTP: HTTPSettings{
			Address:           cfg.GetString("app.server.http.address"),
			ReadTimeout:       cfg.GetSecond("app.server.http.read_timeout_seconds"),
			ReadHeaderTimeout: cfg.GetSecond("app.server.http.read_header_timeout_seconds"),
			WriteTimeout:      cfg.GetSecond("app.server.http.write_timeout_seconds"),
			IdleTimeout:       cfg.GetSecond("app.server.http.idle_timeout_seconds"),
			CORSOrigins:       cfg.GetArray("app.server.cors"),
		},
		JWT: JWTSettings{
			Secret:    cfg.GetString("jwt.secret"),
			Issuer:    cfg.GetString("jwt.issuer"),
			Audiences: cfg.GetArray("jwt.audiences"),
			TTL:       cfg.GetDay("jwt.ttl_days"),
		},
		Cookie: CookieSettings{
			Name:   cfg.GetString("cookie.name"),
			MaxAge: cfg.GetDay("cookie.max_age_days"),
		},
		OTP: OTPSettings{
			Digits: cfg.GetInt("otp.digits"),
			TTL:    cfg.GetMinute("otp.ttl_minutes"),
		},
		Hash: HashSettings{
			Driver:     strings.ToLower(strings.TrimSpace(cfg.GetString("hash.driver"))),
			BcryptCost: cfg.GetInt("hash.bcrypt.cost"),
			Pepper:     cfg.GetString("hash.pepper"),
		},
		Store: StoreSettings{
			Driver: strings.ToLower(strings.TrimSpace(cfg.GetString("store.driver"))),
		},
		Database: DatabaseSettings{
			URL:               cfg.GetString("database.url"),
			MaxConns:          cfg.GetInt32("database.pool.max_conns"),
			MinConns:          cfg.GetInt32("database.pool.min_conns"),
			MaxConnLifetime:   cfg.GetSecond("database.pool.max_conn_lifetime_seconds"),
			MaxConnIdleTime:   cfg.GetSecond("database.pool.max_conn_idle_seconds"),
			HealthCheckPeriod: cfg.GetSecond("database.pool.health_check_period_seconds"),
			ConnectRetries:    uint64(max(cfg.GetInt("database.connect_retries"), 0)),
		},
		Mongo: MongoSettings{
			URI:            cfg.GetString("mongodb.uri"),
			Database:       cfg.GetString("mongodb.database"),
			ConnectTimeout: cfg.GetSecond("mongodb.connect_timeout_seconds"),
			SocketTimeout:  cfg.GetSecond("mongodb.socket_timeout_seconds"),
			MaxPoolSize:    uint64(max(cfg.GetInt("mongodb.max_pool_size"), 0)),
		},
		Mail: MailSettings{
			Host:     cfg.GetString("mail.host"),
			Port:     cfg.GetInt("mail.port"),
			Username: cfg.GetString("mail.username"),
			Password: cfg.GetString("mail.password"),
			From:     cfg.GetString("mail.from"),
			FromName: cfg.GetString("mail.from_name"),
			Timeout:  cfg.GetSecond("mail.timeout_seconds"),
		},
		Instrument: InstrumentSettings{
			Enabled:          cfg.GetBool("instrument.enabled"),
			ServiceName:      cfg.GetString("instrument.service_name"),
			ServiceVersion:   cfg.GetString("instrument.service_version"),
			OTLPEndpoint:     cfg.GetString("instrument.otlp_endpoint"),
			OTLPSecure:       cfg.GetBool("instrument.otlp_secure"),
			TraceSampleRatio: cfg.GetFloat64("instrument.trace_sample_ratio"),
			MetricsInterval:  cfg.GetSecond("instrument.metric_interval_seconds"),
			LogLevel:         cfg.GetString("instrument.log_level"),
			MaskFields:       cfg.GetArray("instrument.log_mask_fields"),
		},
	}

	if s.Instrument.ServiceName == "" {
		s.Instrument.ServiceName = s.App.Name
	}

	if err := v.Validate(s); err != nil {
		return Settings{}, fmt.Errorf("app: invalid settings: %w", err)
	}

	switch s.Store.Driver {
	case StoreDriverPostgres:
		if s.Database.URL == "" {
			return Settings{}, ErrDatabaseURLRequired
		}
	case StoreDriverMongoDB:
		if s.Mongo.URI == "" || s.Mongo.Database == "" {
			return Settings{}, ErrMongoURIRequired
		}
	}

	return s, nil
}
