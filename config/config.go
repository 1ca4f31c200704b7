package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DefaultAPIURL is the appointment resource the UI talks to when no
	// override is configured.
	DefaultAPIURL = "http://localhost:5000/appointments"

	defaultAppName         = "Hospital Appointment System"
	defaultAppPort         = 5000
	defaultRateLimit       = 60
	defaultRateLimitWindow = time.Minute
	defaultRedisAddr       = "localhost:6379"
	defaultCacheTTL        = 5 * time.Minute
)

// Config holds the application's configuration values.
type Config struct {
	AppName    string `json:"appname"`
	AppEnv     string `json:"appenv"`
	AppPort    uint16 `json:"appport"`
	GinMode    string `json:"ginmode"`
	LogLevel   string `json:"loglevel"`
	APIURL     string `json:"apiurl"`
	DBDriver   string `json:"dbdriver"`
	DBHost     string `json:"dbhost"`
	DBPort     uint16 `json:"dbport"`
	DBName     string `json:"dbname"`
	DBUSER     string `json:"dbuser"`
	DBPass     string `json:"dbpass"`
	SQLitePath string `json:"sqlitepath"`

	RateLimit       int           `json:"ratelimit"`
	RateLimitWindow time.Duration `json:"ratelimitwindow"`

	RedisEnabled  bool   `json:"redisenabled"`
	RedisAddr     string `json:"redisaddr"`
	RedisPassword string `json:"-"`
	RedisDB       int    `json:"redisdb"`

	// AppointmentCacheTTL is zero when the single-record cache is off.
	AppointmentCacheTTL time.Duration `json:"appointmentcachettl"`
	GeoIPDBPath         string        `json:"geoipdbpath"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env is normal outside development; the process environment still applies.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}
		config = FromEnv()
	})
	return config
}

// FromEnv builds a Config from the current process environment without caching it.
func FromEnv() *Config {
	appPort := parseUint16(os.Getenv("APPPORT"), defaultAppPort)
	dbPort := parseUint16(os.Getenv("DBPORT"), 3306)

	rateLimit := defaultRateLimit
	if v, err := strconv.Atoi(os.Getenv("RATELIMIT_LIMIT")); err == nil && v > 0 {
		rateLimit = v
	}
	rateWindow := defaultRateLimitWindow
	if v, err := time.ParseDuration(os.Getenv("RATELIMIT_WINDOW")); err == nil && v > 0 {
		rateWindow = v
	}
	redisDB := 0
	if v, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil && v >= 0 {
		redisDB = v
	}

	return &Config{
		AppName:         envOr("APPNAME", defaultAppName),
		AppEnv:          os.Getenv("APPENV"),
		AppPort:         appPort,
		GinMode:         envOr("GINMODE", "release"),
		LogLevel:        envOr("LOGLEVEL", "info"),
		APIURL:          envOr("APIURL", DefaultAPIURL),
		DBDriver:        strings.ToLower(envOr("DBDRIVER", "mysql")),
		DBHost:          envOr("DBHOST", "localhost"),
		DBPort:          dbPort,
		DBName:          os.Getenv("DBNAME"),
		DBUSER:          os.Getenv("DBUSER"),
		DBPass:          os.Getenv("DBPASS"),
		SQLitePath:      envOr("SQLITEPATH", "appointments.db"),
		RateLimit:       rateLimit,
		RateLimitWindow: rateWindow,

		RedisEnabled:  strings.EqualFold(strings.TrimSpace(os.Getenv("REDIS_ENABLED")), "true"),
		RedisAddr:     envOr("REDIS_ADDR", defaultRedisAddr),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		AppointmentCacheTTL: parseCacheTTL(os.Getenv("APPOINTMENT_CACHE_TTL")),
		GeoIPDBPath:         strings.TrimSpace(os.Getenv("GEOIP_DB_PATH")),
	}
}

// ResetConfigForTest drops the cached Config so the next LoadConfig re-reads the environment.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseUint16(raw string, fallback uint16) uint16 {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 16)
	if err != nil || v == 0 {
		return fallback
	}
	return uint16(v)
}

// parseCacheTTL maps APPOINTMENT_CACHE_TTL to a duration. "0" and "off"
// disable the cache; empty or unparsable values use the default.
func parseCacheTTL(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "0", "off":
		return 0
	case "":
		return defaultCacheTTL
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return defaultCacheTTL
	}
	return v
}

// ConnectDB opens the database described by the loaded configuration.
func ConnectDB() (*gorm.DB, error) {
	return OpenDB(LoadConfig())
}

// OpenDB opens a database connection for cfg. The test environment always
// gets a private in-memory SQLite database.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if cfg.AppEnv == "test" {
		dsn := fmt.Sprintf("file:appointments_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	}

	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "mysql", "":
		// Build the Data Source Name (DSN) using the configuration values.
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err := gorm.Open(mysql.Open(dsn), gormCfg)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DBDRIVER %q", cfg.DBDriver)
	}
}
