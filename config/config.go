package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultAPIBaseURL is used by clients when APIBASEURL is unset.
const DefaultAPIBaseURL = "http://localhost:3001/api"

// Config holds the application's configuration values.
type Config struct {
	AppName    string `json:"appname"`
	AppEnv     string `json:"appenv" validate:"omitempty,oneof=development production test"`
	AppPort    uint16 `json:"appport" validate:"required"`
	GinMode    string `json:"ginmode" validate:"omitempty,oneof=debug release test"`
	APIBaseURL string `json:"apibaseurl" validate:"required,url"`
	LogLevel   string `json:"loglevel"`

	DBDriver string `json:"dbdriver" validate:"oneof=mysql sqlite"`
	DBHost   string `json:"dbhost" validate:"required_if=DBDriver mysql"`
	DBPort   uint16 `json:"dbport"`
	DBName   string `json:"dbname"`
	DBUser   string `json:"dbuser"`
	DBPass   string `json:"-"`

	JWTSecret string `json:"-"`

	RedisEnabled  bool   `json:"redisenabled"`
	RedisAddr     string `json:"redisaddr" validate:"required_if=RedisEnabled true"`
	RedisPassword string `json:"-"`
	RedisDB       int    `json:"redisdb" validate:"gte=0"`

	TokenStore string `json:"tokenstore" validate:"oneof=memory file redis"`
	TokenFile  string `json:"tokenfile"`

	UploadDir      string   `json:"uploaddir" validate:"required"`
	SeedFile       string   `json:"seedfile"`
	AllowedOrigins []string `json:"allowedorigins" validate:"dive,url"`
}

var (
	config *Config
	once   sync.Once

	validate = validator.New()
)

// LoadConfig loads the environment (and a .env file when present) once and
// returns the shared Config. It panics on an invalid configuration.
func LoadConfig() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			panic(err)
		}
		config = cfg
	})
	return config
}

// Load reads a fresh Config from the environment. A missing .env file is fine.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		AppName:    getEnv("APPNAME", "psych-practice"),
		AppEnv:     getEnv("APPENV", "development"),
		AppPort:    uint16(getUint("APPPORT", 3001)),
		GinMode:    os.Getenv("GINMODE"),
		APIBaseURL: strings.TrimRight(getEnv("APIBASEURL", DefaultAPIBaseURL), "/"),
		LogLevel:   getEnv("LOGLEVEL", "info"),

		DBHost: getEnv("DBHOST", "localhost"),
		DBPort: uint16(getUint("DBPORT", 3306)),
		DBName: os.Getenv("DBNAME"),
		DBUser: os.Getenv("DBUSER"),
		DBPass: os.Getenv("DBPASS"),

		JWTSecret: os.Getenv("JWTSECRET"),

		RedisEnabled:  getBool("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		TokenStore: getEnv("TOKENSTORE", "file"),
		TokenFile:  os.Getenv("TOKENFILE"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		SeedFile:  os.Getenv("SEED_FILE"),

		AllowedOrigins: getList("CORS_ORIGINS"),
	}

	cfg.DBDriver = getEnv("DBDRIVER", "mysql")
	if cfg.AppEnv == "test" {
		cfg.DBDriver = "sqlite"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsTest reports whether the app runs under APPENV=test.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// DSN returns the gorm data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		if c.DBName == "" || c.IsTest() {
			return "file::memory:?cache=shared"
		}
		return c.DBName
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// ConnectDatabase opens the configured database: MySQL, or SQLite when
// DBDRIVER=sqlite or APPENV=test.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{}
	if cfg.IsTest() {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = mysql.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getUint(key string, fallback uint64) uint64 {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 16)
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
