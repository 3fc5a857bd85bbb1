package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Auth       `yaml:"auth"`
	Site       `yaml:"site"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Address      string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  string `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout string `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  string `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Database holds PostgreSQL connection configuration.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"partnerhub"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
	SeedData        bool   `yaml:"seed_data" env:"DB_SEED_DATA" env-default:"false"`
}

// Auth holds admin session configuration. AdminEmails is the allowlist:
// only these accounts may log in or use the admin API.
type Auth struct {
	JWTSecret     string   `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	TokenDuration string   `yaml:"token_duration" env:"AUTH_TOKEN_DURATION" env-default:"12h"`
	Issuer        string   `yaml:"issuer" env:"AUTH_ISSUER" env-default:"PartnerHub-Backend"`
	AdminEmails   []string `yaml:"admin_emails" env:"AUTH_ADMIN_EMAILS" env-separator:","`
	// BootstrapPassword, when set, creates missing allowlisted admin
	// accounts at startup. Leave empty once the accounts exist.
	BootstrapPassword string `yaml:"bootstrap_password" env:"AUTH_BOOTSTRAP_PASSWORD"`
}

// Site holds public site settings used by the redirect handler.
type Site struct {
	// HomeURL is where visitors land when an outbound link cannot be
	// resolved.
	HomeURL string `yaml:"home_url" env:"SITE_HOME_URL" env-default:"/"`
	// UAParserRegexes points at the uap-core regexes.yaml asset.
	UAParserRegexes string `yaml:"ua_parser_regexes" env:"UA_PARSER_REGEXES" env-default:"assets/regexes.yaml"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	return &cfg
}
