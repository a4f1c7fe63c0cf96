// Package config loads settings from an optional .env file and the environment.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":                  "PORT",
	"storage.mode":                 "STORAGE_MODE",
	"storage.file_path":            "STORAGE_FILE_PATH",
	"database.host":                "DATABASE_HOST",
	"database.port":                "DATABASE_PORT",
	"database.user":                "DATABASE_USER",
	"database.password":            "DATABASE_PASSWORD",
	"database.name":                "DATABASE_NAME",
	"database.ssl_mode":            "DATABASE_SSL_MODE",
	"database.max_open_conns":      "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":      "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime":   "DATABASE_CONN_MAX_LIFETIME",
	"redis.host":                   "REDIS_HOST",
	"redis.port":                   "REDIS_PORT",
	"redis.password":               "REDIS_PASSWORD",
	"redis.db":                     "REDIS_DB",
	"redis.channel":                "REDIS_CHANNEL",
	"jwt.secret_key":               "JWT_SECRET_KEY",
	"jwt.expiry_hours":             "JWT_EXPIRY_HOURS",
	"argon2.time":                  "ARGON2_TIME",
	"argon2.memory":                "ARGON2_MEMORY",
	"argon2.threads":               "ARGON2_THREADS",
	"argon2.key_length":            "ARGON2_KEY_LENGTH",
	"argon2.salt_length":           "ARGON2_SALT_LENGTH",
	"app.currency":                 "APP_CURRENCY",
	"app.bootstrap_admin_name":     "BOOTSTRAP_ADMIN_NAME",
	"app.bootstrap_admin_email":    "BOOTSTRAP_ADMIN_EMAIL",
	"app.bootstrap_admin_password": "BOOTSTRAP_ADMIN_PASSWORD",
	"app.static_dir":               "STATIC_DIR",
	"cors.allowed_origins":         "CORS_ALLOWED_ORIGINS",
}

// Storage modes.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("storage.mode", StorageFile)
	viper.SetDefault("storage.file_path", "./data/ledger.json")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "placement_desk")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.channel", "ledger:changes")
	viper.SetDefault("jwt.expiry_hours", 12)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)
	viper.SetDefault("app.currency", "INR")
	viper.SetDefault("app.bootstrap_admin_name", "Administrator")
	viper.SetDefault("app.static_dir", "./web")
	viper.SetDefault("cors.allowed_origins", []string{"https://*", "http://*"})
}

// Load reads path (usually ".env") when present and binds the environment.
// Later calls to viper.Get* see the merged result.
func Load(path string) {
	setDefaults()
	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}
	viper.AutomaticEnv()

	if path == "" {
		return
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("env")
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("[CONFIG] Config file not found, using defaults: %v", err)
		return
	}
	// .env entries arrive under their variable names; expose them under the
	// dotted keys with lower priority than the real environment.
	for key, env := range envBindings {
		if name := strings.ToLower(env); viper.InConfig(name) {
			viper.SetDefault(key, viper.Get(name))
		}
	}
}

// Server is what cmd/server needs at start up.
type Server struct {
	Port           string
	StorageMode    string
	StoragePath    string
	RedisChannel   string
	Currency       string
	StaticDir      string
	AllowedOrigins []string
	JWTSecret      string
	TokenTTL       time.Duration
}

func ServerConfig() Server {
	return Server{
		Port:           viper.GetString("server.port"),
		StorageMode:    viper.GetString("storage.mode"),
		StoragePath:    viper.GetString("storage.file_path"),
		RedisChannel:   viper.GetString("redis.channel"),
		Currency:       viper.GetString("app.currency"),
		StaticDir:      viper.GetString("app.static_dir"),
		AllowedOrigins: viper.GetStringSlice("cors.allowed_origins"),
		JWTSecret:      viper.GetString("jwt.secret_key"),
		TokenTTL:       time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour,
	}
}

// Database describes the Postgres document store connection.
type Database struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN is the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func DatabaseConfig() Database {
	return Database{
		Host:            viper.GetString("database.host"),
		Port:            viper.GetString("database.port"),
		User:            viper.GetString("database.user"),
		Password:        viper.GetString("database.password"),
		Name:            viper.GetString("database.name"),
		SSLMode:         viper.GetString("database.ssl_mode"),
		MaxOpenConns:    viper.GetInt("database.max_open_conns"),
		MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
	}
}

// Redis describes the connection used for change events, token revocation
// and login throttling.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

func RedisConfig() Redis {
	return Redis{
		Addr:     viper.GetString("redis.host") + ":" + viper.GetString("redis.port"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	}
}

// BootstrapAdmin is the first administrator created on an empty staff registry.
type BootstrapAdmin struct {
	Name     string
	Email    string
	Password string
}

func (b BootstrapAdmin) Enabled() bool { return b.Email != "" && b.Password != "" }

func BootstrapAdminConfig() BootstrapAdmin {
	return BootstrapAdmin{
		Name:     viper.GetString("app.bootstrap_admin_name"),
		Email:    viper.GetString("app.bootstrap_admin_email"),
		Password: viper.GetString("app.bootstrap_admin_password"),
	}
}
