package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Store   StoreConfig
	Mongo   MongoConfig
	DB      DBConfig
	JWT     JWTConfig
	LLM     LLMConfig
	Rebuild RebuildConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig selecciona el backend de persistencia.
type StoreConfig struct {
	Driver string // mongo, postgres, memory
}

// MongoConfig conexión al almacén documental (colecciones transactions, inventories, tasks).
type MongoConfig struct {
	URI      string
	Database string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT. Secret vacío deshabilita la autenticación de /api.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LLMConfig proveedor del modelo de lenguaje que maneja al agente.
type LLMConfig struct {
	Provider       string // anthropic, gemini, none
	APIKey         string
	Model          string
	MaxSteps       int
	TimeoutSeconds int
}

// Enabled indica si hay un proveedor configurado.
func (c LLMConfig) Enabled() bool {
	p := strings.ToLower(c.Provider)
	return p != "" && p != "none"
}

// RebuildConfig parámetros del job de reconstrucción de inventario.
type RebuildConfig struct {
	ConfirmToken string // palabra que el usuario debe enviar para autorizar el rebuild
	Concurrency  int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, MONGO_URI, LLM_PROVIDER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "smart-warehouse"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", DriverMongo)),
		},
		Mongo: MongoConfig{
			URI:      getString(v, "MONGO_URI", "mongodb://localhost:27017"),
			Database: getString(v, "MONGO_DB", "smart_warehouse_management"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "smart_warehouse"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "smart-warehouse"),
		},
		LLM: LLMConfig{
			Provider:       strings.ToLower(getString(v, "LLM_PROVIDER", "none")),
			APIKey:         getString(v, "LLM_API_KEY", ""),
			Model:          getString(v, "LLM_MODEL", ""),
			MaxSteps:       getInt(v, "LLM_MAX_STEPS", 6),
			TimeoutSeconds: getInt(v, "LLM_TIMEOUT_SECONDS", 20),
		},
		Rebuild: RebuildConfig{
			ConfirmToken: getString(v, "REBUILD_CONFIRM_TOKEN", "CONFIRM"),
			Concurrency:  getInt(v, "REBUILD_CONCURRENCY", 4),
		},
	}

	switch cfg.Store.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("config: STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}
	if cfg.Rebuild.Concurrency <= 0 {
		cfg.Rebuild.Concurrency = 1
	}
	if cfg.LLM.MaxSteps <= 0 {
		cfg.LLM.MaxSteps = 6
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
