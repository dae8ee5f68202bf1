package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration values.
type Config struct {
	AppAddr       string `mapstructure:"APP_ADDR"`
	GinMode       string `mapstructure:"GIN_MODE"`
	Env           string `mapstructure:"ENV"`
	DBDSN         string `mapstructure:"DB_DSN"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	ChapaSecret   string `mapstructure:"CHAPA_SECRET_KEY"`
	ChapaBaseURL  string `mapstructure:"CHAPA_BASE_URL"`
	APIURL        string `mapstructure:"API_URL"`
	AppURL        string `mapstructure:"APP_URL"`
	CORSOrigins   string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	UploadDir     string `mapstructure:"UPLOAD_DIR"`
	MaxUploadSize int64  `mapstructure:"MAX_UPLOAD_SIZE"`
	OutboxPollMS  int    `mapstructure:"OUTBOX_POLL_MS"`
	RunMigrations bool   `mapstructure:"RUN_MIGRATIONS"`
}

// AppConfig is the loaded global configuration.
var AppConfig Config

// LoadConfig reads config.yaml (when present) and environment variables into AppConfig.
func LoadConfig() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_ADDR", ":8080")
	viper.SetDefault("GIN_MODE", "")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DB_DSN", "root:@tcp(127.0.0.1:3306)/tourism?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("CHAPA_BASE_URL", "https://api.chapa.co/v1")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE", int64(5_000_000))
	viper.SetDefault("OUTBOX_POLL_MS", 1000)
	viper.SetDefault("RUN_MIGRATIONS", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("no config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	AppConfig.AppAddr = normalizeAddr(AppConfig.AppAddr)
	return AppConfig
}

// IsProduction reports whether the service runs with production settings.
func IsProduction() bool {
	return AppConfig.Env == "production"
}

func normalizeAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ":8080"
	}
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
