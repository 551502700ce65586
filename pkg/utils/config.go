package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Gateway  GatewayConfig
	Booking  BookingConfig
	Pricing  PricingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type AuthConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type CatalogConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type GatewayConfig struct {
	BaseURL         string
	APIKey          string
	TimeoutSeconds  int
	LookbackMinutes int
}

type BookingConfig struct {
	EnabledMethods       []string
	PaymentWindowMinutes int
	MinBasePrice         int64
	MaxBasePrice         int64
	MinDaysAhead         int
	MaxDaysAhead         int
}

type PricingConfig struct {
	VIPMultiplier float64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("AUTH_TIMEOUT_SECONDS", 5)
	viper.SetDefault("CATALOG_TIMEOUT_SECONDS", 5)
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 10)
	viper.SetDefault("GATEWAY_LOOKBACK_MINUTES", 120)
	viper.SetDefault("PAYMENT_METHODS", "cash,bank_transfer")
	viper.SetDefault("PAYMENT_WINDOW_MINUTES", 30)
	viper.SetDefault("MIN_BASE_PRICE", 10000)
	viper.SetDefault("MAX_BASE_PRICE", 500000)
	viper.SetDefault("MIN_DAYS_AHEAD", 0)
	viper.SetDefault("MAX_DAYS_AHEAD", 30)
	viper.SetDefault("VIP_MULTIPLIER", 1.3)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Auth: AuthConfig{
			BaseURL:        viper.GetString("AUTH_URL"),
			TimeoutSeconds: viper.GetInt("AUTH_TIMEOUT_SECONDS"),
		},
		Catalog: CatalogConfig{
			BaseURL:        viper.GetString("CATALOG_URL"),
			TimeoutSeconds: viper.GetInt("CATALOG_TIMEOUT_SECONDS"),
		},
		Gateway: GatewayConfig{
			BaseURL:         viper.GetString("GATEWAY_URL"),
			APIKey:          viper.GetString("GATEWAY_API_KEY"),
			TimeoutSeconds:  viper.GetInt("GATEWAY_TIMEOUT_SECONDS"),
			LookbackMinutes: viper.GetInt("GATEWAY_LOOKBACK_MINUTES"),
		},
		Booking: BookingConfig{
			EnabledMethods:       viper.GetStringSlice("PAYMENT_METHODS"),
			PaymentWindowMinutes: viper.GetInt("PAYMENT_WINDOW_MINUTES"),
			MinBasePrice:         viper.GetInt64("MIN_BASE_PRICE"),
			MaxBasePrice:         viper.GetInt64("MAX_BASE_PRICE"),
			MinDaysAhead:         viper.GetInt("MIN_DAYS_AHEAD"),
			MaxDaysAhead:         viper.GetInt("MAX_DAYS_AHEAD"),
		},
		Pricing: PricingConfig{
			VIPMultiplier: viper.GetFloat64("VIP_MULTIPLIER"),
		},
	}

	return config, nil
}
