package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		URL      string `mapstructure:"url"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Ebay struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		BaseURL      string `mapstructure:"base_url"`
	} `mapstructure:"ebay"`

	Ecwid struct {
		StoreID string `mapstructure:"store_id"`
		Token   string `mapstructure:"token"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"ecwid"`

	ShipStation struct {
		APIKey    string `mapstructure:"api_key"`
		APISecret string `mapstructure:"api_secret"`
		BaseURL   string `mapstructure:"base_url"`
	} `mapstructure:"shipstation"`

	Photos struct {
		Enabled   bool   `mapstructure:"enabled"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		PublicURL string `mapstructure:"public_url"`
	} `mapstructure:"photos"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "warehouse-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "warehouse_db")
	v.SetDefault("ebay.base_url", "https://api.ebay.com")
	v.SetDefault("ecwid.base_url", "https://app.ecwid.com/api/v3")
	v.SetDefault("shipstation.base_url", "https://ssapi.shipstation.com")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// DATABASE_URL takes precedence over the split fields
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	// Marketplace credentials come from the environment in production
	if id := os.Getenv("EBAY_CLIENT_ID"); id != "" {
		cfg.Ebay.ClientID = id
	}
	if secret := os.Getenv("EBAY_CLIENT_SECRET"); secret != "" {
		cfg.Ebay.ClientSecret = secret
	}
	if store := os.Getenv("ECWID_STORE_ID"); store != "" {
		cfg.Ecwid.StoreID = store
	}
	if token := os.Getenv("ECWID_TOKEN"); token != "" {
		cfg.Ecwid.Token = token
	}
	if key := os.Getenv("SHIPSTATION_API_KEY"); key != "" {
		cfg.ShipStation.APIKey = key
	}
	if secret := os.Getenv("SHIPSTATION_API_SECRET"); secret != "" {
		cfg.ShipStation.APISecret = secret
	}

	// Photo store (S3/R2 compatible) - optional, photo uploads return 503
	// when not configured
	if endpoint := os.Getenv("PHOTOS_ENDPOINT"); endpoint != "" {
		cfg.Photos.Endpoint = endpoint
		cfg.Photos.Enabled = true
	}
	if region := os.Getenv("PHOTOS_REGION"); region != "" {
		cfg.Photos.Region = region
	}
	if bucket := os.Getenv("PHOTOS_BUCKET"); bucket != "" {
		cfg.Photos.Bucket = bucket
	}
	if key := os.Getenv("PHOTOS_ACCESS_KEY"); key != "" {
		cfg.Photos.AccessKey = key
	}
	if secret := os.Getenv("PHOTOS_SECRET_KEY"); secret != "" {
		cfg.Photos.SecretKey = secret
	}
	if publicURL := os.Getenv("PHOTOS_PUBLIC_URL"); publicURL != "" {
		cfg.Photos.PublicURL = publicURL
	}

	return &cfg
}
