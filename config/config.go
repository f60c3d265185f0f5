package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type JWTConfig struct {
	SecretKey     string        `mapstructure:"secretKey"`
	Issuer        string        `mapstructure:"issuer"`
	Audience      string        `mapstructure:"audience"`
	AccessExpiry  time.Duration `mapstructure:"accessExpiry"`
	RefreshExpiry time.Duration `mapstructure:"refreshExpiry"`
}

// ProviderConfig holds keys and base URLs for the external data providers.
// Keys come from the environment; URLs default to the real endpoints and are
// overridable for tests.
type ProviderConfig struct {
	WeatherAPIKey     string `mapstructure:"weatherAPIKey"`
	WeatherAPIURL     string `mapstructure:"weatherAPIURL"`
	KMAAPIKey         string `mapstructure:"kmaAPIKey"`
	KMAAPIURL         string `mapstructure:"kmaAPIURL"`
	PublicDataAPIKey  string `mapstructure:"publicDataAPIKey"`
	PublicDataAPIURL  string `mapstructure:"publicDataAPIURL"`
	NaverClientID     string `mapstructure:"naverClientID"`
	NaverClientSecret string `mapstructure:"naverClientSecret"`
	NaverSearchURL    string `mapstructure:"naverSearchURL"`
	TourAPIKey        string `mapstructure:"tourAPIKey"`
	TourAPIURL        string `mapstructure:"tourAPIURL"`
	GeminiAPIKey      string `mapstructure:"geminiAPIKey"`
	GeminiModel       string `mapstructure:"geminiModel"`
}

type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"googleClientID"`
	GoogleClientSecret string `mapstructure:"googleClientSecret"`
	GoogleCallbackURL  string `mapstructure:"googleCallbackURL"`
	SessionSecret      string `mapstructure:"sessionSecret"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	}
	Server struct {
		HTTPPort     string        `mapstructure:"HTTPPort"`
		Timeout      time.Duration `mapstructure:"HTTPTimeout"`
		ShareBaseURL string        `mapstructure:"shareBaseURL"`
	} `mapstructure:"server"`
	JWT       JWTConfig      `mapstructure:"jwt"`
	Providers ProviderConfig `mapstructure:"providers"`
	OAuth     OAuthConfig    `mapstructure:"oauth"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets never live in config.yml; they come from the environment.
	v.AutomaticEnv()
	bindings := map[string]string{
		"repositories.postgres.password": "POSTGRES_PASSWORD",
		"jwt.secretKey":                  "JWT_SECRET_KEY",
		"providers.weatherAPIKey":        "WEATHER_API_KEY",
		"providers.kmaAPIKey":            "KMA_API_KEY",
		"providers.publicDataAPIKey":     "PUBLIC_DATA_API_KEY",
		"providers.naverClientID":        "NAVER_CLIENT_ID",
		"providers.naverClientSecret":    "NAVER_CLIENT_SECRET",
		"providers.tourAPIKey":           "TOUR_API_KEY",
		"providers.geminiAPIKey":         "GOOGLE_GEMINI_API_KEY",
		"oauth.googleClientID":           "GOOGLE_CLIENT_ID",
		"oauth.googleClientSecret":       "GOOGLE_CLIENT_SECRET",
		"oauth.sessionSecret":            "SESSION_SECRET",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
