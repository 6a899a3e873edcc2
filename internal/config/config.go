// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	App struct {
		Name        string `mapstructure:"name"`
		FrontendURL string `mapstructure:"frontend_url"`
	} `mapstructure:"app"`
	JWT struct {
		SecretKey      string        `mapstructure:"secret_key"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`
	CORS struct {
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	} `mapstructure:"cors"`
	// AI はフラッシュカード生成まわりの設定
	AI AIConfig `mapstructure:"ai"`
	// Queue は非同期ワーカーへのディスパッチ設定
	Queue struct {
		Type      string        `mapstructure:"type"` // "http" or "log"
		URL       string        `mapstructure:"url"`
		AuthToken string        `mapstructure:"auth_token"`
		Timeout   time.Duration `mapstructure:"timeout"`
	} `mapstructure:"queue"`
	// OpenRouter はワーカーが使うチャット補完APIの設定
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Worker struct {
		Port      string `mapstructure:"port"`
		AuthToken string `mapstructure:"auth_token"`
	} `mapstructure:"worker"`
	Mailer struct {
		Type string `mapstructure:"type"` // "log", "smtp", "ses"
	} `mapstructure:"mailer"`
	SMTP SMTPConfig `mapstructure:"smtp"`
	SES  SESConfig  `mapstructure:"ses"`
}

type AIConfig struct {
	DefaultModel       string   `mapstructure:"default_model"`
	AllowedModels      []string `mapstructure:"allowed_models"`
	DefaultTemperature float64  `mapstructure:"default_temperature"`
}

type OpenRouterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" or "default"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数からの上書き (例: APP_SERVER_PORT)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("queue.url", "AI_GENERATIONS_QUEUE_URL")
	viper.BindEnv("queue.auth_token", "AI_GENERATIONS_QUEUE_TOKEN")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Worker.Port == "" {
		Cfg.Worker.Port = DefaultWorkerPort
	}
	if Cfg.App.Name == "" {
		Cfg.App.Name = AppName
	}
	if Cfg.JWT.AccessTokenTTL <= 0 {
		Cfg.JWT.AccessTokenTTL = 24 * time.Hour
	}
	if Cfg.AI.DefaultModel == "" {
		Cfg.AI.DefaultModel = DefaultGenerationModel
	}
	if len(Cfg.AI.AllowedModels) == 0 {
		Cfg.AI.AllowedModels = DefaultAllowedModels()
	}
	if Cfg.AI.DefaultTemperature == 0 {
		Cfg.AI.DefaultTemperature = DefaultTemperature
	}
	if Cfg.Queue.Timeout <= 0 {
		Cfg.Queue.Timeout = 10 * time.Second
	}
	if Cfg.OpenRouter.BaseURL == "" {
		Cfg.OpenRouter.BaseURL = DefaultOpenRouterBaseURL
	}
	if Cfg.OpenRouter.MaxTokens <= 0 {
		Cfg.OpenRouter.MaxTokens = DefaultCompletionMaxTokens
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Default Model: %s", Cfg.AI.DefaultModel)

	return nil
}
