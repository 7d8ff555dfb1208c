package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port           string   `mapstructure:"port"`
		Env            string   `mapstructure:"env"`
		LoginPath      string   `mapstructure:"login_path"`
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		BaseURL        string   `mapstructure:"base_url"`
	} `mapstructure:"app"`
	Site struct {
		OwnerID string `mapstructure:"owner_id"`
		Title   string `mapstructure:"title"`
	} `mapstructure:"site"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
		Folder    string `mapstructure:"folder"`
	} `mapstructure:"cloudinary"`
	Cache struct {
		Backend string        `mapstructure:"backend"`
		TTL     time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	Jaeger struct {
		OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
		SampleRatio  float64 `mapstructure:"sample_ratio"`
	} `mapstructure:"jaeger"`
	Notifications struct {
		Capacity int `mapstructure:"capacity"`
	} `mapstructure:"notifications"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.login_path", "/login")
	v.SetDefault("app.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("app.base_url", "http://localhost:5173")
	v.SetDefault("site.title", "Portfolio")
	v.SetDefault("kafka.topic", "content.events")
	v.SetDefault("kafka.group_id", "portfolio-worker")
	v.SetDefault("auth.token_lifespan", 24*time.Hour)
	v.SetDefault("cloudinary.folder", "portfolio")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("jaeger.sample_ratio", 1.0)
	v.SetDefault("notifications.capacity", 20)
}

// LoadConfig reads .env, then config.yaml from path, then the environment.
// Later sources win.
func LoadConfig(path string) (cfg Config, err error) {
	if err = godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("app.port", "APP_PORT")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.login_path", "APP_LOGIN_PATH")
	_ = v.BindEnv("app.allowed_origins", "APP_ALLOWED_ORIGINS")
	_ = v.BindEnv("app.base_url", "APP_BASE_URL")
	_ = v.BindEnv("site.owner_id", "SITE_OWNER_ID")
	_ = v.BindEnv("site.title", "SITE_TITLE")
	_ = v.BindEnv("db.dsn", "DB_DSN")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("kafka.topic", "KAFKA_TOPIC")
	_ = v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	_ = v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	_ = v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	_ = v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	_ = v.BindEnv("cloudinary.folder", "CLOUDINARY_FOLDER")
	_ = v.BindEnv("cache.backend", "CACHE_BACKEND")
	_ = v.BindEnv("cache.ttl", "CACHE_TTL")
	_ = v.BindEnv("jaeger.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("jaeger.sample_ratio", "OTEL_TRACES_SAMPLER_ARG")
	_ = v.BindEnv("notifications.capacity", "NOTIFICATIONS_CAPACITY")

	err = v.Unmarshal(&cfg)
	return
}
