package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	S3          S3Config
	EarthEngine EarthEngineConfig
	Export      ExportConfig
	Log         LogConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// S3Config доступ к бакету с результатами экспорта (GCS через S3-совместимый API)
type S3Config struct {
	Enabled   bool   `env:"S3_ENABLED" envDefault:"false"`
	Endpoint  string `env:"S3_ENDPOINT" envDefault:"storage.googleapis.com"`
	AccessKey string `env:"S3_ACCESS_KEY" envDefault:""`
	SecretKey string `env:"S3_SECRET_KEY" envDefault:""`
	// Бакет берётся из EXPORT_BUCKET: читаем там же, куда пишет экспорт
	Bucket string
	UseSSL bool `env:"S3_USE_SSL" envDefault:"true"`
	// Срок действия ссылок на скачивание
	URLExpiry time.Duration `env:"S3_URL_EXPIRY" envDefault:"1h"`
}

type EarthEngineConfig struct {
	BaseURL        string        `env:"EE_BASE_URL" envDefault:"https://earthengine.googleapis.com"`
	Project        string        `env:"EE_PROJECT" envDefault:"earthengine-legacy"`
	AccessToken    string        `env:"EE_ACCESS_TOKEN" envDefault:""`
	RequestTimeout time.Duration `env:"EE_REQUEST_TIMEOUT" envDefault:"1m"`
}

type ExportConfig struct {
	// drive или gcs
	Destination     string        `env:"EXPORT_DESTINATION" envDefault:"drive"`
	Folder          string        `env:"EXPORT_FOLDER" envDefault:""`
	Bucket          string        `env:"EXPORT_BUCKET" envDefault:"srtm-exports"`
	Resolution      int           `env:"EXPORT_RESOLUTION" envDefault:"30"`
	Product         string        `env:"EXPORT_PRODUCT" envDefault:"hillshade"`
	CRS             string        `env:"EXPORT_CRS" envDefault:"EPSG:4326"`
	NoData          float64       `env:"EXPORT_NO_DATA" envDefault:"0"`
	ElevationNoData float64       `env:"EXPORT_ELEVATION_NO_DATA" envDefault:"32767"`
	MaxPixels       float64       `env:"EXPORT_MAX_PIXELS" envDefault:"1e13"`
	PollInterval    time.Duration `env:"EXPORT_POLL_INTERVAL" envDefault:"5s"`
	// 0 означает ожидание без ограничения
	Timeout time.Duration `env:"EXPORT_TIMEOUT" envDefault:"1h"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// json или console
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.S3.Bucket = cfg.Export.Bucket

	return cfg, nil
}
