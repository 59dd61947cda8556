package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Outputs  OutputsConfig  `mapstructure:"outputs"`
	Download DownloadConfig `mapstructure:"download"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Registry RegistryConfig `mapstructure:"registry"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   string `mapstructure:"port"`
	Mode   string `mapstructure:"mode"`
	APIKey string `mapstructure:"api_key"`
}

// EngineConfig points at the inference backend that performs the actual
// face swap. Models is the list of swap models the backend accepts.
type EngineConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Models  []string      `mapstructure:"models"`
}

type OutputsConfig struct {
	RootDir string `mapstructure:"root_dir"`
}

type DownloadConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UpscalerEntry struct {
	Name  string `mapstructure:"name"`
	Scale int    `mapstructure:"scale"`
}

type RegistryConfig struct {
	Upscalers     []UpscalerEntry `mapstructure:"upscalers"`
	FaceRestorers []string        `mapstructure:"face_restorers"`
}

// Load reads a YAML config file into a Config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New loads config.yaml from the working directory, falling back to
// defaults when the file is absent.
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		return defaultConfig()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "9000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.api_key", "")

	v.SetDefault("engine.url", "http://127.0.0.1:7860")
	v.SetDefault("engine.timeout", 5*time.Minute)
	v.SetDefault("engine.models", []string{"roop/inswapper_128.onnx"})

	v.SetDefault("outputs.root_dir", "./outputs")

	v.SetDefault("download.timeout", time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "9000",
			Mode: "debug",
		},
		Engine: EngineConfig{
			URL:     "http://127.0.0.1:7860",
			Timeout: 5 * time.Minute,
			Models:  []string{"roop/inswapper_128.onnx"},
		},
		Outputs: OutputsConfig{
			RootDir: "./outputs",
		},
		Download: DownloadConfig{
			Timeout: time.Minute,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		Registry: RegistryConfig{
			Upscalers: []UpscalerEntry{
				{Name: "Lanczos", Scale: 1},
				{Name: "R-ESRGAN 4x+", Scale: 4},
			},
			FaceRestorers: []string{"CodeFormer", "GFPGAN"},
		},
	}
}
