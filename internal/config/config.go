package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервера мира.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Decoration DecorationConfig `yaml:"decoration"`
	Server     ServerConfig     `yaml:"server"`
}

type WorldConfig struct {
	Seed        int64  `yaml:"seed"`
	DataPath    string `yaml:"data_path"`
	SpawnRadius int    `yaml:"spawn_radius"` // Радиус предзагрузки чанков вокруг начала координат
}

type DecorationConfig struct {
	Workers    int `yaml:"workers"`
	TickMillis int `yaml:"tick_millis"`
}

type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

// GetSeed возвращает сид мира; 0 в конфиге означает значение по умолчанию
func (w *WorldConfig) GetSeed() int64 {
	if w.Seed != 0 {
		return w.Seed
	}
	if envVal := os.Getenv("WORLD_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 12345
}

// GetDataPath возвращает путь к данным мира с поддержкой fallback значений
func (w *WorldConfig) GetDataPath() string {
	if w.DataPath != "" {
		return w.DataPath
	}
	if envVal := os.Getenv("WORLD_DATA_PATH"); envVal != "" {
		return envVal
	}
	return "data"
}

// GetSpawnRadius возвращает радиус предзагрузки (в чанках)
func (w *WorldConfig) GetSpawnRadius() int {
	if w.SpawnRadius > 0 {
		return w.SpawnRadius
	}
	return 2
}

// GetWorkers возвращает число воркеров декорации
func (d *DecorationConfig) GetWorkers() int {
	return intWithEnvFallback(d.Workers, "DECOR_WORKERS", 4)
}

// GetTickMillis возвращает период прохода декорации в миллисекундах
func (d *DecorationConfig) GetTickMillis() int {
	return intWithEnvFallback(d.TickMillis, "DECOR_TICK_MS", 50)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return intWithEnvFallback(s.MetricsPort, "WORLD_METRICS_PORT", 2112)
}

// intWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func intWithEnvFallback(configVal int, envVar string, defaultVal int) int {
	if configVal > 0 {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV WORLD_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("WORLD_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
