package config

import "os"

type AppConfig struct {
	DebugMode      bool
	HTTPPort       int
	PostgresConfig *PostgresConfig
	RedisConfig    *RedisConfig
	DockerConfig   *DockerConfig
	GraderConfig   *GraderConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		HTTPPort:       envInt("HTTP_PORT", 8082),
		PostgresConfig: NewPostgresConfig(),
		RedisConfig:    NewRedisConfig(),
		DockerConfig:   NewDockerConfig(),
		GraderConfig:   NewGraderConfig(),
	}
}
