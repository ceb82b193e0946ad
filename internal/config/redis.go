package config

import "time"

type RedisConfig struct {
	DB       int
	Url      string
	Password string

	// LockTTL bounds how long a crashed evaluation can keep its
	// per-submission lock. Must exceed the worst-case evaluation time.
	LockTTL time.Duration

	// LockRetryInterval is the poll interval while waiting for a lock.
	LockRetryInterval time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		DB:                envInt("REDIS_DB", 0),
		Url:               envString("REDIS_URL", "localhost:6379"),
		Password:          envString("REDIS_PASSWORD", ""),
		LockTTL:           envSeconds("GRADE_LOCK_TTL_SEC", 10*time.Minute),
		LockRetryInterval: 100 * time.Millisecond,
	}
}
