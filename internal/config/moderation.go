package config

import "time"

type ModerationConfig struct {
	SweepInterval    time.Duration `yaml:"sweep_interval"`
	NotifySubjects   bool          `yaml:"notify_subjects"`
	DefaultBanDays   int           `yaml:"default_ban_days"`
	MaxTemporaryDays int           `yaml:"max_temporary_days"`
}

type WorkerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Concurrency int    `yaml:"concurrency"`
	Queue       string `yaml:"queue"`
	RedisDB     int    `yaml:"redis_db"`
}

func loadModerationConfig() *ModerationConfig {
	return &ModerationConfig{
		SweepInterval:    getEnvAsDuration("MODERATION_SWEEP_INTERVAL", 15*time.Minute),
		NotifySubjects:   getEnvAsBool("MODERATION_NOTIFY_SUBJECTS", true),
		DefaultBanDays:   getEnvAsInt("MODERATION_DEFAULT_BAN_DAYS", 7),
		MaxTemporaryDays: getEnvAsInt("MODERATION_MAX_TEMPORARY_DAYS", 365),
	}
}

func loadWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		Enabled:     getEnvAsBool("WORKER_ENABLED", true),
		Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 5),
		Queue:       getEnv("WORKER_QUEUE", "moderation"),
		RedisDB:     getEnvAsInt("WORKER_REDIS_DB", 1),
	}
}
