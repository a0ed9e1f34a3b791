package config

import "time"

// ReminderConfig configures the reminder sweeper.
type ReminderConfig struct {
	Enabled  bool
	Interval time.Duration // how often upcoming reservations are scanned
	Prefix   string        // Redis key prefix for the fired-reminder ledger
}

func LoadReminderConfig() ReminderConfig {
	cfg := ReminderConfig{
		Enabled:  envBool("REMINDERS_ENABLED", true),
		Interval: envDur("REMINDER_INTERVAL", time.Minute),
		Prefix:   envStr("REMINDER_PREFIX", "reminder"),
	}
	if cfg.Interval < time.Second {
		cfg.Interval = time.Second
	}
	return cfg
}
