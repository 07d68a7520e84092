// Package config loads engine configuration from a YAML file using
// Viper. Every threshold the sweeps compare against lives here so the
// batch and interactive paths cannot disagree.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// AbandonmentConfig controls the abandonment detector.
type AbandonmentConfig struct {
	// InactivityMinutes is how long an in-progress task may go without
	// a last_active_at update before the sweep flags it.
	InactivityMinutes int `mapstructure:"inactivity_minutes" yaml:"inactivity_minutes"`

	// SweepIntervalMinutes is the detector cadence under serve.
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" yaml:"sweep_interval_minutes"`
}

// ReminderConfig controls the reminder rule evaluators. Lead windows
// say how far ahead a rule looks; cooldowns say how long it stays
// quiet about a task it already notified on.
type ReminderConfig struct {
	ScheduleLeadMinutes     int `mapstructure:"schedule_lead_minutes" yaml:"schedule_lead_minutes"`
	ScheduleCooldownMinutes int `mapstructure:"schedule_cooldown_minutes" yaml:"schedule_cooldown_minutes"`

	DeadlineLeadHours     int `mapstructure:"deadline_lead_hours" yaml:"deadline_lead_hours"`
	DeadlineCooldownHours int `mapstructure:"deadline_cooldown_hours" yaml:"deadline_cooldown_hours"`

	OverdueCooldownHours int `mapstructure:"overdue_cooldown_hours" yaml:"overdue_cooldown_hours"`

	LongPendingDays         int `mapstructure:"long_pending_days" yaml:"long_pending_days"`
	LongPendingCooldownDays int `mapstructure:"long_pending_cooldown_days" yaml:"long_pending_cooldown_days"`

	StaleDays         int `mapstructure:"stale_days" yaml:"stale_days"`
	StaleCooldownDays int `mapstructure:"stale_cooldown_days" yaml:"stale_cooldown_days"`
}

// RetentionConfig controls the cleanup sweep.
type RetentionConfig struct {
	// NotificationDays is the age after which read notifications are purged.
	NotificationDays int `mapstructure:"notification_days" yaml:"notification_days"`

	// AbandonmentDays is the age after which abandonment records are
	// purged regardless of resumed state.
	AbandonmentDays int `mapstructure:"abandonment_days" yaml:"abandonment_days"`
}

// SweepConfig holds the cadences the scheduler runs each sweep on.
type SweepConfig struct {
	ScheduleReminderMinutes int `mapstructure:"schedule_reminder_minutes" yaml:"schedule_reminder_minutes"`
	DeadlineReminderMinutes int `mapstructure:"deadline_reminder_minutes" yaml:"deadline_reminder_minutes"`
	IncompleteMinutes       int `mapstructure:"incomplete_minutes" yaml:"incomplete_minutes"`
	StatsMinutes            int `mapstructure:"stats_minutes" yaml:"stats_minutes"`
	CleanupMinutes          int `mapstructure:"cleanup_minutes" yaml:"cleanup_minutes"`
}

// Config is the top-level engine configuration.
type Config struct {
	// DBPath locates the SQLite database file.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// Timezone is the user's reference timezone for calendar-date
	// derivations (streaks). Empty means local time.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	Abandonment AbandonmentConfig `mapstructure:"abandonment" yaml:"abandonment"`
	Reminders   ReminderConfig    `mapstructure:"reminders" yaml:"reminders"`
	Retention   RetentionConfig   `mapstructure:"retention" yaml:"retention"`
	Sweeps      SweepConfig       `mapstructure:"sweeps" yaml:"sweeps"`
}

// DefaultPath returns the default config file location,
// ~/.config/taskpulse/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskpulse", "config.yaml")
}

// DefaultDBPath returns the default database location,
// ~/.local/share/taskpulse/taskpulse.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "taskpulse.db")
	}
	return filepath.Join(home, ".local", "share", "taskpulse", "taskpulse.db")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DBPath: DefaultDBPath(),
		Abandonment: AbandonmentConfig{
			InactivityMinutes:    120,
			SweepIntervalMinutes: 5,
		},
		Reminders: ReminderConfig{
			ScheduleLeadMinutes:     15,
			ScheduleCooldownMinutes: 60,
			DeadlineLeadHours:       24,
			DeadlineCooldownHours:   12,
			OverdueCooldownHours:    12,
			LongPendingDays:         7,
			LongPendingCooldownDays: 3,
			StaleDays:               3,
			StaleCooldownDays:       2,
		},
		Retention: RetentionConfig{
			NotificationDays: 30,
			AbandonmentDays:  90,
		},
		Sweeps: SweepConfig{
			ScheduleReminderMinutes: 15,
			DeadlineReminderMinutes: 60,
			IncompleteMinutes:       360,
			StatsMinutes:            15,
			CleanupMinutes:          1440,
		},
	}
}

// Load reads configuration from path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults so missing keys resolve to sensible values.
	def := Default()
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("abandonment.inactivity_minutes", def.Abandonment.InactivityMinutes)
	v.SetDefault("abandonment.sweep_interval_minutes", def.Abandonment.SweepIntervalMinutes)
	v.SetDefault("reminders.schedule_lead_minutes", def.Reminders.ScheduleLeadMinutes)
	v.SetDefault("reminders.schedule_cooldown_minutes", def.Reminders.ScheduleCooldownMinutes)
	v.SetDefault("reminders.deadline_lead_hours", def.Reminders.DeadlineLeadHours)
	v.SetDefault("reminders.deadline_cooldown_hours", def.Reminders.DeadlineCooldownHours)
	v.SetDefault("reminders.overdue_cooldown_hours", def.Reminders.OverdueCooldownHours)
	v.SetDefault("reminders.long_pending_days", def.Reminders.LongPendingDays)
	v.SetDefault("reminders.long_pending_cooldown_days", def.Reminders.LongPendingCooldownDays)
	v.SetDefault("reminders.stale_days", def.Reminders.StaleDays)
	v.SetDefault("reminders.stale_cooldown_days", def.Reminders.StaleCooldownDays)
	v.SetDefault("retention.notification_days", def.Retention.NotificationDays)
	v.SetDefault("retention.abandonment_days", def.Retention.AbandonmentDays)
	v.SetDefault("sweeps.schedule_reminder_minutes", def.Sweeps.ScheduleReminderMinutes)
	v.SetDefault("sweeps.deadline_reminder_minutes", def.Sweeps.DeadlineReminderMinutes)
	v.SetDefault("sweeps.incomplete_minutes", def.Sweeps.IncompleteMinutes)
	v.SetDefault("sweeps.stats_minutes", def.Sweeps.StatsMinutes)
	v.SetDefault("sweeps.cleanup_minutes", def.Sweeps.CleanupMinutes)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("timezone", cfg.Timezone)
	v.Set("abandonment", cfg.Abandonment)
	v.Set("reminders", cfg.Reminders)
	v.Set("retention", cfg.Retention)
	v.Set("sweeps", cfg.Sweeps)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Location resolves the configured reference timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
