package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Reminder describes the optional alarm attached to exported calendar events.
type Reminder struct {
	Enabled   bool   `yaml:"enabled"`
	Value     int    `yaml:"value"`
	Unit      string `yaml:"unit"`      // UnitDays, UnitHours or UnitMinutes
	Direction string `yaml:"direction"` // DirBefore or DirAfter
}

// Settings holds the user-editable configuration persisted in settings.yaml.
type Settings struct {
	DataFile   string   `yaml:"data_file"`
	Language   string   `yaml:"language"`
	ServerPort string   `yaml:"server_port"`
	RemoteURL  string   `yaml:"remote_url"`
	RemoteUser string   `yaml:"remote_user"`
	Reminder   Reminder `yaml:"reminder"`
}

// DefaultSettings returns the settings used when no file exists.
// DataFile stays empty; callers resolve it with DefaultDataPath.
func DefaultSettings() Settings {
	return Settings{
		Language:   DefaultLanguage,
		ServerPort: DefaultPort,
		Reminder: Reminder{
			Value:     DefaultReminderValue,
			Unit:      UnitDays,
			Direction: DirBefore,
		},
	}
}

// AppDir returns the per-user configuration directory of the application.
func AppDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID), nil
}

// DefaultSettingsPath is settings.yaml inside AppDir.
func DefaultSettingsPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// DefaultDataPath is addressbook.vcf inside AppDir.
func DefaultDataPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DataFileName), nil
}

// LoadSettings reads the YAML file at path on top of DefaultSettings.
// A missing file is not an error. The result is not validated; callers apply
// their overrides first and then call Validate.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug(MsgSettingsNone,
			LogKeyComponent, CompSettings,
			LogKeyFile, path)
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(b, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	return s, nil
}

// Validate checks the fields that would otherwise fail late (port, language, reminder unit).
func (s Settings) Validate() error {
	if err := ValidatePort(s.ServerPort); err != nil {
		return err
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	if s.Reminder.Enabled {
		switch s.Reminder.Unit {
		case UnitDays, UnitHours, UnitMinutes:
		default:
			return fmt.Errorf("%s: %q", ErrReminderUnit, s.Reminder.Unit)
		}
	}
	return nil
}

// ValidatePort checks that port is a number within MinPort..MaxPort.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// ReminderTrigger converts the reminder block to an ISO8601 duration ("-P1D", "PT2H").
// It returns "" when reminders are disabled.
func (s Settings) ReminderTrigger() string {
	r := s.Reminder
	if !r.Enabled {
		return ""
	}

	val := r.Value
	if val <= 0 {
		val = DefaultReminderValue
	}

	sign := ISOPeriodPrefix
	if r.Direction == "" || r.Direction == DirBefore {
		sign = ISONegativePrefix
	}

	switch r.Unit {
	case UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTime, val, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, ISOTime, val, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, val, ISODay)
	}
}
