// Package config parses metrotimes.toml display configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "metrotimes.toml"

// APIKeyEnv overrides an empty wmata.api_key.
const APIKeyEnv = "WMATA_API_KEY"

// Startup delay policies: when the first-render timer is armed.
const (
	DelayAlways        = "always"          // arm the timer on every start
	DelayOnConfigError = "on-config-error" // arm only when the credential is missing
	DelayNever         = "never"           // render from the first event
)

// ErrNotFound is returned by Load when no path is given and no
// metrotimes.toml exists in the working directory or its parents.
var ErrNotFound = errors.New("config: " + FileName + " not found")

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// hexColorRe matches a 3- or 6-digit hex color string like "#49742a".
var hexColorRe = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// cssNameRe matches a CSS color keyword like "DeepSkyBlue".
var cssNameRe = regexp.MustCompile(`^[A-Za-z]+$`)

// Config is the top-level metrotimes.toml configuration. It is fixed for
// the lifetime of a board instance.
type Config struct {
	WMATA     WMATAConfig     `toml:"wmata" yaml:"wmata" json:"wmata"`
	Instance  InstanceConfig  `toml:"instance" yaml:"instance" json:"instance"`
	Display   DisplayConfig   `toml:"display" yaml:"display" json:"display"`
	Trains    TrainsConfig    `toml:"trains" yaml:"trains" json:"trains"`
	Buses     BusesConfig     `toml:"buses" yaml:"buses" json:"buses"`
	Theme     ThemeConfig     `toml:"theme" yaml:"theme" json:"theme"`
	Startup   StartupConfig   `toml:"startup" yaml:"startup" json:"startup"`
	Transport TransportConfig `toml:"transport" yaml:"transport" json:"transport"`
	Log       LogConfig       `toml:"log" yaml:"log" json:"log"`

	TUI           TUIConfig           `toml:"tui" yaml:"tui" json:"-"`
	Notifications NotificationsConfig `toml:"notifications" yaml:"notifications" json:"-"`
}

// WMATAConfig holds the provider credential forwarded to the collaborator.
type WMATAConfig struct {
	APIKey string `toml:"api_key" yaml:"api_key" json:"api_key"`
}

// InstanceConfig identifies this board to its polling collaborator.
type InstanceConfig struct {
	Identifier string `toml:"identifier" yaml:"identifier" json:"identifier"` // empty = generated at startup
	Path       string `toml:"path" yaml:"path" json:"path"`
}

// DisplayConfig controls which sections are shown and how.
type DisplayConfig struct {
	ShowHeader            bool   `toml:"show_header" yaml:"show_header" json:"show_header"`
	HeaderText            string `toml:"header_text" yaml:"header_text" json:"header_text"`
	ShowIncidents         bool   `toml:"show_incidents" yaml:"show_incidents" json:"show_incidents"`
	ShowStationTrainTimes bool   `toml:"show_station_train_times" yaml:"show_station_train_times" json:"show_station_train_times"`
	ShowBusStopTimes      bool   `toml:"show_bus_stop_times" yaml:"show_bus_stop_times" json:"show_bus_stop_times"`
	ColorizeLines         bool   `toml:"colorize_lines" yaml:"colorize_lines" json:"colorize_lines"`
	IncidentCodesOnly     bool   `toml:"incident_codes_only" yaml:"incident_codes_only" json:"incident_codes_only"`
	DimmedThreshold       int    `toml:"dimmed_threshold" yaml:"dimmed_threshold" json:"dimmed_threshold"` // 0 = disabled
	LimitWidth            int    `toml:"limit_width" yaml:"limit_width" json:"limit_width"`                // incident column width in cells; 0 = full width
}

// TrainsConfig selects stations and limits train rows.
type TrainsConfig struct {
	Stations                []string `toml:"stations" yaml:"stations" json:"stations"`
	DestinationsToExclude   []string `toml:"destinations_to_exclude" yaml:"destinations_to_exclude" json:"destinations_to_exclude"`
	MaxPerStation           int      `toml:"max_per_station" yaml:"max_per_station" json:"max_per_station"` // 0 = unlimited
	HideLessThan            int      `toml:"hide_less_than" yaml:"hide_less_than" json:"hide_less_than"`
	ShowDestinationFullName bool     `toml:"show_destination_full_name" yaml:"show_destination_full_name" json:"show_destination_full_name"`
	RefreshIncidentsSeconds int      `toml:"refresh_incidents_seconds" yaml:"refresh_incidents_seconds" json:"refresh_incidents_seconds"`
	RefreshSeconds          int      `toml:"refresh_seconds" yaml:"refresh_seconds" json:"refresh_seconds"`
}

// BusesConfig selects stops and limits bus rows.
type BusesConfig struct {
	Stops           []string   `toml:"stops" yaml:"stops" json:"stops"`
	RoutesToExclude [][]string `toml:"routes_to_exclude" yaml:"routes_to_exclude" json:"routes_to_exclude"` // one list per stop
	MaxPerStop      int        `toml:"max_per_stop" yaml:"max_per_stop" json:"max_per_stop"`                // 0 = unlimited
	HideLessThan    int        `toml:"hide_less_than" yaml:"hide_less_than" json:"hide_less_than"`
	HideGreaterThan int        `toml:"hide_greater_than" yaml:"hide_greater_than" json:"hide_greater_than"`
	DirectionText   bool       `toml:"direction_text" yaml:"direction_text" json:"direction_text"`
	RefreshSeconds  int        `toml:"refresh_seconds" yaml:"refresh_seconds" json:"refresh_seconds"`
}

// ThemeConfig holds the colors applied when colorize_lines is set.
// Values are CSS color names or hex strings; empty leaves the default color.
type ThemeConfig struct {
	StationColor  string `toml:"station_color" yaml:"station_color" json:"station_color"`
	BusStopColor  string `toml:"bus_stop_color" yaml:"bus_stop_color" json:"bus_stop_color"`
	BusRouteColor string `toml:"bus_route_color" yaml:"bus_route_color" json:"bus_route_color"`
	ScheduleColor string `toml:"schedule_color" yaml:"schedule_color" json:"schedule_color"`
}

// StartupConfig controls the first-render delay.
type StartupConfig struct {
	DelayPolicy string `toml:"delay_policy" yaml:"delay_policy" json:"delay_policy"`
	DelayMS     int    `toml:"delay_ms" yaml:"delay_ms" json:"delay_ms"`
}

// TransportConfig locates the bus shared with the polling collaborator.
type TransportConfig struct {
	RedisAddr       string `toml:"redis_addr" yaml:"redis_addr" json:"redis_addr"`
	EventsChannel   string `toml:"events_channel" yaml:"events_channel" json:"events_channel"`
	RegisterChannel string `toml:"register_channel" yaml:"register_channel" json:"register_channel"`

	// Subscription supervision
	MaxRetries            int `toml:"max_retries" yaml:"max_retries" json:"-"`
	RetryBackoffSeconds   int `toml:"retry_backoff_seconds" yaml:"retry_backoff_seconds" json:"-"`
	SilenceTimeoutSeconds int `toml:"silence_timeout_seconds" yaml:"silence_timeout_seconds" json:"-"` // 0 = off

	// Connection pool
	PoolMaxIdle            int  `toml:"pool_max_idle" yaml:"pool_max_idle" json:"-"`
	PoolMaxActive          int  `toml:"pool_max_active" yaml:"pool_max_active" json:"-"` // 0 = no cap
	PoolIdleTimeoutSeconds int  `toml:"pool_idle_timeout_seconds" yaml:"pool_idle_timeout_seconds" json:"-"`
	PoolWait               bool `toml:"pool_wait" yaml:"pool_wait" json:"-"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"`
	File  string `toml:"file" yaml:"file" json:"file"` // empty = stderr without the TUI, discarded with it
}

// TUIConfig controls the terminal UI appearance.
type TUIConfig struct {
	AccentColor string `toml:"accent_color" yaml:"accent_color"`
}

// NotificationsConfig controls webhook/ntfy.sh notifications for board
// error transitions.
type NotificationsConfig struct {
	URL       string `toml:"url" yaml:"url"`
	OnError   bool   `toml:"on_error" yaml:"on_error"`
	OnRecover bool   `toml:"on_recover" yaml:"on_recover"`
}

// Delay returns the configured startup delay.
func (s StartupConfig) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// HasCredential reports whether the provider API key is present.
func (c *Config) HasCredential() bool {
	return c.WMATA.APIKey != ""
}

// Validate checks the configuration for issues that would cause confusing
// runtime behavior. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Trains.MaxPerStation < 0 {
		errs = append(errs, fmt.Errorf("trains.max_per_station must be >= 0 (0 = unlimited)"))
	}
	if c.Buses.MaxPerStop < 0 {
		errs = append(errs, fmt.Errorf("buses.max_per_stop must be >= 0 (0 = unlimited)"))
	}
	if c.Trains.HideLessThan < 0 {
		errs = append(errs, fmt.Errorf("trains.hide_less_than must be >= 0"))
	}
	if c.Buses.HideLessThan < 0 {
		errs = append(errs, fmt.Errorf("buses.hide_less_than must be >= 0"))
	}
	if c.Buses.HideGreaterThan < 0 {
		errs = append(errs, fmt.Errorf("buses.hide_greater_than must be >= 0"))
	}
	if c.Display.DimmedThreshold < 0 {
		errs = append(errs, fmt.Errorf("display.dimmed_threshold must be >= 0 (0 = disabled)"))
	}
	if c.Display.LimitWidth < 0 {
		errs = append(errs, fmt.Errorf("display.limit_width must be >= 0 (0 = full width)"))
	}
	if len(c.Buses.RoutesToExclude) > len(c.Buses.Stops) {
		errs = append(errs, fmt.Errorf("buses.routes_to_exclude has %d lists for %d stops", len(c.Buses.RoutesToExclude), len(c.Buses.Stops)))
	}

	for _, rate := range []struct {
		key   string
		value int
	}{
		{"trains.refresh_incidents_seconds", c.Trains.RefreshIncidentsSeconds},
		{"trains.refresh_seconds", c.Trains.RefreshSeconds},
		{"buses.refresh_seconds", c.Buses.RefreshSeconds},
	} {
		if rate.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0", rate.key))
		}
	}

	for _, color := range []struct {
		key   string
		value string
	}{
		{"theme.station_color", c.Theme.StationColor},
		{"theme.bus_stop_color", c.Theme.BusStopColor},
		{"theme.bus_route_color", c.Theme.BusRouteColor},
		{"theme.schedule_color", c.Theme.ScheduleColor},
	} {
		if color.value != "" && !hexColorRe.MatchString(color.value) && !cssNameRe.MatchString(color.value) {
			errs = append(errs, fmt.Errorf("%s must be a hex color or color name (e.g. \"#49742a\", \"Snow\")", color.key))
		}
	}

	switch c.Startup.DelayPolicy {
	case DelayAlways, DelayOnConfigError, DelayNever:
	default:
		errs = append(errs, fmt.Errorf("startup.delay_policy must be one of %q, %q, %q", DelayAlways, DelayOnConfigError, DelayNever))
	}
	if c.Startup.DelayMS < 0 {
		errs = append(errs, fmt.Errorf("startup.delay_ms must be >= 0"))
	}

	if c.Transport.EventsChannel == "" {
		errs = append(errs, fmt.Errorf("transport.events_channel must not be empty"))
	}
	if c.Transport.RegisterChannel == "" {
		errs = append(errs, fmt.Errorf("transport.register_channel must not be empty"))
	}
	if c.Transport.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("transport.max_retries must be >= 0"))
	}
	if c.Transport.RetryBackoffSeconds < 0 {
		errs = append(errs, fmt.Errorf("transport.retry_backoff_seconds must be >= 0"))
	}
	if c.Transport.SilenceTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("transport.silence_timeout_seconds must be >= 0 (0 = off)"))
	}
	if c.Transport.PoolMaxIdle < 0 {
		errs = append(errs, fmt.Errorf("transport.pool_max_idle must be >= 0"))
	}
	if c.Transport.PoolMaxActive < 0 {
		errs = append(errs, fmt.Errorf("transport.pool_max_active must be >= 0 (0 = no cap)"))
	}
	if c.Transport.PoolIdleTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("transport.pool_idle_timeout_seconds must be >= 0"))
	}

	if c.TUI.AccentColor != "" && !hexColorRe.MatchString(c.TUI.AccentColor) {
		errs = append(errs, fmt.Errorf("tui.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}
	if (c.Notifications.OnError || c.Notifications.OnRecover) && c.Notifications.URL == "" {
		errs = append(errs, fmt.Errorf("notifications.url must be set when on_error or on_recover is enabled"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error"))
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with the stock DC board settings.
func Defaults() Config {
	return Config{
		Display: DisplayConfig{
			ShowHeader:            true,
			HeaderText:            "DC Metro Times",
			ShowIncidents:         true,
			ShowStationTrainTimes: true,
			ShowBusStopTimes:      false,
			ColorizeLines:         false,
			IncidentCodesOnly:     false,
			DimmedThreshold:       0,
			LimitWidth:            40,
		},
		Trains: TrainsConfig{
			Stations:                []string{"A01", "C01"},
			DestinationsToExclude:   []string{},
			MaxPerStation:           0,
			HideLessThan:            0,
			ShowDestinationFullName: true,
			RefreshIncidentsSeconds: 120,
			RefreshSeconds:          30,
		},
		Buses: BusesConfig{
			Stops:           []string{"1001451"},
			RoutesToExclude: [][]string{},
			MaxPerStop:      0,
			HideLessThan:    0,
			HideGreaterThan: 45,
			DirectionText:   true,
			RefreshSeconds:  30,
		},
		Startup: StartupConfig{
			DelayPolicy: DelayAlways,
			DelayMS:     2000,
		},
		Transport: TransportConfig{
			RedisAddr:       "localhost:6379",
			EventsChannel:   "metrotimes:events",
			RegisterChannel: "metrotimes:register",

			MaxRetries:            5,
			RetryBackoffSeconds:   5,
			SilenceTimeoutSeconds: 0,

			PoolMaxIdle:            2,
			PoolMaxActive:          0,
			PoolIdleTimeoutSeconds: 240,
			PoolWait:               false,
		},
		Log: LogConfig{
			Level: "info",
		},
		TUI: TUIConfig{
			AccentColor: DefaultAccentColor,
		},
	}
}

// Load reads the configuration from the given path. If path is empty, it
// walks up from the current working directory looking for metrotimes.toml.
// Returns an error if the file contains unknown keys (likely typos).
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	switch DetectFormat(path) {
	case FormatYAML:
		if err := decodeYAML(path, &cfg); err != nil {
			return nil, err
		}
	default:
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, joinKeys(keys))
		}
	}

	if cfg.WMATA.APIKey == "" {
		cfg.WMATA.APIKey = os.Getenv(APIKeyEnv)
	}

	return &cfg, nil
}

// joinKeys formats a slice of key names for display.
func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

// findConfig walks up from the current directory looking for metrotimes.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched up from %s)", ErrNotFound, dir)
		}
		dir = parent
	}
}
