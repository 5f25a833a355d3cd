package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const fileTemplate = `# metrotimes.toml: transit board configuration
# Place this file in the directory you run metrotimes from (or any parent).

[wmata]
api_key = ""  # required; WMATA_API_KEY is used when empty

[instance]
identifier = ""  # empty = random identifier per start
path = ""

[display]
show_header = true
header_text = "DC Metro Times"
show_incidents = true
show_station_train_times = true
show_bus_stop_times = false
colorize_lines = false
incident_codes_only = false  # "RD  BL" instead of "Incidents Reported On Red and Blue Lines"
dimmed_threshold = 0         # dim arrivals further out than this many minutes; 0 = off
limit_width = 40             # incident text width in cells; 0 = full width

[trains]
stations = ["A01", "C01"]
destinations_to_exclude = []
max_per_station = 0  # 0 = unlimited
hide_less_than = 0
show_destination_full_name = true
refresh_incidents_seconds = 120
refresh_seconds = 30

[buses]
stops = ["1001451"]
routes_to_exclude = []  # one list of route ids per stop
max_per_stop = 0        # 0 = unlimited
hide_less_than = 0
hide_greater_than = 45
direction_text = true
refresh_seconds = 30

[theme]
station_color = ""
bus_stop_color = ""
bus_route_color = ""
schedule_color = ""

[startup]
delay_policy = "always"  # always | on-config-error | never
delay_ms = 2000

[transport]
redis_addr = "localhost:6379"
events_channel = "metrotimes:events"
register_channel = "metrotimes:register"
max_retries = 5              # reconnect attempts before giving up
retry_backoff_seconds = 5
silence_timeout_seconds = 0  # reconnect when nothing arrives for this long; 0 = off
pool_max_idle = 2
pool_max_active = 0          # 0 = no cap
pool_idle_timeout_seconds = 240
pool_wait = false            # block instead of failing when pool_max_active is reached

[log]
level = "info"
file = ""

[tui]
accent_color = "#7D56F4"  # hex color for the title bar

[notifications]
url = ""            # e.g. "https://ntfy.sh/my-board"
on_error = false    # post when the board shows an error
on_recover = false  # post when the error clears
`

// InitFile writes a default metrotimes.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	if err := os.WriteFile(path, []byte(fileTemplate), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
