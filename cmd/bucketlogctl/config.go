package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// config holds bucketlogctl's persistent defaults, loaded from a JSONC file
// so users can comment their settings. CLI flags always win over the file.
type config struct {
	DefaultNumBuckets uint32 `json:"default_num_buckets,omitempty"`
}

func defaultConfig() config {
	return config{DefaultNumBuckets: 1024}
}

// configPath returns ~/.config/bucketlogctl/config.json, or "" if the home
// directory cannot be determined.
func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "bucketlogctl", "config.json")
}

// loadConfig reads and JSONC-standardizes the config file at path. A
// missing file is not an error; it yields defaultConfig().
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is user-controlled by design
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return config{}, fmt.Errorf("bucketlogctl: reading %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return config{}, fmt.Errorf("bucketlogctl: %s: invalid JSONC: %w", path, err)
	}

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return config{}, fmt.Errorf("bucketlogctl: %s: invalid JSON: %w", path, err)
	}

	return cfg, nil
}
