package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/touchdeck"
	projectConfigDir = ".touchdeck"
	configFileName   = "config.yaml"
)

// LoadConfig loads the touchdeck configuration by layering default, user,
// and project settings. The result is validated; a validation failure is a
// startup-time fatal error for callers.
func LoadConfig() (TouchdeckConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return TouchdeckConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return TouchdeckConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	if err := Validate(config); err != nil {
		return TouchdeckConfig{}, err
	}

	return config, nil
}

// LoadConfigFromPath loads configuration from a single file layered over
// the defaults, skipping the user/project lookup. Used by --config.
func LoadConfigFromPath(path string) (TouchdeckConfig, error) {
	config := GetDefaultConfig()

	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return TouchdeckConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	config = mergeConfigs(config, overlay)

	if err := Validate(config); err != nil {
		return TouchdeckConfig{}, err
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a TouchdeckConfig from a YAML file.
func loadConfigFromFile(filePath string) (TouchdeckConfig, error) {
	var config TouchdeckConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return TouchdeckConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return TouchdeckConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. A non-empty zone
// list in the overlay replaces the base layout wholesale (partial layouts
// would invite overlap mistakes); apps merge by id.
func mergeConfigs(base, overlay TouchdeckConfig) TouchdeckConfig {
	merged := base

	if overlay.Display.Width != 0 {
		merged.Display.Width = overlay.Display.Width
	}
	if overlay.Display.Height != 0 {
		merged.Display.Height = overlay.Display.Height
	}
	if overlay.Input.EventPath != "" {
		merged.Input.EventPath = overlay.Input.EventPath
	}

	if len(overlay.Zones) > 0 {
		merged.Zones = overlay.Zones
	}

	if len(overlay.Apps) > 0 {
		appsByID := make(map[string]int, len(merged.Apps))
		for i, app := range merged.Apps {
			appsByID[app.ID] = i
		}
		for _, app := range overlay.Apps {
			if app.GracePeriod == 0 {
				app.GracePeriod = defaultGracePeriod
			}
			if i, ok := appsByID[app.ID]; ok {
				merged.Apps[i] = app
			} else {
				merged.Apps = append(merged.Apps, app)
			}
		}
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
