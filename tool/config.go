package tool

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yangpin97/cisco-client-portal/types"
)

// ConfigPath is used when LoadConfig gets an empty path.
var ConfigPath = "config.yaml"

// DefaultQRChannels are the channels upload-qr accepts when the config lists none.
var DefaultQRChannels = []string{"ios", "android", "harmony", "consulting"}

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		Port:         9907,
		DataPath:     "data.json",
		PublicDir:    "public",
		UploadSubdir: "img",
		QRChannels:   append([]string(nil), DefaultQRChannels...),
		MetricsPort:  0,
		Login: types.LoginLimitConfig{
			Rate:    0.2, // one attempt every 5 seconds once the burst is spent
			Burst:   5,
			IdleTTL: 10 * time.Minute,
		},
	}
}

// LoadConfig reads the yaml config at path, creating it with defaults when missing.
// Environment variables are applied on top of the file.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			applyEnv(&cfg)
			fillMissing(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	applyEnv(&cfg)
	fillMissing(&cfg)
	return cfg, nil
}

// applyEnv lets container deployments override the file without editing it.
func applyEnv(cfg *types.AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		} else {
			DefaultLogger.Warnf("Ignoring invalid PORT %q", v)
		}
	}
	if v := os.Getenv("PORTAL_DATA_PATH"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("PORTAL_PUBLIC_DIR"); v != "" {
		cfg.PublicDir = v
	}
	if v := os.Getenv("PORTAL_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MetricsPort = port
		}
	}
}

// fillMissing restores defaults for fields an older or hand-edited config left empty.
func fillMissing(cfg *types.AppConfig) {
	def := defaultConfig()
	if cfg.Port <= 0 {
		cfg.Port = def.Port
	}
	if cfg.DataPath == "" {
		cfg.DataPath = def.DataPath
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = def.PublicDir
	}
	if cfg.UploadSubdir == "" {
		cfg.UploadSubdir = def.UploadSubdir
	}
	if len(cfg.QRChannels) == 0 {
		cfg.QRChannels = def.QRChannels
	}
	if cfg.Login.Rate <= 0 {
		cfg.Login.Rate = def.Login.Rate
	}
	if cfg.Login.Burst <= 0 {
		cfg.Login.Burst = def.Login.Burst
	}
	if cfg.Login.IdleTTL <= 0 {
		cfg.Login.IdleTTL = def.Login.IdleTTL
	}
}

func writeDefaultConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
