package types

import "time"

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Port           int              `yaml:"port"`
	DataPath       string           `yaml:"dataPath"`           // the document, rewritten on every change
	SeedPath       string           `yaml:"seedPath,omitempty"` // packaged default copied on first boot
	PublicDir      string           `yaml:"publicDir"`
	UploadSubdir   string           `yaml:"uploadSubdir"` // under PublicDir, also the web prefix of stored paths
	QRChannels     []string         `yaml:"qrChannels"`
	MetricsPort    int              `yaml:"metricsPort"` // 0 disables the Prometheus listener
	AdminLocalOnly bool             `yaml:"adminLocalOnly"`
	Login          LoginLimitConfig `yaml:"login"`
}

// LoginLimitConfig throttles POST /api/login per client IP.
type LoginLimitConfig struct {
	Rate    float64       `yaml:"rate"`  // attempts per second
	Burst   int           `yaml:"burst"` // attempts allowed at once
	IdleTTL time.Duration `yaml:"idleTTL"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log            string
	UseConfigPath  string
	UsePort        int
	UseDataPath    string
	UsePublicDir   string
	UseMetricsPort int
	UseSeedPath    string
}
