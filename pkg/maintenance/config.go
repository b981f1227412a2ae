package maintenance

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/core-tools/hsu-maintenance-go/pkg/cleanup"
	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/loganalysis"
	"github.com/core-tools/hsu-maintenance-go/pkg/sysmon"

	"gopkg.in/yaml.v3"
)

// MaintenanceConfig represents the top-level configuration file structure.
// It is loaded once at startup and never mutated afterwards.
type MaintenanceConfig struct {
	Maintenance MaintenanceOptions `yaml:"maintenance"`
	Thresholds  sysmon.Thresholds  `yaml:"thresholds"`
	Analysis    loganalysis.Config `yaml:"analysis"`
	Cleanup     cleanup.Config     `yaml:"cleanup"`
	Services    []string           `yaml:"services"`
}

// MaintenanceOptions represents run-level configuration.
type MaintenanceOptions struct {
	LogDir   string `yaml:"log_dir,omitempty"`
	LogFile  string `yaml:"log_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// JournalPath returns the full path of the maintenance journal file.
func (c *MaintenanceConfig) JournalPath() string {
	return filepath.Join(c.Maintenance.LogDir, c.Maintenance.LogFile)
}

// LoadConfigFromFile loads maintenance configuration from a YAML file.
func LoadConfigFromFile(filename string) (*MaintenanceConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError("failed to read configuration file", err).WithContext("filename", filename)
	}

	var config MaintenanceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.NewValidationError("failed to parse YAML configuration", err).WithContext("filename", filename)
	}

	setConfigDefaults(&config)

	return &config, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *MaintenanceConfig {
	config := &MaintenanceConfig{}
	setConfigDefaults(config)
	return config
}

func setConfigDefaults(config *MaintenanceConfig) {
	if config.Maintenance.LogDir == "" {
		config.Maintenance.LogDir = "logs"
	}
	if config.Maintenance.LogFile == "" {
		config.Maintenance.LogFile = "maintenance_log.txt"
	}
	if config.Maintenance.LogLevel == "" {
		config.Maintenance.LogLevel = "info"
	}

	if config.Thresholds.CPUPercent == 0 {
		config.Thresholds.CPUPercent = 80
	}
	if config.Thresholds.MemoryPercent == 0 {
		config.Thresholds.MemoryPercent = 80
	}
	if config.Thresholds.DiskPercent == 0 {
		config.Thresholds.DiskPercent = 80
	}

	if config.Analysis.AuthLog == "" {
		config.Analysis.AuthLog = filepath.Join(config.Maintenance.LogDir, "auth.log")
	}
	if config.Analysis.SystemLog == "" {
		config.Analysis.SystemLog = filepath.Join(config.Maintenance.LogDir, "syslog.log")
	}
	if config.Analysis.FailedLoginLimit == 0 {
		config.Analysis.FailedLoginLimit = 5
	}
	if config.Analysis.ErrorLimit == 0 {
		config.Analysis.ErrorLimit = 10
	}

	if config.Cleanup.TempMaxAge == 0 {
		config.Cleanup.TempMaxAge = 7 * 24 * time.Hour
	}

	if config.Services == nil {
		if runtime.GOOS == "windows" {
			config.Services = []string{"wuauserv", "bits", "Spooler", "W32Time"}
		} else {
			config.Services = []string{"cron", "ssh"}
		}
	}
}

// ValidateConfig validates the entire configuration structure.
func ValidateConfig(config *MaintenanceConfig) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}

	if config.Maintenance.LogDir == "" {
		return errors.NewValidationError("log directory cannot be empty", nil)
	}
	if config.Maintenance.LogFile == "" {
		return errors.NewValidationError("log file name cannot be empty", nil)
	}

	if err := validateThreshold("cpu_percent", config.Thresholds.CPUPercent); err != nil {
		return err
	}
	if err := validateThreshold("memory_percent", config.Thresholds.MemoryPercent); err != nil {
		return err
	}
	if err := validateThreshold("disk_percent", config.Thresholds.DiskPercent); err != nil {
		return err
	}

	if config.Analysis.FailedLoginLimit < 0 {
		return errors.NewValidationError("failed login limit cannot be negative", nil)
	}
	if config.Analysis.ErrorLimit < 0 {
		return errors.NewValidationError("error limit cannot be negative", nil)
	}

	if config.Cleanup.TempMaxAge <= 0 {
		return errors.NewValidationError(
			fmt.Sprintf("temp max age must be positive: %s", config.Cleanup.TempMaxAge),
			nil,
		)
	}

	seen := make(map[string]int)
	for i, name := range config.Services {
		if name == "" {
			return errors.NewValidationError(
				fmt.Sprintf("service name at index %d cannot be empty", i),
				nil,
			)
		}
		if prev, exists := seen[name]; exists {
			return errors.NewValidationError(
				fmt.Sprintf("duplicate service '%s' found at indices %d and %d", name, prev, i),
				nil,
			)
		}
		seen[name] = i
	}

	return nil
}

func validateThreshold(name string, value float64) error {
	if value <= 0 || value > 100 {
		return errors.NewValidationError(
			fmt.Sprintf("invalid %s threshold: %v", name, value),
			nil,
		).WithContext("valid_range", "(0, 100]")
	}
	return nil
}

// ValidateConfigFile validates a configuration file without running.
// This is useful for configuration testing and CI/CD validation.
func ValidateConfigFile(configFile string) error {
	config, err := LoadConfigFromFile(configFile)
	if err != nil {
		return err
	}
	return ValidateConfig(config)
}

// ConfigSummary provides a high-level overview of configuration.
type ConfigSummary struct {
	JournalPath      string   `json:"journal_path"`
	CPUThreshold     float64  `json:"cpu_threshold"`
	MemoryThreshold  float64  `json:"memory_threshold"`
	DiskThreshold    float64  `json:"disk_threshold"`
	TempMaxAge       string   `json:"temp_max_age"`
	Services         []string `json:"services"`
	TotalServices    int      `json:"total_services"`
	Error            string   `json:"error,omitempty"`
}

// GetConfigSummary returns a human-readable summary of the configuration.
func GetConfigSummary(config *MaintenanceConfig) ConfigSummary {
	if config == nil {
		return ConfigSummary{Error: "configuration is nil"}
	}

	return ConfigSummary{
		JournalPath:     config.JournalPath(),
		CPUThreshold:    config.Thresholds.CPUPercent,
		MemoryThreshold: config.Thresholds.MemoryPercent,
		DiskThreshold:   config.Thresholds.DiskPercent,
		TempMaxAge:      config.Cleanup.TempMaxAge.String(),
		Services:        config.Services,
		TotalServices:   len(config.Services),
	}
}
