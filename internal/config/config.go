package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gazelab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Analysis AnalysisConfig
	Archive  ArchiveConfig
	Launcher LauncherConfig
}

// PathConfig holds the study directory layout
type PathConfig struct {
	DataDir           string // raw gaze/pupil exports (pupil_size.csv, *_nan_statistics.csv)
	QualityMetricsDir string // per-trial quality metric exports
	OutputDir         string // CSV/PNG/XLSX outputs, overwritten each run
}

// AnalysisConfig holds statistical analysis settings
type AnalysisConfig struct {
	Alpha float64 // significance threshold for report flags
}

// ArchiveConfig holds the optional per-run results archive settings
type ArchiveConfig struct {
	Enabled bool
	Path    string // SQLite file
}

// LauncherConfig holds the external experiment program locations
type LauncherConfig struct {
	PythonBin         string
	CalibrationScript string
	StimulusScript    string
	RecorderScript    string
	EyeLinkDir        string
	EyeLinkExecutable string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Paths: PathConfig{
			DataDir:           getEnvString("GAZELAB_DATA_DIR", "data"),
			QualityMetricsDir: getEnvString("GAZELAB_QUALITY_METRICS_DIR", "quality_metrics"),
			OutputDir:         getEnvString("GAZELAB_OUTPUT_DIR", "output"),
		},
		Analysis: AnalysisConfig{
			Alpha: getEnvFloat("GAZELAB_ALPHA", 0.05),
		},
		Archive: ArchiveConfig{
			Enabled: getEnvBool("GAZELAB_ARCHIVE_ENABLED", false),
			Path:    getEnvString("GAZELAB_ARCHIVE_PATH", filepath.Join("output", "results.db")),
		},
		Launcher: LauncherConfig{
			PythonBin:         getEnvString("GAZELAB_PYTHON_BIN", "python"),
			CalibrationScript: getEnvString("GAZELAB_CALIBRATION_SCRIPT", filepath.Join("run_experiments", "calibration.py")),
			StimulusScript:    getEnvString("GAZELAB_STIMULUS_SCRIPT", filepath.Join("run_experiments", "display_stimulus.py")),
			RecorderScript:    getEnvString("GAZELAB_RECORDER_SCRIPT", filepath.Join("run_experiments", "record_pupil.py")),
			EyeLinkDir:        getEnvString("GAZELAB_EYELINK_DIR", "eyelink"),
			EyeLinkExecutable: getEnvString("GAZELAB_EYELINK_EXECUTABLE", "eyelink_capture"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("GAZELAB_ALPHA must be in (0, 1)")
	}
	if c.Archive.Enabled && c.Archive.Path == "" {
		return errors.ConfigInvalid("GAZELAB_ARCHIVE_PATH is required when the archive is enabled")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
