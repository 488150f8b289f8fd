package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Dirs DirsConfig `mapstructure:"dirs" validate:"required"`
	Log  LogConfig  `mapstructure:"log"  validate:"required"`
}

// DirsConfig locates the on-disk state: run ledger, dataset files, and
// the content-addressable result cache.
type DirsConfig struct {
	RunDir     string `mapstructure:"run_dir"     validate:"required"`
	DatasetDir string `mapstructure:"dataset_dir" validate:"required"`
	CacheDir   string `mapstructure:"cache_dir"   validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
