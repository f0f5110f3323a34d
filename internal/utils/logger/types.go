package logger

// LoggingConfig defines the configuration for logging.
// LoggingConfig 定义日志配置。
type LoggingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Level: debug, info, warn, error
	Level string `yaml:"level"`
	// Path: log file path; empty means stdout only
	Path string `yaml:"path"`
	// MaxSize: max size in MB before rotation
	MaxSize int `yaml:"max_size"`
	// MaxBackups: max number of rotated files to keep
	MaxBackups int `yaml:"max_backups"`
	// MaxAge: max days to keep rotated files
	MaxAge int `yaml:"max_age"`
	// Compress: gzip rotated files
	Compress bool `yaml:"compress"`
}
