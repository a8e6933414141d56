package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type LedgerConfig struct {
	SweepInterval time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
	RetentionDays int           `yaml:"retentionDays"`
}

type KudosConfig struct {
	EndorseURL string        `yaml:"endorseUrl"`
	QueueSize  int           `yaml:"queueSize"`
	BaseDelay  time.Duration `yaml:"baseDelay"`
	MaxJitter  time.Duration `yaml:"maxJitter"`
}

type DispatchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	ActivityURL string        `yaml:"activityUrl"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	RuleTTL time.Duration `yaml:"ruleTTL"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Ledger      LedgerConfig   `yaml:"ledger"`
	Kudos       KudosConfig    `yaml:"kudos"`
	Dispatch    DispatchConfig `yaml:"dispatch"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
