package config

// Config is the top-level termbench configuration, corresponding to .termbench.yml.
type Config struct {
	Model          string      `yaml:"model" koanf:"model"`
	MaxTokens      int         `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature    float64     `yaml:"temperature" koanf:"temperature"`
	MaxConcurrent  int         `yaml:"max_concurrent" koanf:"max_concurrent"`
	RequestTimeout int         `yaml:"request_timeout" koanf:"request_timeout"`
	DataDir        string      `yaml:"data_dir" koanf:"data_dir"`
	CSVDir         string      `yaml:"csv_dir" koanf:"csv_dir"`
	TXTDir         string      `yaml:"txt_dir" koanf:"txt_dir"`
	ReportDir      string      `yaml:"report_dir" koanf:"report_dir"`
	HistoryPath    string      `yaml:"history_path" koanf:"history_path"`
	Retry          RetryConfig `yaml:"retry" koanf:"retry"`
}

// RetryConfig holds the backoff settings applied to OpenRouter requests.
// Delays are expressed in milliseconds so the YAML stays numeric.
type RetryConfig struct {
	MaxAttempts int     `yaml:"max_attempts" koanf:"max_attempts"`
	BaseDelayMS int     `yaml:"base_delay_ms" koanf:"base_delay_ms"`
	Multiplier  float64 `yaml:"multiplier" koanf:"multiplier"`
	MaxDelayMS  int     `yaml:"max_delay_ms" koanf:"max_delay_ms"`
	Jitter      float64 `yaml:"jitter" koanf:"jitter"`
}
