package config

// SuggestedModels are OpenRouter model identifiers commonly used for
// translation benchmarks, offered as wizard choices. Any other identifier
// can still be set via --model or the config file.
var SuggestedModels = []string{
	"openai/gpt-4o-mini",
	"openai/gpt-4o",
	"anthropic/claude-sonnet-4.5",
	"anthropic/claude-haiku-4.5",
	"google/gemini-2.5-flash",
	"google/gemini-2.5-pro",
	"deepseek/deepseek-chat-v3.1",
	"meta-llama/llama-3.3-70b-instruct",
	"mistralai/mistral-small-3.2-24b",
	"qwen/qwen3-235b-a22b",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:          "openai/gpt-4o-mini",
		MaxTokens:      1000,
		Temperature:    0.1,
		MaxConcurrent:  15,
		RequestTimeout: 30,
		DataDir:        "data",
		CSVDir:         "output_csv",
		TXTDir:         "output_txt",
		ReportDir:      "reports",
		HistoryPath:    ".termbench/history.db",
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMS: 1000,
			Multiplier:  2.0,
			MaxDelayMS:  30000,
			Jitter:      0,
		},
	}
}
