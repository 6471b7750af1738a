package openrouter

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// priceTable maps OpenRouter model identifiers to their pricing. The table is
// a snapshot for offline estimates; actual billing comes back in the usage
// block of each response.
var priceTable = map[string]modelPricing{
	// OpenAI
	"openai/gpt-4o":       {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"openai/gpt-4o-mini":  {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"openai/gpt-4.1":      {InputPerMillion: 2.00, OutputPerMillion: 8.00},
	"openai/gpt-4.1-mini": {InputPerMillion: 0.40, OutputPerMillion: 1.60},

	// Anthropic
	"anthropic/claude-sonnet-4.5": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"anthropic/claude-haiku-4.5":  {InputPerMillion: 0.80, OutputPerMillion: 4.00},

	// Google
	"google/gemini-2.5-flash": {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"google/gemini-2.5-pro":   {InputPerMillion: 1.25, OutputPerMillion: 10.00},

	// Open-weight
	"deepseek/deepseek-chat-v3.1":       {InputPerMillion: 0.27, OutputPerMillion: 1.00},
	"meta-llama/llama-3.3-70b-instruct": {InputPerMillion: 0.12, OutputPerMillion: 0.30},
	"mistralai/mistral-small-3.2-24b":   {InputPerMillion: 0.06, OutputPerMillion: 0.18},
	"qwen/qwen3-235b-a22b":              {InputPerMillion: 0.20, OutputPerMillion: 0.60},
}

// EstimateCost returns the estimated cost in USD for the given model and token counts.
// Returns 0 if the model is not found in the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// KnownModel reports whether the model has an entry in the price table.
func KnownModel(model string) bool {
	_, ok := priceTable[model]
	return ok
}

// EstimateTokens provides a rough token count estimation for the given text.
// Uses the approximation of 1 token per 4 characters.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}
