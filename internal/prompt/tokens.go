package prompt

import "github.com/tiktoken-go/tokenizer"

// EstimateTokens returns an approximate token count for a composed document.
// The GPT-4 encoding is close enough for a console hint across assistants.
// Falls back to character-based estimation (4 chars per token) if the
// tokenizer is unavailable.
func EstimateTokens(text string) int {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return len(text) / 4
	}
	count, err := codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}
