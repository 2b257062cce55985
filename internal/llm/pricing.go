package llm

import "strings"

// ModelCost is a model's list price in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

// prices covers the default and alias models of every configured host.
// Prices as of 2026-02.
var prices = map[string]ModelCost{
	"llama-3.3-70b-versatile":     {0.59, 0.79},
	"llama-3.1-8b-instant":        {0.05, 0.08},
	"gemini-2.0-flash":            {0.1, 0.4},
	"gemini-2.5-pro":              {1.25, 10},
	"gpt-4o-mini":                 {0.15, 0.6},
	"gpt-4o":                      {2.5, 10},
	"claude-haiku-4-5-20251001":   {1, 5},
	"claude-sonnet-4-5-20250929":  {3, 15},
	"google/gemini-2.0-flash-exp": {0, 0},
}

// LookupCost returns the price of modelID, or nil when it is unknown.
// Hosts often answer with a dated or versioned ID ("gpt-4o-mini-2024-07-18",
// "gemini-2.0-flash-001"), so the longest known prefix is used.
func LookupCost(modelID string) *ModelCost {
	if c, ok := prices[modelID]; ok {
		return &c
	}
	var best string
	for id := range prices {
		if strings.HasPrefix(modelID, id+"-") && len(id) > len(best) {
			best = id
		}
	}
	if best == "" {
		return nil
	}
	c := prices[best]
	return &c
}
