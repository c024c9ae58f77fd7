// Package news scores headlines with a keyword sentiment model and carries
// sector reference data used next to company fundamentals.
package news

import (
	"strings"

	"github.com/aristath/hermes/internal/domain"
)

var positiveWords = []string{
	"growth", "profit", "gain", "rise", "surge", "up", "beat",
	"strong", "positive", "bullish", "success", "win", "record", "high",
}

var negativeWords = []string{
	"loss", "decline", "fall", "drop", "down", "miss", "weak",
	"negative", "bearish", "fail", "crisis", "worry", "concern", "risk",
}

// AnalyzeSentiment classifies a headline by counting keyword hits.
// Matching is substring based, so "upgrade" counts for "up".
func AnalyzeSentiment(title, description string) domain.Sentiment {
	text := strings.ToLower(title + " " + description)

	positive := countMatches(text, positiveWords)
	negative := countMatches(text, negativeWords)

	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// OverallSentiment is the majority sentiment across items; ties and empty input are neutral
func OverallSentiment(items []domain.NewsItem) domain.Sentiment {
	var positive, negative int
	for _, item := range items {
		switch item.Sentiment {
		case domain.SentimentPositive:
			positive++
		case domain.SentimentNegative:
			negative++
		}
	}

	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func countMatches(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
