package planning

import (
	"strings"

	"sprint-planner/internal/models"
)

var (
	highComplexityKeywords = []string{
		"enterprise", "microservice", "scalable", "distributed",
		"machine learning", "ai", "blockchain",
	}

	lowComplexityKeywords = []string{
		"landing page", "portfolio", "blog", "simple",
	}
)

// Classify derives the complexity tier from a project's name and description.
// High keywords win over low ones; anything else is medium. Matching is plain
// substring containment, so "ai" also matches inside longer words.
func Classify(name, description string) models.ComplexityTier {
	text := strings.ToLower(name + " " + description)

	if containsAny(text, highComplexityKeywords) {
		return models.TierHigh
	}
	if containsAny(text, lowComplexityKeywords) {
		return models.TierLow
	}
	return models.TierMedium
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
