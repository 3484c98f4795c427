package assistant

import (
	"regexp"
	"strings"
)

var pricePattern = regexp.MustCompile(`₹\s?\d[\d,]*`)

// extractMetadata scans generated text for a project type, a complexity level and a
// rupee price. It returns nil when nothing is found.
func extractMetadata(text string) *Metadata {
	lower := strings.ToLower(text)
	m := &Metadata{}

	switch {
	case containsAny(lower, []string{"e-commerce", "ecommerce", "online store"}):
		m.ProjectType = projectEcommerce
	case containsAny(lower, []string{"web app", "mobile app", "application"}):
		m.ProjectType = projectApp
	case containsAny(lower, []string{"website", "landing page"}):
		m.ProjectType = projectWebsite
	}

	switch {
	case strings.Contains(lower, complexityAdvanced):
		m.Complexity = complexityAdvanced
	case strings.Contains(lower, complexityMid):
		m.Complexity = complexityMid
	case strings.Contains(lower, complexityBasic):
		m.Complexity = complexityBasic
	}

	if price := pricePattern.FindString(text); price != "" {
		m.EstimatedPrice = strings.ReplaceAll(price, " ", "")
	}

	if *m == (Metadata{}) {
		return nil
	}
	return m
}
