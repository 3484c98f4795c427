package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pixelforge/internal/training"
)

// rule is one fallback heuristic. Rules run in slice order; the first match answers.
type rule struct {
	name  string
	match func(r *Resolver, text string, examples []training.Example) (Reply, bool)
}

var fallbackRules = []rule{
	{name: "code", match: keywordRule([]string{"code", "component", "function"}, intentCode, confidenceRule,
		func(r *Resolver) string { return r.catalog.Replies.CodeHelp })},
	{name: "debugging", match: keywordRule([]string{"error", "bug", "fix"}, intentDebugging, confidenceRule,
		func(r *Resolver) string { return r.catalog.Replies.Debugging })},
	{name: "example", match: exampleRule},
	{name: "pricing", match: keywordRule([]string{"pricing", "cost", "price"}, intentPricing, confidenceKeyword,
		func(r *Resolver) string { return r.catalog.Replies.Pricing })},
	{name: "contact", match: keywordRule([]string{"contact", "call", "email"}, intentContact, confidenceKeyword,
		func(r *Resolver) string { return r.catalog.Replies.Contact })},
	{name: "timeline", match: keywordRule([]string{"time", "deadline", "how long"}, intentTimeline, confidenceKeyword,
		func(r *Resolver) string { return r.catalog.Replies.Timeline })},
	{name: "location", match: keywordRule([]string{"location", "address", "where"}, intentLocation, confidenceKeyword,
		func(r *Resolver) string { return r.catalog.Replies.Location })},
	{name: "project", match: projectRule},
	{name: "generic", match: genericRule},
}

func (r *Resolver) fallback(text string, examples []training.Example) (Reply, string) {
	lower := strings.ToLower(text)
	for _, rl := range fallbackRules {
		if reply, ok := rl.match(r, lower, examples); ok {
			return reply, rl.name
		}
	}
	// genericRule always matches
	return Reply{}, ""
}

func keywordRule(keywords []string, intent string, confidence float64, text func(*Resolver) string) func(*Resolver, string, []training.Example) (Reply, bool) {
	return func(r *Resolver, lower string, _ []training.Example) (Reply, bool) {
		if !containsAny(lower, keywords) {
			return Reply{}, false
		}
		return Reply{
			Text:       text(r),
			Confidence: confidence,
			Metadata:   &Metadata{DetectedIntent: intent},
		}, true
	}
}

func exampleRule(_ *Resolver, lower string, examples []training.Example) (Reply, bool) {
	ex, ok := training.Match(examples, lower)
	if !ok {
		return Reply{}, false
	}
	intent := ex.Category
	if intent == "" {
		intent = intentMatched
	}
	return Reply{
		Text:       ex.ExpectedOutput,
		Confidence: confidenceRule,
		Metadata:   &Metadata{DetectedIntent: intent},
	}, true
}

var projectKeywords = []string{"project", "need", "want", "build", "develop"}

func projectRule(r *Resolver, lower string, _ []training.Example) (Reply, bool) {
	if utf8.RuneCountInString(lower) <= 15 || !containsAny(lower, projectKeywords) {
		return Reply{}, false
	}
	projectType := classifyProject(lower)
	complexity := classifyComplexity(lower)
	price := tierPrice[complexity]
	return Reply{
		Text:       fmt.Sprintf(r.catalog.Replies.Project, projectType, complexity, price),
		Confidence: confidenceRule,
		Metadata: &Metadata{
			DetectedIntent: intentProject,
			ProjectType:    projectType,
			Complexity:     complexity,
			EstimatedPrice: price,
		},
	}, true
}

func classifyProject(lower string) string {
	switch {
	case containsAny(lower, []string{"e-commerce", "ecommerce", "shop", "store"}):
		return projectEcommerce
	case containsAny(lower, []string{"app", "application", "mobile"}):
		return projectApp
	default:
		return projectWebsite
	}
}

func classifyComplexity(lower string) string {
	switch {
	case containsAny(lower, []string{"complex", "advanced", "dashboard"}):
		return complexityAdvanced
	case containsAny(lower, []string{"dynamic", "database"}):
		return complexityMid
	default:
		return complexityBasic
	}
}

func genericRule(r *Resolver, _ string, _ []training.Example) (Reply, bool) {
	pool := r.catalog.Replies.Greetings
	i := r.pick(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return Reply{
		Text:       pool[i],
		Confidence: confidenceGeneric,
		Metadata:   &Metadata{DetectedIntent: intentGeneral},
	}, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
