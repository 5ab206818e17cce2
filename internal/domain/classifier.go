package domain

import (
	"regexp"
	"strings"
)

// Visitor categories. The string values double as the persisted wire format,
// so changing them invalidates previously recorded hit logs.
const (
	CategorySearchEngine = "Search Engine"
	CategorySocialMedia  = "Social Media"
	CategoryMonitoring   = "Monitoring"
	CategorySEOAnalytics = "SEO/Analytics"
	CategorySecurity     = "Security"
	CategoryAILLM        = "AI/LLM"
	CategoryOtherBot     = "Other Bot"
)

// Classification is the result of matching a User-Agent string against the
// known bot signatures. Either IsBot is false and both other fields are
// empty, or IsBot is true and both are populated.
type Classification struct {
	IsBot          bool   `json:"is_bot"`
	Category       string `json:"category,omitempty"`
	MatchedPattern string `json:"matched_pattern,omitempty"`
}

// categoryRules pairs a category with its compiled patterns. Categories are
// held in a slice rather than a map because scan order is the priority
// order: the first rule to match, walking categories then rules in
// declaration order, wins.
type categoryRules struct {
	category string
	patterns []*regexp.Regexp
}

// Classifier labels User-Agent strings as human or bot traffic. It is
// immutable after construction and safe for concurrent use without locking.
type Classifier struct {
	rules []categoryRules
}

// NewClassifier compiles the full signature set. Call once at startup and
// share the instance; compilation of the ~200 patterns is not free.
func NewClassifier() *Classifier {
	return &Classifier{
		rules: []categoryRules{
			{CategorySearchEngine, compilePatterns(searchEngineSignatures)},
			{CategorySocialMedia, compilePatterns(socialMediaSignatures)},
			{CategoryMonitoring, compilePatterns(monitoringSignatures)},
			{CategorySEOAnalytics, compilePatterns(seoAnalyticsSignatures)},
			{CategorySecurity, compilePatterns(securitySignatures)},
			{CategoryAILLM, compilePatterns(aiLLMSignatures)},
			{CategoryOtherBot, compilePatterns(genericBotSignatures)},
		},
	}
}

// Classify labels a User-Agent string. An empty or blank string is treated
// as human traffic, not an error: proxies and privacy tools strip the
// header, and misclassifying those visitors as bots would skew the stats.
// The returned MatchedPattern is the literal matched text, lower-cased.
func (c *Classifier) Classify(userAgent string) Classification {
	if strings.TrimSpace(userAgent) == "" {
		return Classification{}
	}

	for _, cr := range c.rules {
		for _, p := range cr.patterns {
			if m := p.FindString(userAgent); m != "" {
				return Classification{
					IsBot:          true,
					Category:       cr.category,
					MatchedPattern: strings.ToLower(m),
				}
			}
		}
	}

	return Classification{}
}

// Categories returns the category names in priority order.
func (c *Classifier) Categories() []string {
	out := make([]string, len(c.rules))
	for i, cr := range c.rules {
		out[i] = cr.category
	}
	return out
}

// PatternCounts reports how many signatures each category carries,
// for diagnostics.
func (c *Classifier) PatternCounts() map[string]int {
	counts := make(map[string]int, len(c.rules))
	for _, cr := range c.rules {
		counts[cr.category] = len(cr.patterns)
	}
	return counts
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}
