package topics

import (
	"regexp"
	"strings"
)

// Rule maps a set of patterns to one canned advisory answer. Rules are
// static configuration, read-only at runtime.
type Rule struct {
	Name     string
	Patterns []string
	Response string
}

type compiledRule struct {
	name     string
	patterns []*regexp.Regexp
	response string
}

// Matcher evaluates rules in declared order against lower-cased text.
// First matching pattern of the first matching rule wins.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles the rule table once. Rule order is preserved.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{name: r.Name, response: r.Response}
		for _, p := range r.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, err
			}
			cr.patterns = append(cr.patterns, re)
		}
		m.rules = append(m.rules, cr)
	}
	return m, nil
}

// MustMatcher is NewMatcher for static tables known to compile.
func MustMatcher(rules []Rule) *Matcher {
	m, err := NewMatcher(rules)
	if err != nil {
		panic(err)
	}
	return m
}

// Match returns the canned response for the first rule whose patterns
// match the message, or false when no rule matches. Pure, no side effects.
func (m *Matcher) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, r := range m.rules {
		for _, re := range r.patterns {
			if re.MatchString(lower) {
				return r.response, true
			}
		}
	}
	return "", false
}

// DefaultRules is the built-in advisory table for common farming
// questions. Evaluation order is the declared order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "soil",
			Patterns: []string{`soil ph`, `\bph\b.*soil`, `soil test`, `soil health`},
			Response: "Most crops do best in soil with a pH between 6.0 and 7.0. Test your soil every season; apply lime to raise pH or elemental sulfur to lower it, and add organic matter like compost to improve structure and nutrient retention.",
		},
		{
			Name:     "irrigation",
			Patterns: []string{`irrigat`, `water(ing)? schedule`, `drip`, `how (much|often).*water`},
			Response: "Water deeply and less often rather than shallowly every day. Drip irrigation can cut water use by up to 50% compared to flood irrigation. Irrigate early in the morning to reduce evaporation, and check soil moisture at root depth before each cycle.",
		},
		{
			Name:     "pests",
			Patterns: []string{`pest`, `insect`, `aphid`, `caterpillar`, `bollworm`},
			Response: "Use Integrated Pest Management: scout your fields weekly, identify the pest before spraying, encourage natural predators, and rotate chemical classes only when thresholds are exceeded. Healthy, well-spaced plants resist pests far better.",
		},
		{
			Name:     "fertilizer",
			Patterns: []string{`fertili[sz]`, `compost`, `manure`, `\bnpk\b`, `nutrient`},
			Response: "Base fertilizer doses on a soil test, not guesswork. Organic options like compost and well-rotted manure feed the soil as well as the crop. Split nitrogen applications across the season to reduce losses and avoid burning young plants.",
		},
		{
			Name:     "rotation",
			Patterns: []string{`crop rotation`, `rotate.*crop`, `cover crop`, `legume`},
			Response: "Rotate cereals with legumes to break pest and disease cycles and fix nitrogen naturally. A simple three-year rotation with a cover crop in the off season keeps soil biology active and reduces fertilizer needs.",
		},
		{
			Name:     "weather",
			Patterns: []string{`weather`, `rain(fall)?`, `drought`, `frost`, `monsoon`},
			Response: "Plan field operations around a reliable local forecast. Mulching buffers soil temperature and moisture against dry spells, and windbreaks or row covers protect young crops from frost. Rainwater harvesting gives you a margin in drought years.",
		},
	}
}
