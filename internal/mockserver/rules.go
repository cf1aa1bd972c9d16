package mockserver

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/Rorical/BooklyDesk/internal/models"
)

//go:embed rules.yaml
var defaultRules []byte

// Reply is the scripted assistant answer for a matched message.
type Reply struct {
	Text       string `yaml:"reply"`
	Action     string `yaml:"action"`
	ToolName   string `yaml:"tool_name,omitempty"`
	Clarifying bool   `yaml:"clarifying,omitempty"`
}

type Rule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Reply   `yaml:",inline"`

	re *regexp.Regexp
}

type Rules struct {
	Rules    []Rule `yaml:"rules"`
	Fallback Reply  `yaml:"fallback"`
}

// DefaultRules returns the built-in Bookly scenarios.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRules)
}

// LoadRules reads rules from path, or the built-in set when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	for i := range rules.Rules {
		rule := &rules.Rules[i]
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid pattern: %w", rule.Name, err)
		}
		rule.re = re
		if rule.Action == "" {
			rule.Action = models.ActionAnswer
		}
	}
	if rules.Fallback.Action == "" {
		rules.Fallback.Action = models.ActionAnswer
	}
	return &rules, nil
}

// Match returns the reply for text and the name of the rule that produced it
// ("fallback" when none matched).
func (r *Rules) Match(text string) (Reply, string) {
	for _, rule := range r.Rules {
		if rule.re.MatchString(text) {
			return rule.Reply, rule.Name
		}
	}
	return r.Fallback, "fallback"
}
