package signature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
	sentryerrors "github.com/dhirendraxd/CyberSentry-sub000/pkg/errors"
)

// RuleConfig is a user-defined detection rule loaded from configuration.
// Either Expression is given directly, or it is generated from the
// keyword/regex shorthand fields.
// RuleConfig 是从配置加载的用户自定义检测规则。
type RuleConfig struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Keywords       []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	AnyKeywords    []string `yaml:"any_keywords,omitempty" json:"anyKeywords,omitempty"`
	NotKeywords    []string `yaml:"not_keywords,omitempty" json:"notKeywords,omitempty"`
	Regex          string   `yaml:"regex,omitempty" json:"regex,omitempty"`
	Expression     string   `yaml:"expression,omitempty" json:"expression,omitempty"`
	Severity       string   `yaml:"severity" json:"severity"`
	Reason         string   `yaml:"reason,omitempty" json:"reason,omitempty"`
	Recommendation string   `yaml:"recommendation,omitempty" json:"recommendation,omitempty"`
}

// RuleEnv is the environment a compiled rule expression runs against.
// One instance is populated per record.
type RuleEnv struct {
	Message string
	Level   string
	UserID  string
}

// Log checks whether the record message contains needle, case-insensitively.
func (e RuleEnv) Log(needle string) bool {
	return strings.Contains(strings.ToLower(e.Message), strings.ToLower(needle))
}

// LogE checks whether the record message contains needle, case-sensitively.
func (e RuleEnv) LogE(needle string) bool {
	return strings.Contains(e.Message, needle)
}

// Match checks the record message against a regular expression.
func (e RuleEnv) Match(pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(e.Message)
}

type customRule struct {
	meta    Signature
	program *vm.Program
}

func (r *customRule) matches(rec model.LogRecord) bool {
	env := RuleEnv{
		Message: rec.Message,
		Level:   string(rec.Level),
		UserID:  rec.UserID,
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

// LoadCustomRules compiles the configured rules and appends them after the
// built-in table. Invalid rules fail the whole load so misconfiguration is
// caught at startup, not silently skipped per record.
func (e *Engine) LoadCustomRules(configs []RuleConfig) error {
	customs := make([]customRule, 0, len(configs))
	for _, cfg := range configs {
		src := cfg.Expression
		if src == "" {
			src = generateExpression(cfg)
		}

		program, err := expr.Compile(src, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return sentryerrors.NewRuleError(cfg.ID, fmt.Errorf("%v (expr: %s)", err, src))
		}

		severity := model.ThreatLevel(strings.ToLower(strings.TrimSpace(cfg.Severity)))
		if severity.Rank() == 0 {
			severity = model.ThreatLow
		}

		name := cfg.Name
		if name == "" {
			name = cfg.ID
		}
		reason := cfg.Reason
		if reason == "" {
			reason = "Custom rule " + cfg.ID
		}

		customs = append(customs, customRule{
			meta: Signature{
				ID:             cfg.ID,
				Name:           name,
				ThreatLevel:    severity,
				Reason:         reason,
				Recommendation: cfg.Recommendation,
			},
			program: program,
		})
	}
	e.customs = customs
	return nil
}

// generateExpression builds an expr source from the keyword shorthand:
// Keywords AND together, AnyKeywords OR together, NotKeywords negate.
func generateExpression(cfg RuleConfig) string {
	quote := func(k string) string {
		return fmt.Sprintf(`Log(%q)`, k)
	}

	var andParts, orParts, notParts []string
	for _, k := range cfg.Keywords {
		andParts = append(andParts, quote(k))
	}
	for _, k := range cfg.AnyKeywords {
		orParts = append(orParts, quote(k))
	}
	for _, k := range cfg.NotKeywords {
		notParts = append(notParts, "!"+quote(k))
	}
	if cfg.Regex != "" {
		andParts = append(andParts, fmt.Sprintf(`Match(%q)`, cfg.Regex))
	}

	var sections []string
	if len(andParts) > 0 {
		sections = append(sections, "("+strings.Join(andParts, " && ")+")")
	}
	if len(orParts) > 0 {
		sections = append(sections, "("+strings.Join(orParts, " || ")+")")
	}
	if len(notParts) > 0 {
		sections = append(sections, strings.Join(notParts, " && "))
	}
	if len(sections) == 0 {
		return "false"
	}
	return strings.Join(sections, " && ")
}
