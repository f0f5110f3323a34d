package signature

import (
	"regexp"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/logs/model"
)

// Signature is one known threat pattern. The engine stores signatures as
// data so the table can grow without touching the matching logic.
// Signature 是一个已知威胁模式。引擎将签名存储为数据，便于扩展。
type Signature struct {
	ID             string
	Name           string
	Pattern        *regexp.Regexp
	ThreatLevel    model.ThreatLevel
	Reason         string
	Recommendation string
}

// builtinSignatures is the fixed ordered table. Finding order follows this
// table, never the match count.
var builtinSignatures = []Signature{
	{
		ID:             "failed-login",
		Name:           "Failed Login Attempts",
		Pattern:        regexp.MustCompile(`(?i)failed login|login failed|authentication fail|invalid password|incorrect password`),
		ThreatLevel:    model.ThreatMedium,
		Reason:         "Failed login attempt",
		Recommendation: "Review authentication logs for brute-force activity and enable account lockout or MFA for the affected accounts.",
	},
	{
		ID:             "access-denied",
		Name:           "Access Denied Events",
		Pattern:        regexp.MustCompile(`(?i)access denied|permission denied|unauthorized|forbidden`),
		ThreatLevel:    model.ThreatLow,
		Reason:         "Access denied event",
		Recommendation: "Verify that the denied requests map to expected policy; repeated denials from one origin may indicate probing.",
	},
	{
		ID:             "server-error",
		Name:           "Server Errors & Exceptions",
		Pattern:        regexp.MustCompile(`(?i)\b5\d{2}\b|exception|stack trace|traceback|panic`),
		ThreatLevel:    model.ThreatHigh,
		Reason:         "Server error or exception",
		Recommendation: "Inspect the failing component; 5xx bursts and unhandled exceptions are a common symptom of exploitation attempts.",
	},
	{
		ID:             "suspicious-origin",
		Name:           "Suspicious Origin Activity",
		Pattern:        regexp.MustCompile(`(?i)tor exit|suspicious ip|unknown origin|unusual location|blacklisted|blocklisted`),
		ThreatLevel:    model.ThreatMedium,
		Reason:         "Suspicious origin",
		Recommendation: "Cross-check the flagged origins against threat intelligence feeds and consider blocking repeat offenders.",
	},
	{
		ID:             "injection-keywords",
		Name:           "Injection Attempt Keywords",
		Pattern:        regexp.MustCompile(`(?i)union select|select \* from|drop table|<script|\.\./\.\.|etc/passwd|xp_cmdshell|' or '1'='1`),
		ThreatLevel:    model.ThreatHigh,
		Reason:         "Injection attempt keyword",
		Recommendation: "Audit input validation on the targeted endpoints and check whether any of the injection attempts succeeded.",
	},
}

// Builtin returns a copy of the built-in signature table.
func Builtin() []Signature {
	out := make([]Signature, len(builtinSignatures))
	copy(out, builtinSignatures)
	return out
}
