package lint

import (
	"regexp"
	"sort"
)

// DefaultMaxSubjectLength is the header length limit used when none is configured.
const DefaultMaxSubjectLength = 100

// DefaultSubjectPatternError is reported when the subject pattern does not match
// and no custom message is configured.
const DefaultSubjectPatternError = "subject does not match subject pattern!"

// DefaultTypes is the stock list of allowed commit types.
var DefaultTypes = []string{"feat", "fix", "docs", "style", "refactor", "perf", "test", "chore", "revert"}

// AllowedTypes is either every type or a specific set of types.
// The zero value allows nothing; use AllTypes or OnlyTypes.
type AllowedTypes struct {
	all   bool
	names map[string]struct{}
}

// AllTypes accepts any type.
func AllTypes() AllowedTypes {
	return AllowedTypes{all: true}
}

// OnlyTypes accepts exactly the given types.
func OnlyTypes(types ...string) AllowedTypes {
	names := make(map[string]struct{}, len(types))
	for _, t := range types {
		names[t] = struct{}{}
	}
	return AllowedTypes{names: names}
}

// All reports whether every type is allowed.
func (a AllowedTypes) All() bool { return a.all }

// Allows reports whether typ is an allowed type.
func (a AllowedTypes) Allows(typ string) bool {
	if a.all {
		return true
	}
	_, ok := a.names[typ]
	return ok
}

// Names returns the allowed types sorted, or nil for AllTypes.
func (a AllowedTypes) Names() []string {
	if a.all {
		return nil
	}
	out := make([]string, 0, len(a.names))
	for n := range a.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Config holds the validation rules. It is built once and never mutated
// while validating.
type Config struct {
	// MaxSubjectLength limits the header length in characters. Zero or
	// negative disables the check.
	MaxSubjectLength int
	AllowedTypes     AllowedTypes
	// SubjectPattern must match somewhere in the subject. Nil matches anything.
	SubjectPattern      *regexp.Regexp
	SubjectPatternError string
	// WarnOnFail reports violations but never rejects.
	WarnOnFail bool
	// HelpMessage is shown after a rejection. A "%s" in it is replaced by the
	// message body.
	HelpMessage string
}

// DefaultConfig returns the stock rules.
func DefaultConfig() Config {
	return Config{
		MaxSubjectLength:    DefaultMaxSubjectLength,
		AllowedTypes:        OnlyTypes(DefaultTypes...),
		SubjectPatternError: DefaultSubjectPatternError,
	}
}

// Header is the parsed first line of a commit message.
type Header struct {
	FirstLine     string `json:"firstLine"`
	SquashOrFixup bool   `json:"squashOrFixup"`
	Type          string `json:"type"`
	Scope         string `json:"scope,omitempty"`
	Subject       string `json:"subject"`
}

// Outcome names the branch of the decision tree a message took.
type Outcome string

const (
	OutcomeEmpty   Outcome = "empty"
	OutcomeMerge   Outcome = "merge"
	OutcomeIgnored Outcome = "ignored"
	OutcomeChecked Outcome = "checked"
)

// Kind classifies a diagnostic.
type Kind string

const (
	KindEmptyMessage    Kind = "empty-message"
	KindMalformedHeader Kind = "malformed-header"
	KindSubjectTooLong  Kind = "subject-too-long"
	KindDisallowedType  Kind = "disallowed-type"
	KindSubjectPattern  Kind = "subject-pattern"
	// KindEcho repeats the rejected header or body.
	KindEcho Kind = "echo"
	// KindHelp carries the configured help message.
	KindHelp Kind = "help"
)

// IsViolation reports whether k is a rule violation rather than
// supporting output.
func (k Kind) IsViolation() bool {
	return k != KindEcho && k != KindHelp
}

// Diagnostic is one line of validator output.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Verdict is the result of validating one message.
type Verdict struct {
	Accepted bool    `json:"accepted"`
	Outcome  Outcome `json:"outcome"`
	// Warned is set when rule violations were downgraded by WarnOnFail.
	Warned      bool         `json:"warned,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Messages returns the diagnostic texts in order.
func (v Verdict) Messages() []string {
	out := make([]string, len(v.Diagnostics))
	for i, d := range v.Diagnostics {
		out[i] = d.Message
	}
	return out
}

// Has reports whether the verdict carries a diagnostic of kind k.
func (v Verdict) Has(k Kind) bool {
	for _, d := range v.Diagnostics {
		if d.Kind == k {
			return true
		}
	}
	return false
}
