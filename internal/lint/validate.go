package lint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const mergePrefix = "Merge "

var (
	headerRe = regexp.MustCompile(`^(?P<marker>fixup! |squash! )?(?P<type>\w+)(?:\((?P<scope>[^)\s]+)\))?: (?P<subject>[^\r\n]+)$`)

	// WIP markers and release versions (v1.2.3, 2.0.0-beta.1+build.5).
	ignoredRe = regexp.MustCompile(`^(?:WIP|(?i:v?(?:0|[1-9][0-9]*)\.(?:0|[1-9][0-9]*)\.(?:0|[1-9][0-9]*)` +
		`(?:-[0-9a-z-]+(?:\.[0-9a-z-]+)*)?(?:\+[0-9a-z-]+(?:\.[0-9a-z-]+)*)?))$`)

	defaultSubjectRe = regexp.MustCompile(`.+`)

	markerIdx  = headerRe.SubexpIndex("marker")
	typeIdx    = headerRe.SubexpIndex("type")
	scopeIdx   = headerRe.SubexpIndex("scope")
	subjectIdx = headerRe.SubexpIndex("subject")
)

// StripComments removes every line starting with '#'.
func StripComments(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// FirstLine returns s up to the first newline.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// IsIgnored reports whether header is a WIP marker or a release version.
// A version must end on a letter or digit, so "1.2.3-beta-" is not one.
func IsIgnored(header string) bool {
	return ignoredRe.MatchString(header) && !strings.HasSuffix(header, "-")
}

// ParseHeader splits a header into its fields. ok is false when the header
// does not follow "<type>(<scope>): <subject>".
func ParseHeader(header string) (h Header, ok bool) {
	m := headerRe.FindStringSubmatch(header)
	if m == nil {
		return Header{}, false
	}
	return Header{
		FirstLine:     m[0],
		SquashOrFixup: m[markerIdx] != "",
		Type:          m[typeIdx],
		Scope:         m[scopeIdx],
		Subject:       m[subjectIdx],
	}, true
}

// Validate checks raw against cfg.
func Validate(raw string, cfg Config) Verdict {
	body := StripComments(raw)
	header := FirstLine(body)

	if header == "" {
		return Verdict{
			Outcome:     OutcomeEmpty,
			Diagnostics: []Diagnostic{{Kind: KindEmptyMessage, Message: "empty commit message"}},
		}
	}
	if strings.HasPrefix(header, mergePrefix) {
		return Verdict{Accepted: true, Outcome: OutcomeMerge}
	}
	if IsIgnored(header) {
		return Verdict{Accepted: true, Outcome: OutcomeIgnored}
	}

	v := Verdict{Outcome: OutcomeChecked}
	valid := true
	fail := func(k Kind, msg string) {
		v.Diagnostics = append(v.Diagnostics, Diagnostic{Kind: k, Message: msg})
		valid = false
	}

	if h, ok := ParseHeader(header); !ok {
		fail(KindMalformedHeader, `does not match "<type>(<scope>): <subject>"!`)
	} else {
		if cfg.MaxSubjectLength > 0 && !h.SquashOrFixup && utf8.RuneCountInString(h.FirstLine) > cfg.MaxSubjectLength {
			fail(KindSubjectTooLong, fmt.Sprintf("is longer than %d characters!", cfg.MaxSubjectLength))
		}
		if !cfg.AllowedTypes.Allows(h.Type) {
			fail(KindDisallowedType, fmt.Sprintf("%q is not allowed type!", h.Type))
		}
		if !subjectPattern(cfg).MatchString(h.Subject) {
			msg := cfg.SubjectPatternError
			if msg == "" {
				msg = DefaultSubjectPatternError
			}
			fail(KindSubjectPattern, msg)
		}
	}

	// The override applies after every check so diagnostics are still collected.
	v.Accepted = valid || cfg.WarnOnFail
	v.Warned = !valid && cfg.WarnOnFail
	if v.Accepted {
		return v
	}

	placeholder := cfg.HelpMessage != "" && strings.Contains(cfg.HelpMessage, "%s")
	switch {
	case placeholder:
		v.Diagnostics = append(v.Diagnostics, Diagnostic{Kind: KindHelp, Message: strings.Replace(cfg.HelpMessage, "%s", body, 1)})
	default:
		v.Diagnostics = append(v.Diagnostics, Diagnostic{Kind: KindEcho, Message: header})
		if cfg.HelpMessage != "" {
			v.Diagnostics = append(v.Diagnostics, Diagnostic{Kind: KindHelp, Message: cfg.HelpMessage})
		}
	}
	return v
}

func subjectPattern(cfg Config) *regexp.Regexp {
	if cfg.SubjectPattern != nil {
		return cfg.SubjectPattern
	}
	return defaultSubjectRe
}
