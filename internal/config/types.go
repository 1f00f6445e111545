package config

import (
	"fmt"
	"strings"

	"github.com/dshills/commitgate/internal/lint"
	"gopkg.in/yaml.v3"
)

const allTypesToken = "*"

// TypeList is either "*" (any type) or an explicit list of types.
type TypeList struct {
	All   bool
	Names []string
}

// ParseTypeList parses "*" or a comma-separated list.
func ParseTypeList(s string) TypeList {
	s = strings.TrimSpace(s)
	if s == allTypesToken {
		return TypeList{All: true}
	}
	return TypeList{Names: splitComma(s)}
}

// IsZero reports whether the list was never set.
func (t TypeList) IsZero() bool {
	return !t.All && len(t.Names) == 0
}

// Allowed converts the list to validator form.
func (t TypeList) Allowed() lint.AllowedTypes {
	if t.All {
		return lint.AllTypes()
	}
	return lint.OnlyTypes(t.Names...)
}

func (t TypeList) String() string {
	if t.All {
		return allTypesToken
	}
	return strings.Join(t.Names, ",")
}

// UnmarshalYAML accepts either the scalar "*" or a sequence of names.
func (t *TypeList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if strings.TrimSpace(s) != allTypesToken {
			return fmt.Errorf("line %d: types must be %q or a list, got %q", node.Line, allTypesToken, s)
		}
		*t = TypeList{All: true}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*t = TypeList{Names: names}
		return nil
	default:
		return fmt.Errorf("line %d: types must be %q or a list", node.Line, allTypesToken)
	}
}

// MarshalYAML writes "*" or the list.
func (t TypeList) MarshalYAML() (interface{}, error) {
	if t.All {
		return allTypesToken, nil
	}
	return t.Names, nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
