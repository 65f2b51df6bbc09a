package template

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"unicode/utf8"

	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern   = regexp.MustCompile(`^https?://`)
)

// ValueValidation holds the optional constraints of a variable. Min and Max
// bound string length for string variables and the value for numbers.
type ValueValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Options []string `json:"options,omitempty"`
}

type Variable struct {
	Type         vo.VariableType  `json:"type"`
	Required     bool             `json:"required"`
	DefaultValue any              `json:"default_value,omitempty"`
	Description  string           `json:"description,omitempty"`
	Validation   *ValueValidation `json:"validation,omitempty"`
}

// Variables maps a variable name to its schema.
type Variables map[string]Variable

// Names returns the declared variable names sorted for stable output.
func (vs Variables) Names() []string {
	names := make([]string, 0, len(vs))
	for name := range vs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (vs Variables) clone() Variables {
	out := make(Variables, len(vs))
	for k, v := range vs {
		if v.Validation != nil {
			val := *v.Validation
			val.Options = append([]string(nil), v.Validation.Options...)
			v.Validation = &val
		}
		out[k] = v
	}
	return out
}

// validateSchema checks every declared variable before a template is stored.
func (vs Variables) validateSchema() error {
	for _, name := range vs.Names() {
		v := vs[name]
		if !variableNamePattern.MatchString(name) {
			return errors.NewValidationError("invalid variable name", name)
		}
		if !v.Type.IsValid() {
			return errors.NewValidationError(
				fmt.Sprintf("variable %q has invalid type %q", name, v.Type),
				"allowed types: string, number, date, boolean, url, email",
			)
		}
		if v.Validation == nil {
			continue
		}
		if v.Validation.Min != nil && v.Validation.Max != nil && *v.Validation.Min > *v.Validation.Max {
			return errors.NewValidationError(fmt.Sprintf("variable %q has min greater than max", name))
		}
		if v.Validation.Pattern != "" {
			if _, err := regexp.Compile(v.Validation.Pattern); err != nil {
				return errors.NewValidationError(fmt.Sprintf("variable %q has an invalid pattern", name), err.Error())
			}
		}
	}
	return nil
}

// Resolve fills in defaults, enforces required variables and checks each
// supplied value against its declared type. Values for undeclared names pass
// through untouched.
func (vs Variables) Resolve(values map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(values)+len(vs))
	for k, v := range values {
		resolved[k] = v
	}

	for _, name := range vs.Names() {
		def := vs[name]
		v, present := resolved[name]
		if isBlank(v) {
			present = false
		}
		if !present && def.DefaultValue != nil {
			resolved[name] = def.DefaultValue
			v, present = def.DefaultValue, true
		}
		if !present {
			if def.Required {
				return nil, errors.NewValidationError("missing required variable", name)
			}
			continue
		}
		if err := def.check(name, v); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func (def Variable) check(name string, v any) error {
	invalid := func(reason string) error {
		return errors.NewValidationError(fmt.Sprintf("invalid value for variable %q", name), reason)
	}

	switch def.Type {
	case vo.VariableTypeString:
		s, ok := v.(string)
		if !ok {
			return invalid("must be a string")
		}
		if err := def.checkBounds(float64(utf8.RuneCountInString(s)), "length"); err != nil {
			return invalid(err.Error())
		}
		if def.Validation != nil && def.Validation.Pattern != "" {
			re, err := regexp.Compile(def.Validation.Pattern)
			if err != nil || !re.MatchString(s) {
				return invalid("does not match pattern " + def.Validation.Pattern)
			}
		}
	case vo.VariableTypeNumber:
		n, ok := toNumber(v)
		if !ok {
			return invalid("must be a number")
		}
		if err := def.checkBounds(n, "value"); err != nil {
			return invalid(err.Error())
		}
	case vo.VariableTypeEmail:
		s, ok := v.(string)
		if !ok || !emailPattern.MatchString(s) {
			return invalid("must be a valid email address")
		}
	case vo.VariableTypeURL:
		s, ok := v.(string)
		if !ok || !urlPattern.MatchString(s) {
			return invalid("must be an http or https URL")
		}
	case vo.VariableTypeDate, vo.VariableTypeBoolean:
		// presence is the only constraint; the value is rendered as given
	}

	if def.Validation != nil && len(def.Validation.Options) > 0 {
		formatted := FormatValue(v)
		for _, opt := range def.Validation.Options {
			if opt == formatted {
				return nil
			}
		}
		return invalid(fmt.Sprintf("must be one of %v", def.Validation.Options))
	}
	return nil
}

func (def Variable) checkBounds(n float64, what string) error {
	if def.Validation == nil {
		return nil
	}
	if def.Validation.Min != nil && n < *def.Validation.Min {
		return fmt.Errorf("%s must be at least %s", what, FormatValue(*def.Validation.Min))
	}
	if def.Validation.Max != nil && n > *def.Validation.Max {
		return fmt.Errorf("%s must be at most %s", what, FormatValue(*def.Validation.Max))
	}
	return nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
