package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// placeholderPattern matches {{name}} tokens, tolerating inner whitespace.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// variableNamePattern restricts declared variable names to what a placeholder can reference.
var variableNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ExtractPlaceholders returns the distinct placeholder names found in texts,
// in order of first appearance.
func ExtractPlaceholders(texts ...string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, text := range texts {
		for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				names = append(names, m[1])
			}
		}
	}
	return names
}

// Substitute replaces every placeholder that has a value in values. Tokens
// without a value stay verbatim and are reported as unresolved.
func Substitute(text string, values map[string]any) (string, []string) {
	var unresolved []string
	seen := make(map[string]bool)

	out := placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		v, ok := values[name]
		if !ok || v == nil {
			if !seen[name] {
				seen[name] = true
				unresolved = append(unresolved, name)
			}
			return token
		}
		return FormatValue(v)
	})
	return out, unresolved
}

// FormatValue renders a variable value the way it appears in generated text.
// Whole numbers print without a fractional part.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
