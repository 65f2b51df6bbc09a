package valueobjects

import "fmt"

// VariableType is the declared type of a template variable.
type VariableType string

const (
	VariableTypeString  VariableType = "string"
	VariableTypeNumber  VariableType = "number"
	VariableTypeDate    VariableType = "date"
	VariableTypeBoolean VariableType = "boolean"
	VariableTypeURL     VariableType = "url"
	VariableTypeEmail   VariableType = "email"
)

func (t VariableType) IsValid() bool {
	switch t {
	case VariableTypeString, VariableTypeNumber, VariableTypeDate,
		VariableTypeBoolean, VariableTypeURL, VariableTypeEmail:
		return true
	}
	return false
}

func NewVariableType(s string) (VariableType, error) {
	t := VariableType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid variable type: %s", s)
	}
	return t, nil
}
