// Package query holds the filter model handed to the planner.
package query

import (
	"fmt"
	"strings"
)

// Operator is the comparison a Criteria applies to an index column.
type Operator int

const (
	Eq Operator = iota
	Eqm
	Gt
	Ge
	Lt
	Le
	Contains
)

var operatorNames = [...]string{
	Eq:       "eq",
	Eqm:      "eqm",
	Gt:       "gt",
	Ge:       "ge",
	Lt:       "lt",
	Le:       "le",
	Contains: "contains",
}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Operators lists every operator in declaration order.
func Operators() []Operator {
	return []Operator{Eq, Eqm, Gt, Ge, Lt, Le, Contains}
}

// ParseOperator accepts an operator name (case-insensitive) or its symbol.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "=", "==":
		return Eq, nil
	case "eqm":
		return Eqm, nil
	case "gt", ">":
		return Gt, nil
	case "ge", ">=":
		return Ge, nil
	case "lt", "<":
		return Lt, nil
	case "le", "<=":
		return Le, nil
	case "contains", "~":
		return Contains, nil
	}
	return Eq, fmt.Errorf("unknown operator %q", s)
}

// Criteria is one named filter condition.
type Criteria struct {
	Name     string
	Operator Operator
	Value    string
}

func (c Criteria) String() string {
	return fmt.Sprintf("%s:%s:%s", c.Name, c.Operator, c.Value)
}

// ParseCriteria parses the name:operator:value form. The value is everything
// after the second colon, so it may itself contain colons. The operator may
// be omitted (name:value), which means eq; when the segment after the name
// is not an operator the rest of the string is an eq value, so
// url:http://x and time:12:30 parse as eq.
func ParseCriteria(s string) (Criteria, error) {
	parts := strings.SplitN(s, ":", 3)
	switch len(parts) {
	case 2:
		if parts[0] == "" {
			return Criteria{}, fmt.Errorf("criteria %q: empty name", s)
		}
		return Criteria{Name: parts[0], Operator: Eq, Value: parts[1]}, nil
	case 3:
		if parts[0] == "" {
			return Criteria{}, fmt.Errorf("criteria %q: empty name", s)
		}
		op, err := ParseOperator(parts[1])
		if err != nil {
			return Criteria{Name: parts[0], Operator: Eq, Value: parts[1] + ":" + parts[2]}, nil
		}
		return Criteria{Name: parts[0], Operator: op, Value: parts[2]}, nil
	default:
		return Criteria{}, fmt.Errorf("criteria %q: expected name:operator:value", s)
	}
}
