package query

import (
	"testing"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		in   string
		want Criteria
	}{
		{"status:eq:A", Criteria{Name: "status", Operator: Eq, Value: "A"}},
		{"status:A", Criteria{Name: "status", Operator: Eq, Value: "A"}},
		{"tags:eqm:red", Criteria{Name: "tags", Operator: Eqm, Value: "red"}},
		{"amount:>=:10", Criteria{Name: "amount", Operator: Ge, Value: "10"}},
		{"amount:LT:5", Criteria{Name: "amount", Operator: Lt, Value: "5"}},
		{"name:contains:foo", Criteria{Name: "name", Operator: Contains, Value: "foo"}},
		{"due:ge:2020-01-01T00:00:00", Criteria{Name: "due", Operator: Ge, Value: "2020-01-01T00:00:00"}},
		{"status:eq:", Criteria{Name: "status", Operator: Eq, Value: ""}},
		{"url:http://x", Criteria{Name: "url", Operator: Eq, Value: "http://x"}},
		{"time:12:30", Criteria{Name: "time", Operator: Eq, Value: "12:30"}},
		{"ref:ns:id:7", Criteria{Name: "ref", Operator: Eq, Value: "ns:id:7"}},
		{"url:eq:http://x", Criteria{Name: "url", Operator: Eq, Value: "http://x"}},
		{"status:between:A", Criteria{Name: "status", Operator: Eq, Value: "between:A"}},
	}
	for _, tt := range tests {
		got, err := ParseCriteria(tt.in)
		if err != nil {
			t.Fatalf("ParseCriteria(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseCriteria(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseCriteriaErrors(t *testing.T) {
	for _, in := range []string{"status", ":A", ":eq:A", ":12:30"} {
		if _, err := ParseCriteria(in); err == nil {
			t.Errorf("ParseCriteria(%q): expected error", in)
		}
	}
}

func TestOperatorRoundTrip(t *testing.T) {
	for _, op := range Operators() {
		got, err := ParseOperator(op.String())
		if err != nil {
			t.Fatalf("ParseOperator(%q): %v", op.String(), err)
		}
		if got != op {
			t.Errorf("ParseOperator(%q) = %v, want %v", op.String(), got, op)
		}
	}
	if s := Operator(42).String(); s != "Operator(42)" {
		t.Errorf("unexpected string for unknown operator: %s", s)
	}
}

func TestCriteriaString(t *testing.T) {
	c := Criteria{Name: "status", Operator: Ge, Value: "B"}
	if c.String() != "status:ge:B" {
		t.Errorf("unexpected string: %s", c.String())
	}
}
