// Package search translates job search requests into filter expressions,
// executes them against a job store and returns paginated results.
package search

import (
	"fmt"
	"strings"
	"time"
)

// Field names a filterable JobPosting attribute.
type Field string

// Filterable fields
const (
	FieldTitle          Field = "title"
	FieldCompany        Field = "company"
	FieldDescription    Field = "description"
	FieldTags           Field = "tags"
	FieldLocation       Field = "location"
	FieldCountry        Field = "country"
	FieldRemote         Field = "remote"
	FieldSource         Field = "source"
	FieldEmploymentType Field = "employment_type"
	FieldSeniority      Field = "seniority_level"
	FieldSalaryMin      Field = "salary_min"
	FieldSalaryMax      Field = "salary_max"
	FieldPostedAt       Field = "posted_at"
	FieldCreatedAt      Field = "created_at"
)

// Kind is the variant tag of an Expr node.
type Kind int

// Expression kinds
const (
	KindAnd      Kind = iota // all clauses hold; empty matches everything
	KindOr                   // any clause holds; empty matches nothing
	KindContains             // case-insensitive substring on a text field
	KindEquals               // case-insensitive equality on a text field
	KindBool                 // boolean equality
	KindAfter                // time field >= Time
	KindBefore               // time field <= Time
	KindAtLeast              // numeric field >= Number
	KindAtMost               // numeric field <= Number
)

func (k Kind) String() string {
	switch k {
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindContains:
		return "contains"
	case KindEquals:
		return "equals"
	case KindBool:
		return "bool"
	case KindAfter:
		return "after"
	case KindBefore:
		return "before"
	case KindAtLeast:
		return "atLeast"
	case KindAtMost:
		return "atMost"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Expr is a node of a filter expression tree. Only the payload fields
// relevant to Kind are meaningful.
type Expr struct {
	Kind    Kind
	Field   Field
	Text    string
	Bool    bool
	Time    time.Time
	Number  float64
	Clauses []Expr
}

// And combines clauses with AND. A single clause is returned unwrapped.
func And(clauses ...Expr) Expr {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return Expr{Kind: KindAnd, Clauses: clauses}
}

// Or combines clauses with OR. A single clause is returned unwrapped.
func Or(clauses ...Expr) Expr {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return Expr{Kind: KindOr, Clauses: clauses}
}

// MatchAll is the expression with no constraints.
func MatchAll() Expr {
	return Expr{Kind: KindAnd}
}

// Contains matches when the field contains value, ignoring case.
func Contains(field Field, value string) Expr {
	return Expr{Kind: KindContains, Field: field, Text: value}
}

// Equals matches when the field equals value, ignoring case.
func Equals(field Field, value string) Expr {
	return Expr{Kind: KindEquals, Field: field, Text: value}
}

// BoolEquals matches when the boolean field equals value.
func BoolEquals(field Field, value bool) Expr {
	return Expr{Kind: KindBool, Field: field, Bool: value}
}

// After matches when the time field is at or after t.
func After(field Field, t time.Time) Expr {
	return Expr{Kind: KindAfter, Field: field, Time: t}
}

// Before matches when the time field is at or before t.
func Before(field Field, t time.Time) Expr {
	return Expr{Kind: KindBefore, Field: field, Time: t}
}

// AtLeast matches when the numeric field is at least n.
func AtLeast(field Field, n float64) Expr {
	return Expr{Kind: KindAtLeast, Field: field, Number: n}
}

// AtMost matches when the numeric field is at most n.
func AtMost(field Field, n float64) Expr {
	return Expr{Kind: KindAtMost, Field: field, Number: n}
}

// IsMatchAll reports whether e carries no constraint.
func (e Expr) IsMatchAll() bool {
	return e.Kind == KindAnd && len(e.Clauses) == 0
}

// String renders the expression for logs and test failure messages.
func (e Expr) String() string {
	switch e.Kind {
	case KindAnd, KindOr:
		parts := make([]string, len(e.Clauses))
		for i, c := range e.Clauses {
			parts[i] = c.String()
		}
		return e.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
	case KindContains, KindEquals:
		return fmt.Sprintf("%s(%s, %q)", e.Kind, e.Field, e.Text)
	case KindBool:
		return fmt.Sprintf("%s(%s, %t)", e.Kind, e.Field, e.Bool)
	case KindAfter, KindBefore:
		return fmt.Sprintf("%s(%s, %s)", e.Kind, e.Field, e.Time.Format(time.RFC3339))
	case KindAtLeast, KindAtMost:
		return fmt.Sprintf("%s(%s, %g)", e.Kind, e.Field, e.Number)
	default:
		return e.Kind.String()
	}
}
