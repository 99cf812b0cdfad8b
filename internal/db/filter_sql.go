package db

import (
	"fmt"
	"strings"

	"github.com/jonathan/web3-jobboard/internal/search"
)

// columns whitelists the filterable fields and their SQL column.
var columns = map[search.Field]string{
	search.FieldTitle:          "title",
	search.FieldCompany:        "company",
	search.FieldDescription:    "description",
	search.FieldTags:           "tags",
	search.FieldLocation:       "location",
	search.FieldCountry:        "country",
	search.FieldRemote:         "remote",
	search.FieldSource:         "source",
	search.FieldEmploymentType: "employment_type",
	search.FieldSeniority:      "seniority_level",
	search.FieldSalaryMin:      "salary_min",
	search.FieldSalaryMax:      "salary_max",
	search.FieldPostedAt:       "posted_at",
	search.FieldCreatedAt:      "created_at",
}

// likeEscaper escapes LIKE wildcards so user input is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereBuilder accumulates positional arguments while compiling an expression.
type whereBuilder struct {
	args []any
}

func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// compileFilter renders e as a SQL boolean expression with $n placeholders.
// A NULL column never satisfies a comparison, matching search.Match.
func compileFilter(e search.Expr) (string, []any, error) {
	b := &whereBuilder{}
	clause, err := b.compile(e)
	if err != nil {
		return "", nil, err
	}
	return clause, b.args, nil
}

func (b *whereBuilder) compile(e search.Expr) (string, error) {
	switch e.Kind {
	case search.KindAnd, search.KindOr:
		if len(e.Clauses) == 0 {
			if e.Kind == search.KindAnd {
				return "TRUE", nil
			}
			return "FALSE", nil
		}
		parts := make([]string, 0, len(e.Clauses))
		for _, c := range e.Clauses {
			part, err := b.compile(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		sep := " AND "
		if e.Kind == search.KindOr {
			sep = " OR "
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	}

	col, ok := columns[e.Field]
	if !ok {
		return "", fmt.Errorf("unknown filter field: %q", e.Field)
	}

	switch e.Kind {
	case search.KindContains:
		return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, b.arg("%"+likeEscaper.Replace(e.Text)+"%")), nil
	case search.KindEquals:
		return fmt.Sprintf("LOWER(%s) = LOWER(%s)", col, b.arg(e.Text)), nil
	case search.KindBool:
		return fmt.Sprintf("%s = %s", col, b.arg(e.Bool)), nil
	case search.KindAfter:
		return fmt.Sprintf("%s >= %s", col, b.arg(e.Time)), nil
	case search.KindBefore:
		return fmt.Sprintf("%s <= %s", col, b.arg(e.Time)), nil
	case search.KindAtLeast:
		return fmt.Sprintf("%s >= %s::numeric", col, b.arg(e.Number)), nil
	case search.KindAtMost:
		return fmt.Sprintf("%s <= %s::numeric", col, b.arg(e.Number)), nil
	default:
		return "", fmt.Errorf("unsupported filter kind: %s", e.Kind)
	}
}

// orderClause returns the ORDER BY clause for an ordering directive.
// Every ordering ends on the unique id so pages are stable.
func orderClause(order search.Order) string {
	const newest = "posted_at DESC NULLS LAST, created_at DESC, source ASC, id ASC"
	if order == search.OrderSalary {
		return "ORDER BY salary_max DESC NULLS LAST, " + newest
	}
	return "ORDER BY " + newest
}
