package search

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Pagination bounds
const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit, and offset+limit, within int.
	MaxPage = math.MaxInt / MaxLimit
)

// Order is an ordering directive for result pages.
type Order string

// Supported orderings. Every ordering ends with the newest chain
// (postedAt, createdAt, source, id) so pagination is deterministic.
const (
	OrderNewest Order = "newest"
	OrderSalary Order = "salary"
)

// Named date ranges accepted by the dateRange parameter
const (
	RangeToday   = "today"
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeQuarter = "3months"
)

const (
	dateOnlyFmt   = "2006-01-02"
	dayDuration   = 24 * time.Hour
	weekDuration  = 7 * dayDuration
	monthDuration = 30 * dayDuration
)

// EndpointDefaults carries the per-endpoint choices that apply when a
// parameter is omitted. A nil Remote means no remote constraint.
type EndpointDefaults struct {
	Remote *bool
	Limit  int
}

// Query is a validated search request ready for execution.
type Query struct {
	Filter Expr
	Order  Order
	Page   int
	Limit  int
	Offset int
}

// Build converts raw request parameters into a Query. It never fails:
// malformed values are dropped or defaulted.
func Build(params url.Values, defaults EndpointDefaults, now time.Time) Query {
	var clauses []Expr

	if term := strings.TrimSpace(params.Get("q")); term != "" {
		clauses = append(clauses, Or(
			Contains(FieldTitle, term),
			Contains(FieldCompany, term),
			Contains(FieldDescription, term),
			Contains(FieldTags, term),
		))
	}

	if tagClause, ok := buildTags(params.Get("tag")); ok {
		clauses = append(clauses, tagClause)
	}

	if remote, ok := parseBool(params.Get("remote")); ok {
		clauses = append(clauses, BoolEquals(FieldRemote, remote))
	} else if defaults.Remote != nil {
		clauses = append(clauses, BoolEquals(FieldRemote, *defaults.Remote))
	}

	for _, eq := range []struct {
		param string
		field Field
	}{
		{"country", FieldCountry},
		{"seniority", FieldSeniority},
		{"source", FieldSource},
		{"employmentType", FieldEmploymentType},
	} {
		if v := strings.TrimSpace(params.Get(eq.param)); v != "" {
			clauses = append(clauses, Equals(eq.field, v))
		}
	}

	if loc := strings.TrimSpace(params.Get("location")); loc != "" {
		clauses = append(clauses, Contains(FieldLocation, loc))
	}

	clauses = append(clauses, buildDates(params, now)...)
	clauses = append(clauses, buildSalary(params)...)

	filter := MatchAll()
	if len(clauses) > 0 {
		filter = And(clauses...)
	}

	page, limit := Paginate(params.Get("page"), params.Get("limit"), defaults.Limit)

	return Query{
		Filter: filter,
		Order:  parseOrder(params.Get("sort")),
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Paginate parses page and limit strings. Page defaults to 1 with a floor of 1;
// limit defaults to defaultLimit (or DefaultLimit) and is clamped to [1, MaxLimit].
// Pages beyond MaxPage, including values too large for int, saturate at MaxPage.
func Paginate(pageStr, limitStr string, defaultLimit int) (page, limit int) {
	page = 1
	n, err := strconv.Atoi(strings.TrimSpace(pageStr))
	switch {
	case err == nil && n > 1:
		page = min(n, MaxPage)
	case errors.Is(err, strconv.ErrRange) && n > 0:
		page = MaxPage
	}

	limit = defaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limitStr)); err == nil {
		limit = n
	}
	return page, clampLimit(limit)
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func buildTags(raw string) (Expr, bool) {
	var tagClauses []Expr
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tagClauses = append(tagClauses, Contains(FieldTags, token))
		}
	}
	if len(tagClauses) == 0 {
		return Expr{}, false
	}
	return Or(tagClauses...), true
}

// buildDates ANDs the named range lower bound with any explicit bounds.
func buildDates(params url.Values, now time.Time) []Expr {
	var clauses []Expr

	if lower, ok := NamedRangeStart(params.Get("dateRange"), now); ok {
		clauses = append(clauses, After(FieldPostedAt, lower))
	}
	if after, ok := parseTime(params.Get("postedAfter"), false); ok {
		clauses = append(clauses, After(FieldPostedAt, after))
	}
	if before, ok := parseTime(params.Get("postedBefore"), true); ok {
		clauses = append(clauses, Before(FieldPostedAt, before))
	}
	return clauses
}

// buildSalary expresses overlap: an advertised range only needs one
// endpoint on the right side of a requested bound.
func buildSalary(params url.Values) []Expr {
	var clauses []Expr
	if lo, ok := parseNumber(params.Get("salaryMin")); ok {
		clauses = append(clauses, Or(AtLeast(FieldSalaryMin, lo), AtLeast(FieldSalaryMax, lo)))
	}
	if hi, ok := parseNumber(params.Get("salaryMax")); ok {
		clauses = append(clauses, Or(AtMost(FieldSalaryMin, hi), AtMost(FieldSalaryMax, hi)))
	}
	return clauses
}

// NamedRangeStart returns the lower bound for a named date range.
// "today" starts at midnight in now's location.
func NamedRangeStart(name string, now time.Time) (time.Time, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case RangeWeek:
		return now.Add(-weekDuration), true
	case RangeMonth:
		return now.Add(-monthDuration), true
	case RangeQuarter:
		return now.Add(-3 * monthDuration), true
	default:
		return time.Time{}, false
	}
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// parseTime accepts RFC 3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day.
func parseTime(raw string, endOfDay bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	t, err := time.Parse(dateOnlyFmt, raw)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(dayDuration - time.Nanosecond)
	}
	return t, true
}

func parseOrder(raw string) Order {
	if Order(strings.ToLower(strings.TrimSpace(raw))) == OrderSalary {
		return OrderSalary
	}
	return OrderNewest
}
