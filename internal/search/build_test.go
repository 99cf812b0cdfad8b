package search

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		def       int
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", "", 0, 1, 20},
		{"endpoint default limit", "", "", 50, 1, 50},
		{"explicit", "3", "10", 0, 3, 10},
		{"page floor", "0", "10", 0, 1, 10},
		{"negative page", "-4", "10", 0, 1, 10},
		{"limit capped", "1", "1000", 0, 1, 100},
		{"limit floor", "1", "0", 0, 1, 1},
		{"negative limit", "1", "-5", 0, 1, 1},
		{"unparsable treated as absent", "abc", "xyz", 0, 1, 20},
		{"max int page saturates", "9223372036854775807", "20", 0, MaxPage, 20},
		{"out of range page saturates", "99999999999999999999", "20", 0, MaxPage, 20},
		{"out of range negative page", "-99999999999999999999", "20", 0, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := Paginate(tt.page, tt.limit, tt.def)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestBuild_OffsetAndLimitBounds(t *testing.T) {
	for _, page := range []int{1, 2, 7} {
		for _, limit := range []int{-1, 0, 1, 20, 100, 101, 1000} {
			q := Build(url.Values{
				"page":  {strconv.Itoa(page)},
				"limit": {strconv.Itoa(limit)},
			}, EndpointDefaults{}, fixtureNow)

			assert.GreaterOrEqual(t, q.Limit, 1)
			assert.LessOrEqual(t, q.Limit, MaxLimit)
			assert.Equal(t, (q.Page-1)*q.Limit, q.Offset)
		}
	}

	q := Build(mustQuery(t, "limit=1000"), EndpointDefaults{}, fixtureNow)
	assert.Equal(t, 100, q.Limit)
}

func TestBuild_NoParamsMatchesAll(t *testing.T) {
	q := Build(url.Values{}, EndpointDefaults{}, fixtureNow)
	assert.True(t, q.Filter.IsMatchAll())
	assert.Equal(t, OrderNewest, q.Order)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestBuild_FreeText(t *testing.T) {
	q := Build(mustQuery(t, "q=+solidity+"), EndpointDefaults{}, fixtureNow)
	expected := Or(
		Contains(FieldTitle, "solidity"),
		Contains(FieldCompany, "solidity"),
		Contains(FieldDescription, "solidity"),
		Contains(FieldTags, "solidity"),
	)
	assert.Equal(t, expected, q.Filter)
}

func TestBuild_Tags(t *testing.T) {
	q := Build(mustQuery(t, "tag=solidity,+rust+,,"), EndpointDefaults{}, fixtureNow)
	assert.Equal(t, Or(Contains(FieldTags, "solidity"), Contains(FieldTags, "rust")), q.Filter)

	q = Build(mustQuery(t, "tag=,+,"), EndpointDefaults{}, fixtureNow)
	assert.True(t, q.Filter.IsMatchAll(), "blank tag tokens add no constraint")
}

func TestBuild_RemoteDefaults(t *testing.T) {
	yes := true
	tests := []struct {
		name     string
		raw      string
		defaults EndpointDefaults
		expected Expr
	}{
		{"absent without default", "", EndpointDefaults{}, MatchAll()},
		{"absent with endpoint default", "", EndpointDefaults{Remote: &yes}, BoolEquals(FieldRemote, true)},
		{"explicit true", "remote=true", EndpointDefaults{}, BoolEquals(FieldRemote, true)},
		{"explicit false overrides default", "remote=false", EndpointDefaults{Remote: &yes}, BoolEquals(FieldRemote, false)},
		{"case insensitive", "remote=TRUE", EndpointDefaults{}, BoolEquals(FieldRemote, true)},
		{"garbage is absent", "remote=maybe", EndpointDefaults{}, MatchAll()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Build(mustQuery(t, tt.raw), tt.defaults, fixtureNow)
			assert.Equal(t, tt.expected, q.Filter)
		})
	}
}

func TestBuild_Salary(t *testing.T) {
	q := Build(mustQuery(t, "salaryMin=100000"), EndpointDefaults{}, fixtureNow)
	assert.Equal(t, Or(AtLeast(FieldSalaryMin, 100000), AtLeast(FieldSalaryMax, 100000)), q.Filter)

	q = Build(mustQuery(t, "salaryMax=90000"), EndpointDefaults{}, fixtureNow)
	assert.Equal(t, Or(AtMost(FieldSalaryMin, 90000), AtMost(FieldSalaryMax, 90000)), q.Filter)

	q = Build(mustQuery(t, "salaryMin=abc&salaryMax="), EndpointDefaults{}, fixtureNow)
	assert.True(t, q.Filter.IsMatchAll(), "unparsable numbers are treated as absent")

	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "1e400"} {
		q = Build(url.Values{"salaryMin": {raw}, "salaryMax": {raw}}, EndpointDefaults{}, fixtureNow)
		assert.True(t, q.Filter.IsMatchAll(), "salary %q is treated as absent", raw)
	}
}

func TestBuild_HugePageOffsetStaysPositive(t *testing.T) {
	q := Build(mustQuery(t, "page=9223372036854775807&limit=100"), EndpointDefaults{}, fixtureNow)
	assert.Equal(t, MaxPage, q.Page)
	assert.Equal(t, (q.Page-1)*q.Limit, q.Offset)
	assert.Positive(t, q.Offset)
}

func TestBuild_EqualityFilters(t *testing.T) {
	q := Build(mustQuery(t, "country=DE&seniority=senior&source=sample&employmentType=full_time&location=berlin"),
		EndpointDefaults{}, fixtureNow)
	assert.Equal(t, And(
		Equals(FieldCountry, "DE"),
		Equals(FieldSeniority, "senior"),
		Equals(FieldSource, "sample"),
		Equals(FieldEmploymentType, "full_time"),
		Contains(FieldLocation, "berlin"),
	), q.Filter)
}

func TestNamedRangeStart(t *testing.T) {
	tests := []struct {
		name     string
		expected time.Time
		ok       bool
	}{
		{"today", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), true},
		{"week", fixtureNow.Add(-7 * 24 * time.Hour), true},
		{"month", fixtureNow.Add(-30 * 24 * time.Hour), true},
		{"3months", fixtureNow.Add(-90 * 24 * time.Hour), true},
		{"WEEK", fixtureNow.Add(-7 * 24 * time.Hour), true},
		{"year", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NamedRangeStart(tt.name, fixtureNow)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.expected.Equal(got), "got %s want %s", got, tt.expected)
		})
	}
}

func TestBuild_DateRangeCombinesWithExplicitBounds(t *testing.T) {
	tenDaysAgo := fixtureNow.Add(-10 * 24 * time.Hour)
	params := url.Values{
		"dateRange":   {"week"},
		"postedAfter": {tenDaysAgo.Format(time.RFC3339)},
	}
	q := Build(params, EndpointDefaults{}, fixtureNow)

	assert.Equal(t, And(
		After(FieldPostedAt, fixtureNow.Add(-7*24*time.Hour)),
		After(FieldPostedAt, tenDaysAgo),
	), q.Filter)

	// The effective bound is the later of the two lower bounds.
	eightDays := fixtureJobs()[3]
	assert.False(t, Match(q.Filter, &eightDays), "8-day-old job falls outside the week bound")
	oneDay := fixtureJobs()[0]
	assert.True(t, Match(q.Filter, &oneDay))
}

func TestBuild_PostedBeforeDateCoversWholeDay(t *testing.T) {
	q := Build(mustQuery(t, "postedBefore=2026-03-09"), EndpointDefaults{}, fixtureNow)
	require.Equal(t, KindBefore, q.Filter.Kind)
	assert.Equal(t, time.Date(2026, 3, 9, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), q.Filter.Time)

	q = Build(mustQuery(t, "postedAfter=yesterday"), EndpointDefaults{}, fixtureNow)
	assert.True(t, q.Filter.IsMatchAll())
}

func TestBuild_Sort(t *testing.T) {
	assert.Equal(t, OrderSalary, Build(mustQuery(t, "sort=salary"), EndpointDefaults{}, fixtureNow).Order)
	assert.Equal(t, OrderNewest, Build(mustQuery(t, "sort=random"), EndpointDefaults{}, fixtureNow).Order)
}
