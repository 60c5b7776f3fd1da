package jobsearch_test

import (
	"testing"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
)

func TestParseParams_Defaults(t *testing.T) {
	f := jobsearch.ParseParams(jobsearch.RawParams{})
	if f.Page != 1 || f.Limit != 10 {
		t.Fatalf("defaults = page %d limit %d, want 1 and 10", f.Page, f.Limit)
	}
	if f.Keyword != "" || f.Location != "" || f.MinSalary != nil || f.MaxSalary != nil {
		t.Fatalf("expected empty filter, got %+v", f)
	}
}

func TestParseParams_PageClamp(t *testing.T) {
	for _, raw := range []string{"0", "-5", "abc", " "} {
		f := jobsearch.ParseParams(jobsearch.RawParams{Page: raw})
		if f.Page != 1 {
			t.Errorf("page %q -> %d, want 1", raw, f.Page)
		}
	}
	if f := jobsearch.ParseParams(jobsearch.RawParams{Page: "3"}); f.Page != 3 {
		t.Errorf("page 3 -> %d", f.Page)
	}
}

func TestParseParams_HugePageDoesNotOverflowSkip(t *testing.T) {
	for _, raw := range []string{"4611686018427387905", "9223372036854775807", "99999999999"} {
		f := jobsearch.ParseParams(jobsearch.RawParams{Page: raw, Limit: "50"})
		if f.Page < 1 || f.Page > jobsearch.MaxPage {
			t.Fatalf("page %q -> %d, want within [1, %d]", raw, f.Page, jobsearch.MaxPage)
		}
		q := jobsearch.Build(f)
		if q.Page.Skip < 0 {
			t.Fatalf("page %q -> skip %d", raw, q.Page.Skip)
		}
	}
	q := jobsearch.Build(jobsearch.Filter{Page: int(^uint(0) >> 1), Limit: 50})
	if q.Page.Page != jobsearch.MaxPage || q.Page.Skip != (jobsearch.MaxPage-1)*50 {
		t.Fatalf("pagination = %+v", q.Page)
	}
}

func TestParseParams_LimitCap(t *testing.T) {
	cases := map[string]int{
		"1000": 50,
		"50":   50,
		"25":   25,
		"0":    10,
		"-1":   10,
		"x":    10,
	}
	for raw, want := range cases {
		if got := jobsearch.ParseParams(jobsearch.RawParams{Limit: raw}).Limit; got != want {
			t.Errorf("limit %q -> %d, want %d", raw, got, want)
		}
	}
}

func TestParseParams_TrimsTextAndIgnoresBadBounds(t *testing.T) {
	f := jobsearch.ParseParams(jobsearch.RawParams{
		Search:    "  golang ",
		Location:  "   ",
		MinSalary: "lots",
		MaxSalary: "90000",
	})
	if f.Keyword != "golang" {
		t.Errorf("keyword = %q", f.Keyword)
	}
	if f.Location != "" {
		t.Errorf("blank location should be dropped, got %q", f.Location)
	}
	if f.MinSalary != nil {
		t.Errorf("non-numeric min salary should be ignored, got %d", *f.MinSalary)
	}
	if f.MaxSalary == nil || *f.MaxSalary != 90000 {
		t.Errorf("max salary = %v, want 90000", f.MaxSalary)
	}
}

func TestParseParams_DecimalBound(t *testing.T) {
	f := jobsearch.ParseParams(jobsearch.RawParams{MinSalary: "50000.75"})
	if f.MinSalary == nil || *f.MinSalary != 50000 {
		t.Fatalf("min salary = %v, want 50000", f.MinSalary)
	}
}
