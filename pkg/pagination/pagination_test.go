package pagination

import (
	"net/url"
	"testing"
)

func TestNormalizeClampsInputs(t *testing.T) {
	cases := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{Page: 1, Limit: DefaultLimit}},
		{"negative page", Params{Page: -3, Limit: 10}, Params{Page: 1, Limit: 10}},
		{"limit above max", Params{Page: 2, Limit: 500}, Params{Page: 2, Limit: MaxLimit}},
		{"in range", Params{Page: 4, Limit: 50}, Params{Page: 4, Limit: 50}},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestApplyWritesQuery(t *testing.T) {
	query := url.Values{}
	Params{Page: 3, Limit: 0}.Apply(query)

	if query.Get("page") != "3" {
		t.Fatalf("unexpected page %q", query.Get("page"))
	}
	if query.Get("limit") != "25" {
		t.Fatalf("unexpected limit %q", query.Get("limit"))
	}
}
