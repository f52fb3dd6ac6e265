package query

import (
	"errors"
	"net/url"
	"testing"
)

type Geo struct {
	Lat float64 `json:"Lat" validate:"required"`
	Lng float64 `json:"Lng"`
}

type Address struct {
	Zip  string `json:"Zip" validate:"required"`
	City string `json:"City"`
	Geo  *Geo   `json:"Geo"`
}

type Search struct {
	Term    string   `json:"term" validate:"required"`
	Limit   int      `json:"limit,omitempty" validate:"omitempty,max=100"`
	Tags    []string `json:"tags"`
	Address *Address `json:"Address"`
	Secret  string   `json:"-"`
}

func TestBind(t *testing.T) {
	values := url.Values{
		"q.term":            {"shoes"},
		"q.limit":           {"20"},
		"q.tags":            {"red", "blue"},
		"q.address.zip":     {"94107"},
		"q.address.geo.lat": {"37.7"},
		"other":             {"ignored"},
	}

	var s Search
	if err := NewBinder("q").Bind(&s, values); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if s.Term != "shoes" || s.Limit != 20 {
		t.Errorf("Bind() = %+v", s)
	}
	if len(s.Tags) != 2 || s.Tags[1] != "blue" {
		t.Errorf("Tags = %v, want [red blue]", s.Tags)
	}
	if s.Address == nil || s.Address.Zip != "94107" {
		t.Fatalf("Address = %+v", s.Address)
	}
	if s.Address.Geo == nil || s.Address.Geo.Lat != 37.7 {
		t.Errorf("Geo = %+v", s.Address.Geo)
	}
}

func TestBind_Unnamed(t *testing.T) {
	var s Search
	err := NewBinder("").Bind(&s, url.Values{"term": {"x"}, "tags": {"a"}})
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if s.Term != "x" || len(s.Tags) != 1 {
		t.Errorf("Bind() = %+v", s)
	}
}

func TestBind_RequiredFollowsParent(t *testing.T) {
	// Address is absent, so its required zip is not enforced.
	var s Search
	if err := NewBinder("").Bind(&s, url.Values{"term": {"x"}}); err != nil {
		t.Errorf("Bind() error = %v, want nil", err)
	}

	// Address is present, so zip becomes mandatory.
	var s2 Search
	err := NewBinder("").Bind(&s2, url.Values{"term": {"x"}, "address.city": {"SF"}})
	var qe *Error
	if !errors.As(err, &qe) {
		t.Fatalf("Bind() error = %v, want *Error", err)
	}
	if qe.Details["address.zip"] != "required" {
		t.Errorf("Details = %v, want address.zip: required", qe.Details)
	}
}

type Region struct {
	Code string `json:"code" validate:"required"`
	City string `json:"city"`
}

type Listing struct {
	Term   string `json:"term"`
	Region Region `json:"region"`
	Home   Region `json:"home" validate:"required"`
}

func TestBind_ValueStructRequiredFollowsParent(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		wantErr map[string]any
	}{
		{"absent", url.Values{"term": {"x"}, "home.code": {"h"}}, nil},
		{"partial", url.Values{"term": {"x"}, "home.code": {"h"}, "region.city": {"SF"}}, map[string]any{"region.code": "required"}},
		{"complete", url.Values{"home.code": {"h"}, "region.code": {"r"}}, nil},
		{"required parent", url.Values{"term": {"x"}}, map[string]any{"home.code": "required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Listing
			err := NewBinder("").Bind(&l, tt.values)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Bind() error = %v, want nil", err)
				}
				return
			}
			var qe *Error
			if !errors.As(err, &qe) {
				t.Fatalf("Bind() error = %v, want *Error", err)
			}
			for k, v := range tt.wantErr {
				if qe.Details[k] != v {
					t.Errorf("Details = %v, want %s: %v", qe.Details, k, v)
				}
			}
		})
	}
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name    string
		values  url.Values
		wantKey string
		wantMsg string
	}{
		{"missing required", url.Values{"q.limit": {"1"}}, "q.term", "required"},
		{"max", url.Values{"q.term": {"x"}, "q.limit": {"500"}}, "q.limit", "must be at most 100"},
		{"conversion", url.Values{"q.term": {"x"}, "q.limit": {"many"}}, "q.limit", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Search
			err := NewBinder("q").Bind(&s, tt.values)
			var qe *Error
			if !errors.As(err, &qe) {
				t.Fatalf("Bind() error = %v, want *Error", err)
			}
			if qe.Code != CodeInvalidArgument {
				t.Errorf("Code = %s, want %s", qe.Code, CodeInvalidArgument)
			}
			got, ok := qe.Details[tt.wantKey]
			if !ok {
				t.Fatalf("Details = %v, want key %s", qe.Details, tt.wantKey)
			}
			if tt.wantMsg != "" && got != tt.wantMsg {
				t.Errorf("Details[%s] = %v, want %s", tt.wantKey, got, tt.wantMsg)
			}
		})
	}
}

func TestBind_InvalidTarget(t *testing.T) {
	var s Search
	for _, dst := range []any{s, nil, new(int)} {
		var qe *Error
		if err := NewBinder("").Bind(dst, nil); !errors.As(err, &qe) || qe.Code != CodeInvalidTarget {
			t.Errorf("Bind(%T) error = %v, want %s", dst, err, CodeInvalidTarget)
		}
	}
}
