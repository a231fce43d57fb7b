package resilience

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyFetch_StatusCodes(t *testing.T) {
	tests := []struct {
		code int
		want FetchErrorKind
	}{
		{429, FetchRateLimited},
		{408, FetchTimeout},
		{502, FetchServerError},
		{503, FetchServerError},
		{504, FetchServerError},
		{500, FetchOther},
		{404, FetchOther},
		{401, FetchOther},
	}
	for _, tt := range tests {
		got := ClassifyFetch(&statusErr{code: tt.code})
		if got != tt.want {
			t.Errorf("status %d: expected %v, got %v", tt.code, tt.want, got)
		}
	}
}

func TestClassifyFetch_WrappedStatusError(t *testing.T) {
	err := fmt.Errorf("scrape product page: %w", &statusErr{code: 429})
	if got := ClassifyFetch(err); got != FetchRateLimited {
		t.Errorf("expected rate_limited through wrapping, got %v", got)
	}
}

func TestClassifyFetch_StringHeuristics(t *testing.T) {
	tests := []struct {
		msg  string
		want FetchErrorKind
	}{
		{"request failed with status 429", FetchRateLimited},
		{"rate limit exceeded, try again later", FetchRateLimited},
		{"context deadline exceeded: request timed out", FetchTimeout},
		{"upstream returned 503 service unavailable", FetchServerError},
		{"no such host", FetchOther},
		{"invalid response body", FetchOther},
	}
	for _, tt := range tests {
		got := ClassifyFetch(errors.New(tt.msg))
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.msg, tt.want, got)
		}
	}
}

func TestClassifyFetch_Nil(t *testing.T) {
	if got := ClassifyFetch(nil); got != FetchOther {
		t.Errorf("expected other for nil, got %v", got)
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(&statusErr{code: 429}) {
		t.Error("429 should be rate limited")
	}
	if IsRateLimited(&statusErr{code: 503}) {
		t.Error("503 should not be rate limited")
	}
}

func TestIsRecordable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&statusErr{code: 429}, true},
		{&statusErr{code: 408}, true},
		{&statusErr{code: 502}, true},
		{&statusErr{code: 404}, false},
		{errors.New("parse failure"), false},
	}
	for _, tt := range tests {
		if got := IsRecordable(tt.err); got != tt.want {
			t.Errorf("%v: expected recordable=%v, got %v", tt.err, tt.want, got)
		}
	}
}

func TestFetchErrorKind_String(t *testing.T) {
	tests := []struct {
		kind FetchErrorKind
		want string
	}{
		{FetchRateLimited, "rate_limited"},
		{FetchTimeout, "timeout"},
		{FetchServerError, "server_error"},
		{FetchOther, "other"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
