package errors

import (
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		retryable bool
	}{
		{ErrorTypeNetwork, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeAuth, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeValidation, false},
		{ErrorTypeUnknown, false},
	}

	for _, test := range tests {
		t.Run(string(test.errorType), func(t *testing.T) {
			if got := IsRetryable(test.errorType); got != test.retryable {
				t.Errorf("IsRetryable(%s) = %v, want %v", test.errorType, got, test.retryable)
			}
		})
	}
}

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorType
	}{
		{429, ErrorTypeRateLimit},
		{401, ErrorTypeAuth},
		{403, ErrorTypeNotFound},
		{404, ErrorTypeNotFound},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{418, ErrorTypeUnknown},
	}

	for _, test := range tests {
		err := FromStatusCode(test.code, "boom")
		if err.Type != test.expected {
			t.Errorf("FromStatusCode(%d) type = %s, want %s", test.code, err.Type, test.expected)
		}
		if err.Code != test.code {
			t.Errorf("FromStatusCode(%d) code = %d", test.code, err.Code)
		}
	}
}

func TestTypeOf(t *testing.T) {
	classified := New(ErrorTypeNotFound, "no such account")
	wrapped := fmt.Errorf("fetch failed: %w", classified)

	if got := TypeOf(wrapped); got != ErrorTypeNotFound {
		t.Errorf("TypeOf(wrapped) = %s, want %s", got, ErrorTypeNotFound)
	}

	if got := TypeOf(fmt.Errorf("plain error")); got != ErrorTypeUnknown {
		t.Errorf("TypeOf(plain) = %s, want %s", got, ErrorTypeUnknown)
	}
}

func TestErrorString(t *testing.T) {
	err := FromStatusCode(429, "slow down")
	expected := "rate_limit error (code 429): slow down"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
