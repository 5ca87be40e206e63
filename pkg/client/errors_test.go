package client

import (
	"errors"
	"net/http"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		resp     *http.Response
		err      error
		expected ErrorClass
	}{
		{
			name:     "network error",
			err:      errors.New("connection refused"),
			expected: ErrorClassNetwork,
		},
		{
			name:     "client error 400",
			resp:     &http.Response{StatusCode: 400},
			expected: ErrorClassClient,
		},
		{
			name:     "client error 404",
			resp:     &http.Response{StatusCode: 404},
			expected: ErrorClassClient,
		},
		{
			name:     "server error 500",
			resp:     &http.Response{StatusCode: 500},
			expected: ErrorClassServer,
		},
		{
			name:     "server error 503",
			resp:     &http.Response{StatusCode: 503},
			expected: ErrorClassServer,
		},
		{
			name:     "success is unclassified",
			resp:     &http.Response{StatusCode: 200},
			expected: "",
		},
		{
			name:     "redirect is unclassified",
			resp:     &http.Response{StatusCode: 302},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.resp, tt.err); got != tt.expected {
				t.Errorf("classifyError() = %q, want %q", got, tt.expected)
			}
		})
	}
}
