// File: internal/infra/logging/logging_test.go
package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRedact(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		dev  bool
		want string
	}{
		{"dev mode keeps the value", "xnd_live_secret", true, "xnd_live_secret"},
		{"short secret fully masked", "abc123", false, "***"},
		{"long secret keeps a preview", "xnd_live_secret", false, "xnd_...et"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Redact(tc.in, tc.dev); got != tc.want {
				t.Errorf("Redact(%q, %v) = %q, want %q", tc.in, tc.dev, got, tc.want)
			}
		})
	}
}

func TestWith_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithJobName(context.Background(), "invoice-generation")
	ctx = WithCustomerID(ctx, "cust-1")

	With(ctx, &base).Info().Msg("run")

	out := buf.String()
	if !strings.Contains(out, `"job":"invoice-generation"`) {
		t.Errorf("log line missing job field: %s", out)
	}
	if !strings.Contains(out, `"customer_id":"cust-1"`) {
		t.Errorf("log line missing customer_id field: %s", out)
	}
}
