package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-t", "30", "-l", "60", "-b", "https://app.example", "-k", "re_key", "-f", "Sender <x@example.com>",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:        "127.0.0.1:9090",
				DatabaseDSN:             "db",
				SecretKey:               "secret",
				SessionValidityDuration: 30 * time.Minute,
				VerificationTokenTTL:    60 * time.Minute,
				BaseURL:                 "https://app.example",
				ResendAPIKey:            "re_key",
				ResendFrom:              "Sender <x@example.com>",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
