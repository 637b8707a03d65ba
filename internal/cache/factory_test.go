package cache

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestNew_Providers(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		cfg      ProviderConfig
		wantErr  string
	}{
		{name: "memory", provider: "memory", cfg: ProviderConfig{Size: 100, TTL: time.Hour}},
		{name: "unknown provider lists registered ones", provider: "memcached", wantErr: "[memory redis]"},
		// nothing listens on this port
		{name: "unreachable redis", provider: "redis", cfg: ProviderConfig{TTL: time.Hour, RedisAddress: "localhost:59999"}, wantErr: "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.provider, tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("New(%q) error = %v, want it to mention %q", tt.provider, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.provider, err)
			}
			defer c.Close()

			c.Set(pageKey, []byte("<html></html>"))
			if page, ok := c.Get(pageKey); !ok || string(page) != "<html></html>" {
				t.Errorf("Get(%q) = %q, %v", pageKey, page, ok)
			}
		})
	}
}

func TestRegisteredProviders_Sorted(t *testing.T) {
	if got := RegisteredProviders(); !slices.Equal(got, []string{"memory", "redis"}) {
		t.Fatalf("RegisteredProviders() = %v, want [memory redis]", got)
	}
}

func TestRegister_Panics(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
	}{
		{"duplicate name", newMemoryCache},
		{"nil provider", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("Expected Register to panic")
				}
			}()
			Register("memory", tt.provider)
		})
	}
}
