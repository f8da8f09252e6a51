package config

import (
	"reflect"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{name: "variable set", key: "TEST_VAR", value: "test_value"},
		{name: "variable not set", key: "TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", value: "42", expected: 42},
		{name: "invalid integer", value: "not_a_number", wantPanic: true},
		{name: "missing variable", value: "", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			result := requireEnvInt("TEST_INT")
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single value", input: "github", expected: []string{"github"}},
		{name: "spaces and quotes", input: ` "bilibili" , 'youtube' ,github`, expected: []string{"bilibili", "youtube", "github"}},
		{name: "drops empty parts", input: "a,,b,", expected: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitAndTrim(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitAndTrim(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)

			if result := mustDuration("TEST_DURATION", tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)

			if result := mustBool("TEST_BOOL", tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LINKBOT_CACHE_ENABLED", "")
	t.Setenv("LINKBOT_PLATFORM_ORDER", "")
	t.Setenv("LINKBOT_GIT_TIMEOUT", "")
	t.Setenv("LINKBOT_PLUGIN_CONFIG", "")
	t.Setenv("LINKBOT_LOG_LEVEL", "")

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.CacheEnabled {
		t.Error("reply cache should be disabled by default")
	}
	if cfg.GitTimeout != 10*time.Second {
		t.Errorf("GitTimeout = %v, want 10s", cfg.GitTimeout)
	}
	if cfg.UserAgent != "Mozilla/5.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.PluginConfig != DefaultPluginConfig {
		t.Errorf("PluginConfig = %q, want %q", cfg.PluginConfig, DefaultPluginConfig)
	}
	if cfg.PlatformOrder != nil {
		t.Errorf("PlatformOrder = %v, want nil (built-in order)", cfg.PlatformOrder)
	}
}

func TestLoadPlatformOrder(t *testing.T) {
	t.Setenv("LINKBOT_CACHE_ENABLED", "")
	t.Setenv("LINKBOT_PLATFORM_ORDER", "YouTube, github")

	cfg := Load()

	want := []string{"youtube", "github"}
	if !reflect.DeepEqual(cfg.PlatformOrder, want) {
		t.Errorf("PlatformOrder = %v, want %v", cfg.PlatformOrder, want)
	}
}

func TestLoadCacheRequiresRedis(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantPanic bool
	}{
		{
			name:      "missing redis address",
			env:       map[string]string{"LINKBOT_REDIS_ADDR": "", "LINKBOT_REDIS_DB": "0"},
			wantPanic: true,
		},
		{
			name: "password required but empty",
			env: map[string]string{
				"LINKBOT_REDIS_ADDR": "localhost:6379", "LINKBOT_REDIS_DB": "0",
				"LINKBOT_REDIS_PASSWORD_REQUIRED": "true", "LINKBOT_REDIS_PASSWORD": "",
			},
			wantPanic: true,
		},
		{
			name: "complete",
			env: map[string]string{
				"LINKBOT_REDIS_ADDR": "localhost:6379", "LINKBOT_REDIS_DB": "2",
				"LINKBOT_REDIS_PASSWORD_REQUIRED": "false", "LINKBOT_REDIS_PASSWORD": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LINKBOT_CACHE_ENABLED", "true")
			t.Setenv("LINKBOT_CACHE_TTL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("Load() should have panicked")
					}
				}()
			}

			cfg := Load()
			if !tt.wantPanic && (cfg.RedisDB != 2 || cfg.CacheTTL != 10*time.Minute) {
				t.Errorf("Load() redis db = %d ttl = %v", cfg.RedisDB, cfg.CacheTTL)
			}
		})
	}
}
