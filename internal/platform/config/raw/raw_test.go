package raw

import (
	"testing"
)

func TestConfGet(t *testing.T) {
	t.Setenv("APP_NAME", " liverkpi ")
	t.Setenv("LOG_FORMAT", " json ")

	root := New()
	log := root.Prefix("LOG_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root trimmed", conf: root, key: "APP_NAME", def: "x", want: "liverkpi"},
		{name: "prefixed hit", conf: log, key: "FORMAT", def: "console", want: "json"},
		{name: "missing returns default", conf: log, key: "MISSING", def: "defv", want: "defv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfGetBool(t *testing.T) {
	c := New().Prefix("LOG_")

	t.Setenv("LOG_T1", "true")
	t.Setenv("LOG_T2", "1")
	t.Setenv("LOG_T3", "YES")
	t.Setenv("LOG_T4", " on ")
	t.Setenv("LOG_F1", "false")
	t.Setenv("LOG_F2", "nope")

	tests := []struct {
		key  string
		def  bool
		want bool
	}{
		{"T1", false, true},
		{"T2", false, true},
		{"T3", false, true},
		{"T4", false, true},
		{"F1", true, false},
		{"F2", true, false},
		{"MISSING", true, true},
		{"MISSING", false, false},
	}

	for _, tt := range tests {
		if got := c.GetBool(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tt.key, tt.def, got, tt.want)
		}
	}
}

func TestConfGetInt(t *testing.T) {
	c := New().Prefix("SYS_")

	t.Setenv("SYS_OK", "42")
	t.Setenv("SYS_WS", "  7  ")
	t.Setenv("SYS_NONNUM", "12x")
	t.Setenv("SYS_NEG", "-5")
	t.Setenv("SYS_PLUS", "+5")

	tests := []struct {
		key  string
		def  int
		want int
	}{
		{"OK", 0, 42},
		{"WS", 1, 7},
		{"NONNUM", 9, 9},
		{"NEG", 3, 3},
		{"PLUS", 4, 4},
		{"MISSING", 11, 11},
	}

	for _, tt := range tests {
		if got := c.GetInt(tt.key, tt.def); got != tt.want {
			t.Fatalf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestPrefixComposition(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("CORE_LEVEL", "debug")
	t.Setenv("CORE_LOG_MODE", "console")

	root := New()
	if got := root.Prefix("LOG_").Get("LEVEL", ""); got != "info" {
		t.Fatalf("LOG_LEVEL = %q", got)
	}
	if got := root.Prefix("CORE_").Get("LEVEL", ""); got != "debug" {
		t.Fatalf("CORE_LEVEL = %q", got)
	}
	if got := root.Prefix("CORE_").Prefix("LOG_").Get("MODE", ""); got != "console" {
		t.Fatalf("CORE_LOG_MODE = %q", got)
	}
}
