package pkg

import "testing"

func TestLoggerChaining(t *testing.T) {
	InitLogger("error", false)

	// level methods must be callable straight off the accessor
	Logger().Info().Str("k", "v").Msg("suppressed at error level")
	Logger().Warn().Msg("suppressed at error level")
	Logger().Error().Msg("emitted")

	if Logger() == nil {
		t.Fatal("Logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		"WARN":    "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		"bogus":   "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
