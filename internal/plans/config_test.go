package plans

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `
styles:
  - key: realistic
    display_name: Realistic
  - key: digital-art
plans:
  free:
    daily_generations: 10
  pro:
    daily_generations: 0
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Styles) != 2 {
		t.Fatalf("expected 2 styles, got %d", len(cfg.Styles))
	}
	if cfg.Styles[1].DisplayName != "Digital Art" {
		t.Errorf("expected derived display name %q, got %q", "Digital Art", cfg.Styles[1].DisplayName)
	}
	if cfg.PlanLimit("free") != 10 {
		t.Errorf("expected free limit 10, got %d", cfg.PlanLimit("free"))
	}
	if cfg.PlanLimit("pro") != 0 {
		t.Errorf("expected pro unlimited (0), got %d", cfg.PlanLimit("pro"))
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"no styles", "plans:\n  free:\n    daily_generations: 5\n"},
		{"empty style key", "styles:\n  - display_name: Nameless\nplans:\n  free:\n    daily_generations: 5\n"},
		{"no free plan", "styles:\n  - key: realistic\nplans:\n  pro:\n    daily_generations: 5\n"},
		{"negative limit", "styles:\n  - key: realistic\nplans:\n  free:\n    daily_generations: -1\n"},
		{"not yaml", "{{{"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfigFile(t, tc.contents)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("unset falls back to default", func(t *testing.T) {
		t.Setenv("PLANS_CONFIG", "")
		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.HasStyle(DefaultStyleKey) {
			t.Errorf("expected default catalog to contain %q", DefaultStyleKey)
		}
	})

	t.Run("set reads the file", func(t *testing.T) {
		path := writeConfigFile(t, "styles:\n  - key: solo\nplans:\n  free:\n    daily_generations: 1\n")
		t.Setenv("PLANS_CONFIG", path)
		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Styles) != 1 || cfg.Styles[0].Key != "solo" {
			t.Errorf("expected the file catalog, got %+v", cfg.Styles)
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Setenv("PLANS_CONFIG", "/nonexistent/plans.yaml")
		if _, err := LoadFromEnv(); err == nil {
			t.Error("expected error for a missing file")
		}
	})
}

func TestHasStyle(t *testing.T) {
	cfg := Default()
	if !cfg.HasStyle("futuristic") {
		t.Error("expected futuristic in the default catalog")
	}
	if cfg.HasStyle("vaporwave-9000") {
		t.Error("did not expect an unknown style key")
	}
}

func TestPlanLimit_UnknownFallsBackToFree(t *testing.T) {
	cfg := Default()
	if got, want := cfg.PlanLimit("enterprise"), cfg.PlanLimit("free"); got != want {
		t.Errorf("expected unknown plan to use the free limit %d, got %d", want, got)
	}
}
