package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg.ReflexionOrder != 1 {
		t.Fatalf("expected default reflexion_order 1, got %d", *cfg.ReflexionOrder)
	}
	if *cfg.MaxSrcDist != 250 {
		t.Fatalf("expected default max_src_dist 250, got %v", *cfg.MaxSrcDist)
	}
}

func TestLoadMergesOverrideOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.json")
	override := map[string]any{
		"reflexion_order": 3,
		"g_s":             0.25,
	}
	data, err := json.Marshal(override)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg.ReflexionOrder != 3 {
		t.Fatalf("expected overridden reflexion_order 3, got %d", *cfg.ReflexionOrder)
	}
	if *cfg.GS != 0.25 {
		t.Fatalf("expected overridden g_s 0.25, got %v", *cfg.GS)
	}
	// Fields untouched by the override must retain the built-in default.
	if *cfg.MaxSrcDist != 250 {
		t.Fatalf("expected untouched max_src_dist to keep its default, got %v", *cfg.MaxSrcDist)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error parsing malformed JSON")
	}
}

func TestResolveAcceptsDefaults(t *testing.T) {
	r, err := Defaults().Resolve()
	if err != nil {
		t.Fatalf("expected built-in defaults to validate, got: %v", err)
	}
	if r.ThreadCount != 0 {
		t.Fatalf("expected default thread_count 0 (auto), got %d", r.ThreadCount)
	}
	if len(r.FreqLvl) != 8 {
		t.Fatalf("expected 8 default octave bands, got %d", len(r.FreqLvl))
	}
}

func TestValidateRejectsOutOfRangeGS(t *testing.T) {
	cfg := Defaults()
	cfg.GS = ptrFloat(1.5)
	if _, err := cfg.Resolve(); err == nil {
		t.Fatalf("expected an error for g_s outside [0,1]")
	}
}

func TestValidateRejectsNonPositiveMaxSrcDist(t *testing.T) {
	cfg := Defaults()
	cfg.MaxSrcDist = ptrFloat(0)
	if _, err := cfg.Resolve(); err == nil {
		t.Fatalf("expected an error for a non-positive max_src_dist")
	}
}

func TestValidateRejectsNegativeReflexionOrder(t *testing.T) {
	cfg := Defaults()
	cfg.ReflexionOrder = ptrInt(-1)
	if _, err := cfg.Resolve(); err == nil {
		t.Fatalf("expected an error for a negative reflexion_order")
	}
}

func TestValidateRejectsHumidityOutOfRange(t *testing.T) {
	cfg := Defaults()
	cfg.Humidity = ptrFloat(150)
	if _, err := cfg.Resolve(); err == nil {
		t.Fatalf("expected an error for humidity above 100")
	}
}
