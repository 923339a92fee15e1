package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Zoom.Min != 0.11 || cfg.Zoom.Max != 5.0 {
		t.Fatalf("unexpected zoom bounds %+v", cfg.Zoom)
	}
	if len(cfg.Keys.SaveSlots) != 4 || len(cfg.Keys.LoadSlots) != 4 {
		t.Fatalf("expected four camera slots, got %d/%d", len(cfg.Keys.SaveSlots), len(cfg.Keys.LoadSlots))
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Decoration.TitleHeight != 25 {
		t.Fatalf("expected default title height 25, got %d", res.Config.Decoration.TitleHeight)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Modifier != "Mod4" {
		t.Fatalf("expected modifier Mod4, got %q", res.Config.Modifier)
	}
}

func TestLoadFromPath_PartialSectionKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"zoom:",
		"  max: 3.5",
		"window:",
		"  dialog_offset: 10",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Zoom.Max != 3.5 {
		t.Fatalf("expected zoom.max 3.5, got %v", res.Config.Zoom.Max)
	}
	if res.Config.Zoom.Min != 0.11 {
		t.Fatalf("expected zoom.min default, got %v", res.Config.Zoom.Min)
	}
	if res.Config.Window.DialogOffset != 10 || res.Config.Window.DefaultWidth != 400 {
		t.Fatalf("unexpected window config %+v", res.Config.Window)
	}
}

func TestLoadFromPath_DisplayExplainSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "display: \":1\"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Display != ":1" {
		t.Fatalf("expected display :1, got %q", res.Config.Display)
	}

	val, src, err := Explain(res, "display")
	if err != nil {
		t.Fatalf("explain display: %v", err)
	}
	if val != ":1" {
		t.Fatalf("expected explain display :1, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("expected display source file line 1, got %#v", src)
	}
}

func TestExplain_DefaultsAndNestedPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "keys:\n  save_slots: [\"Mod4-Control-a\"]\n  load_slots: [\"Mod4-a\"]\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "semantic.title_text_threshold")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 0.7 {
		t.Fatalf("expected 0.7, got %#v", val)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}

	val, src, err = Explain(res, "keys.save_slots.0")
	if err != nil {
		t.Fatalf("explain slot: %v", err)
	}
	if val != "Mod4-Control-a" {
		t.Fatalf("expected slot binding, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected slot source from the save_slots line, got %#v", src)
	}

	if _, _, err := Explain(res, "zoom.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\nzoom:\n  min: 6\n  max: 2\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "zoom.min" {
		t.Fatalf("expected path zoom.min, got %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected line 3, got %#v", verr.Source)
	}
	if !strings.Contains(err.Error(), path+":3:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "decoration:\n  title_height: 20\n  resize_grip: 30\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "decoration:\n  title_height: 22\n")

	mainPath := filepath.Join(dir, "config.yaml")
	writeFile(t, mainPath, "include: config.d\ndecoration:\n  min_title_height: 6\n")

	res, err := LoadFromPath(mainPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := res.Config.Decoration
	if d.TitleHeight != 22 || d.ResizeGrip != 30 || d.MinTitleHeight != 6 {
		t.Fatalf("unexpected decoration %+v", d)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files loaded, got %v", res.Files)
	}
	if !strings.HasSuffix(res.Files[2], "config.yaml") {
		t.Fatalf("expected main file last, got %v", res.Files)
	}

	_, src, err := Explain(res, "decoration.title_height")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasSuffix(src.File, "20-override.yaml") {
		t.Fatalf("expected title_height from 20-override.yaml, got %#v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include: missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include path in error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_LaunchMergesAcrossIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "apps.yaml"), "launch:\n  Mod4-Return: xterm\n  Mod4-b: firefox\n")
	mainPath := filepath.Join(dir, "config.yaml")
	writeFile(t, mainPath, "include: apps.yaml\nlaunch:\n  Mod4-b: chromium\n")

	res, err := LoadFromPath(mainPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := res.Config.Launch["Mod4-Return"]; got != "xterm" {
		t.Fatalf("expected xterm from include, got %q", got)
	}
	if got := res.Config.Launch["Mod4-b"]; got != "chromium" {
		t.Fatalf("expected main file to override launch entry, got %q", got)
	}
}

func TestLoadFromPath_EmptyLaunchCommandRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "launch:\n  Mod4-Return: \"  \"\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "launch.Mod4-Return" {
		t.Fatalf("unexpected path %q", verr.Path)
	}
}

func TestValidateBinding(t *testing.T) {
	tests := []struct {
		binding string
		ok      bool
	}{
		{"Mod4-space", true},
		{"Mod4-Control-F1", true},
		{"mod1-shift-Tab", true},
		{"F12", true},
		{"Hyper-x", false},
		{"Mod4-", false},
	}
	for _, tt := range tests {
		err := ValidateBinding(tt.binding)
		if (err == nil) != tt.ok {
			t.Fatalf("ValidateBinding(%q) = %v, want ok=%v", tt.binding, err, tt.ok)
		}
	}
}

func TestValidate_SlotListsMustPair(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Keys.LoadSlots = cfg.Keys.LoadSlots[:2]
	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "keys.save_slots" {
		t.Fatalf("expected keys.save_slots error, got %v", err)
	}
}
