package config

import (
	"fmt"
	"strings"
)

// ZoomConfig bounds the camera zoom and sets the per-notch step.
type ZoomConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// SemanticConfig holds the semantic zoom thresholds.
type SemanticConfig struct {
	ContentThreshold   float64 `yaml:"content_threshold"`
	TitleTextThreshold float64 `yaml:"title_text_threshold"`
}

// DecorationConfig sizes the frame decorations.
type DecorationConfig struct {
	TitleHeight    int `yaml:"title_height"`
	MinTitleHeight int `yaml:"min_title_height"`
	ResizeGrip     int `yaml:"resize_grip"`
}

// WindowConfig controls placement and sizing of managed windows.
type WindowConfig struct {
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	MinDragSize   int `yaml:"min_drag_size"`
	DialogOffset  int `yaml:"dialog_offset"`
}

// KeysConfig holds the manager's key bindings in xgbutil syntax
// ("Mod4-Control-F1").
type KeysConfig struct {
	Close        string   `yaml:"close"`
	Fullscreen   string   `yaml:"fullscreen"`
	CommandBar   string   `yaml:"command_bar"`
	Cycle        string   `yaml:"cycle"`
	CycleReverse string   `yaml:"cycle_reverse"`
	SaveSlots    []string `yaml:"save_slots"`
	LoadSlots    []string `yaml:"load_slots"`
}

// IPCConfig controls the control socket.
type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel   string            `yaml:"log_level"`
	Display    string            `yaml:"display,omitempty"`
	Modifier   string            `yaml:"modifier"`
	Zoom       ZoomConfig        `yaml:"zoom"`
	Semantic   SemanticConfig    `yaml:"semantic"`
	Decoration DecorationConfig  `yaml:"decoration"`
	Window     WindowConfig      `yaml:"window"`
	Keys       KeysConfig        `yaml:"keys"`
	Launch     map[string]string `yaml:"launch"`
	IPC        IPCConfig         `yaml:"ipc"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Modifier: "Mod4",
		Zoom: ZoomConfig{
			Min:  0.11,
			Max:  5.0,
			Step: 0.1,
		},
		Semantic: SemanticConfig{
			ContentThreshold:   0.5,
			TitleTextThreshold: 0.7,
		},
		Decoration: DecorationConfig{
			TitleHeight:    25,
			MinTitleHeight: 8,
			ResizeGrip:     40,
		},
		Window: WindowConfig{
			DefaultWidth:  400,
			DefaultHeight: 300,
			MinDragSize:   50,
			DialogOffset:  30,
		},
		Keys: KeysConfig{
			Close:        "Mod1-F4",
			Fullscreen:   "Mod4-f",
			CommandBar:   "Mod4-space",
			Cycle:        "Mod1-Tab",
			CycleReverse: "Mod1-Shift-Tab",
			SaveSlots:    []string{"Mod4-Control-F1", "Mod4-Control-F2", "Mod4-Control-F3", "Mod4-Control-F4"},
			LoadSlots:    []string{"Mod4-F1", "Mod4-F2", "Mod4-F3", "Mod4-F4"},
		},
		Launch: map[string]string{},
		IPC:    IPCConfig{Enabled: true},
	}
}

var modifierNames = map[string]struct{}{
	"shift": {}, "lock": {}, "control": {},
	"mod1": {}, "mod2": {}, "mod3": {}, "mod4": {}, "mod5": {},
}

// ValidateBinding checks the shape of a key binding string. Whether the key
// exists on the keyboard is only known once the keymap has been read.
func ValidateBinding(binding string) error {
	parts := strings.Split(binding, "-")
	key := parts[len(parts)-1]
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("binding %q has no key", binding)
	}
	for _, mod := range parts[:len(parts)-1] {
		if _, ok := modifierNames[strings.ToLower(mod)]; !ok {
			return fmt.Errorf("binding %q: unknown modifier %q", binding, mod)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if _, ok := modifierNames[strings.ToLower(c.Modifier)]; !ok {
		return &ValidationError{Path: "modifier", Err: fmt.Errorf("modifier must be one of: Shift, Control, Mod1..Mod5")}
	}

	if c.Zoom.Min <= 0 || c.Zoom.Min > 10 {
		return &ValidationError{Path: "zoom.min", Err: fmt.Errorf("zoom.min must be in (0, 10]")}
	}
	if c.Zoom.Max <= 0 || c.Zoom.Max > 10 {
		return &ValidationError{Path: "zoom.max", Err: fmt.Errorf("zoom.max must be in (0, 10]")}
	}
	if c.Zoom.Min > c.Zoom.Max {
		return &ValidationError{Path: "zoom.min", Err: fmt.Errorf("zoom.min must be <= zoom.max")}
	}
	if c.Zoom.Step <= 0 {
		return &ValidationError{Path: "zoom.step", Err: fmt.Errorf("zoom.step must be > 0")}
	}
	if c.Semantic.ContentThreshold < 0 {
		return &ValidationError{Path: "semantic.content_threshold", Err: fmt.Errorf("content_threshold must be >= 0")}
	}
	if c.Semantic.TitleTextThreshold < 0 {
		return &ValidationError{Path: "semantic.title_text_threshold", Err: fmt.Errorf("title_text_threshold must be >= 0")}
	}

	if c.Decoration.TitleHeight <= 0 {
		return &ValidationError{Path: "decoration.title_height", Err: fmt.Errorf("title_height must be > 0")}
	}
	if c.Decoration.MinTitleHeight <= 0 {
		return &ValidationError{Path: "decoration.min_title_height", Err: fmt.Errorf("min_title_height must be > 0")}
	}
	if c.Decoration.ResizeGrip <= 0 {
		return &ValidationError{Path: "decoration.resize_grip", Err: fmt.Errorf("resize_grip must be > 0")}
	}

	if c.Window.DefaultWidth <= 0 || c.Window.DefaultHeight <= 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("default_width and default_height must be > 0")}
	}
	if c.Window.MinDragSize <= 0 {
		return &ValidationError{Path: "window.min_drag_size", Err: fmt.Errorf("min_drag_size must be > 0")}
	}
	if c.Window.DialogOffset < 0 {
		return &ValidationError{Path: "window.dialog_offset", Err: fmt.Errorf("dialog_offset must be >= 0")}
	}

	for path, binding := range map[string]string{
		"keys.close":         c.Keys.Close,
		"keys.fullscreen":    c.Keys.Fullscreen,
		"keys.command_bar":   c.Keys.CommandBar,
		"keys.cycle":         c.Keys.Cycle,
		"keys.cycle_reverse": c.Keys.CycleReverse,
	} {
		if binding == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("binding is required")}
		}
		if err := ValidateBinding(binding); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}
	if len(c.Keys.SaveSlots) != len(c.Keys.LoadSlots) {
		return &ValidationError{Path: "keys.save_slots", Err: fmt.Errorf("save_slots and load_slots must have the same length")}
	}
	for i, binding := range c.Keys.SaveSlots {
		if err := ValidateBinding(binding); err != nil {
			return &ValidationError{Path: fmt.Sprintf("keys.save_slots.%d", i), Err: err}
		}
	}
	for i, binding := range c.Keys.LoadSlots {
		if err := ValidateBinding(binding); err != nil {
			return &ValidationError{Path: fmt.Sprintf("keys.load_slots.%d", i), Err: err}
		}
	}

	for binding, cmd := range c.Launch {
		if err := ValidateBinding(binding); err != nil {
			return &ValidationError{Path: "launch", Err: err}
		}
		if strings.TrimSpace(cmd) == "" {
			return &ValidationError{Path: "launch." + binding, Err: fmt.Errorf("launch command must not be empty")}
		}
	}
	return nil
}
