package config

import (
	"fmt"
	"sort"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig lays the merged raw overlay on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.Modifier != nil {
		cfg.Modifier = strings.TrimSpace(*raw.Modifier)
	}

	if raw.Zoom != nil {
		cfg.Zoom.Min = derefFloat(raw.Zoom.Min, cfg.Zoom.Min)
		cfg.Zoom.Max = derefFloat(raw.Zoom.Max, cfg.Zoom.Max)
		cfg.Zoom.Step = derefFloat(raw.Zoom.Step, cfg.Zoom.Step)
	}
	if raw.Semantic != nil {
		cfg.Semantic.ContentThreshold = derefFloat(raw.Semantic.ContentThreshold, cfg.Semantic.ContentThreshold)
		cfg.Semantic.TitleTextThreshold = derefFloat(raw.Semantic.TitleTextThreshold, cfg.Semantic.TitleTextThreshold)
	}
	if raw.Decoration != nil {
		cfg.Decoration.TitleHeight = derefInt(raw.Decoration.TitleHeight, cfg.Decoration.TitleHeight)
		cfg.Decoration.MinTitleHeight = derefInt(raw.Decoration.MinTitleHeight, cfg.Decoration.MinTitleHeight)
		cfg.Decoration.ResizeGrip = derefInt(raw.Decoration.ResizeGrip, cfg.Decoration.ResizeGrip)
	}
	if raw.Window != nil {
		cfg.Window.DefaultWidth = derefInt(raw.Window.DefaultWidth, cfg.Window.DefaultWidth)
		cfg.Window.DefaultHeight = derefInt(raw.Window.DefaultHeight, cfg.Window.DefaultHeight)
		cfg.Window.MinDragSize = derefInt(raw.Window.MinDragSize, cfg.Window.MinDragSize)
		cfg.Window.DialogOffset = derefInt(raw.Window.DialogOffset, cfg.Window.DialogOffset)
	}

	if raw.Keys != nil {
		cfg.Keys.Close = derefString(raw.Keys.Close, cfg.Keys.Close)
		cfg.Keys.Fullscreen = derefString(raw.Keys.Fullscreen, cfg.Keys.Fullscreen)
		cfg.Keys.CommandBar = derefString(raw.Keys.CommandBar, cfg.Keys.CommandBar)
		cfg.Keys.Cycle = derefString(raw.Keys.Cycle, cfg.Keys.Cycle)
		cfg.Keys.CycleReverse = derefString(raw.Keys.CycleReverse, cfg.Keys.CycleReverse)
		if raw.Keys.SaveSlots != nil {
			cfg.Keys.SaveSlots = append([]string(nil), raw.Keys.SaveSlots...)
		}
		if raw.Keys.LoadSlots != nil {
			cfg.Keys.LoadSlots = append([]string(nil), raw.Keys.LoadSlots...)
		}
	}

	for _, binding := range sortedKeys(raw.Launch) {
		cmd := strings.TrimSpace(raw.Launch[binding])
		if cmd == "" {
			return nil, &ValidationError{
				Path: "launch." + binding,
				Err:  fmt.Errorf("launch command must not be empty"),
			}
		}
		cfg.Launch[binding] = cmd
	}

	if raw.IPC != nil && raw.IPC.Enabled != nil {
		cfg.IPC.Enabled = *raw.IPC.Enabled
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return strings.TrimSpace(*p)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
