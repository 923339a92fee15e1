package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawZoom struct {
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
	Step *float64 `yaml:"step"`
}

type RawSemantic struct {
	ContentThreshold   *float64 `yaml:"content_threshold"`
	TitleTextThreshold *float64 `yaml:"title_text_threshold"`
}

type RawDecoration struct {
	TitleHeight    *int `yaml:"title_height"`
	MinTitleHeight *int `yaml:"min_title_height"`
	ResizeGrip     *int `yaml:"resize_grip"`
}

type RawWindow struct {
	DefaultWidth  *int `yaml:"default_width"`
	DefaultHeight *int `yaml:"default_height"`
	MinDragSize   *int `yaml:"min_drag_size"`
	DialogOffset  *int `yaml:"dialog_offset"`
}

type RawKeys struct {
	Close        *string  `yaml:"close"`
	Fullscreen   *string  `yaml:"fullscreen"`
	CommandBar   *string  `yaml:"command_bar"`
	Cycle        *string  `yaml:"cycle"`
	CycleReverse *string  `yaml:"cycle_reverse"`
	SaveSlots    []string `yaml:"save_slots"`
	LoadSlots    []string `yaml:"load_slots"`
}

type RawIPC struct {
	Enabled *bool `yaml:"enabled"`
}

type RawConfig struct {
	Include    IncludeList       `yaml:"include"`
	LogLevel   *string           `yaml:"log_level"`
	Display    *string           `yaml:"display"`
	Modifier   *string           `yaml:"modifier"`
	Zoom       *RawZoom          `yaml:"zoom"`
	Semantic   *RawSemantic      `yaml:"semantic"`
	Decoration *RawDecoration    `yaml:"decoration"`
	Window     *RawWindow        `yaml:"window"`
	Keys       *RawKeys          `yaml:"keys"`
	Launch     map[string]string `yaml:"launch"`
	IPC        *RawIPC           `yaml:"ipc"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.Modifier != nil {
		out.Modifier = overlay.Modifier
	}
	if overlay.Zoom != nil {
		out.Zoom = mergeZoom(out.Zoom, overlay.Zoom)
	}
	if overlay.Semantic != nil {
		out.Semantic = mergeSemantic(out.Semantic, overlay.Semantic)
	}
	if overlay.Decoration != nil {
		out.Decoration = mergeDecoration(out.Decoration, overlay.Decoration)
	}
	if overlay.Window != nil {
		out.Window = mergeWindow(out.Window, overlay.Window)
	}
	if overlay.Keys != nil {
		out.Keys = mergeKeys(out.Keys, overlay.Keys)
	}
	if overlay.Launch != nil {
		merged := make(map[string]string, len(out.Launch)+len(overlay.Launch))
		for binding, cmd := range out.Launch {
			merged[binding] = cmd
		}
		for binding, cmd := range overlay.Launch {
			merged[binding] = cmd
		}
		out.Launch = merged
	}
	if overlay.IPC != nil {
		ipc := RawIPC{}
		if out.IPC != nil {
			ipc = *out.IPC
		}
		if overlay.IPC.Enabled != nil {
			ipc.Enabled = overlay.IPC.Enabled
		}
		out.IPC = &ipc
	}

	return out
}

func mergeZoom(base, overlay *RawZoom) *RawZoom {
	out := RawZoom{}
	if base != nil {
		out = *base
	}
	if overlay.Min != nil {
		out.Min = overlay.Min
	}
	if overlay.Max != nil {
		out.Max = overlay.Max
	}
	if overlay.Step != nil {
		out.Step = overlay.Step
	}
	return &out
}

func mergeSemantic(base, overlay *RawSemantic) *RawSemantic {
	out := RawSemantic{}
	if base != nil {
		out = *base
	}
	if overlay.ContentThreshold != nil {
		out.ContentThreshold = overlay.ContentThreshold
	}
	if overlay.TitleTextThreshold != nil {
		out.TitleTextThreshold = overlay.TitleTextThreshold
	}
	return &out
}

func mergeDecoration(base, overlay *RawDecoration) *RawDecoration {
	out := RawDecoration{}
	if base != nil {
		out = *base
	}
	if overlay.TitleHeight != nil {
		out.TitleHeight = overlay.TitleHeight
	}
	if overlay.MinTitleHeight != nil {
		out.MinTitleHeight = overlay.MinTitleHeight
	}
	if overlay.ResizeGrip != nil {
		out.ResizeGrip = overlay.ResizeGrip
	}
	return &out
}

func mergeWindow(base, overlay *RawWindow) *RawWindow {
	out := RawWindow{}
	if base != nil {
		out = *base
	}
	if overlay.DefaultWidth != nil {
		out.DefaultWidth = overlay.DefaultWidth
	}
	if overlay.DefaultHeight != nil {
		out.DefaultHeight = overlay.DefaultHeight
	}
	if overlay.MinDragSize != nil {
		out.MinDragSize = overlay.MinDragSize
	}
	if overlay.DialogOffset != nil {
		out.DialogOffset = overlay.DialogOffset
	}
	return &out
}

func mergeKeys(base, overlay *RawKeys) *RawKeys {
	out := RawKeys{}
	if base != nil {
		out = *base
	}
	if overlay.Close != nil {
		out.Close = overlay.Close
	}
	if overlay.Fullscreen != nil {
		out.Fullscreen = overlay.Fullscreen
	}
	if overlay.CommandBar != nil {
		out.CommandBar = overlay.CommandBar
	}
	if overlay.Cycle != nil {
		out.Cycle = overlay.Cycle
	}
	if overlay.CycleReverse != nil {
		out.CycleReverse = overlay.CycleReverse
	}
	// Slot lists replace wholesale; merging by index would be surprising.
	if overlay.SaveSlots != nil {
		out.SaveSlots = append([]string(nil), overlay.SaveSlots...)
	}
	if overlay.LoadSlots != nil {
		out.LoadSlots = append([]string(nil), overlay.LoadSlots...)
	}
	return &out
}
