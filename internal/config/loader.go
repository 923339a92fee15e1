package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for defaults
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "dragonwm", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location and returns an
// effective config ready for use by the window manager.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the config at path. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	res := &LoadResult{Sources: map[string]Source{}}
	var raw RawConfig

	_, err := os.Stat(path)
	switch {
	case err == nil:
		l := &fileLoader{seen: make(map[string]bool)}
		top, err := l.load(path)
		if err != nil {
			return nil, err
		}
		raw = top.raw
		res.Sources = top.sources
		res.Files = top.files
	case !os.IsNotExist(err):
		return nil, err
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err != nil {
		return nil, attachSourceContext(err, res.Sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, res.Sources)
	}
	res.Config = cfg
	return res, nil
}

// layer is one file merged with everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

// absorb merges next over l.
func (l *layer) absorb(next layer) {
	l.raw = l.raw.merge(next.raw)
	for key, src := range next.sources {
		l.sources[key] = src
	}
	l.files = append(l.files, next.files...)
}

// fileLoader follows include chains. A file reached twice through
// different includes is merged once; a file reached through itself is a
// cycle.
type fileLoader struct {
	seen  map[string]bool
	chain []string
}

func (l *fileLoader) load(path string) (layer, error) {
	out := layer{sources: map[string]Source{}}

	file := resolveLinks(path)
	if slices.Contains(l.chain, file) {
		return out, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
	}
	if l.seen[file] {
		return out, nil
	}
	l.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return out, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return out, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var own RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&own); err != nil && err != io.EOF {
		return out, fmt.Errorf("%s: %w", file, err)
	}

	root := documentRoot(&doc)
	l.chain = append(l.chain, file)
	defer func() { l.chain = l.chain[:len(l.chain)-1] }()

	// Includes apply first so the including file wins.
	for _, ref := range includeRefs(root, file) {
		targets, err := includeTargets(file, ref.Value)
		if err != nil {
			return out, fmt.Errorf("%s:%d:%d: include %q: %w", file, ref.Source.Line, ref.Source.Column, ref.Value, err)
		}
		for _, target := range targets {
			inc, err := l.load(target)
			if err != nil {
				return out, err
			}
			out.absorb(inc)
		}
	}

	sources := map[string]Source{}
	walkSources(root, file, "", sources)
	out.absorb(layer{raw: own, sources: sources, files: []string{file}})
	return out, nil
}

func resolveLinks(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// includeTargets resolves one include entry relative to the file naming
// it. A directory expands to its YAML files in name order.
func includeTargets(from, entry string) ([]string, error) {
	if entry == "" {
		return nil, errors.New("path is empty")
	}
	if entry == "~" || strings.HasPrefix(entry, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		entry = filepath.Join(home, strings.TrimPrefix(entry, "~"))
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(filepath.Dir(from), entry)
	}

	info, err := os.Stat(entry)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{entry}, nil
	}
	entries, err := os.ReadDir(entry)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(entry, ent.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// walkSources records where every mapping key under n was written,
// keyed by its dotted YAML path. Sequences are recorded as a whole.
func walkSources(n *yaml.Node, file, prefix string, out map[string]Source) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i].Value, n.Content[i+1]
			if prefix != "" {
				key = prefix + "." + key
			}
			out[key] = nodeSource(file, val)
			walkSources(val, file, key, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = nodeSource(file, n)
		}
	}
}

type includeRef struct {
	Value  string
	Source Source
}

func includeRefs(root *yaml.Node, file string) []includeRef {
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		var refs []includeRef
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				refs = append(refs, includeRef{Value: item.Value, Source: nodeSource(file, item)})
			}
		}
		return refs
	}
	return nil
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr == nil {
		return err
	}
	if verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
