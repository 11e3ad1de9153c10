package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNilTarget is returned when ShallowMergeYAML is given no Config.
var ErrNilTarget = errors.New("nil target config")

// ErrNotMapping is returned when an overlay's document root is not a mapping.
var ErrNotMapping = errors.New("config root must be a mapping")

// sectionDecoders replace one top-level section of a Config from its YAML
// node. Keys without a decoder are ignored.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var sectionDecoders = map[string]func(*Config, *yaml.Node) error{
	"version": func(c *Config, n *yaml.Node) error {
		var v string
		if err := n.Decode(&v); err != nil {
			return err
		}
		c.Version = v
		return nil
	},
	"table": func(c *Config, n *yaml.Node) error {
		// Decode into a zero value: yaml merges into existing slices.
		var v TableConfig
		if err := n.Decode(&v); err != nil {
			return err
		}
		c.Table = v
		return nil
	},
	"logging": func(c *Config, n *yaml.Node) error {
		var v LoggingConfig
		if err := n.Decode(&v); err != nil {
			return err
		}
		c.Logging = v
		return nil
	},
}

// ShallowMergeYAML overlays the YAML file at overlayPath onto target. Each
// top-level key present in the file replaces that whole section; absent
// sections are left as they are.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return ErrNilTarget
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	root := documentRoot(&doc)
	if root == nil {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, ErrNotMapping)
	}

	// Mapping content alternates key and value nodes.
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		decode, ok := sectionDecoders[key]
		if !ok {
			continue
		}
		if err := decode(target, root.Content[i+1]); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// documentRoot returns the top node of doc, or nil for an empty or
// comment-only file.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil
	}
	return root
}
