package program

import (
	"fmt"
	"strconv"
)

// ValueType is the declared type of a configuration key.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeBool   ValueType = "bool"
)

// Key declares one recognized configuration key: its storage name, the
// launch flag it serializes to, its type, and its schema default.
type Key struct {
	Name    string      `yaml:"name" json:"name"`
	Flag    string      `yaml:"flag" json:"flag"`
	Type    ValueType   `yaml:"type" json:"type"`
	Default interface{} `yaml:"default" json:"default"`
}

// Descriptor describes a registered display program. Immutable after
// registration.
type Descriptor struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Command string `yaml:"command" json:"command"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
	Schema  []Key  `yaml:"schema,omitempty" json:"schema,omitempty"`
	// LiveControl marks programs that expose the loopback control channel.
	LiveControl bool `yaml:"live_control,omitempty" json:"live_control,omitempty"`
}

// Defaults returns a fresh configuration set holding every schema default.
func (d *Descriptor) Defaults() map[string]interface{} {
	cfg := make(map[string]interface{}, len(d.Schema))
	for _, k := range d.Schema {
		cfg[k.Name] = k.Default
	}
	return cfg
}

// KeyByName looks up a schema key.
func (d *Descriptor) KeyByName(name string) (Key, bool) {
	for _, k := range d.Schema {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// Flags serializes a configuration set to launch arguments, in schema order.
// Keys absent from the schema are dropped silently; keys absent from the
// configuration are skipped. The single-argument --flag=value form is used so
// boolean flags parse with the standard flag package.
func (d *Descriptor) Flags(cfg map[string]interface{}) []string {
	args := make([]string, 0, len(d.Schema))
	for _, k := range d.Schema {
		v, ok := cfg[k.Name]
		if !ok {
			continue
		}
		coerced, err := k.Coerce(v)
		if err != nil {
			continue
		}
		args = append(args, fmt.Sprintf("--%s=%v", k.Flag, coerced))
	}
	return args
}

// Coerce normalizes a value to the key's declared type. JSON decoding hands
// us float64 for numbers and sometimes strings for everything, so both are
// accepted where unambiguous.
func (k Key) Coerce(v interface{}) (interface{}, error) {
	switch k.Type {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("key %q: expected string, got %T", k.Name, v)
	case TypeInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			return int(n), nil
		case string:
			parsed, err := strconv.Atoi(n)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k.Name, err)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("key %q: expected int, got %T", k.Name, v)
	case TypeBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k.Name, err)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("key %q: expected bool, got %T", k.Name, v)
	}
	return nil, fmt.Errorf("key %q: unknown type %q", k.Name, k.Type)
}

// Merge returns base overlaid with over (right-biased). Neither input is
// modified.
func Merge(base, over map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(over))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}
