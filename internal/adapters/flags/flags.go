// Package flags evaluates feature flags from the features section of the
// configuration.
//
// A flag is a plain value:
//
//	features:
//	  export:
//	    pdf: true
//
// or a targeted value with per-agent overrides:
//
//	features:
//	  lists:
//	    agent-scoped:
//	      default: false
//	      agents: [agent-7, agent-9]
//	      roles: [supervisor]
//
// Agents and roles are matched against the ports.FeatureFlagUser on the
// context; a match flips a boolean default.
package flags

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ahmedtravel/playbook/internal/ports"
)

type flag struct {
	value  any
	agents []string
	roles  []string
}

// ConfigFlags is a static ports.FeatureFlags built from configuration.
type ConfigFlags struct {
	flags map[string]flag
}

var _ ports.FeatureFlags = (*ConfigFlags)(nil)

// New flattens the nested features map into dotted flag names.
func New(features map[string]any) *ConfigFlags {
	c := &ConfigFlags{flags: make(map[string]flag)}
	c.flatten("", features)

	return c
}

func (c *ConfigFlags) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		nested, ok := v.(map[string]any)
		if !ok {
			c.flags[name] = flag{value: v}
			continue
		}

		if def, targeted := nested["default"]; targeted {
			c.flags[name] = flag{
				value:  def,
				agents: toStrings(nested["agents"]),
				roles:  toStrings(nested["roles"]),
			}

			continue
		}

		c.flatten(name, nested)
	}
}

// Names lists the known flags, sorted.
func (c *ConfigFlags) Names() []string {
	names := make([]string, 0, len(c.flags))
	for name := range c.flags {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func (c *ConfigFlags) IsEnabled(ctx context.Context, name string, defaultValue bool) bool {
	f, ok := c.flags[name]
	if !ok {
		return defaultValue
	}

	enabled, ok := toBool(f.value)
	if !ok {
		enabled = defaultValue
	}

	if f.targets(ports.GetFeatureFlagUser(ctx)) {
		return !enabled
	}

	return enabled
}

func (c *ConfigFlags) GetString(_ context.Context, name string, defaultValue string) string {
	f, ok := c.flags[name]
	if !ok || f.value == nil {
		return defaultValue
	}

	return fmt.Sprint(f.value)
}

func (c *ConfigFlags) GetInt(_ context.Context, name string, defaultValue int) int {
	f, ok := c.flags[name]
	if !ok {
		return defaultValue
	}

	switch v := f.value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}

	return defaultValue
}

func (f flag) targets(user *ports.FeatureFlagUser) bool {
	if user == nil {
		return false
	}

	if user.ID != "" && slices.Contains(f.agents, user.ID) {
		return true
	}

	for _, role := range user.Roles {
		if slices.Contains(f.roles, role) {
			return true
		}
	}

	return false
}

// toBool accepts booleans and, for values from the environment, strings.
func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	default:
		return false, false
	}
}

// toStrings accepts YAML lists and comma-separated strings.
func toStrings(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, fmt.Sprint(item))
		}

		return out
	case string:
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}

		return out
	default:
		return nil
	}
}
