package config

// Tool overrides how one external program is located and invoked.
type Tool struct {
	Path string   `json:"path" yaml:"path"`                     // binary path; empty = look up the default name on $PATH
	Args []string `json:"args,omitempty" yaml:"args,omitempty"` // extra arguments appended to every invocation
}

// Config is the optional tool-configuration file: external binary locations
// and strategy thresholds. The zero value is fully usable — every tool is
// resolved via $PATH and thresholds take their built-in defaults.
type Config struct {
	Tools  map[string]Tool `json:"tools,omitempty" yaml:"tools,omitempty"`
	MinQ30 float64         `json:"min_q30,omitempty" yaml:"min_q30,omitempty"` // fast-strategy read quality floor; 0 = default
}

// ToolPath resolves the binary for a tool name. Unconfigured tools fall back
// to def when given (e.g. "spades" → "spades.py"), else to the name itself
// for a $PATH lookup.
func (c *Config) ToolPath(name string, def ...string) string {
	if c != nil {
		if t, ok := c.Tools[name]; ok && t.Path != "" {
			return t.Path
		}
	}
	if len(def) > 0 && def[0] != "" {
		return def[0]
	}
	return name
}

// ToolArgs returns the configured extra arguments for a tool, or nil.
func (c *Config) ToolArgs(name string) []string {
	if c == nil {
		return nil
	}
	return c.Tools[name].Args
}
