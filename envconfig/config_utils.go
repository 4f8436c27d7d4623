package envconfig

import (
	"fmt"
	"strconv"
)

// Bool returns a getter for a boolean variable (default: false).
func Bool(k string) func() bool {
	return func() bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return false
	}
}

// String returns a getter for a string variable.
func String(k string) func() string {
	return func() string {
		return Var(k)
	}
}

// EnvVar describes one environment variable for help output.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every forge variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"FORGE_HOST":      {"FORGE_HOST", Host(), "Address of the model server (default 127.0.0.1:11434)"},
		"FORGE_MODEL":     {"FORGE_MODEL", Model(), "Default model (default \"llama3.2\")"},
		"FORGE_DIR":       {"FORGE_DIR", Dir(), "The path to the forge state directory"},
		"FORGE_HISTORY":   {"FORGE_HISTORY", HistoryFile(), "The path to the persisted input history"},
		"FORGE_TIMEOUT":   {"FORGE_TIMEOUT", RequestTimeout(), "How long a model request may take (default \"5m\")"},
		"FORGE_DEBUG":     {"FORGE_DEBUG", LogLevel(), "Show additional debug information (e.g. FORGE_DEBUG=1)"},
		"FORGE_NOHISTORY": {"FORGE_NOHISTORY", NoHistory(), "Do not preserve input history"},
		"FORGE_NOSAFETY":  {"FORGE_NOSAFETY", NoSafety(), "Skip command safety checks"},
	}
}

// Values returns all configuration values as a string map.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
