// Package envconfig resolves forge configuration from the environment.
// Every knob has a FORGE_* variable, a default, and an entry in AsMap
// for the CLI help output.
package envconfig

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Host returns the scheme and host of the model server.
// Configured via FORGE_HOST. Default: http://127.0.0.1:11434
func Host() *url.URL {
	defaultPort := "11434"

	s := Var("FORGE_HOST")
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// Model returns the default model name.
// Configured via FORGE_MODEL. Default: llama3.2
func Model() string {
	if s := Var("FORGE_MODEL"); s != "" {
		return s
	}
	return "llama3.2"
}

// Dir returns the forge state directory.
// Configured via FORGE_DIR. Default: $HOME/.forge
func Dir() string {
	if s := Var("FORGE_DIR"); s != "" {
		return s
	}

	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".forge")
}

// HistoryFile returns the path of the persisted input history.
// Configured via FORGE_HISTORY. Default: $FORGE_DIR/history
func HistoryFile() string {
	if s := Var("FORGE_HISTORY"); s != "" {
		return s
	}
	return filepath.Join(Dir(), "history")
}

// RequestTimeout returns how long a single model request may take.
// Configured via FORGE_TIMEOUT as a duration or a number of seconds.
// 0 or negative = no timeout. Default: 5 minutes
func RequestTimeout() (timeout time.Duration) {
	timeout = 5 * time.Minute
	if s := Var("FORGE_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			timeout = d
		} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			timeout = time.Duration(n) * time.Second
		}
	}

	if timeout <= 0 {
		return 0
	}
	return timeout
}

// LogLevel returns the log level.
// Configured via FORGE_DEBUG: 0/false = INFO (default), 1/true = DEBUG
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("FORGE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// NoHistory reports whether readline history should be disabled.
// Configured via FORGE_NOHISTORY.
var NoHistory = Bool("FORGE_NOHISTORY")

// NoSafety reports whether command safety checks should be skipped.
// Configured via FORGE_NOSAFETY.
var NoSafety = Bool("FORGE_NOSAFETY")

// Var returns an environment variable, stripped of surrounding quotes
// and whitespace.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
