package safety

import "strings"

var dangerousPaths = []string{
	"/", "/bin", "/sbin", "/boot", "/dev", "/etc", "/proc", "/sys",
	"/usr/bin", "/usr/sbin", "/var/log", "/var/lib",
	`C:\`, `C:\Windows`, `C:\Program Files`, `C:\System32`,
}

// IsSafePath reports whether a path may be written to. System
// directories and anything containing a ".." traversal are rejected.
func IsSafePath(path string) bool {
	for _, dangerous := range dangerousPaths {
		if path == dangerous || strings.HasPrefix(path, dangerous+"/") {
			return false
		}
	}
	return !strings.Contains(path, "..")
}

// SuggestSafePath maps a rejected absolute path to a scratch location,
// or returns empty when no obvious substitute exists.
func SuggestSafePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "/home"):
		return "/tmp" + path
	case strings.HasPrefix(path, `C:\`) && !strings.HasPrefix(path, `C:\Users`):
		return `C:\temp\` + path[3:]
	}
	return ""
}
