// Package safety classifies shell commands by how much damage they
// can do before anything is executed. The checker is purely lexical:
// it inspects the command line, never the filesystem.
package safety

import (
	"fmt"
	"sort"
	"strings"
)

type RiskLevel int

const (
	RiskSafe RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskSafe:
		return "safe"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	}
	return fmt.Sprintf("risk(%d)", int(r))
}

// Assessment is the checker's verdict on a single command line.
type Assessment struct {
	Level       RiskLevel
	Reason      string
	Suggestions []string
}

type Checker struct {
	dangerousPatterns   []string
	destructiveCommands map[string]bool
	systemPaths         []string
	allowedCommands     map[string]bool
}

func NewChecker() *Checker {
	return &Checker{
		dangerousPatterns: []string{
			"rm -rf",
			"rm -r",
			"sudo rm",
			"del /s",
			"format c:",
			"fdisk /mbr",
			"mkfs.",
			"dd if=/dev/zero",
			"dd if=/dev/random",
			"> /dev/",
			"chmod 000",
			"chmod -r 000",
			"chown root",
			"chown -r root",
			"init 0",
			"init 6",
			"killall -9",
			"pkill -9",
			":(){ :|:& };:",
			"curl | sh",
			"wget | sh",
			"curl | bash",
			"wget | bash",
		},
		destructiveCommands: map[string]bool{
			"rm": true, "del": true, "format": true, "fdisk": true,
			"mkfs": true, "dd": true, "shutdown": true, "reboot": true,
			"halt": true, "poweroff": true, "systemctl": true,
		},
		systemPaths: []string{
			"/bin", "/sbin", "/usr/bin", "/usr/sbin",
			"/boot", "/dev", "/etc", "/proc", "/sys",
			`c:\windows`, `c:\program files`, `c:\system32`,
		},
	}
}

// WithAllowedCommands restricts the checker to an allowlist: any
// command whose name is not listed is rated high-risk regardless of
// its arguments.
func (c *Checker) WithAllowedCommands(commands []string) *Checker {
	c.allowedCommands = make(map[string]bool, len(commands))
	for _, cmd := range commands {
		c.allowedCommands[cmd] = true
	}
	return c
}

// Assess rates a command line. Rules are checked most severe first,
// so the returned level is the worst one that applies.
func (c *Checker) Assess(command string) Assessment {
	lower := strings.ToLower(command)
	parts := strings.Fields(command)

	if len(parts) == 0 {
		return Assessment{
			Level:       RiskSafe,
			Reason:      "empty command",
			Suggestions: []string{"Specify a command to execute"},
		}
	}
	base := parts[0]

	if c.allowedCommands != nil && !c.allowedCommands[base] {
		allowed := make([]string, 0, len(c.allowedCommands))
		for cmd := range c.allowedCommands {
			allowed = append(allowed, cmd)
		}
		sort.Strings(allowed)
		return Assessment{
			Level:  RiskHigh,
			Reason: fmt.Sprintf("command %q is not in the allowed list", base),
			Suggestions: []string{
				"Only pre-approved commands are allowed in this environment",
				"Allowed commands: " + strings.Join(allowed, ", "),
			},
		}
	}

	for _, pattern := range c.dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return Assessment{
				Level:  RiskCritical,
				Reason: "contains dangerous pattern: " + pattern,
				Suggestions: []string{
					"This command could cause irreversible system damage",
					"Consider using safer alternatives or be extremely careful",
					"Always have backups before running destructive commands",
				},
			}
		}
	}

	if c.destructiveCommands[base] {
		if risk := assessDestructive(command, parts); risk.Level != RiskSafe {
			return risk
		}
	}

	for _, sysPath := range c.systemPaths {
		if strings.Contains(lower, sysPath) {
			return Assessment{
				Level:  RiskHigh,
				Reason: "attempts to modify system path: " + sysPath,
				Suggestions: []string{
					"Modifying system paths can break your system",
					"Use extreme caution when working with system directories",
				},
			}
		}
	}

	if hasNetworkRisk(command) {
		return Assessment{
			Level:  RiskMedium,
			Reason: "command downloads and executes content from the internet",
			Suggestions: []string{
				"Review the source and content before executing",
				"Consider downloading and inspecting the script first",
			},
		}
	}

	if strings.HasPrefix(lower, "sudo ") || strings.Contains(lower, " sudo ") {
		return Assessment{
			Level:  RiskMedium,
			Reason: "command requires elevated privileges",
			Suggestions: []string{
				"Ensure you understand what the command does with elevated privileges",
				"Consider running without sudo first if possible",
			},
		}
	}

	if strings.Contains(lower, " -r") || strings.Contains(lower, " --recursive") {
		return Assessment{
			Level:  RiskLow,
			Reason: "command performs recursive operations",
			Suggestions: []string{
				"Be careful with recursive operations on large directory trees",
				"Consider testing on a small subset first",
			},
		}
	}

	return Assessment{Level: RiskSafe, Reason: "command appears safe"}
}

func assessDestructive(command string, parts []string) Assessment {
	switch parts[0] {
	case "rm":
		for _, arg := range parts[1:] {
			if arg == "-rf" || arg == "-r" || arg == "-fr" {
				return Assessment{
					Level:  RiskCritical,
					Reason: "recursive file deletion",
					Suggestions: []string{
						"This will delete files and directories recursively",
						"Make sure you have backups",
						"Double-check the target path",
					},
				}
			}
		}
		for _, arg := range parts[1:] {
			if strings.HasPrefix(arg, "/") && len(arg) < 4 {
				return Assessment{
					Level:  RiskCritical,
					Reason: "attempting to delete system root directories",
					Suggestions: []string{
						"This could destroy your entire system",
						"Never delete root system directories",
					},
				}
			}
		}
		return Assessment{
			Level:       RiskLow,
			Reason:      "file deletion command",
			Suggestions: []string{"Ensure the target files are correct"},
		}
	case "dd":
		if strings.Contains(command, "/dev/") {
			return Assessment{
				Level:  RiskCritical,
				Reason: "direct disk access with dd",
				Suggestions: []string{
					"This can overwrite disk data directly",
					"Wrong usage can destroy all data on the disk",
					"Verify the input/output devices carefully",
				},
			}
		}
		return Assessment{
			Level:       RiskMedium,
			Reason:      "data copying with dd",
			Suggestions: []string{"Verify source and destination paths"},
		}
	case "shutdown", "reboot", "halt", "poweroff":
		return Assessment{
			Level:  RiskMedium,
			Reason: "system power control",
			Suggestions: []string{
				"This will shut down or restart the system",
				"Save your work before proceeding",
			},
		}
	case "systemctl":
		for _, arg := range parts[1:] {
			if arg == "stop" || arg == "disable" || arg == "mask" {
				return Assessment{
					Level:  RiskHigh,
					Reason: "stopping or disabling system services",
					Suggestions: []string{
						"This may affect system functionality",
						"Make sure you understand the service's purpose",
					},
				}
			}
		}
		return Assessment{
			Level:       RiskLow,
			Reason:      "system service management",
			Suggestions: []string{"Review the service and action carefully"},
		}
	}
	return Assessment{Level: RiskSafe, Reason: "standard command usage"}
}

func hasNetworkRisk(command string) bool {
	if !strings.Contains(command, "curl") && !strings.Contains(command, "wget") {
		return false
	}
	for _, sink := range []string{"| sh", "| bash", "|sh", "|bash"} {
		if strings.Contains(command, sink) {
			return true
		}
	}
	return false
}

// Allowed reports whether a command is safe enough to run without
// explicit confirmation.
func (c *Checker) Allowed(command string) bool {
	level := c.Assess(command).Level
	return level == RiskSafe || level == RiskLow
}

// SafeAlternatives suggests less destructive ways to achieve what the
// command appears to be doing.
func (c *Checker) SafeAlternatives(command string) []string {
	var alternatives []string
	lower := strings.ToLower(command)

	if strings.HasPrefix(lower, "rm -rf") {
		alternatives = append(alternatives,
			"Use 'rm -i' for interactive deletion",
			"Move files to trash instead of permanent deletion",
			"List files first with 'ls' to verify targets",
		)
	}
	if strings.Contains(lower, "curl") && strings.Contains(lower, "| sh") {
		alternatives = append(alternatives,
			"Download the script first: curl <url> -o script.sh",
			"Review the script: cat script.sh",
			"Then execute if safe: bash script.sh",
		)
	}
	if strings.HasPrefix(lower, "sudo") {
		alternatives = append(alternatives,
			"Try running without sudo first if possible",
			"Use specific sudo commands instead of sudo su",
		)
	}
	return alternatives
}
