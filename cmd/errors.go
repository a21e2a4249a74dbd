package cmd

import (
	"fmt"
	"strings"
)

// exitError wraps an error with the process exit code it should produce.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ValidationError collects configuration problems grouped by section, each
// with fix advice, and renders them as one readable block.
type ValidationError struct {
	Sections map[string]*ValidationSection
	ExitCode int
}

type ValidationSection struct {
	Issues        []string
	Solutions     []string
	SettingAdvice []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("Configuration Errors\n")
	sb.WriteString("════════════════════\n\n")

	for sectionName, section := range e.Sections {
		if len(section.Issues) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("■ %s\n", sectionName))
		sb.WriteString(strings.Repeat("─", len(sectionName)+2) + "\n")
		sb.WriteString("  Issue(s):\n")
		for _, item := range section.Issues {
			sb.WriteString(fmt.Sprintf("    • %s\n", item))
		}

		if len(section.Solutions) > 0 {
			sb.WriteString("\n  How to fix:\n")
			for _, solution := range section.Solutions {
				sb.WriteString(fmt.Sprintf("    • %s\n", solution))
			}
		}

		if len(section.SettingAdvice) > 0 {
			sb.WriteString("\n  Ways to provide values:\n")
			for _, advice := range section.SettingAdvice {
				sb.WriteString(fmt.Sprintf("    • %s\n", advice))
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString("════════════════════")
	return sb.String()
}
