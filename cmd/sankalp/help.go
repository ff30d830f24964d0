package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alfredjeanlab/sankalp/internal/ui"
	"github.com/spf13/cobra"
)

var (
	// "Records:", "Flags:" and friends. Usage: stays plain.
	reGroupHeader = regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`)

	// "  students   Manage student records"
	reCommand = regexp.MustCompile(`(?m)^(  )(\S+)(  )`)

	// "--amount float", "--date string"
	reFlagType = regexp.MustCompile(`(--?\S+\s+)(string|int|float|duration|strings)\b`)

	reDefault = regexp.MustCompile(`\(default "?[^")]*"?\)`)
)

// helpRule restyles every match of re; style receives the submatches.
type helpRule struct {
	re    *regexp.Regexp
	style func(m []string) string
}

var helpRules = []helpRule{
	{reGroupHeader, func(m []string) string {
		if m[1] == "Usage:" {
			return m[0]
		}
		return ui.RenderAccent(strings.TrimSpace(m[0]))
	}},
	{reCommand, func(m []string) string {
		if strings.HasPrefix(m[2], "-") {
			return m[0]
		}
		return m[1] + ui.RenderCommand(m[2]) + m[3]
	}},
	{reFlagType, func(m []string) string { return m[1] + ui.RenderMuted(m[2]) }},
	{reDefault, func(m []string) string { return ui.RenderMuted(m[0]) }},
}

// colorizedHelpFunc prints cobra's usage text, styled unless --no-color,
// NO_COLOR or a non-terminal stdout says otherwise.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		text := cmd.UsageString()
		if !noColor && ui.ShouldUseColor() {
			text = colorizeHelpOutput(text)
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
	}
}

func colorizeHelpOutput(s string) string {
	for _, r := range helpRules {
		s = r.re.ReplaceAllStringFunc(s, func(match string) string {
			m := r.re.FindStringSubmatch(match)
			if m == nil {
				return match
			}
			return r.style(m)
		})
	}
	return s
}
