package cli

import (
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/mdfmt/internal/ui/pretty"
)

// helpStyles are the lipgloss styles used by command help.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(color bool) helpStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return helpStyles{plain, plain, plain, plain, plain}
	}
	return helpStyles{
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}{{heading "Usage:"}}{{if .Runnable}}
  {{command .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}{{if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{name (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}{{if .HasAvailableSubCommands}}

Run "{{command (print .CommandPath " [command] --help")}}" for more about a command.{{end}}
`

// flagToken matches the flag names in a pflag usage line, and flagType the
// value placeholder that follows them.
//
//nolint:gochecknoglobals // Read-only patterns.
var (
	flagToken = regexp.MustCompile(`-{1,2}[A-Za-z0-9][\w-]*`)
	flagType  = regexp.MustCompile(`^(\S.*?) (\w+)$`)
)

// applyHelp installs styled help and usage output on cmd and its children.
// Colors follow the --color mode and whether out is a terminal.
func applyHelp(cmd *cobra.Command, colorMode string, out io.Writer) {
	styles := newHelpStyles(pretty.IsColorEnabled(colorMode, out))

	tmpl := template.Must(template.New("help").Funcs(template.FuncMap{
		"heading":   styles.heading.Render,
		"command":   styles.command.Render,
		"name":      styles.name.Render,
		"trimRight": trimRightLines,
		"flags":     func(fs *pflag.FlagSet) string { return styleFlags(styles, fs) },
		"pad": func(s string, n int) string {
			return s + strings.Repeat(" ", max(n-len(s), 0))
		},
	}).Parse(helpTemplate))

	render := func(c *cobra.Command) error {
		return tmpl.Execute(c.OutOrStdout(), c)
	}
	cmd.SetUsageFunc(render)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := render(c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// styleFlags colors the flag names in the usage lines of fs and dims their
// value placeholders.
func styleFlags(styles helpStyles, fs *pflag.FlagSet) string {
	lines := strings.Split(strings.TrimRight(fs.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		// pflag separates the flag column from the description with three spaces.
		flagCol, desc, ok := strings.Cut(line, "   ")
		if !ok {
			continue
		}
		lead := flagCol[:len(flagCol)-len(strings.TrimLeft(flagCol, " "))]
		names := strings.TrimSpace(flagCol)
		var typ string
		if m := flagType.FindStringSubmatch(names); m != nil && !strings.HasPrefix(m[2], "-") {
			names, typ = m[1], " "+styles.dim.Render(m[2])
		}
		names = flagToken.ReplaceAllStringFunc(names, func(s string) string { return styles.flag.Render(s) })
		lines[i] = lead + names + typ + "   " + strings.TrimLeft(desc, " ")
	}
	return strings.Join(lines, "\n")
}

func trimRightLines(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
