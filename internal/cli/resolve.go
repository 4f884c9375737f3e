package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gabrielmiguelok/livesite/pkg/navigation"
)

var resolvePath string

var resolveCmd = &cobra.Command{
	Use:   "resolve [href]",
	Short: "Show how a link would be handled when clicked",
	Long: `Classifies href with the configured TLD list and prints the effect a
click would have when the visitor is on --path. Nothing is opened.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolvePath, "path", "p", "/", "current page path")
	rootCmd.AddCommand(resolveCmd)
}

// resolveStyles colours the resolve output on a terminal.
type resolveStyles struct {
	label  lipgloss.Style
	kind   lipgloss.Style
	effect lipgloss.Style
	muted  lipgloss.Style
}

func newResolveStyles(color bool) resolveStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return resolveStyles{label: plain, kind: plain, effect: plain, muted: plain}
	}
	return resolveStyles{
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		kind:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		effect: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Italic(true),
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	r := navigation.NewResolver(navigation.Collaborators{}, navigation.WithClassifier(cfg.Classifier()))
	target, action, ok := r.Explain(args[0], resolvePath)

	st := newResolveStyles(isTerminal(cmd.OutOrStdout()))
	row := func(label, value string, style lipgloss.Style) {
		cmd.Printf("%s %s\n", st.label.Render(fmt.Sprintf("%-9s", label+":")), style.Render(value))
	}

	row("href", fmt.Sprintf("%q", args[0]), st.muted)
	if !ok {
		row("effect", "none (empty href)", st.effect)
		return nil
	}

	row("kind", target.Kind.String(), st.kind)
	switch target.Kind {
	case navigation.External:
		row("url", target.URL, st.muted)
	case navigation.SamePageAnchor:
		row("fragment", target.Fragment, st.muted)
	case navigation.CrossPageAnchor:
		row("path", target.Path, st.muted)
		row("fragment", target.Fragment, st.muted)
	case navigation.InternalPath:
		row("path", target.Path, st.muted)
	}
	row("page", resolvePath, st.muted)
	row("effect", describe(action), st.effect)
	return nil
}

func describe(a navigation.Action) string {
	switch a.Effect {
	case navigation.EffectOpenTab:
		return "open " + a.Value + " in a new tab"
	case navigation.EffectScroll:
		return "scroll to #" + a.Value
	case navigation.EffectPush:
		return "navigate to " + a.Value
	default:
		return "none"
	}
}
