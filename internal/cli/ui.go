package cli

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/neuroc/pkg/report"
)

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue
	colorMuted  = lipgloss.Color("240") // dim gray
)

// Styles shared by the progress view, the spinner and the commands.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleOK          = lipgloss.NewStyle().Foreground(colorOK)
	styleFail        = lipgloss.NewStyle().Foreground(colorFail)
	styleIconSpinner = StyleHighlight
)

// status prints msg after an icon drawn in style.
func status(style lipgloss.Style, icon, format string, args ...any) {
	fmt.Println(style.Render(icon) + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(styleOK, "✓", format, args...) }
func printInfo(format string, args ...any)    { status(StyleDim, "›", format, args...) }

func printWarning(format string, args ...any) {
	status(StyleWarning, "!", "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints where a command wrote its output.
func printFile(location string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + location)
}

// printSummary prints the counters of a batch run, then one line per failed
// item: file name, error code and message.
func printSummary(s *report.Summary) {
	counts := []string{
		StyleNumber.Render(fmt.Sprint(s.Processed)) + StyleDim.Render(" processed"),
		StyleNumber.Render(fmt.Sprint(s.Written)) + StyleDim.Render(" written"),
	}
	if s.OK() {
		counts = append(counts, styleOK.Render("no failures"))
	} else {
		counts = append(counts, StyleWarning.Render(fmt.Sprintf("%d failed", len(s.Failures))))
	}
	fmt.Println("  " + strings.Join(counts, StyleDim.Render(" · ")))

	for _, f := range s.Failures {
		fmt.Printf("  %s %s %s %s\n",
			styleFail.Render("✗"), path.Base(f.File), StyleDim.Render(string(f.Code)), f.Message)
	}
}
