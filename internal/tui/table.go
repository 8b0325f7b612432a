package tui

import (
	"fmt"
	"io"

	"ulbuild/internal/materialize"
)

// PrintResult writes a static summary of res, used when no TUI is running.
func PrintResult(w io.Writer, res materialize.Result) {
	fmt.Fprintf(w, "%s %s (%s)\n", TitleStyle.Render("Ultralight SDK"), res.Version, res.Platform)
	if res.URL != "" {
		fmt.Fprintf(w, "source: %s\n", res.URL)
	}
	fmt.Fprintf(w, "output: %s\n\n", res.OutRoot)

	fmt.Fprintf(w, "%s  %s  %s\n",
		HeaderStyle.Render(pad("CATEGORY", 10)),
		HeaderStyle.Render(pad("STATUS", 14)),
		HeaderStyle.Render("DIR"))
	for _, c := range res.Categories {
		fmt.Fprintf(w, "%s  %s  %s\n",
			pad(c.Category.String(), 10),
			StatusStyle(c.Status).Render(pad(string(c.Status), 14)),
			NonEmptyOrDash(c.Dir))
		for _, missing := range c.Missing {
			fmt.Fprintf(w, "  missing: %s\n", missing)
		}
	}
	if res.Downloaded {
		fmt.Fprintln(w, "\ndownloaded a fresh SDK archive")
	}
}
