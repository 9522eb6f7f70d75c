package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// colorEnabled mirrors builtins_term.go's detectColorLevel TTY/NO_COLOR
// gate, simplified to the on/off decision this writer needs.
func colorEnabled(f *os.File) bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[39m"
)

// Write renders every diagnostic in ds to w, one per line, colorizing
// errors red and warnings yellow when out is a terminal.
func Write(w io.Writer, ds *Diagnostics, out *os.File) {
	colored := out != nil && colorEnabled(out)
	for _, d := range ds.All() {
		label := "error"
		color := ansiRed
		if d.Code.IsWarning() {
			label = "warning"
			color = ansiYellow
		}
		if colored {
			fmt.Fprintf(w, "%s%s%s: %s\n", color, label, ansiReset, d.Error())
		} else {
			fmt.Fprintf(w, "%s: %s\n", label, d.Error())
		}
	}
}
