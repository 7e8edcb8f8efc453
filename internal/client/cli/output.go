package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printRaw writes a response body, indented when it is valid JSON.
func (a *App) printRaw(raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, _ = a.out.Write(raw)
		fmt.Fprintln(a.out)
		return
	}
	fmt.Fprintln(a.out, buf.String())
}

func (a *App) printMessage(raw []byte) {
	m, err := models.Decode[models.MessageResponse](raw)
	if err != nil || m.Message == "" {
		a.printRaw(raw)
		return
	}
	fmt.Fprintln(a.out, m.Message)
}

func (a *App) printPage(p models.Page) {
	if p.Pages <= 1 {
		return
	}
	fmt.Fprintf(a.out, "page %d of %d (%d total)\n", p.Page, p.Pages, p.Total)
	if p.HasNext() {
		fmt.Fprintf(a.out, "more on page %d\n", p.Page+1)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func score(s *float64) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
