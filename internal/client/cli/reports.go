package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/models"
	"github.com/dmitrijs2005/dropanalyzer/internal/client/services"
)

func (a *App) ListReports(ctx context.Context, page, perPage int) error {
	raw, err := a.api.GetUserReports(ctx, page, perPage)
	if err != nil {
		return err
	}
	if a.rawJSON {
		a.printRaw(raw)
		return nil
	}

	p, err := models.Decode[models.ReportPage](raw)
	if err != nil {
		return err
	}
	if len(p.Reports) == 0 {
		fmt.Fprintln(a.out, "No reports")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tTYPE\tDOMAIN\tCREATED")
	for _, r := range p.Reports {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Type, orDash(r.Domain), r.CreatedAt)
	}
	_ = w.Flush()
	a.printPage(p.Page)
	return nil
}

func (a *App) DeleteReport(ctx context.Context, id int64) error {
	raw, err := a.api.DeleteReport(ctx, id)
	if err != nil {
		return err
	}
	a.printMessage(raw)
	return nil
}

// ExportReports downloads the reports and stores them in the configured
// sink: the export directory, or S3 when a bucket is configured.
func (a *App) ExportReports(ctx context.Context, format string, ids []int64) error {
	f, err := services.ParseExportFormat(format)
	if err != nil {
		return err
	}

	sink, err := a.exportSink(ctx)
	if err != nil {
		return err
	}

	location, err := a.exportService.Export(ctx, f, ids, sink)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d report(s) to %s\n", len(ids), location)
	return nil
}
