package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/models"
)

func (a *App) AnalyzeDomains(ctx context.Context, domains []string) error {
	if len(domains) == 0 {
		lines, err := GetMultiline(a.reader, "Enter domains, one per line", a.out)
		if err != nil {
			return err
		}
		domains = lines
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains given")
	}

	raw, err := a.api.AnalyzeDomains(ctx, domains)
	if err != nil {
		return err
	}
	if a.rawJSON {
		a.printRaw(raw)
		return nil
	}

	res, err := models.Decode[models.AnalyzeResult](raw)
	if err != nil {
		return err
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "DOMAIN\tSCORE\tAVAILABLE\tRECOMMENDATIONS")
	for _, d := range res.Domains {
		if d.Error != "" {
			fmt.Fprintf(w, "%s\t-\t-\terror: %s\n", d.Domain, d.Error)
			continue
		}
		fmt.Fprintf(w, "%s\t%.0f\t%s\t%s\n", d.Domain, d.QualityScore, yesNo(d.IsAvailable), orDash(strings.Join(d.Recommendations, "; ")))
	}
	_ = w.Flush()
	fmt.Fprintf(a.out, "%d processed, %d successful, %d failed\n", res.Processed, res.Successful, res.Failed)
	return nil
}

func (a *App) LLMAnalyzeDomains(ctx context.Context, domains []string) error {
	if len(domains) == 0 {
		lines, err := GetMultiline(a.reader, "Enter domains, one per line", a.out)
		if err != nil {
			return err
		}
		domains = lines
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains given")
	}

	items := make([]any, len(domains))
	for i, d := range domains {
		items[i] = d
	}

	raw, err := a.api.LLMAnalyzeDomains(ctx, items)
	if err != nil {
		return err
	}
	if a.rawJSON {
		a.printRaw(raw)
		return nil
	}

	res, err := models.Decode[models.LLMResult](raw)
	if err != nil {
		return err
	}
	if res.Error != "" {
		return fmt.Errorf("llm analysis failed: %s", res.Error)
	}

	for _, d := range res.Domains {
		fmt.Fprintf(a.out, "== %s [%s, %s, %d tokens]\n", d.Domain, d.Status, orDash(d.ModelUsed), d.TokensUsed)
		if d.Error != "" {
			fmt.Fprintf(a.out, "error: %s\n\n", d.Error)
			continue
		}
		fmt.Fprintf(a.out, "%s\n\n", strings.TrimSpace(d.LLMAnalysis))
	}
	fmt.Fprintf(a.out, "%d processed, %d successful, %d failed\n", res.Processed, res.Successful, res.Failed)
	return nil
}

func (a *App) ListDomains(ctx context.Context, page, perPage int) error {
	raw, err := a.api.GetDomains(ctx, page, perPage)
	if err != nil {
		return err
	}
	if a.rawJSON {
		a.printRaw(raw)
		return nil
	}

	p, err := models.Decode[models.DomainPage](raw)
	if err != nil {
		return err
	}
	if len(p.Domains) == 0 {
		fmt.Fprintln(a.out, "No domains")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tDOMAIN\tSCORE\tGOOD\tRECOMMENDED\tCATEGORY")
	for _, d := range p.Domains {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Domain, score(d.QualityScore), yesNo(d.IsGood), yesNo(d.Recommended), orDash(d.AICategory))
	}
	_ = w.Flush()
	a.printPage(p.Page)
	return nil
}

// ShowDomain prints the stored record for one domain as JSON.
func (a *App) ShowDomain(ctx context.Context, domain string) error {
	if err := a.promptMissing(&domain, "Enter domain"); err != nil {
		return err
	}
	raw, err := a.api.GetDomainDetail(ctx, domain)
	if err != nil {
		return err
	}
	a.printRaw(raw)
	return nil
}
