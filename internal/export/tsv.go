// Package export renders analysis results as tab-separated rows for
// copy-out, and parses fact rows back in.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/mscore-cli/internal/model"
)

const factHeader = "metric\tcurrent\tprior"

// RenderFacts serializes a fact set as key<TAB>current<TAB>prior rows in
// schema order. Missing periods render as empty cells.
func RenderFacts(facts model.FactSet) string {
	var b strings.Builder
	b.WriteString(factHeader)
	b.WriteByte('\n')
	for _, k := range model.Schema() {
		fv := facts[k]
		fmt.Fprintf(&b, "%s\t%s\t%s\n", k, cell(fv.Current), cell(fv.Prior))
	}
	return b.String()
}

// RenderReport serializes the full score report: the fact rows, the eight
// ratio rows, the composite score, and the risk line.
func RenderReport(report *model.ScoreReport) string {
	var b strings.Builder
	if report.Company != "" {
		fmt.Fprintf(&b, "company\t%s\n", report.Company)
	}
	b.WriteString(RenderFacts(report.Validation.Facts))
	b.WriteByte('\n')

	b.WriteString("ratio\tvalue\n")
	for _, nr := range report.Ratios.Named() {
		fmt.Fprintf(&b, "%s\t%s\n", nr.Name, ratioCell(nr.Ratio))
	}
	fmt.Fprintf(&b, "m_score\t%s\n", ratioCell(report.MScore))
	fmt.Fprintf(&b, "risk\t%s\n", report.Risk)
	return b.String()
}

// ParseFacts reads fact rows produced by RenderFacts. Header and blank
// lines are skipped; a row with an unknown metric is an error. The
// returned set always spans the full schema.
func ParseFacts(s string) (model.FactSet, error) {
	facts := model.NewFactSet()
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line == factHeader {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			return nil, eris.Errorf("export: line %d: want 3 columns, got %d", i+1, len(fields))
		}
		k := model.FactKey(fields[0])
		if !model.ValidKey(k) {
			return nil, eris.Errorf("export: line %d: unknown metric %q", i+1, fields[0])
		}
		cur, err := parseCell(fields[1])
		if err != nil {
			return nil, eris.Wrapf(err, "export: line %d: current value", i+1)
		}
		prior, err := parseCell(fields[2])
		if err != nil {
			return nil, eris.Wrapf(err, "export: line %d: prior value", i+1)
		}
		facts[k] = model.FactValue{Current: cur, Prior: prior}
	}
	return facts, nil
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func ratioCell(r model.Ratio) string {
	if !r.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(r.Value, 'f', 4, 64)
}

func parseCell(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, eris.Wrap(err, "parse number")
	}
	return &f, nil
}
