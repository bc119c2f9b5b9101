package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/mscore-cli/internal/model"
)

// ParsedResponse is the mechanical reading of one provider response
// against the key=current,prior grammar. FieldCount is the number of
// schema keys that yielded at least one numeric period; a response with
// FieldCount zero is treated as unparseable by the orchestrator.
type ParsedResponse struct {
	Company    string
	Facts      model.FactSet
	Sources    map[model.FactKey]model.Source
	FieldCount int
}

// ParseResponse reads raw provider output line by line. Unknown keys,
// comments, and malformed lines are skipped rather than failing the
// whole response. Every schema key is present in the returned FactSet;
// keys the response never filled carry nil periods and SourceMissing.
func ParseResponse(raw string) ParsedResponse {
	out := ParsedResponse{
		Facts:   model.NewFactSet(),
		Sources: make(map[model.FactKey]model.Source, len(model.Schema())),
	}
	for _, k := range model.Schema() {
		out.Sources[k] = model.SourceMissing
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		val := strings.TrimSpace(line[eq+1:])

		if key == "company" {
			out.Company = val
			continue
		}
		fk := model.FactKey(key)
		if !model.ValidKey(fk) {
			continue
		}

		cur, prior, ok := splitPeriods(val)
		if !ok {
			continue
		}
		fv := model.FactValue{Current: parseNumber(cur), Prior: parseNumber(prior)}
		out.Facts[fk] = fv
		if fv.Current != nil || fv.Prior != nil {
			out.Sources[fk] = model.SourceExtracted
			out.FieldCount++
		}
	}
	return out
}

// splitPeriods divides a value into its two period tokens. The grammar
// allows exactly one comma; anything else (prose, thousands separators
// the model emitted anyway) is malformed and the field stays missing
// rather than being guessed at.
func splitPeriods(val string) (string, string, bool) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// parseNumber normalizes one numeric token. Currency symbols, percent
// signs, and whitespace are stripped; accounting parentheses negate;
// sentinel words and non-finite results map to nil. Thousands separators
// are NOT stripped: a comma inside a token means the period split was
// ambiguous, and a fabricated digit merge is worse than a missing value.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "n/a", "na", "null", "-", "nil":
		return nil
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", "%", "", " ", "").Replace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if neg {
		f = -f
	}
	return &f
}
