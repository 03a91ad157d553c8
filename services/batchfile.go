package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/credline/backoffice-api/models"
)

// Delimiters recognized in uploaded collection files, in priority order.
// Detection looks at the first line only; the winner applies to every line.
const dashDelimiter = " - "

// BatchParseResult is the outcome of parsing one uploaded batch file.
// Unparsable lines are never fatal; they only show up in SkippedLines.
type BatchParseResult struct {
	Entries       map[string]decimal.Decimal
	Delimiter     string
	HeaderSkipped bool
	TotalLines    int
	ParsedLines   int
	SkippedLines  int
}

// ParseBatch parses a "credit number <delim> amount" text file into a
// key→amount map. Keys are trimmed and upper-cased; a credit listed on
// several lines (partial payments from different periods) has its amounts
// summed, never overwritten.
func ParseBatch(content string) BatchParseResult {
	result := BatchParseResult{Entries: make(map[string]decimal.Decimal)}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return result
	}

	result.Delimiter = detectDelimiter(lines[0])
	result.TotalLines = len(lines)

	for i, line := range lines {
		fields := splitFields(line, result.Delimiter)

		if i == 0 && isHeaderLine(fields) {
			result.HeaderSkipped = true
			result.TotalLines--
			continue
		}

		if len(fields) < 2 {
			result.SkippedLines++
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(fields[0]))
		if key == "" {
			result.SkippedLines++
			continue
		}

		amount, err := ParseAmount(fields[1])
		if err != nil {
			result.SkippedLines++
			continue
		}

		if existing, ok := result.Entries[key]; ok {
			result.Entries[key] = Round2(existing.Add(amount))
		} else {
			result.Entries[key] = amount
		}
		result.ParsedLines++
	}

	return result
}

// EntryList returns the parsed mapping as a slice, for callers that want a
// stable payload shape instead of a map.
func (r BatchParseResult) EntryList() []models.BatchEntry {
	entries := make([]models.BatchEntry, 0, len(r.Entries))
	for key, amount := range r.Entries {
		entries = append(entries, models.BatchEntry{Key: key, Amount: amount})
	}
	return entries
}

func detectDelimiter(firstLine string) string {
	switch {
	case strings.Contains(firstLine, ";"):
		return ";"
	case strings.Contains(firstLine, "\t"):
		return "\t"
	case strings.Contains(firstLine, ","):
		return ","
	default:
		return dashDelimiter
	}
}

func splitFields(line, delimiter string) []string {
	fields := strings.Split(line, delimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// isHeaderLine recognizes the optional "Credito;Valor" style header some
// payroll systems prepend to the file.
func isHeaderLine(fields []string) bool {
	if len(fields) < 2 {
		return false
	}
	first := strings.ToLower(fields[0])
	second := strings.ToLower(fields[1])
	return strings.Contains(first, "credito") && strings.Contains(second, "valor")
}
