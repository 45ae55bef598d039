package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// spanishMonths maps lowercase Spanish month names to their two-digit number.
var spanishMonths = map[string]string{
	"enero": "01", "febrero": "02", "marzo": "03", "abril": "04",
	"mayo": "05", "junio": "06", "julio": "07", "agosto": "08",
	"septiembre": "09", "octubre": "10", "noviembre": "11", "diciembre": "12",
}

// spanishNumberRe matches a Spanish-locale amount: optional dot-grouped
// thousands and a comma before two decimals, e.g. "1.234,56".
var spanishNumberRe = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})*,\d{2}`)

// parseSpanishNumber converts a Spanish-locale amount to a float:
// "1.234,56" -> 1234.56. Thousands dots are stripped and the decimal comma
// becomes a decimal point.
func parseSpanishNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseCommaDecimal converts an amount whose only separator is a decimal
// comma: "12,50" -> 12.50. Dots are left alone, so input that already uses a
// plain decimal point parses unchanged. Grammars whose source text never
// groups thousands with dots must use this instead of parseSpanishNumber.
func parseCommaDecimal(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseGroupedInteger converts a comma-grouped figure such as "1,112,537"
// by stripping the commas and treating the final group as decimals:
// "1,112,537" -> 1112.537.
func parseGroupedInteger(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if len(s) <= 3 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:len(s)-3]+"."+s[len(s)-3:], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// normalizeDate converts a dd/mm/yyyy date to yyyy-mm-dd. Single-digit day
// and month are accepted. Returns nil for anything unparsable.
func normalizeDate(s string) *string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return strPtr(t.Format("2006-01-02"))
		}
	}
	return nil
}

// monthNameDate builds a yyyy-mm-dd date from the parts of a Spanish
// "<day> de <month-name> de <year>" date. Returns nil when the month name is
// unknown.
func monthNameDate(day, monthName, year string) *string {
	month, ok := spanishMonths[strings.ToLower(monthName)]
	if !ok {
		return nil
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return strPtr(year + "-" + month + "-" + day)
}

// lastNumberBefore finds the first occurrence of anchor (case-insensitive)
// and returns the last Spanish-locale number preceding it. Used for fields
// whose own label is unreliable under OCR noise.
func lastNumberBefore(text, anchor string) *float64 {
	pos := strings.Index(strings.ToLower(text), strings.ToLower(anchor))
	if pos == -1 {
		return nil
	}
	numbers := spanishNumberRe.FindAllString(text[:pos], -1)
	if len(numbers) == 0 {
		return nil
	}
	if f, ok := parseSpanishNumber(numbers[len(numbers)-1]); ok {
		return floatPtr(f)
	}
	return nil
}

// numbersBeforeOccurrence returns all Spanish-locale numbers preceding the
// n-th (1-based) occurrence of word, or nil when the text has fewer
// occurrences than that.
func numbersBeforeOccurrence(text, word string, n int) []string {
	lower := strings.ToLower(text)
	word = strings.ToLower(word)
	pos := 0
	for i := 0; i < n; i++ {
		idx := strings.Index(lower[pos:], word)
		if idx == -1 {
			return nil
		}
		pos += idx
		if i < n-1 {
			pos += len(word)
		}
	}
	return spanishNumberRe.FindAllString(text[:pos], -1)
}
