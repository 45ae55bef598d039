package extract

import (
	"regexp"
	"strconv"
)

// Document carries two views of the combined OCR text: the raw text with its
// original line structure, and a flattened view with all whitespace runs
// collapsed to single spaces. Some vendors' layouts only match reliably on
// one view or the other.
type Document struct {
	Raw  string
	Flat string
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NewDocument builds both text views from the combined OCR text.
func NewDocument(combinedText string) Document {
	return Document{
		Raw:  combinedText,
		Flat: whitespaceRe.ReplaceAllString(combinedText, " "),
	}
}

// rule is one field extraction step. Rules are independent: a rule that finds
// no match leaves its target field untouched, and extraction continues with
// the next rule. No rule may abort the record.
type rule struct {
	field string
	apply func(doc Document, rec *Record)
}

// Extractor maps combined OCR text to a structured record for one vendor.
type Extractor interface {
	Vendor() Vendor
	Extract(combinedText string) *Record
}

// ForVendor returns the extractor for a classified vendor. It must not be
// called with VendorUnrecognized.
func ForVendor(v Vendor) Extractor {
	switch v {
	case VendorEndesa:
		return endesaExtractor{}
	case VendorIberdrola:
		return iberdrolaExtractor{}
	case VendorLidera:
		return lideraExtractor{}
	case VendorNaturgy:
		return naturgyExtractor{}
	case VendorEDistribucion:
		return eDistribucionExtractor{}
	}
	return nil
}

// runRules evaluates an ordered rule list over the combined text and
// assembles a record, continuing past every miss.
func runRules(combinedText string, rules []rule) *Record {
	doc := NewDocument(combinedText)
	rec := &Record{}
	for _, r := range rules {
		r.apply(doc, rec)
	}
	return rec
}

func must(pattern string) *regexp.Regexp { return regexp.MustCompile(pattern) }

// mustCI compiles a case-insensitive pattern.
func mustCI(pattern string) *regexp.Regexp { return regexp.MustCompile(`(?i)` + pattern) }

// spanishAmount applies a single-capture pattern and parses the capture as a
// Spanish-locale amount. Returns nil on a miss or an unparsable capture.
func spanishAmount(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	f, ok := parseSpanishNumber(m[1])
	if !ok {
		return nil
	}
	return floatPtr(f)
}

// commaAmount is spanishAmount for grammars whose amounts carry no thousands
// separator, only a decimal comma.
func commaAmount(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	f, ok := parseCommaDecimal(m[1])
	if !ok {
		return nil
	}
	return floatPtr(f)
}

func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return intPtr(n)
}
