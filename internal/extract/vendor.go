package extract

import "strings"

// Vendor identifies the retail energy provider (comercializadora) that issued
// an invoice.
type Vendor string

const (
	VendorEndesa        Vendor = "endesa"
	VendorIberdrola     Vendor = "iberdrola"
	VendorLidera        Vendor = "lidera"
	VendorNaturgy       Vendor = "naturgy"
	VendorEDistribucion Vendor = "e-distribucion"
	VendorUnrecognized  Vendor = "unrecognized"
)

// vendorMarkers pairs each vendor with the marker substring that identifies
// its invoices. Order matters: classification returns the first match, and
// the markers are chosen so that no two vendors' markers appear in the same
// document's text.
var vendorMarkers = []struct {
	vendor Vendor
	marker string
}{
	{VendorEndesa, "endesa"},
	{VendorIberdrola, "iberdrola"},
	{VendorLidera, "lidera comercializadora energia"},
	{VendorNaturgy, "naturgy iberia"},
	{VendorEDistribucion, "e-distribución"},
}

// Classify determines which vendor issued the invoice by testing
// case-insensitive marker containment against the combined OCR text, in
// fixed priority order. Returns VendorUnrecognized when no marker matches.
func Classify(combinedText string) Vendor {
	lower := strings.ToLower(combinedText)
	for _, m := range vendorMarkers {
		if strings.Contains(lower, m.marker) {
			return m.vendor
		}
	}
	return VendorUnrecognized
}
