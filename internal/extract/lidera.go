package extract

import (
	"math"
	"strings"
)

// Lidera invoice grammar. Several label patterns carry OCR artifacts verbatim
// ("Fecha emi\n\nn factura" is how Tesseract reads "Fecha emisión factura" on
// this layout); they are the anchors that actually occur in recognized text.
var (
	lideraNombreRe     = must(`Titular del contrato:\s*(.*?)\n`)
	lideraReferenciaRe = must(`Referencia del contrato de sumi\n\ntro \(LIDERA COMERCIALIZADORA ENERGIA\):\s*(.+)`)
	lideraEmisionRe    = must(`Fecha emi\n\nn factura:\s*(.+)`)
	lideraMonthDateRe  = must(`(\d{1,2})\s+de\s+(\w+)\s+de\s+(\d{4})`)
	lideraPeriodoRe    = must(`Periodo de consumo:\n\nDe\s*(\d{1,2}/\d{1,2}/\d{4})\s*al\s*(\d{1,2}/\d{1,2}/\d{4})`)
	lideraDiasRe       = must(`(\d+)\s+Días`)
	lideraFormaPagoRe  = must(`Forma de pago:\s*(.+)`)
	lideraCargoRe      = must(`Fecha de cargo:\n\n(\d{2}/\d{2}/\d{4})`)
	lideraDetalleRe    = mustCI(`DETALLE DE LA FACTURA`)
	lideraPotenciaRe   = mustCI(`Días.*?[€E]/KW día\n\n([\d,\.]+)`)
	lideraImpuestosRe  = mustCI(`Impuesto Electricidad\n\n([\d.,]+)`)
	lideraTotalRe      = mustCI(`TOTAL IMPORTE FACTURA\n\n([\d.,]+)`)
)

// Lidera invoices carry no SEPA mandate code; the record states that
// explicitly instead of leaving the field null.
const lideraNoMandato = "SIN CODIGO DE MANDATO"

type lideraExtractor struct{}

func (lideraExtractor) Vendor() Vendor { return VendorLidera }

func (lideraExtractor) Extract(combinedText string) *Record {
	return runRules(combinedText, lideraRules)
}

var lideraRules = []rule{
	{"nombre_cliente", func(doc Document, rec *Record) {
		if m := lideraNombreRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.NombreCliente = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"numero_referencia", func(doc Document, rec *Record) {
		if m := lideraReferenciaRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.NumeroReferencia = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"fecha_emision", func(doc Document, rec *Record) {
		m := lideraEmisionRe.FindStringSubmatch(doc.Raw)
		if m == nil {
			return
		}
		if d := lideraMonthDateRe.FindStringSubmatch(strings.TrimSpace(m[1])); d != nil {
			rec.FechaEmision = monthNameDate(d[1], d[2], d[3])
		}
	}},
	{"periodo_facturacion", func(doc Document, rec *Record) {
		if m := lideraPeriodoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.Periodo.Inicio = normalizeDate(m[1])
			rec.Periodo.Fin = normalizeDate(m[2])
		}
	}},
	{"dias", func(doc Document, rec *Record) {
		if m := lideraDiasRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.Periodo.Dias = atoiPtr(m[1])
		}
	}},
	{"forma_pago", func(doc Document, rec *Record) {
		if m := lideraFormaPagoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.FormaPago = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"fecha_cargo", func(doc Document, rec *Record) {
		if m := lideraCargoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.FechaCargo = normalizeDate(m[1])
		}
	}},
	{"mandato", func(doc Document, rec *Record) {
		rec.Mandato = strPtr(lideraNoMandato)
	}},
	// The power charge is itemized: one per-day charge line per billed power
	// period under the DETALLE DE LA FACTURA section. The record's power cost
	// is the sum of every charge amount, rounded to two decimals.
	{"costo_potencia", func(doc Document, rec *Record) {
		loc := lideraDetalleRe.FindStringIndex(doc.Raw)
		if loc == nil {
			return
		}
		matches := lideraPotenciaRe.FindAllStringSubmatch(doc.Raw[loc[1]:], -1)
		if len(matches) == 0 {
			return
		}
		var total float64
		for _, m := range matches {
			if f, ok := parseCommaDecimal(m[1]); ok {
				total += f
			}
		}
		rec.Cargos.CostoPotencia = floatPtr(math.Round(total*100) / 100)
	}},
	{"impuestos", func(doc Document, rec *Record) {
		rec.Cargos.Impuestos = commaAmount(lideraImpuestosRe, doc.Raw)
	}},
	// The invoice total may print either in Spanish locale ("1.234,56") or
	// with plain comma grouping ("1,234.56") depending on scan quality; the
	// presence of a comma decides which convention applies.
	{"total_a_pagar", func(doc Document, rec *Record) {
		m := lideraTotalRe.FindStringSubmatch(doc.Raw)
		if m == nil {
			return
		}
		raw := m[1]
		var f float64
		var ok bool
		if strings.Contains(raw, ",") {
			f, ok = parseSpanishNumber(raw)
		} else {
			f, ok = parseCommaDecimal(strings.ReplaceAll(raw, ",", ""))
		}
		if ok {
			rec.Cargos.TotalAPagar = floatPtr(f)
		}
	}},
}
