package extract

import (
	"math"
	"regexp"
	"strings"
)

// Iberdrola invoice grammar. Iberdrola layouts depend on the blank-line
// structure of the OCR output (labels and values land on separate lines), so
// nearly every rule matches against the raw text view. Amounts on these
// invoices never group thousands with dots; the comma is always the decimal
// separator.
var (
	iberdrolaNombreRe     = must(`(?:\n)([A-Z\s]+)\n.*Potencia punta`)
	iberdrolaReferenciaRe = must(`N\* DE CONTRATO:\s*([\d]+)`)
	iberdrolaEmisionRe    = must(`(?s)FECHA DE EMISIÓN:.*?\n\n.*?\n\n(\d{1,2})\s+de\s+(\w+)\s+de\s+(\d{4})`)
	iberdrolaPeriodoRe    = must(`(?s)PERIODO DE FACTURACIÓN.*?\n\n(\d{1,2}/\d{1,2}/\d{4})\s+(\d{1,2}/\d{1,2}/\d{4})`)
	iberdrolaDiasRe       = must(`(?s)FECHA DE EMISIÓN:.*?\n\n.*?\n\n(\d+)`)
	iberdrolaFormaPagoRe  = must(`Forma de pago\s*([^\n]+)`)
	iberdrolaCargoRe      = must(`FECHA PREVISTA DE COBRO:\s*(\d{2}/\d{2}/\d{4})`)
	iberdrolaMandatoRe    = must(`Codigo de mandato\s*([\d]+)`)
	iberdrolaPuntaRe      = must(`([\d,\.]+)\s*€\s*\n\n\s*Valle`)
	iberdrolaValleRe      = must(`([\d,\.]+)\s*€\s*\n\n\s*Total importe potencia`)
	iberdrolaEnergiaRe    = must(`([\d,\.]+)\s*€\s*\n\n\s*Energia consumida`)
	iberdrolaDescuentosRe = must(`Descuentos.*?(-?\d{1,3},\d{2}) €`)
	iberdrolaImpuestos1Re = must(`([\d,\.]+)\s*€\s*\n\n\s*TOTAL ENERGÍA`)
	iberdrolaImpuestos2Re = must(`([\d,\.]+)\s*€\s*\n\n\s*TOTAL IMPORTE FACTURA`)
	iberdrolaTotalRe      = must(`TOTAL IMPORTE FACTURA\s*\n\n\s*([\d,\.]+)\s*€`)
	iberdrolaConsPuntaRe  = mustCI(`desagregados han sido punta:\s*([\d,\.]+)\s*kWh`)
	iberdrolaConsValleRe  = mustCI(`([\d,\.]+)\s*kWh,\s*\n=4\s*\nLas potencias máximas demandadas`)
	iberdrolaConsTotalRe  = must(`(\d{1,3},\d{2})\s*kWh`)
	iberdrolaPrecioRe     = must(`([\d,\.]+)\s*€/kWh`)
)

type iberdrolaExtractor struct{}

func (iberdrolaExtractor) Vendor() Vendor { return VendorIberdrola }

func (iberdrolaExtractor) Extract(combinedText string) *Record {
	return runRules(combinedText, iberdrolaRules)
}

var iberdrolaRules = []rule{
	{"nombre_cliente", func(doc Document, rec *Record) {
		if m := iberdrolaNombreRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.NombreCliente = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"numero_referencia", func(doc Document, rec *Record) {
		if m := iberdrolaReferenciaRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.NumeroReferencia = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"fecha_emision", func(doc Document, rec *Record) {
		if m := iberdrolaEmisionRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.FechaEmision = monthNameDate(m[1], m[2], m[3])
		}
	}},
	{"periodo_facturacion", func(doc Document, rec *Record) {
		if m := iberdrolaPeriodoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.Periodo.Inicio = normalizeDate(m[1])
			rec.Periodo.Fin = normalizeDate(m[2])
		}
	}},
	{"dias", func(doc Document, rec *Record) {
		if m := iberdrolaDiasRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.Periodo.Dias = atoiPtr(m[1])
		}
	}},
	{"forma_pago", func(doc Document, rec *Record) {
		if m := iberdrolaFormaPagoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.FormaPago = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"fecha_cargo", func(doc Document, rec *Record) {
		if m := iberdrolaCargoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.FechaCargo = normalizeDate(m[1])
		}
	}},
	{"mandato", func(doc Document, rec *Record) {
		if m := iberdrolaMandatoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.Mandato = strPtr(m[1])
		}
	}},
	// Iberdrola splits the power charge into peak and off-peak partial
	// amounts printed in cents; the record's power cost is their sum rounded
	// to two decimals. Missing either partial treats it as zero; missing
	// both leaves the field null.
	{"costo_potencia", func(doc Document, rec *Record) {
		punta := centsAmount(iberdrolaPuntaRe, doc.Raw)
		valle := centsAmount(iberdrolaValleRe, doc.Raw)
		if punta == nil && valle == nil {
			return
		}
		total := deref(punta) + deref(valle)
		rec.Cargos.CostoPotencia = floatPtr(math.Round(total*100) / 100)
	}},
	{"costo_energia", func(doc Document, rec *Record) {
		rec.Cargos.CostoEnergia = commaAmount(iberdrolaEnergiaRe, doc.Raw)
	}},
	{"descuentos", func(doc Document, rec *Record) {
		rec.Cargos.Descuentos = commaAmount(iberdrolaDescuentosRe, doc.Raw)
	}},
	// Taxes appear as two partial amounts, one before the energy total and
	// one before the invoice total.
	{"impuestos", func(doc Document, rec *Record) {
		v1 := commaAmount(iberdrolaImpuestos1Re, doc.Raw)
		v2 := commaAmount(iberdrolaImpuestos2Re, doc.Raw)
		if v1 == nil && v2 == nil {
			return
		}
		rec.Cargos.Impuestos = floatPtr(deref(v1) + deref(v2))
	}},
	{"total_a_pagar", func(doc Document, rec *Record) {
		rec.Cargos.TotalAPagar = commaAmount(iberdrolaTotalRe, doc.Raw)
	}},
	{"consumo_punta", func(doc Document, rec *Record) {
		m := iberdrolaConsPuntaRe.FindStringSubmatch(doc.Raw)
		if m == nil {
			return
		}
		s := strings.ReplaceAll(m[1], ",", "")
		if f, ok := parseCommaDecimal(s); ok {
			rec.Consumo.ConsumoPunta = floatPtr(math.Round(f*100) / 100)
		}
	}},
	{"consumo_valle", func(doc Document, rec *Record) {
		rec.Consumo.ConsumoValle = commaAmount(iberdrolaConsValleRe, doc.Raw)
	}},
	{"consumo_total", func(doc Document, rec *Record) {
		rec.Consumo.ConsumoTotal = commaAmount(iberdrolaConsTotalRe, doc.Raw)
	}},
	{"precio_efectivo_energia", func(doc Document, rec *Record) {
		rec.Consumo.PrecioEfectivoEnergia = commaAmount(iberdrolaPrecioRe, doc.Raw)
	}},
}

// centsAmount parses a comma-decimal capture printed in cents, shifting the
// decimal point two places left.
func centsAmount(re *regexp.Regexp, text string) *float64 {
	v := commaAmount(re, text)
	if v == nil {
		return nil
	}
	return floatPtr(*v / 100)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
