package extract

import "strings"

// Endesa invoice grammar. Endesa layouts read best on the flattened text
// view; only the customer-name block and the consumption total depend on the
// original line structure.
var (
	endesaNombreRe       = mustCI(`Titular del contrato:\s*(.*?)\s*\n\nCUPS:`)
	endesaReferenciaRe   = must(`Referencia:\s*([\w\/-]+)`)
	endesaEmisionRe      = mustCI(`Fecha emisión factur[a|:]*\s*(\d{2}/\d{2}/\d{4})`)
	endesaPeriodoIniRe   = must(`Periodo de facturación: del\s*(\d{2}/\d{2}/\d{4})`)
	endesaPeriodoFinRe   = must(`a\s*(\d{2}/\d{2}/\d{4})`)
	endesaDiasRe         = must(`\((\d+)\s*días\)`)
	endesaCargoRe        = must(`Fecha de cargo:\s*(\d{2})\s*de\s*(\w+)\s*de\s*(\d{4})`)
	endesaMandatoRe      = must(`Cod\.?Mandato:\s*(\w+)`)
	endesaPotenciaRe     = must(`Potencia.*? (\d{1,3}(?:\.\d{3})*,\d{2}) €`)
	endesaEnergiaRe      = must(`Energía\s+(\d{1,3}(?:\.\d{3})*,\d{2})`)
	endesaDescuentosRe   = must(`Descuentos.*? (-?\d{1,3}(?:\.\d{3})*,\d{2}) €`)
	endesaImpuestosRe    = must(`Impuestos.*? (\d{1,3}(?:\.\d{3})*,\d{2}) €`)
	endesaTotalRe        = must(`Total.*? (\d{1,3}(?:\.\d{3})*,\d{2}) €`)
	endesaConsumoTotalRe = must(`Consumo Total\s*\n\s*(\d{1,3}(?:,\d{3})+)`)
	endesaPrecioRe       = must(`ha salido a\s*([\d,\.]+) €/kWh`)
	endesaFormaPagoRe    = mustCI(`Forma de pago:\s*([^\d\n]*)`)
)

type endesaExtractor struct{}

func (endesaExtractor) Vendor() Vendor { return VendorEndesa }

func (endesaExtractor) Extract(combinedText string) *Record {
	return runRules(combinedText, endesaRules)
}

var endesaRules = []rule{
	{"nombre_cliente", func(doc Document, rec *Record) {
		if m := endesaNombreRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.NombreCliente = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"numero_referencia", func(doc Document, rec *Record) {
		if m := endesaReferenciaRe.FindStringSubmatch(doc.Flat); m != nil {
			rec.NumeroReferencia = strPtr(strings.TrimSpace(m[1]))
		}
	}},
	{"fecha_emision", func(doc Document, rec *Record) {
		if m := endesaEmisionRe.FindStringSubmatch(doc.Flat); m != nil {
			rec.FechaEmision = normalizeDate(m[1])
		}
	}},
	{"periodo_inicio", func(doc Document, rec *Record) {
		if m := endesaPeriodoIniRe.FindStringSubmatch(doc.Flat); m != nil {
			rec.Periodo.Inicio = normalizeDate(m[1])
		}
	}},
	{"periodo_fin", func(doc Document, rec *Record) {
		if m := endesaPeriodoFinRe.FindStringSubmatch(doc.Flat); m != nil {
			rec.Periodo.Fin = normalizeDate(m[1])
		}
	}},
	{"dias", func(doc Document, rec *Record) {
		if m := endesaDiasRe.FindStringSubmatch(doc.Flat); m != nil {
			rec.Periodo.Dias = atoiPtr(m[1])
		}
	}},
	{"fecha_cargo", func(doc Document, rec *Record) {
		if m := endesaCargoRe.FindStringSubmatch(doc.Flat); m != nil {
			rec.FechaCargo = monthNameDate(m[1], m[2], m[3])
		}
	}},
	{"mandato", func(doc Document, rec *Record) {
		if m := endesaMandatoRe.FindStringSubmatch(doc.Flat); m != nil {
			rec.Mandato = strPtr(m[1])
		}
	}},
	{"costo_potencia", func(doc Document, rec *Record) {
		rec.Cargos.CostoPotencia = spanishAmount(endesaPotenciaRe, doc.Flat)
	}},
	{"costo_energia", func(doc Document, rec *Record) {
		rec.Cargos.CostoEnergia = spanishAmount(endesaEnergiaRe, doc.Flat)
	}},
	{"descuentos", func(doc Document, rec *Record) {
		rec.Cargos.Descuentos = spanishAmount(endesaDescuentosRe, doc.Flat)
	}},
	{"impuestos", func(doc Document, rec *Record) {
		rec.Cargos.Impuestos = spanishAmount(endesaImpuestosRe, doc.Flat)
	}},
	{"total_a_pagar", func(doc Document, rec *Record) {
		rec.Cargos.TotalAPagar = spanishAmount(endesaTotalRe, doc.Flat)
	}},
	// The peak consumption figure has no reliable label of its own; it is the
	// last amount printed before the word "llano" in the consumption table.
	{"consumo_punta", func(doc Document, rec *Record) {
		rec.Consumo.ConsumoPunta = lastNumberBefore(doc.Flat, "llano")
	}},
	// Off-peak consumption sits three amounts before the sixth occurrence of
	// "potencia" in the consumption table.
	{"consumo_valle", func(doc Document, rec *Record) {
		numbers := numbersBeforeOccurrence(doc.Flat, "potencia", 6)
		if len(numbers) < 3 {
			return
		}
		if f, ok := parseSpanishNumber(numbers[len(numbers)-3]); ok {
			rec.Consumo.ConsumoValle = floatPtr(f)
		}
	}},
	// Total consumption is printed as a comma-grouped figure on the line
	// below the "Consumo Total" heading; the final digit group is decimals.
	{"consumo_total", func(doc Document, rec *Record) {
		if m := endesaConsumoTotalRe.FindStringSubmatch(doc.Raw); m != nil {
			if f, ok := parseGroupedInteger(m[1]); ok {
				rec.Consumo.ConsumoTotal = floatPtr(f)
			}
		}
	}},
	{"precio_efectivo_energia", func(doc Document, rec *Record) {
		if m := endesaPrecioRe.FindStringSubmatch(doc.Flat); m != nil {
			if f, ok := parseCommaDecimal(m[1]); ok {
				rec.Consumo.PrecioEfectivoEnergia = floatPtr(f)
			}
		}
	}},
	{"forma_pago", func(doc Document, rec *Record) {
		if m := endesaFormaPagoRe.FindStringSubmatch(doc.Raw); m != nil {
			rec.FormaPago = strPtr(strings.TrimSpace(m[1]))
		}
	}},
}
