package extract

// Naturgy and E-Distribución grammars are not implemented yet. Their
// extractors return a fixed placeholder record with Placeholder set so that
// callers can tell a stub apart from genuinely extracted data.

func placeholderRecord(customerName string) *Record {
	return &Record{
		NombreCliente:    strPtr(customerName),
		NumeroReferencia: strPtr("XXXXXXXXX"),
		FechaEmision:     strPtr("1990-01-01"),
		Periodo: BillingPeriod{
			Inicio: strPtr("1990-01-01"),
			Fin:    strPtr("1990-01-01"),
			Dias:   intPtr(0),
		},
		FormaPago:  strPtr("teste forma de pago"),
		FechaCargo: strPtr("1990-01-01"),
		Mandato:    strPtr("XXXXXXXXX"),
		Cargos: Charges{
			CostoPotencia: floatPtr(0),
			CostoEnergia:  floatPtr(0),
			Descuentos:    floatPtr(0),
			Impuestos:     floatPtr(0),
			TotalAPagar:   floatPtr(0),
		},
		Consumo: Consumption{
			ConsumoPunta:          floatPtr(0),
			ConsumoValle:          floatPtr(0),
			ConsumoTotal:          floatPtr(0),
			PrecioEfectivoEnergia: floatPtr(0),
		},
		Placeholder: true,
	}
}

type naturgyExtractor struct{}

func (naturgyExtractor) Vendor() Vendor { return VendorNaturgy }

func (naturgyExtractor) Extract(string) *Record {
	return placeholderRecord("NATURGY TESTE")
}

type eDistribucionExtractor struct{}

func (eDistribucionExtractor) Vendor() Vendor { return VendorEDistribucion }

func (eDistribucionExtractor) Extract(string) *Record {
	return placeholderRecord("E-DISTRIBUCIÓN TESTE")
}
