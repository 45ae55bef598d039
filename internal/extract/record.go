package extract

// Record is the structured output of invoice field extraction. Every field is
// independently nullable: a rule that finds no match leaves its field nil and
// the record is still a valid result.
type Record struct {
	NombreCliente    *string       `json:"nombre_cliente"`
	NumeroReferencia *string       `json:"numero_referencia"`
	FechaEmision     *string       `json:"fecha_emision"` // yyyy-mm-dd
	Periodo          BillingPeriod `json:"periodo_facturacion"`
	FormaPago        *string       `json:"forma_pago"`
	FechaCargo       *string       `json:"fecha_cargo"` // yyyy-mm-dd
	Mandato          *string       `json:"mandato"`
	Cargos           Charges       `json:"desglose_cargos"`
	Consumo          Consumption   `json:"detalles_consumo"`

	// Placeholder marks records produced by vendors whose grammar is not
	// implemented yet. Callers must be able to tell a stub apart from a
	// genuinely extracted record.
	Placeholder bool `json:"placeholder,omitempty"`
}

// BillingPeriod is the billing period covered by the invoice.
type BillingPeriod struct {
	Inicio *string `json:"inicio"` // yyyy-mm-dd
	Fin    *string `json:"fin"`    // yyyy-mm-dd
	Dias   *int    `json:"dias"`
}

// Charges is the invoice charges breakdown in euros.
type Charges struct {
	CostoPotencia *float64 `json:"costo_potencia"`
	CostoEnergia  *float64 `json:"costo_energia"`
	Descuentos    *float64 `json:"descuentos"`
	Impuestos     *float64 `json:"impuestos"`
	TotalAPagar   *float64 `json:"total_a_pagar"`
}

// Consumption is the energy consumption detail block. Consumption figures are
// in kWh, the effective price in €/kWh.
type Consumption struct {
	ConsumoPunta          *float64 `json:"consumo_punta"`
	ConsumoValle          *float64 `json:"consumo_valle"`
	ConsumoTotal          *float64 `json:"consumo_total"`
	PrecioEfectivoEnergia *float64 `json:"precio_efectivo_energia"`
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
