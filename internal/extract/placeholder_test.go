package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("unimplemented vendor extractors", func() {
	It("returns the documented placeholder record for Naturgy", func() {
		rec := ForVendor(VendorNaturgy).Extract("factura de Naturgy Iberia S.A.")

		Expect(rec.Placeholder).To(BeTrue())
		Expect(rec.NombreCliente).To(HaveValue(Equal("NATURGY TESTE")))
		Expect(rec.NumeroReferencia).To(HaveValue(Equal("XXXXXXXXX")))
		Expect(rec.FechaEmision).To(HaveValue(Equal("1990-01-01")))
		Expect(rec.Periodo.Inicio).To(HaveValue(Equal("1990-01-01")))
		Expect(rec.Periodo.Fin).To(HaveValue(Equal("1990-01-01")))
		Expect(rec.Periodo.Dias).To(HaveValue(Equal(0)))
		Expect(rec.Cargos.TotalAPagar).To(HaveValue(Equal(0.0)))
		Expect(rec.Consumo.ConsumoTotal).To(HaveValue(Equal(0.0)))
	})

	It("returns the documented placeholder record for E-Distribución", func() {
		rec := ForVendor(VendorEDistribucion).Extract("factura de e-distribución")

		Expect(rec.Placeholder).To(BeTrue())
		Expect(rec.NombreCliente).To(HaveValue(Equal("E-DISTRIBUCIÓN TESTE")))
	})

	It("never marks implemented vendors as placeholders", func() {
		Expect(ForVendor(VendorEndesa).Extract("endesa").Placeholder).To(BeFalse())
		Expect(ForVendor(VendorIberdrola).Extract("iberdrola").Placeholder).To(BeFalse())
		Expect(ForVendor(VendorLidera).Extract("lidera").Placeholder).To(BeFalse())
	})
})
