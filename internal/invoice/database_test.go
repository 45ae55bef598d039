package invoice

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/daviniapd/Voltix-back/internal/extract"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newTestInvoice := func(id string) *Invoice {
		total := 123.45
		name := "MARIA GARCIA LOPEZ"
		return &Invoice{
			ID:       id,
			Filename: "factura.pdf",
			Vendor:   extract.VendorEndesa,
			Data: &extract.Record{
				NombreCliente: &name,
				Cargos:        extract.Charges{TotalAPagar: &total},
			},
			OCRText:   "texto",
			ImagePath: id + ".png",
			CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		}
	}

	Describe("SaveInvoice", func() {
		var err error

		JustBeforeEach(func() {
			err = db.SaveInvoice(newTestInvoice("test-id"))
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should round-trip the extracted record", func() {
				saved, getErr := db.GetInvoice("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Vendor).To(Equal(extract.VendorEndesa))
				Expect(saved.Data.NombreCliente).To(HaveValue(Equal("MARIA GARCIA LOPEZ")))
				Expect(saved.Data.Cargos.TotalAPagar).To(HaveValue(Equal(123.45)))
				Expect(saved.Data.FechaEmision).To(BeNil())
			})
		})
	})

	Describe("GetInvoice", func() {
		When("the invoice does not exist", func() {
			It("should return an error", func() {
				_, err := db.GetInvoice("missing")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not found"))
			})
		})
	})

	Describe("ListInvoices", func() {
		When("no invoices exist", func() {
			It("should return an empty slice", func() {
				invoices, err := db.ListInvoices()
				Expect(err).NotTo(HaveOccurred())
				Expect(invoices).To(BeEmpty())
			})
		})

		When("invoices exist", func() {
			BeforeEach(func() {
				Expect(db.SaveInvoice(newTestInvoice("a"))).To(Succeed())
				Expect(db.SaveInvoice(newTestInvoice("b"))).To(Succeed())
			})

			It("should return all of them", func() {
				invoices, err := db.ListInvoices()
				Expect(err).NotTo(HaveOccurred())
				Expect(invoices).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteInvoice", func() {
		BeforeEach(func() {
			Expect(db.SaveInvoice(newTestInvoice("test-id"))).To(Succeed())
		})

		It("should remove the invoice", func() {
			Expect(db.DeleteInvoice("test-id")).To(Succeed())
			_, err := db.GetInvoice("test-id")
			Expect(err).To(HaveOccurred())
		})
	})
})
