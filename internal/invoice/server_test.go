package invoice

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/daviniapd/Voltix-back/internal/pipeline"
)

var _ = Describe("Server", func() {
	var (
		db          *mockDB
		runner      *mockRunner
		storage     *mockStorage
		service     *Service
		auth        BasicAuth
		server      *Server
		ghttpServer *ghttp.Server
	)

	BeforeEach(func() {
		db = newMockDB()
		runner = newMockRunner()
		storage = newMockStorage()
		auth = BasicAuth{}
	})

	JustBeforeEach(func() {
		service = NewServiceWithDeps(db, runner, storage, &mockIDGenerator{id: "fixed-id"}, &mockTimeSource{})
		server = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	uploadRequest := func(filename, contentType string, data []byte) *http.Response {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/invoices", &body)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("POST /api/invoices", func() {
		When("the document processes successfully", func() {
			It("should return the processed invoice", func() {
				resp := uploadRequest("factura.pdf", "application/pdf", []byte("%PDF-"))
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var body map[string]any
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				Expect(body["status"]).To(Equal("success"))
				Expect(body["id"]).To(Equal("fixed-id"))
				Expect(body["ocr_text"]).To(Equal("texto reconocido"))
				Expect(body).To(HaveKey("parsed_data"))
			})
		})

		When("the provider is not recognized", func() {
			BeforeEach(func() {
				runner.err = pipeline.ErrVendorNotRecognized
			})

			It("should return 422 with a user-facing message", func() {
				resp := uploadRequest("factura.pdf", "application/pdf", []byte("%PDF-"))
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

				var errBody map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&errBody)).To(Succeed())
				Expect(errBody["status"]).To(Equal("error"))
				Expect(errBody["message"]).To(ContainSubstring("Provider not recognized"))
			})
		})

		When("a pipeline stage fails", func() {
			BeforeEach(func() {
				runner.err = &pipeline.StageError{Stage: pipeline.StageRecognize, Err: errors.New("tesseract crashed")}
			})

			It("should return 500 naming the stage", func() {
				resp := uploadRequest("factura.pdf", "application/pdf", []byte("%PDF-"))
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))

				var errBody map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&errBody)).To(Succeed())
				Expect(errBody["message"]).To(ContainSubstring("recognize"))
			})
		})

		When("the invoice cannot be persisted", func() {
			BeforeEach(func() {
				db.saveErr = errors.New("bolt: disk full")
			})

			It("should return 500 with a generic message", func() {
				resp := uploadRequest("factura.pdf", "application/pdf", []byte("%PDF-"))
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))

				var errBody map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&errBody)).To(Succeed())
				Expect(errBody["status"]).To(Equal("error"))
				Expect(errBody["message"]).To(Equal("Internal server error"))
				Expect(errBody["message"]).NotTo(ContainSubstring("disk full"))
			})
		})

		When("no file is provided", func() {
			It("should return 400", func() {
				var body bytes.Buffer
				writer := multipart.NewWriter(&body)
				Expect(writer.Close()).To(Succeed())

				req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/invoices", &body)
				Expect(err).NotTo(HaveOccurred())
				req.Header.Set("Content-Type", writer.FormDataContentType())
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("GET /api/invoices", func() {
		When("invoices exist", func() {
			BeforeEach(func() {
				db.invoices["inv-1"] = &Invoice{ID: "inv-1"}
			})

			It("should return the invoice list", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var invoices []*Invoice
				Expect(json.NewDecoder(resp.Body).Decode(&invoices)).To(Succeed())
				Expect(invoices).To(HaveLen(1))
				Expect(invoices[0].ID).To(Equal("inv-1"))
			})
		})

		When("the database fails", func() {
			BeforeEach(func() {
				db.listErr = errors.New("boom")
			})

			It("should return 500", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			})
		})
	})

	Describe("GET /api/invoices/{id}", func() {
		BeforeEach(func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1"}
		})

		It("should return the invoice", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices/inv-1")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var invoice Invoice
			Expect(json.NewDecoder(resp.Body).Decode(&invoice)).To(Succeed())
			Expect(invoice.ID).To(Equal("inv-1"))
		})

		It("should return 404 for an unknown invoice", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices/missing")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /api/invoices/{id}/image", func() {
		BeforeEach(func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1", ImagePath: "inv-1.png"}
			storage.files["inv-1.png"] = []byte("png-data")
		})

		It("should return the preview with PNG content type", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices/inv-1/image")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("image/png"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(Equal([]byte("png-data")))
		})
	})

	Describe("DELETE /api/invoices/{id}", func() {
		BeforeEach(func() {
			db.invoices["inv-1"] = &Invoice{ID: "inv-1", ImagePath: "inv-1.png"}
			storage.files["inv-1.png"] = []byte("png")
		})

		It("should delete the invoice", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/invoices/inv-1", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(db.invoices).To(BeEmpty())
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "secret"}
		})

		It("should reject requests without credentials", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/invoices")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("should accept requests with valid credentials", func() {
			req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/invoices", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("user:secret")))
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("should reject requests with wrong credentials", func() {
			req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/invoices", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("user:wrong")))
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})
	})
})
