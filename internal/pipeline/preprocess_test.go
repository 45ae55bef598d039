package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func gradientPNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((x*7 + y*13) % 256)
			img.Set(x, y, color.RGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("Preprocess", func() {
	It("produces a grayscale PNG with the source dimensions", func() {
		out, err := Preprocess(gradientPNG(64, 48))
		Expect(err).NotTo(HaveOccurred())

		img, format, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal("png"))
		Expect(img.Bounds().Dx()).To(Equal(64))
		Expect(img.Bounds().Dy()).To(Equal(48))
		Expect(img).To(BeAssignableToTypeOf(&image.Gray{}))
	})

	It("is deterministic", func() {
		src := gradientPNG(32, 32)
		first, err := Preprocess(src)
		Expect(err).NotTo(HaveOccurred())
		second, err := Preprocess(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("spreads the intensity range of a low-contrast image", func() {
		// A narrow band of gray values around mid-tone.
		img := image.NewGray(image.Rect(0, 0, 64, 64))
		for y := 0; y < 64; y++ {
			for x := 0; x < 64; x++ {
				img.SetGray(x, y, color.Gray{Y: uint8(120 + (x+y)%16)})
			}
		}
		var buf bytes.Buffer
		Expect(png.Encode(&buf, img)).To(Succeed())

		out, err := Preprocess(buf.Bytes())
		Expect(err).NotTo(HaveOccurred())

		decoded, _, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		gray := decoded.(*image.Gray)

		lo, hi := 255, 0
		for _, p := range gray.Pix {
			if int(p) < lo {
				lo = int(p)
			}
			if int(p) > hi {
				hi = int(p)
			}
		}
		Expect(hi - lo).To(BeNumerically(">", 16))
	})

	It("leaves a uniform white image white even when the tile grid overshoots", func() {
		// 20x20 is smaller than the 8x8 tile grid needs, so the outermost
		// tiles cover no pixels at all.
		img := image.NewGray(image.Rect(0, 0, 20, 20))
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		var buf bytes.Buffer
		Expect(png.Encode(&buf, img)).To(Succeed())

		out, err := Preprocess(buf.Bytes())
		Expect(err).NotTo(HaveOccurred())

		decoded, _, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		gray := decoded.(*image.Gray)
		for _, p := range gray.Pix {
			Expect(p).To(Equal(uint8(255)))
		}
	})

	It("rejects data that is not an image", func() {
		_, err := Preprocess([]byte("definitely not a PNG"))
		Expect(err).To(HaveOccurred())
	})
})
