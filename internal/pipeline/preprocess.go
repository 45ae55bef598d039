package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sort"

	"golang.org/x/image/draw"
)

const (
	claheClipLimit = 2.0
	claheTilesX    = 8
	claheTilesY    = 8
)

// Preprocess prepares a rasterized page for OCR: grayscale conversion,
// contrast-limited adaptive histogram equalization, denoising, and a sharpen
// pass. The output is always a grayscale PNG.
func Preprocess(pngData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decoding page image: %w", err)
	}

	gray := toGray(img)
	gray = clahe(gray, claheClipLimit, claheTilesX, claheTilesY)
	gray = medianDenoise(gray)
	gray = sharpen(gray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encoding preprocessed image: %w", err)
	}

	return buf.Bytes(), nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// clahe applies contrast-limited adaptive histogram equalization. The image
// is divided into a grid of tiles; each tile gets its own clipped-histogram
// equalization mapping, and per-pixel values are bilinearly interpolated
// between the four surrounding tile mappings to avoid visible tile seams.
func clahe(src *image.Gray, clipLimit float64, tilesX, tilesY int) *image.Gray {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return src
	}

	tileW := (width + tilesX - 1) / tilesX
	tileH := (height + tilesY - 1) / tilesY

	// Build a clipped-histogram CDF lookup table per tile.
	luts := make([][256]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := min(x0+tileW, width)
			y1 := min(y0+tileH, height)

			var hist [256]int
			pixels := 0
			for y := y0; y < y1; y++ {
				row := src.Pix[y*src.Stride:]
				for x := x0; x < x1; x++ {
					hist[row[x]]++
					pixels++
				}
			}
			if pixels == 0 {
				// Off-image tiles (the grid overshoots small images) take
				// the identity mapping so they never pull interpolated
				// border pixels toward black.
				lut := &luts[ty*tilesX+tx]
				for i := 0; i < 256; i++ {
					lut[i] = uint8(i)
				}
				continue
			}

			// Clip the histogram and redistribute the excess evenly.
			clip := int(clipLimit * float64(pixels) / 256.0)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i := range hist {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			spread := excess / 256
			remainder := excess % 256
			for i := range hist {
				hist[i] += spread
				if i < remainder {
					hist[i]++
				}
			}

			// Histogram to CDF lookup table.
			cdf := 0
			lut := &luts[ty*tilesX+tx]
			for i := 0; i < 256; i++ {
				cdf += hist[i]
				v := (cdf*255 + pixels/2) / pixels
				if v > 255 {
					v = 255
				}
				lut[i] = uint8(v)
			}
		}
	}

	dst := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := src.Pix[y*src.Stride+x]

			// Position relative to tile centers, for interpolation.
			fx := (float64(x) - float64(tileW)/2.0 + 0.5) / float64(tileW)
			fy := (float64(y) - float64(tileH)/2.0 + 0.5) / float64(tileH)

			tx0 := int(fx)
			ty0 := int(fy)
			if fx < 0 {
				tx0 = -1
			}
			if fy < 0 {
				ty0 = -1
			}
			wx := fx - float64(tx0)
			wy := fy - float64(ty0)

			tx1 := tx0 + 1
			ty1 := ty0 + 1
			tx0c := clampInt(tx0, 0, tilesX-1)
			tx1c := clampInt(tx1, 0, tilesX-1)
			ty0c := clampInt(ty0, 0, tilesY-1)
			ty1c := clampInt(ty1, 0, tilesY-1)

			p00 := float64(luts[ty0c*tilesX+tx0c][v])
			p10 := float64(luts[ty0c*tilesX+tx1c][v])
			p01 := float64(luts[ty1c*tilesX+tx0c][v])
			p11 := float64(luts[ty1c*tilesX+tx1c][v])

			top := p00*(1-wx) + p10*wx
			bottom := p01*(1-wx) + p11*wx
			dst.Pix[y*dst.Stride+x] = uint8(top*(1-wy) + bottom*wy + 0.5)
		}
	}

	return dst
}

// medianDenoise applies a 3x3 median filter, which removes salt-and-pepper
// scan noise without blurring character edges the way a box blur would.
func medianDenoise(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	dst := image.NewGray(bounds)

	var window [9]int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sx := clampInt(x+dx, 0, width-1)
					sy := clampInt(y+dy, 0, height-1)
					window[n] = int(src.Pix[sy*src.Stride+sx])
					n++
				}
			}
			sort.Ints(window[:])
			dst.Pix[y*dst.Stride+x] = uint8(window[4])
		}
	}

	return dst
}

// sharpen applies a 3x3 sharpening convolution (center 5, cross -1).
func sharpen(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	dst := image.NewGray(bounds)

	at := func(x, y int) int {
		return int(src.Pix[clampInt(y, 0, height-1)*src.Stride+clampInt(x, 0, width-1)])
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := 5*at(x, y) - at(x-1, y) - at(x+1, y) - at(x, y-1) - at(x, y+1)
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			dst.Pix[y*dst.Stride+x] = uint8(v)
		}
	}

	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
