package pipeline

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer extracts text from a preprocessed page image.
type Recognizer interface {
	Recognize(ctx context.Context, pngData []byte) (string, error)
}

// TesseractRecognizer runs Tesseract in sparse-text mode. Invoice layouts
// scatter labels and values across columns and boxes, so sparse text finds
// far more fields than the default block segmentation.
type TesseractRecognizer struct {
	language      string
	clientFactory func() *gosseract.Client
}

// NewTesseractRecognizer creates a recognizer for the given Tesseract
// language code (e.g. "spa").
func NewTesseractRecognizer(language string) *TesseractRecognizer {
	return &TesseractRecognizer{
		language:      language,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize runs OCR on a single PNG page. A fresh Tesseract client is
// created per call; gosseract clients are not safe for concurrent use.
func (r *TesseractRecognizer) Recognize(ctx context.Context, pngData []byte) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		client := r.clientFactory()
		defer client.Close()

		if err := client.SetLanguage(r.language); err != nil {
			done <- result{err: fmt.Errorf("setting language %q: %w", r.language, err)}
			return
		}
		if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
			done <- result{err: fmt.Errorf("setting page segmentation mode: %w", err)}
			return
		}
		if err := client.SetImageFromBytes(pngData); err != nil {
			done <- result{err: fmt.Errorf("loading image: %w", err)}
			return
		}

		text, err := client.Text()
		if err != nil {
			done <- result{err: fmt.Errorf("recognizing text: %w", err)}
			return
		}
		done <- result{text: text}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.text, res.err
	}
}
