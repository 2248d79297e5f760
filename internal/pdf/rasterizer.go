// Package pdf renders PDF documents into JPEG page images using mupdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"

	"invoicebot/internal/imaging"
)

type Options struct {
	DPI         int // render resolution; 72 is the PDF baseline
	MaxPages    int // pages beyond this are skipped, 0 means no cap
	JPEGQuality int
}

// Result carries the rendered pages. Truncated reports how many trailing
// pages were skipped because of MaxPages so callers can surface it.
type Result struct {
	Images    []imaging.Image
	PageCount int
	Truncated int
}

// Rasterize renders up to opts.MaxPages pages of the PDF at opts.DPI and
// encodes each as a JPEG data URL. A document with zero pages yields an
// empty Images slice and no error; callers must treat that as "no pages
// rendered", not success. Invalid PDF bytes fail with an open error.
func Rasterize(ctx context.Context, pdfBytes []byte, opts Options) (Result, error) {
	if opts.DPI <= 0 {
		opts.DPI = 200
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 85
	}

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	render := total
	if opts.MaxPages > 0 && render > opts.MaxPages {
		render = opts.MaxPages
	}

	res := Result{
		Images:    make([]imaging.Image, 0, render),
		PageCount: total,
		Truncated: total - render,
	}
	for page := 0; page < render; page++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(page, float64(opts.DPI))
		if err != nil {
			return Result{}, fmt.Errorf("render page %d: %w", page+1, err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
			return Result{}, fmt.Errorf("encode page %d: %w", page+1, err)
		}
		res.Images = append(res.Images, imaging.Encode(buf.Bytes(), "image/jpeg"))
	}
	return res, nil
}
