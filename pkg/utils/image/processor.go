package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// Listing photos are scaled to fit within these bounds.
const (
	MaxWidth      = 1200
	MaxHeight     = 800
	WebPQuality   = 80
	WebPMediaType = "image/webp"
)

// Compress decodes a JPEG, PNG, GIF or WebP image, scales it down to fit
// MaxWidth x MaxHeight keeping the aspect ratio and re-encodes it as lossy
// WebP. Images already inside the bounds are not upscaled.
func Compress(data []byte) (*bytes.Buffer, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %w", err)
	}

	img := fit(src, MaxWidth, MaxHeight)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: WebPQuality}); err != nil {
		return nil, "", fmt.Errorf("could not encode image: %w", err)
	}
	return buf, WebPMediaType, nil
}

// FitSize returns the largest size with the aspect ratio of w x h that fits
// within maxW x maxH.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

func fit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
