package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/webp"
)

// Resize crops the image to the target aspect ratio (centered) and scales it
// down into the width x height box, never upscaling a smaller source. The
// result overwrites the blob, re-encoded as JPEG at the given quality except
// for PNG sources which stay PNG.
func (s *LocalStore) Resize(ref string, width, height, quality int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid resize box %dx%d", width, height)
	}
	p := s.path(ref)
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("read blob: %w", err)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode blob: %w", err)
	}

	crop := coverCrop(src.Bounds(), width, height)
	outW, outH := fitBox(crop.Dx(), crop.Dy(), width, height)

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(p), ".png") {
		err = png.Encode(&buf, dst)
	} else {
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return fmt.Errorf("encode blob: %w", err)
	}
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

// coverCrop returns the centered sub-rectangle of b with the same aspect
// ratio as the w x h target.
func coverCrop(b image.Rectangle, w, h int) image.Rectangle {
	sw, sh := b.Dx(), b.Dy()
	cw, ch := sw, sh
	if sw*h > sh*w {
		cw = sh * w / h
	} else {
		ch = sw * h / w
	}
	x0 := b.Min.X + (sw-cw)/2
	y0 := b.Min.Y + (sh-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}

// fitBox scales cw x ch down to fit w x h, keeping proportions and never
// enlarging.
func fitBox(cw, ch, w, h int) (int, int) {
	if cw <= w && ch <= h {
		return cw, ch
	}
	if cw*h > ch*w {
		return w, max(1, ch*w/cw)
	}
	return max(1, cw*h/ch), h
}
