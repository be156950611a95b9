package images

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif" // decoder registration

	xdraw "golang.org/x/image/draw"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

const jpegQuality = 90

// isRaster reports whether the file has an extension the standard decoders
// handle. SVG and PDF figures pass through untouched.
func isRaster(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// transformImage decodes src, applies the job's bound and grayscale settings
// and writes the result into dir. Index keeps names unique when two
// references share a base name.
func transformImage(src, dir string, job Job, index int) (string, error) {
	f, err := os.Open(src) // #nosec G304 -- referenced by the user's document
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrImageTransform, src, err)
	}
	img, format, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return "", fmt.Errorf("%w: decoding %s: %v", ErrImageTransform, src, err)
	}

	if !job.MaxSize.IsZero() {
		img = fitWithin(img, job.MaxSize)
	}
	if job.ConvertBW {
		img = toGray(img)
	}

	if err := os.MkdirAll(dir, fileutil.DirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageTransform, err)
	}

	ext := ".png"
	if format == "jpeg" {
		ext = ".jpg"
	}
	dst := filepath.Join(dir, fmt.Sprintf("%02d-%s%s", index, fileutil.Stem(src), ext))

	out, err := os.Create(dst) // #nosec G304 -- path built from output dir
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageTransform, err)
	}
	if ext == ".jpg" {
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(out, img)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("%w: encoding %s: %v", ErrImageTransform, dst, err)
	}

	return dst, nil
}

// toGray converts img to 8-bit grayscale.
func toGray(img image.Image) image.Image {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	xdraw.Draw(gray, bounds, img, bounds.Min, xdraw.Src)
	return gray
}

// scaledSize returns the largest size within b that keeps the aspect ratio
// of w x h. Images are never enlarged.
func scaledSize(w, h int, b Bounds) (int, int) {
	maxW, maxH := b.Width, b.Height
	if maxW == 0 {
		maxW = w
	}
	if maxH == 0 {
		maxH = h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	// Compare w/maxW against h/maxH without floating point.
	if w*maxH >= h*maxW {
		nh := h * maxW / w
		return maxW, max(nh, 1)
	}
	nw := w * maxH / h
	return max(nw, 1), maxH
}

// fitWithin downscales img with a Catmull-Rom filter so that it fits in b.
func fitWithin(img image.Image, b Bounds) image.Image {
	src := img.Bounds()
	nw, nh := scaledSize(src.Dx(), src.Dy(), b)
	if nw == src.Dx() && nh == src.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst
}
