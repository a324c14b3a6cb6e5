package blob

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/gif"
	_ "image/png"
	"strings"
)

var ErrNotDataURI = errors.New("not a data URI")

// IsDataURI reports whether a profile image value is an inline payload
// rather than a URL or relative path.
func IsDataURI(value string) bool {
	return strings.HasPrefix(value, "data:")
}

// ParseDataURI splits a base64 data URI into content type and raw bytes.
func ParseDataURI(dataURI string) (contentType string, data []byte, err error) {
	if !IsDataURI(dataURI) {
		return "", nil, ErrNotDataURI
	}
	rest := strings.TrimPrefix(dataURI, "data:")
	header, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("unsupported data URI encoding")
	}
	contentType = strings.TrimSuffix(header, ";base64")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return contentType, data, nil
}

// Shrink downsamples an inline image to at most maxWidth pixels wide and
// re-encodes it as JPEG at the given quality, returning a new data URI.
// This is the best-effort pass before the size threshold decides whether
// the image may be persisted remotely at all.
func Shrink(dataURI string, maxWidth, quality int) (string, error) {
	_, data, err := ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > maxWidth {
		height = height * maxWidth / width
		if height < 1 {
			height = 1
		}
		width = maxWidth
	}
	scaled := downsample(src, width, height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downsample box-averages the source into a width x height image. The
// standard library has no scaler; a box filter is enough for a profile
// photo shrink.
func downsample(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()
	if width >= srcW && height >= srcH {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		y0 := bounds.Min.Y + y*srcH/height
		y1 := bounds.Min.Y + (y+1)*srcH/height
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for x := 0; x < width; x++ {
			x0 := bounds.Min.X + x*srcW/width
			x1 := bounds.Min.X + (x+1)*srcW/width
			if x1 <= x0 {
				x1 = x0 + 1
			}

			var r, g, b, a, n uint64
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					pr, pg, pb, pa := src.At(sx, sy).RGBA()
					r += uint64(pr)
					g += uint64(pg)
					b += uint64(pb)
					a += uint64(pa)
					n++
				}
			}
			dst.Set(x, y, color.RGBA64{
				R: uint16(r / n),
				G: uint16(g / n),
				B: uint16(b / n),
				A: uint16(a / n),
			})
		}
	}
	return dst
}
