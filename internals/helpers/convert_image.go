package helper

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Lebar maksimum frame yang dikirim ke layanan ML.
// Frame kamera browser bisa besar sekali; downscale dulu biar inference cepat.
const maxFrameWidth = 1280

// NormalizeCapturedFrame menerima satu frame hasil capture kamera
// (base64, boleh dengan prefix data-URL, format jpeg/png/webp),
// downscale bila perlu, dan mengembalikan JPEG base64 tanpa prefix.
func NormalizeCapturedFrame(b64 string) (string, error) {
	raw, err := DecodeBase64Image(b64)
	if err != nil {
		return "", err
	}

	img, err := decodeAnyImage(raw)
	if err != nil {
		return "", fmt.Errorf("gagal decode gambar: %w", err)
	}

	if img.Bounds().Dx() > maxFrameWidth {
		img = imaging.Resize(img, maxFrameWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("gagal encode JPEG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeBase64Image membuang prefix data-URL (kalau ada) lalu decode base64.
func DecodeBase64Image(b64 string) ([]byte, error) {
	s := strings.TrimSpace(b64)
	if idx := strings.Index(s, ","); idx != -1 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64 tidak valid: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("gambar kosong")
	}
	return raw, nil
}

// decodeAnyImage: jpeg/png via image.Decode, webp via chai2010/webp
// (kamera browser sering menghasilkan webp).
func decodeAnyImage(raw []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(raw)); err == nil {
		return img, nil
	}
	return webp.Decode(bytes.NewReader(raw))
}
