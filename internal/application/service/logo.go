package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
)

// LogoConfig bounds uploaded logos
type LogoConfig struct {
	MaxBytes  int64
	MaxWidth  int
	MaxHeight int
}

// DefaultLogoConfig returns default configuration
func DefaultLogoConfig() LogoConfig {
	return LogoConfig{
		MaxBytes:  2 << 20,
		MaxWidth:  600,
		MaxHeight: 240,
	}
}

// normalizeLogo checks data is an image within limits and returns it as a PNG data URL
func normalizeLogo(data []byte, cfg LogoConfig) (string, error) {
	if cfg.MaxBytes > 0 && int64(len(data)) > cfg.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", entity.ErrLogoTooLarge, len(data), cfg.MaxBytes)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", entity.ErrInvalidLogo, mime.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidLogo, err)
	}

	// Fit never upscales
	img = imaging.Fit(img, cfg.MaxWidth, cfg.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode logo: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
