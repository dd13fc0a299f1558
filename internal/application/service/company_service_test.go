package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestCompanyService_LoadDefaultAndSave(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	info, err := f.company.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.CompanyInfo{}, info)

	saved, err := f.company.Save(ctx, entity.CompanyInfo{Name: "Acme", Bank: entity.BankInfo{Name: "First"}})
	require.NoError(t, err)
	assert.Equal(t, "Acme", saved.Name)

	// Wholesale replace drops the bank block
	_, err = f.company.Save(ctx, entity.CompanyInfo{Name: "Acme KK"})
	require.NoError(t, err)

	info, err = f.company.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.CompanyInfo{Name: "Acme KK"}, info)
	assert.Equal(t, []port.SinkAction{port.ActionSaveCompanyInfo, port.ActionSaveCompanyInfo}, f.publisher.actions())
}

func TestCompanyService_SetLogo(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, err := f.company.Save(ctx, entity.CompanyInfo{Name: "Acme"})
	require.NoError(t, err)

	info, err := f.company.SetLogo(ctx, jpegBytes(t, 1200, 300))
	require.NoError(t, err)
	assert.Equal(t, "Acme", info.Name)
	require.True(t, strings.HasPrefix(info.Logo, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(info.Logo, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	stored, err := f.company.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, info.Logo, stored.Logo)
}

func TestCompanyService_SetLogoKeepsSmallImages(t *testing.T) {
	f := newFixture()

	info, err := f.company.SetLogo(context.Background(), jpegBytes(t, 100, 40))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(info.Logo, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestCompanyService_SetLogoRejects(t *testing.T) {
	ctx := context.Background()

	t.Run("not an image", func(t *testing.T) {
		f := newFixture()
		_, err := f.company.SetLogo(ctx, []byte("%PDF-1.4 not a logo"))
		assert.ErrorIs(t, err, entity.ErrInvalidLogo)
	})

	t.Run("truncated image", func(t *testing.T) {
		f := newFixture()
		data := jpegBytes(t, 50, 50)
		_, err := f.company.SetLogo(ctx, data[:len(data)/3])
		assert.ErrorIs(t, err, entity.ErrInvalidLogo)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture()
		svc := NewCompanyService(f.companies, &passthroughTx{}, f.publisher, LogoConfig{MaxBytes: 10, MaxWidth: 600, MaxHeight: 240}, nopLogger{})
		_, err := svc.SetLogo(ctx, jpegBytes(t, 20, 20))
		assert.ErrorIs(t, err, entity.ErrLogoTooLarge)
		assert.Empty(t, f.publisher.actions())
	})
}

func TestCompanyService_SetLogoFailedTransaction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.companies.Save(ctx, entity.CompanyInfo{Name: "Acme"}))

	locked := errors.New("database is locked")
	svc := NewCompanyService(f.companies, failingTx{err: locked}, f.publisher, DefaultLogoConfig(), nopLogger{})
	_, err := svc.SetLogo(ctx, jpegBytes(t, 100, 40))
	require.ErrorIs(t, err, locked)

	info, err := f.companies.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, info.Logo)
	assert.Empty(t, f.publisher.actions())
}
