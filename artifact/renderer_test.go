package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hambax/entity"
)

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(
		filepath.Join(dir, "qrcodes"),
		filepath.Join(dir, "tickets"),
		EventDetails{
			Title:   "Your ticket",
			Venue:   "Scala Club",
			Address: "Bahnhofstrasse 16, Offenbach am Main",
			Date:    "28.06.2024",
		},
	)

	ticket := entity.Ticket{
		RedemptionCode:   "abc123",
		Email:            "foo@bar.com",
		PaymentReference: "pi_123",
		AmountCents:      1200,
		CreatedAt:        time.Now().UTC(),
	}

	artifacts, err := renderer.Render(context.Background(), ticket)
	require.NoError(t, err)

	qrInfo, err := os.Stat(artifacts.QRCodePath)
	require.NoError(t, err)
	require.Greater(t, qrInfo.Size(), int64(0))

	pdfInfo, err := os.Stat(artifacts.PDFPath)
	require.NoError(t, err)
	require.Greater(t, pdfInfo.Size(), int64(0))

	// rendering the same ticket again overwrites, it must not fail
	_, err = renderer.Render(context.Background(), ticket)
	require.NoError(t, err)
}
