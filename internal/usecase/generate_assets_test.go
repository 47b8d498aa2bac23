package usecase

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etarang/garba-desk/internal/entity"
	"github.com/etarang/garba-desk/internal/infra/mockstore"
)

func newGenerator(t *testing.T, store RowStore) *AssetGenerator {
	t.Helper()
	dir := t.TempDir()
	return NewAssetGenerator(store,
		filepath.Join(dir, "qr"),
		filepath.Join(dir, "ticket"),
		filepath.Join(dir, "base_ticket.png"),
		filepath.Join(dir, "display.ttf"),
		"Desk F",
	)
}

func writeBaseTemplate(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 40))))
}

func TestGenerateQRWritesOneFilePerEntry(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "R1", Name: "A", Email: "a@x.in", UniqueID: "ET-AAAAAAAA"},
		entity.Entry{RegistrationNumber: "R2", Name: "B", Email: "b@x.in"},
	)
	g := newGenerator(t, store)

	result, err := g.GenerateQR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	for _, reg := range []string{"R1", "R2"} {
		_, err := os.Stat(filepath.Join(g.QRDir, reg+".png"))
		assert.NoError(t, err)
	}
}

func TestGenerateQRIsIdempotent(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "R1", Name: "A", Email: "a@x.in"},
	)
	g := newGenerator(t, store)

	_, err := g.GenerateQR(context.Background())
	require.NoError(t, err)

	before, err := os.Stat(filepath.Join(g.QRDir, "R1.png"))
	require.NoError(t, err)

	rerun, err := g.GenerateQR(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rerun.Generated)
	assert.Equal(t, 1, rerun.Skipped)
	assert.Empty(t, rerun.Errors)

	after, err := os.Stat(filepath.Join(g.QRDir, "R1.png"))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "skip must not rewrite the file")
}

func TestGenerateQRIsolatesBadEntries(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "", Name: "No Reg"},
		entity.Entry{RegistrationNumber: "R2", Name: "B", Email: "b@x.in"},
	)
	g := newGenerator(t, store)

	result, err := g.GenerateQR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)
}

func TestGenerateQRNoEntries(t *testing.T) {
	g := newGenerator(t, mockstore.NewEmpty())

	result, err := g.GenerateQR(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Generated)
	assert.Contains(t, result.Errors, "No entries found")
}

func TestGenerateTicketsRequiresBaseTemplate(t *testing.T) {
	g := newGenerator(t, mockstore.New())

	_, err := g.GenerateTickets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base ticket template")
}

func TestGenerateTicketsMissingQRIsPerEntryError(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "R1", Name: "A"},
		entity.Entry{RegistrationNumber: "R2", Name: "B"},
	)
	g := newGenerator(t, store)
	writeBaseTemplate(t, g.BaseTicketPath)
	require.NoError(t, os.MkdirAll(g.QRDir, 0o755))

	result, err := g.GenerateTickets(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Generated)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "missing QR image")
}

func TestGenerateTicketsSkipsExistingOutput(t *testing.T) {
	store := mockstore.New(
		entity.Entry{RegistrationNumber: "R1", Name: "A"},
	)
	g := newGenerator(t, store)
	writeBaseTemplate(t, g.BaseTicketPath)
	require.NoError(t, os.MkdirAll(g.TicketDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(g.TicketDir, "R1.png"), []byte("existing"), 0o644))

	result, err := g.GenerateTickets(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Generated)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)
}

func TestBatches(t *testing.T) {
	entries := seedEntries(7)

	got := batches(entries, 3, defaultQRBatchSize)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 3)
	assert.Len(t, got[1], 3)
	assert.Len(t, got[2], 1)

	// Non-positive size falls back rather than looping forever.
	got = batches(entries, 0, 5)
	require.Len(t, got, 2)
}
