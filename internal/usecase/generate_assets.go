package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"

	"github.com/etarang/garba-desk/internal/entity"
)

const (
	// QR batches favor throughput; ticket batches stay small because every
	// unit holds a decoded image buffer. Batch scope bounds peak memory: a
	// batch's buffers are unreachable before the next batch starts.
	defaultQRBatchSize     = 200
	defaultTicketBatchSize = 25

	qrPixelSize = 256

	// Ticket layout, in pixels / fractions of the template canvas.
	ticketQRSize     = 560
	ticketQRX        = 260
	ticketQRYFrac    = 0.355
	ticketNameYFrac  = 0.705
	ticketRegYFrac   = 0.81
	ticketDeskYFrac  = 0.9
	ticketNameFontPt = 70
	ticketDeskFontPt = 58
)

// errSkipExisting marks idempotent re-runs: the output file is already there.
var errSkipExisting = errors.New("output already exists")

type AssetGenerator struct {
	Store           RowStore
	QRDir           string
	TicketDir       string
	BaseTicketPath  string
	FontPath        string
	DeskLabel       string // fallback when the entry has no desk value
	QRBatchSize     int
	TicketBatchSize int
}

func NewAssetGenerator(store RowStore, qrDir, ticketDir, baseTicketPath, fontPath, deskLabel string) *AssetGenerator {
	return &AssetGenerator{
		Store:           store,
		QRDir:           qrDir,
		TicketDir:       ticketDir,
		BaseTicketPath:  baseTicketPath,
		FontPath:        fontPath,
		DeskLabel:       deskLabel,
		QRBatchSize:     defaultQRBatchSize,
		TicketBatchSize: defaultTicketBatchSize,
	}
}

// qrPayload is the fixed schema encoded into each QR image.
type qrPayload struct {
	Registration string  `json:"registration"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	UID          *string `json:"uid"`
	Transaction  string  `json:"transaction"`
}

// GenerateQR encodes one QR image per entry, filenamed by registration
// number. Existing files are skipped, so re-runs are idempotent. One entry's
// failure never aborts the batch or the run.
func (g *AssetGenerator) GenerateQR(ctx context.Context) (*entity.GenerationResult, error) {
	if err := os.MkdirAll(g.QRDir, 0o755); err != nil {
		return nil, fmt.Errorf("create qr dir: %w", err)
	}

	snap, err := g.Store.ReadAll(ctx)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "STORE_READ_FAILED",
			Message: "read entries: " + err.Error(),
		}
	}
	if snap.Total == 0 {
		return &entity.GenerationResult{Errors: []string{"No entries found"}}, nil
	}

	result := &entity.GenerationResult{}
	start := time.Now()
	log.Printf("Starting QR generation for %d entries", snap.Total)

	for _, batch := range batches(snap.Entries, g.QRBatchSize, defaultQRBatchSize) {
		for _, e := range batch {
			err := g.generateOneQR(e)
			switch {
			case err == nil:
				result.Generated++
				log.Printf("✔ QR generated for %s", e.RegistrationNumber)
			case errors.Is(err, errSkipExisting):
				result.Skipped++
			default:
				result.Skipped++
				result.Errors = append(result.Errors, err.Error())
				log.Printf("✖ QR failed for %s: %v", e.RegistrationNumber, err)
			}
		}
	}

	result.DurationSeconds = roundSeconds(time.Since(start))
	log.Printf("QR generation done: generated=%d skipped=%d duration=%.2fs",
		result.Generated, result.Skipped, result.DurationSeconds)
	return result, nil
}

func (g *AssetGenerator) generateOneQR(e entity.Entry) error {
	if e.RegistrationNumber == "" {
		return fmt.Errorf("entry at row %d has no registration number", e.RowNumber)
	}

	path := filepath.Join(g.QRDir, e.RegistrationNumber+".png")
	if _, err := os.Stat(path); err == nil {
		return errSkipExisting
	}

	payload := qrPayload{
		Registration: e.RegistrationNumber,
		Name:         e.Name,
		Email:        e.Email,
		Transaction:  e.TransactionID,
	}
	if e.UniqueID != "" {
		uid := e.UniqueID
		payload.UID = &uid
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload for %s: %w", e.RegistrationNumber, err)
	}

	if err := qrcode.WriteFile(string(data), qrcode.Medium, qrPixelSize, path); err != nil {
		return fmt.Errorf("write qr for %s: %w", e.RegistrationNumber, err)
	}
	return nil
}

// GenerateTickets composes the base template, the entry's QR image and the
// overlay text into one ticket per entry. Requires the QR stage's output: a
// missing QR is a per-entry error, not a crash.
func (g *AssetGenerator) GenerateTickets(ctx context.Context) (*entity.GenerationResult, error) {
	if err := os.MkdirAll(g.TicketDir, 0o755); err != nil {
		return nil, fmt.Errorf("create ticket dir: %w", err)
	}

	base, err := loadPNG(g.BaseTicketPath)
	if err != nil {
		return nil, fmt.Errorf("base ticket template not found at %s: %w", g.BaseTicketPath, err)
	}

	snap, err := g.Store.ReadAll(ctx)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "STORE_READ_FAILED",
			Message: "read entries: " + err.Error(),
		}
	}
	if snap.Total == 0 {
		return &entity.GenerationResult{Errors: []string{"No entries found in the sheet"}}, nil
	}

	result := &entity.GenerationResult{}
	start := time.Now()
	log.Printf("Starting ticket generation for %d entries", snap.Total)

	for _, batch := range batches(snap.Entries, g.TicketBatchSize, defaultTicketBatchSize) {
		for _, e := range batch {
			err := g.composeTicket(base, e)
			switch {
			case err == nil:
				result.Generated++
				log.Printf("✔ Ticket generated for %s", e.RegistrationNumber)
			case errors.Is(err, errSkipExisting):
				result.Skipped++
			default:
				result.Skipped++
				result.Errors = append(result.Errors, err.Error())
				log.Printf("✖ Ticket failed for %s: %v", e.RegistrationNumber, err)
			}
		}
	}

	result.DurationSeconds = roundSeconds(time.Since(start))
	log.Printf("Ticket generation done: generated=%d skipped=%d duration=%.2fs",
		result.Generated, result.Skipped, result.DurationSeconds)
	return result, nil
}

func (g *AssetGenerator) composeTicket(base image.Image, e entity.Entry) error {
	if e.RegistrationNumber == "" {
		return fmt.Errorf("entry at row %d has no registration number", e.RowNumber)
	}

	filename := e.RegistrationNumber + ".png"
	ticketPath := filepath.Join(g.TicketDir, filename)
	if _, err := os.Stat(ticketPath); err == nil {
		return errSkipExisting
	}

	qrPath := filepath.Join(g.QRDir, filename)
	if _, err := os.Stat(qrPath); err != nil {
		return fmt.Errorf("missing QR image for %s, run QR generation first", e.RegistrationNumber)
	}

	qrImg, err := loadPNG(qrPath)
	if err != nil {
		return fmt.Errorf("read qr for %s: %w", e.RegistrationNumber, err)
	}

	w := base.Bounds().Dx()
	h := base.Bounds().Dy()

	dc := gg.NewContext(w, h)
	dc.DrawImage(base, 0, 0)

	scaled := image.NewRGBA(image.Rect(0, 0, ticketQRSize, ticketQRSize))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), qrImg, qrImg.Bounds(), xdraw.Over, nil)
	dc.DrawImage(scaled, ticketQRX, int(float64(h)*ticketQRYFrac))

	if err := dc.LoadFontFace(g.FontPath, ticketNameFontPt); err != nil {
		return fmt.Errorf("load display font %s: %w", g.FontPath, err)
	}
	dc.SetRGB(1, 1, 1)

	centerX := float64(w) / 2

	name := e.Name
	if name == "" {
		name = "N/A"
	}
	dc.DrawStringAnchored(name, centerX, float64(h)*ticketNameYFrac, 0.5, 0.5)
	dc.DrawStringAnchored(e.RegistrationNumber, centerX, float64(h)*ticketRegYFrac, 0.5, 0.5)

	if err := dc.LoadFontFace(g.FontPath, ticketDeskFontPt); err != nil {
		return fmt.Errorf("load display font %s: %w", g.FontPath, err)
	}
	desk := e.Desk
	if desk == "" {
		desk = g.DeskLabel
	}
	dc.DrawStringAnchored(desk, centerX, float64(h)*ticketDeskYFrac, 0.5, 0.5)

	if err := dc.SavePNG(ticketPath); err != nil {
		return fmt.Errorf("write ticket for %s: %w", e.RegistrationNumber, err)
	}
	return nil
}

// batches slices entries into fixed-size chunks.
func batches(entries []entity.Entry, size, fallback int) [][]entity.Entry {
	if size <= 0 {
		size = fallback
	}
	var out [][]entity.Entry
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		out = append(out, entries[start:end])
	}
	return out
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
