package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"hambax/entity"
)

// EventDetails is the static event information printed on every ticket.
type EventDetails struct {
	Title   string
	Venue   string
	Address string
	Date    string
}

type Artifacts struct {
	QRCodePath string
	PDFPath    string
}

// Renderer writes the QR image and the PDF ticket to disk and returns their
// paths. Rendering the same ticket twice overwrites the same files, so it is
// safe under webhook re-delivery.
type Renderer struct {
	qrDir  string
	pdfDir string
	event  EventDetails
}

func NewRenderer(qrDir, pdfDir string, event EventDetails) Renderer {
	return Renderer{
		qrDir:  qrDir,
		pdfDir: pdfDir,
		event:  event,
	}
}

func (r Renderer) Render(ctx context.Context, ticket entity.Ticket) (Artifacts, error) {
	qrPath, err := r.renderQRCode(ticket)
	if err != nil {
		return Artifacts{}, err
	}

	pdfPath, err := r.renderPDF(ticket, qrPath)
	if err != nil {
		return Artifacts{}, err
	}

	return Artifacts{
		QRCodePath: qrPath,
		PDFPath:    pdfPath,
	}, nil
}

// renderQRCode encodes the redemption code itself; the scanning client sends
// the decoded string back verbatim.
func (r Renderer) renderQRCode(ticket entity.Ticket) (string, error) {
	if err := os.MkdirAll(r.qrDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create qr code directory: %w", err)
	}

	path := filepath.Join(r.qrDir, ticket.RedemptionCode+".png")
	if err := qrcode.WriteFile(ticket.RedemptionCode, qrcode.Medium, 256, path); err != nil {
		return "", fmt.Errorf("could not render qr code: %w", err)
	}

	return path, nil
}

func (r Renderer) renderPDF(ticket entity.Ticket, qrPath string) (string, error) {
	if err := os.MkdirAll(r.pdfDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create ticket directory: %w", err)
	}

	path := filepath.Join(r.pdfDir, fmt.Sprintf("%s_%s_ticket.pdf", ticket.Email, ticket.PaymentReference))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.ImageOptions(qrPath, 150, 15, 45, 45, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(15, 15)
	pdf.CellFormat(0, 6, fmt.Sprintf("Purchase date: %s", ticket.CreatedAt.Format("02.01.2006")), "", 1, "L", false, 0, "")
	pdf.SetX(15)
	pdf.CellFormat(0, 6, fmt.Sprintf("E-Mail: %s", ticket.Email), "", 1, "L", false, 0, "")

	pdf.Ln(30)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, r.event.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.CellFormat(0, 8, fmt.Sprintf("Date: %s", r.event.Date), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Venue: %s", r.event.Venue), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Address: %s", r.event.Address), "", 1, "L", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, "Thank you for your purchase!\n"+
		"The QR code is valid once and only on the stated date. "+
		"Please present it at the entrance.\n"+
		"Tickets are non-refundable and non-exchangeable.", "", "L", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("could not render pdf: %w", err)
	}

	return path, nil
}
