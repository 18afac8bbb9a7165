package printer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bl4ckh4nd/simplecrm/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// CustomerSheetPDF renders a one-page contact sheet for a customer,
// with a scannable MECARD QR code for phone address books.
func CustomerSheetPDF(c *models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, displayName(c), "", 1, "L", false, 0, "")
	if c.Company != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 7, c.Company, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Contact fields, one row each
	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Mobile", c.Mobile},
		{"Street", c.Street},
		{"City", strings.TrimSpace(c.ZipCode + " " + c.City)},
		{"Country", c.Country},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(30, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}

	if c.ExternalBlocked {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, 7, "Blocked in ERP", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	// QR contact code, bottom right
	qrPng, err := qrcode.Encode(mecard(c), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate contact QR code: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("contact_qr", opts, bytes.NewReader(qrPng))
	pdf.ImageOptions("contact_qr", 150, 230, 40, 40, false, opts, 0, "")

	pdf.SetXY(150, 271)
	pdf.SetFont("Arial", "", 7)
	pdf.CellFormat(40, 4, fmt.Sprintf("Customer #%d", c.ID), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func displayName(c *models.Customer) string {
	name := strings.TrimSpace(c.FirstName + " " + c.Name)
	if name == "" {
		name = c.Company
	}
	if name == "" {
		name = fmt.Sprintf("Customer #%d", c.ID)
	}
	return name
}

// mecard builds a MECARD payload; fields are escaped per the format's
// reserved characters.
func mecard(c *models.Customer) string {
	var b strings.Builder
	b.WriteString("MECARD:")
	fmt.Fprintf(&b, "N:%s,%s;", mecardEscape(c.Name), mecardEscape(c.FirstName))
	if c.Phone != "" {
		fmt.Fprintf(&b, "TEL:%s;", mecardEscape(c.Phone))
	}
	if c.Email != "" {
		fmt.Fprintf(&b, "EMAIL:%s;", mecardEscape(c.Email))
	}
	if c.Street != "" || c.City != "" {
		fmt.Fprintf(&b, "ADR:%s %s %s;", mecardEscape(c.Street), mecardEscape(c.ZipCode), mecardEscape(c.City))
	}
	b.WriteString(";")
	return b.String()
}

func mecardEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ":", `\:`, ",", `\,`)
	return r.Replace(s)
}
