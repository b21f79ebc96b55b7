// Package pdf renders invoice and cart-summary documents to temp files.
// Rendering problems with optional visual elements (logo, product images)
// are swallowed and logged so a missing asset never fails a checkout.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"storefront-api/models"
)

// Result describes a generated document on disk.
type Result struct {
	Success  bool   `json:"success"`
	FilePath string `json:"filePath"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// Generator writes PDFs into TempDir. Filenames embed a sanitized
// customer name plus the invoice number (or a millisecond timestamp for
// cart summaries) to stay human-readable and collision-resistant.
type Generator struct {
	TempDir  string
	LogoPath string
}

func NewGenerator(tempDir, logoPath string) *Generator {
	return &Generator{TempDir: tempDir, LogoPath: logoPath}
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
var spaces = regexp.MustCompile(`\s+`)

// SanitizeName strips non-alphanumerics, collapses spaces to underscores
// and lowercases, for use in download filenames.
func SanitizeName(name string) string {
	s := nonAlnum.ReplaceAllString(name, "")
	s = spaces.ReplaceAllString(strings.TrimSpace(s), "_")
	return strings.ToLower(s)
}

// InvoiceFileName returns the canonical download name for an order invoice.
func InvoiceFileName(order *models.Order) string {
	name := order.ShippingInfo.Name
	if name == "" && order.Customer != nil {
		name = order.Customer.Name
	}
	if name == "" {
		name = "customer"
	}
	return fmt.Sprintf("invoice_%s_%s.pdf", SanitizeName(name), order.InvoiceNumber)
}

// GenerateInvoice renders an order invoice and returns the file details.
func (g *Generator) GenerateInvoice(order *models.Order) (*Result, error) {
	fileName := InvoiceFileName(order)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	g.drawLogo(doc)

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, "Order Invoice", "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 6, "Padmavati Creations", "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "E10, Global Market", "", 1, "R", false, 0, "")
	doc.CellFormat(0, 5, "Surat, Gujarat 395001", "", 1, "R", false, 0, "")
	doc.CellFormat(0, 5, "Phone: +91 9104052511", "", 1, "R", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Invoice Details", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "Date: "+order.CreatedAt.Format("02/01/2006"), "", 1, "L", false, 0, "")
	doc.Ln(3)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Customer Information", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "Name: "+orDefault(order.ShippingInfo.Name, "N/A"), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, "Phone: "+orDefault(order.ShippingInfo.PhoneNo, "N/A"), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, "Address: "+orDefault(order.ShippingInfo.Address, "N/A"), "", 1, "L", false, 0, "")
	if order.Notes != "" {
		doc.CellFormat(0, 5, "Notes: "+order.Notes, "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Order Items", "", 1, "L", false, 0, "")
	g.drawItemsTable(doc, order.OrderItems)

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, fmt.Sprintf("Total: Rs. %.2f", order.TotalPrice), "", 1, "R", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 6, "Thank you for your business!", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, "GST is applicable additionally", "", 1, "C", false, 0, "")

	return g.write(doc, fileName)
}

// GenerateCartPDF renders a cart summary document.
func (g *Generator) GenerateCartPDF(items []models.OrderItem, totalItems int, user *models.User) (*Result, error) {
	name := "customer"
	if user != nil && user.Name != "" {
		name = user.Name
	}
	fileName := fmt.Sprintf("cart_%s_%d.pdf", SanitizeName(name), time.Now().UnixMilli())

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	g.drawLogo(doc)

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, "CART SUMMARY", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 6, "Padmavati Croptop Manufacturers", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "E310, Ground Floor, Global Textile Market", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 5, "Surat, Gujarat 395010", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 5, "Phone: +91 9104052511", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Cart Details", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "Date: "+time.Now().Format("02/01/2006"), "", 1, "L", false, 0, "")
	if user != nil {
		doc.CellFormat(0, 5, "Customer: "+orDefault(user.Name, "Guest"), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 5, "Email: "+orDefault(user.Email, "N/A"), "", 1, "L", false, 0, "")
	}
	doc.Ln(3)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Cart Items", "", 1, "L", false, 0, "")
	g.drawItemsTable(doc, items)

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 6, fmt.Sprintf("Total Items: %d", totalItems), "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, fmt.Sprintf("Total Amount: Rs. %.2f", total), "", 1, "R", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, "This is your current cart summary", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 8)
	doc.CellFormat(0, 5, "Generated on: "+time.Now().Format("02/01/2006 15:04:05"), "", 1, "C", false, 0, "")

	return g.write(doc, fileName)
}

func (g *Generator) drawLogo(doc *gofpdf.Fpdf) {
	if g.LogoPath == "" {
		return
	}
	if _, err := os.Stat(g.LogoPath); err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ReadDpi: true}
	doc.ImageOptions(g.LogoPath, 10, 10, 40, 0, false, opts, 0, "")
	if doc.Err() {
		zap.L().Warn("Logo loading error", zap.String("path", g.LogoPath), zap.Error(doc.Error()))
		doc.ClearError()
	}
	doc.Ln(4)
}

func (g *Generator) drawItemsTable(doc *gofpdf.Fpdf, items []models.OrderItem) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(60, 7, "Product", "B", 0, "L", false, 0, "")
	doc.CellFormat(40, 7, "Category", "B", 0, "L", false, 0, "")
	doc.CellFormat(25, 7, "Quantity", "B", 0, "R", false, 0, "")
	doc.CellFormat(30, 7, "Price", "B", 0, "R", false, 0, "")
	doc.CellFormat(30, 7, "Total", "B", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, item := range items {
		doc.CellFormat(60, 7, item.Name, "", 0, "L", false, 0, "")
		doc.CellFormat(40, 7, orDefault(item.Category, "N/A"), "", 0, "L", false, 0, "")
		doc.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%.2f", item.Price), "", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "", 1, "R", false, 0, "")
	}
}

func (g *Generator) write(doc *gofpdf.Fpdf, fileName string) (*Result, error) {
	if err := os.MkdirAll(g.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	filePath := filepath.Join(g.TempDir, fileName)
	if err := doc.OutputFileAndClose(filePath); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	result := &Result{Success: true, FilePath: filePath, FileName: fileName}
	if stat, err := os.Stat(filePath); err == nil {
		result.FileSize = stat.Size()
	}
	return result, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
