package infra

// pdf.go — settlement receipt generation using go-pdf/fpdf.
// A5 landscape receipt with supplier data, settled deliveries, the loan
// servicing line when an abono was withheld, and the net payout.
// The output file is saved to storagePath/recibo_{liquidacion}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexRayo/lcr-acopio/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF renders the receipt for a settlement. Detalles and Abonos
// must be preloaded; proveedor may be nil when it was deleted afterwards.
func GenerateReciboPDF(liq *model.Liquidacion, proveedor *model.Proveedor, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", liq.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "LCR Acopio de Café", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Recibo de Liquidación", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Settlement info ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW/2, 5, "Liquidación: "+liq.ID.String(), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Fecha: "+liq.FechaLiquidacion.Format("02/01/2006"), "", 1, "R", false, 0, "")
	if proveedor != nil {
		pdf.CellFormat(contentW/2, 5, "Proveedor: "+proveedor.Nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 5, "Cédula: "+proveedor.Cedula, "", 1, "R", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Tipo de cambio: "+liq.TipoCambio.StringFixed(4), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Deliveries table ─────────────────────────────────────────────────────
	col1 := contentW * 0.6
	col2 := contentW * 0.4

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Entrega", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Peso neto (qq)", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range liq.Detalles {
		pdf.CellFormat(col1, 5, d.EntregaID.String(), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, d.PesoNeto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(col1, 5, "Total liquidado (qq):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, liq.TotalQQLiquidados.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1, 5, "Precio por qq:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, liq.PrecioLiquidacion.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1, 5, "Monto bruto:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, liq.MontoBruto.StringFixed(2), "", 1, "R", false, 0, "")

	for _, a := range liq.Abonos {
		pdf.CellFormat(col1, 5, fmt.Sprintf("Abono a préstamo (intereses %s):", a.Intereses.StringFixed(2)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "-"+a.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "NETO A PAGAR:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, liq.MontoNeto.StringFixed(2), "", 1, "R", false, 0, "")

	if liq.Estado == model.LiquidacionEstadoAnulado {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(contentW, 6, "*** ANULADA ***", "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
