package infra

// pdf.go — Consolidated daily report rendering using go-pdf/fpdf.
// One A4 page per day and caja: turno table, per-payment-method totals,
// sales summary and the top-seller ranking.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"mesapos/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateReporteDiarioPDF writes the report PDF under storagePath
// (created if needed) and returns the absolute file path.
func GenerateReporteDiarioPDF(rep *dto.ReporteDiario, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s_%s.pdf", rep.Caja, rep.Fecha)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "MesaPOS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Cierre consolidado — Caja %s — %s", rep.Caja, rep.Fecha), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Turnos ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	cols := []struct {
		w     float64
		title string
	}{
		{contentW * 0.24, "Turno"},
		{contentW * 0.16, "Horario"},
		{contentW * 0.15, "Fondo inicial"},
		{contentW * 0.15, "Fondo final"},
		{contentW * 0.15, "Efectivo neto"},
		{contentW * 0.15, "Diferencia"},
	}
	for _, c := range cols {
		pdf.CellFormat(c.w, 7, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range rep.Turnos {
		horario := t.AbiertoAt + " - "
		if t.CerradoAt != nil {
			horario += *t.CerradoAt
		}
		fondoFinal, diferencia := "-", "-"
		if t.FondoFinal != nil {
			fondoFinal = t.FondoFinal.StringFixed(2)
		}
		if t.Diferencia != nil {
			diferencia = t.Diferencia.StringFixed(2)
		}
		pdf.CellFormat(cols[0].w, 6, fmt.Sprintf("%s (%s)", t.Nombre, t.Estado), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1].w, 6, horario, "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[2].w, 6, t.FondoInicial.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3].w, 6, fondoFinal, "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4].w, 6, t.TotalEfectivo.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5].w, 6, diferencia, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// ── Totales por metodo ───────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Totales del día por método de pago", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)

	metodos := make([]string, 0, len(rep.TotalesPorMetodo))
	for metodo := range rep.TotalesPorMetodo {
		metodos = append(metodos, metodo)
	}
	sort.Strings(metodos)
	for _, metodo := range metodos {
		pdf.CellFormat(contentW*0.4, 5, metodo, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 5, rep.TotalesPorMetodo[metodo].StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6,
		fmt.Sprintf("Ventas del día: %d — Total: %s", rep.CantidadVentas, rep.TotalVentas.StringFixed(2)),
		"", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Top productos ────────────────────────────────────────────────────────
	if len(rep.TopProductos) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Productos más vendidos", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for i, p := range rep.TopProductos {
			pdf.CellFormat(contentW*0.1, 5, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.6, 5, p.Descripcion, "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.2, 5, fmt.Sprintf("x%d", p.Cantidad), "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
