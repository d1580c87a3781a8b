package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin = 20.0
	pdfLine   = 7.0
)

func renderPDF(w io.Writer, d Document) error {
	p := d.Paper
	pres := d.Presentation.Merge(DefaultPresentation())

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(p.PaperName, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pair := func(left, right string) {
		pdf.CellFormat(130, pdfLine, tr(left), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, pdfLine, tr(right), "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(pres.CollegeName), "", "C", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 12)
	pair("Program: "+pres.Program, "Semester: "+pres.Semester)
	pair("Examination: "+pres.ExaminationType, "Month & Year: "+pres.MonthYear)
	pair("Time: "+pres.Time, "Common To: "+pres.CommonTo)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Paper: "+p.PaperName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pair("Subject: "+p.Subject, "Department: "+p.Department)
	pdf.CellFormat(0, pdfLine, fmt.Sprintf("Total Marks: %d", p.TotalMarks), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 12)
	pdf.MultiCell(0, pdfLine, tr("Note: "+pres.Note), "", "L", false)

	for _, s := range Sections(p.Questions) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, tr(s.Name), "B", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 11)
		for _, q := range s.Questions {
			pdf.MultiCell(0, pdfLine, tr(fmt.Sprintf("Q%d. %s [%d Marks]", q.N, q.Text, q.Marks)), "", "L", false)
			pdf.Ln(1)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(0, pdfLine, "--- End of Question Paper ---", "", 1, "C", false, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
