package resume

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Affan1415/auto-apply/internal/domain"
)

// Render lays out a structured resume as a single-column PDF.
func Render(rd domain.ResumeData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 9, rd.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	contact := joinNonEmpty(" | ", rd.Email, rd.Phone)
	if contact != "" {
		pdf.CellFormat(0, 6, contact, "", 1, "L", false, 0, "")
	}
	if rd.Headline != "" {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 7, rd.Headline, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	if rd.Summary != "" {
		sectionHeader(pdf, "Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, rd.Summary, "", "L", false)
		pdf.Ln(2)
	}

	if len(rd.History) > 0 {
		sectionHeader(pdf, "Experience")
		for _, exp := range rd.History {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(0, 6, joinNonEmpty(" — ", exp.Title, exp.Company), "", 1, "L", false, 0, "")
			if exp.Period != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.CellFormat(0, 5, exp.Period, "", 1, "L", false, 0, "")
			}
			if exp.Detail != "" {
				pdf.SetFont("Helvetica", "", 10)
				pdf.MultiCell(0, 5, exp.Detail, "", "L", false)
			}
			pdf.Ln(1)
		}
	}

	if len(rd.Education) > 0 {
		sectionHeader(pdf, "Education")
		pdf.SetFont("Helvetica", "", 10)
		for _, ed := range rd.Education {
			pdf.CellFormat(0, 6, joinNonEmpty(", ", ed.Degree, ed.School, ed.Year), "", 1, "L", false, 0, "")
		}
		pdf.Ln(1)
	}

	if len(rd.Skills) > 0 {
		sectionHeader(pdf, "Skills")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, strings.Join(rd.Skills, ", "), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Placeholder renders the minimal document used when the profile has no
// resume at all.
func Placeholder(p domain.UserProfile) ([]byte, error) {
	rd := domain.ResumeData{
		Name:     p.FullName,
		Email:    p.Email,
		Phone:    p.Phone,
		Headline: p.Headline,
		Summary:  p.Summary,
	}
	if rd.Name == "" {
		rd.Name = "Applicant"
	}
	if rd.Summary == "" {
		rd.Summary = "Resume available upon request."
	}
	return Render(rd)
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}
