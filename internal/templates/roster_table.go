package templates

import (
	"fmt"

	"github.com/dayoon-dev/homeroom-api/internal/models"
)

// rosterTableTemplate is the plain number/name/gender roster table.
func rosterTableTemplate() Template {
	return Template{
		ID:          "roster_table_v1",
		Name:        "명렬표 (표)",
		Description: "A4 세로, 번호/이름/성별 표 형식",
		Paper:       models.PaperA4,
		Orientation: models.OrientationPortrait,
		DefaultMarginMm: models.MarginMm{
			Top: 10, Right: 10, Bottom: 10, Left: 10,
		},
		Render: renderRosterTable,
	}
}

func renderRosterTable(doc *Doc, ctx RenderContext) error {
	left, top, contentW, _ := doc.ContentRect()

	headers := []string{"번호", "이름", "성별", "비고"}
	widths := []float64{0.12, 0.38, 0.12, 0.38}

	y := top
	if ctx.ClassInfo != nil {
		doc.SetFont("B", 14)
		title := fmt.Sprintf("%d학년 %d반 명렬표", ctx.ClassInfo.Grade, ctx.ClassInfo.ClassNo)
		doc.Text(left, y+5, title)
		y += 10
	}

	const rowH = 8.0
	doc.SetFont("B", 10)
	doc.SetLineWidth(0.2)
	x := left
	for i, h := range headers {
		w := contentW * widths[i]
		doc.CellBox(x, y, w, rowH, h, "C")
		x += w
	}
	y += rowH

	doc.SetFont("", 9)
	for _, student := range ctx.Students {
		x = left
		cells := []string{
			fmt.Sprintf("%d", student.Number),
			student.Name,
			genderLabel(student.Gender),
			student.Notes,
		}
		for i, cell := range cells {
			w := contentW * widths[i]
			align := "C"
			if i == 3 {
				align = "L"
			}
			doc.CellBox(x, y, w, rowH, cell, align)
			x += w
		}
		y += rowH
	}
	return nil
}

func genderLabel(gender string) string {
	switch gender {
	case models.GenderMale:
		return "남"
	case models.GenderFemale:
		return "여"
	default:
		return ""
	}
}
