package templates

import (
	"fmt"
	"math"

	"github.com/dayoon-dev/homeroom-api/internal/models"
)

// attendanceLabelTemplate is the columnar roster sheet glued into the paper
// attendance book.
func attendanceLabelTemplate() Template {
	return Template{
		ID:          "attendance_label_v1",
		Name:        "출석부 부착 명렬표",
		Description: "A4 세로, 출석부에 붙이는 명렬표",
		Paper:       models.PaperA4,
		Orientation: models.OrientationPortrait,
		// Zero margins: the sheet is cut out and glued, so the grid runs to
		// the paper edge and the profile supplies any printer-safe margin.
		DefaultMarginMm: models.MarginMm{},
		Options: []Option{
			{ID: "columns", Label: "열 수", Type: "select", Values: []interface{}{2, 3, 4}, Default: 2},
		},
		Render: renderAttendanceLabel,
	}
}

func renderAttendanceLabel(doc *Doc, ctx RenderContext) error {
	columns := optionInt(ctx.Options, "columns", 2)
	if columns < 1 {
		columns = 1
	}

	left, top, contentW, contentH := doc.ContentRect()

	if ctx.ClassInfo != nil {
		doc.SetFont("B", 12)
		title := fmt.Sprintf("%d학년 %d반", ctx.ClassInfo.Grade, ctx.ClassInfo.ClassNo)
		doc.Text(left+2, top+6, title)
		top += 9
		contentH -= 9
	}

	total := len(ctx.Students)
	rowsPerColumn := 1
	if total > 0 {
		rowsPerColumn = int(math.Ceil(float64(total) / float64(columns)))
	}

	// At least 20 rows per column keeps cells at attendance-book scale even
	// for short rosters.
	rows := rowsPerColumn
	if rows < 20 {
		rows = 20
	}
	cellW := contentW / float64(columns)
	cellH := contentH / float64(rows)
	numberW := cellW * 0.3

	doc.SetFont("", 10)
	doc.SetLineWidth(0.2)
	for col := 0; col < columns; col++ {
		start := col * rowsPerColumn
		if start >= total {
			break
		}
		end := start + rowsPerColumn
		if end > total {
			end = total
		}
		x := left + float64(col)*cellW
		for row, student := range ctx.Students[start:end] {
			y := top + float64(row)*cellH
			doc.CellBox(x, y, numberW, cellH, fmt.Sprintf("%d", student.Number), "C")
			doc.CellBox(x+numberW, y, cellW-numberW, cellH, student.Name, "L")
		}
	}
	return nil
}
