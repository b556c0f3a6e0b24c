package report

import "github.com/xuri/excelize/v2"

// Fill colors of the workbook.
const (
	headerColor    = "92D050"
	inputHeadColor = "CCCCCC"
	verifyColor    = "FFEB9C"
	alertColor     = "FF0000"
)

// styles holds the style ids registered in one workbook.
type styles struct {
	title       int
	header      int
	inputHeader int
	cell        int
	alert       int
	verify      int
	verifyAlert int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func centered() *excelize.Alignment {
	return &excelize.Alignment{Horizontal: "center", Vertical: "center"}
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func registerStyles(f *excelize.File) (*styles, error) {
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{style: &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: centered()}},
		{style: &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: solid(headerColor), Border: thinBorder(), Alignment: centered()}},
		{style: &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: solid(inputHeadColor), Border: thinBorder(), Alignment: centered()}},
		{style: &excelize.Style{Border: thinBorder(), Alignment: centered()}},
		{style: &excelize.Style{Font: &excelize.Font{Color: alertColor}, Border: thinBorder(), Alignment: centered()}},
		{style: &excelize.Style{Fill: solid(verifyColor), Border: thinBorder(), Alignment: centered()}},
		{style: &excelize.Style{Font: &excelize.Font{Color: alertColor}, Fill: solid(verifyColor), Border: thinBorder(), Alignment: centered()}},
	}

	s := &styles{}
	targets := []*int{&s.title, &s.header, &s.inputHeader, &s.cell, &s.alert, &s.verify, &s.verifyAlert}
	for i, def := range defs {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return nil, err
		}
		*targets[i] = id
	}
	return s, nil
}
