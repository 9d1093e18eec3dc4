package report

import (
	"github.com/xuri/excelize/v2"

	"demand-tracker/internal/domain"
)

// ContentType is the xlsx MIME type served with the export.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{
	"Início",
	"Fim",
	"Total da Sessão (min)",
	"Demanda",
	"Minutos na Demanda",
	"Descrição",
}

const timeLayout = "2006-01-02 15:04"

// Workbook renders export rows as a single-sheet xlsx file: a header row
// followed by one row per work log.
func Workbook(rows []domain.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range headers {
		if err := setCell(f, sheet, i+1, 1, h); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		values := []interface{}{
			row.StartTime.Format(timeLayout),
			row.EndTime.Format(timeLayout),
			row.TotalMinutes,
			row.DemandTitle,
			row.MinutesSpent,
			row.Description,
		}
		for c, v := range values {
			if err := setCell(f, sheet, c+1, r+2, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}
