package interfaces

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	emissions "github.com/dahyun0301/carbon-report-server/internal/emissions/domain"
)

// ParseWorkbookRows reads the first sheet of an uploaded workbook into
// header-keyed rows for the normalizer. The first row is the header; empty
// rows are skipped. Header cleanup is the normalizer's job, not ours.
func ParseWorkbookRows(r io.Reader) ([]map[string]string, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("upload: open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, emissions.ErrEmptyUpload
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("upload: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, emissions.ErrEmptyUpload
	}

	header := rows[0]
	if len(header) == 0 {
		return nil, errors.New("upload: empty header row")
	}

	result := make([]map[string]string, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		if isEmptyRow(cells) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		result = append(result, row)
	}
	if len(result) == 0 {
		return nil, emissions.ErrEmptyUpload
	}
	return result, nil
}

func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if cell != "" {
			return false
		}
	}
	return true
}
