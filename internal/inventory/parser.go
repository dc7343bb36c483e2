package inventory

import (
	"bytes"
	"slices"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// preferredSheets are inventory sheet names we recognize, checked in order.
// RVTools exports use "vInfo"; generic estate exports typically ship a single
// sheet with an arbitrary name, in which case the first sheet is used.
var preferredSheets = []string{"vInfo", "VMs", "Inventory"}

// Rows is one sheet of raw tabular inventory data.
type Rows struct {
	Sheet  string
	Header []string
	Data   [][]string
}

// ParseWorkbook opens an xlsx workbook from memory and returns the header and
// data rows of the inventory sheet. Row order is preserved.
func ParseWorkbook(content []byte) (*Rows, error) {
	excelFile, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := sheets[0]
	for _, name := range preferredSheets {
		if slices.Contains(sheets, name) {
			sheet = name
			break
		}
	}

	rows, err := excelFile.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s sheet", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("sheet %s is empty", sheet)
	}

	header, data := splitSheet(rows)
	zap.S().Named("inventory").Infof("Parsed sheet %q: %d data rows", sheet, len(data))

	return &Rows{Sheet: sheet, Header: header, Data: data}, nil
}
