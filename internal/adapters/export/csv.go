package export

import (
	"encoding/csv"
	"io"

	"github.com/ogurasousui/employee-records-api/internal/core/employee"
)

// WriteCSV は社員名簿を CSV (CRLF 改行) で書き出します。
func WriteCSV(w io.Writer, employees []*employee.Employee) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(rosterHeader); err != nil {
		return err
	}
	for _, e := range employees {
		if err := cw.Write(toRow(e)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
