package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ogurasousui/employee-records-api/internal/core/employee"
)

// ErrUnsupportedFormat は未対応の出力形式が指定された場合に返却されます。
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Format は社員名簿の出力形式です。
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// 列順は固定。
var rosterHeader = []string{"ID", "FIRST_NAME", "LAST_NAME", "EMAIL"}

// ParseFormat は文字列から Format を解決します。空文字は CSV として扱います。
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// ContentType は HTTP レスポンス用の Content-Type を返します。
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName は拡張子付きのファイル名を返します。
func (f Format) FileName(base string) string {
	return base + "." + string(f)
}

// Write は社員名簿を指定形式で w に書き出します。
func Write(w io.Writer, f Format, employees []*employee.Employee) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, employees)
	case FormatXLSX:
		return WriteXLSX(w, employees)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

func toRow(e *employee.Employee) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		e.FirstName,
		e.LastName,
		e.Email,
	}
}
