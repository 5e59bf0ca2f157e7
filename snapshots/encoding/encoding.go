// Package encoding renders snapshot rows as CSV.
//
// NULL and the empty string must stay distinguishable: NULL is written as an
// empty field, the empty string as a quoted empty field (""). Everything else
// is written verbatim unless it contains a comma, a double quote, a carriage
// return or a newline, in which case it is quoted with inner quotes doubled.
package encoding

import (
	"io"
	"strings"
)

const (
	Separator = ","
	Newline   = "\n"
)

// EncodeField encodes a single value. A nil value is NULL.
func EncodeField(value *string) string {
	if value == nil {
		return ""
	}

	v := *value

	if v == "" {
		return `""`
	}

	if !strings.ContainsAny(v, ",\"\r\n") {
		return v
	}

	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// EncodeRow encodes a row without the trailing newline
func EncodeRow(values []*string) string {
	fields := make([]string, len(values))

	for i, v := range values {
		fields[i] = EncodeField(v)
	}

	return strings.Join(fields, Separator)
}

// EncodeHeader encodes the column names without the trailing newline
func EncodeHeader(columns []string) string {
	fields := make([]string, len(columns))

	for i := range columns {
		fields[i] = EncodeField(&columns[i])
	}

	return strings.Join(fields, Separator)
}

// WriteRow writes a newline terminated row to w
func WriteRow(w io.Writer, values []*string) error {
	_, err := io.WriteString(w, EncodeRow(values)+Newline)
	return err
}

// WriteHeader writes the newline terminated header line to w
func WriteHeader(w io.Writer, columns []string) error {
	_, err := io.WriteString(w, EncodeHeader(columns)+Newline)
	return err
}
