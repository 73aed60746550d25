// Package report turns KPI data into comma-separated text and hands it to a
// types.Sink.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayout renders timestamps as ISO-8601 UTC with milliseconds.
const timeLayout = "2006-01-02T15:04:05.000Z"

// FormatValue renders one cell. Nil renders empty; a value containing a comma,
// a double quote or a newline is quoted with embedded quotes doubled.
func FormatValue(v any) string {
	s := stringify(v)
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case *float64:
		if x == nil {
			return ""
		}
		return formatFloat(*x)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(timeLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// formatFloat prints the shortest exact decimal. Negative zero prints as "0".
func formatFloat(f float64) string {
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToTable renders a header line followed by one line per row, joined by
// "\n". Missing keys render as empty cells.
func ToTable(rows []map[string]any, headers []string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	cells := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			cells[i] = FormatValue(row[h])
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}
