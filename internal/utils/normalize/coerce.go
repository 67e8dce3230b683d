package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// dateLayouts are tried in order; day-first layouts precede month-first ones.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01-02-06",
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// parseDecimal accepts numbers as produced by spreadsheets, JSON and humans:
// currency symbols, spaces, thousands separators and either '.' or ','
// as the decimal separator.
func parseDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case float32:
		return decimal.NewFromFloat32(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	}

	s := asString(v)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty value")
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			return r
		}
		return -1
	}, s)
	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// normalizeSeparators rewrites s so that '.' is the only decimal separator.
// When both separators appear the last one is the decimal separator. A single
// kind appearing more than once is a thousands separator, as is a lone comma
// followed by exactly three digits.
func normalizeSeparators(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	case commas == 1:
		idx := strings.Index(s, ",")
		if len(s)-idx-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}

// parseDate accepts the layouts above, time.Time values and Excel serial dates.
func parseDate(v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return truncateDay(t), nil
	}
	if f, ok := v.(float64); ok {
		return excelSerial(f)
	}

	s := asString(v)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return excelSerial(f)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func excelSerial(f float64) (time.Time, error) {
	if f < 1 || f > 2958465 {
		return time.Time{}, fmt.Errorf("serial %v out of range", f)
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(t), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
