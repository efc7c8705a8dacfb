package xlsx

import (
	"math"
	"strings"
	"time"
)

// Built-in number formats that a style may reference by id alone.
var builtinNumFmts = map[uint32]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// builtinNumFmtID returns the id of a built-in format code.
func builtinNumFmtID(code string) (int, bool) {
	if code == "" || strings.EqualFold(code, "General") {
		return 0, true
	}
	for id, c := range builtinNumFmts {
		if c == code {
			return int(id), true
		}
	}
	return 0, false
}

// isDateFormat reports whether a number format renders a calendar date.
// Quoted literals, escapes and bracketed colour/locale sections are ignored;
// pure time formats such as "h:mm" stay numbers.
func isDateFormat(code string) bool {
	if code == "" || strings.EqualFold(code, "General") {
		return false
	}
	// only the positive section decides
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	var (
		inQuote   bool
		inBracket bool
	)
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			switch ch {
			case 'y', 'Y', 'd', 'D':
				return true
			}
		}
	}
	return false
}

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// serialToTime converts a 1900-system serial day number to a UTC time.
func serialToTime(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	t := excelEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(math.Round(frac*86400)) * time.Second)
}

var lastSerialTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// timeToSerial is the inverse of serialToTime. The wall clock of t is kept
// and its zone dropped. It reports false before the epoch or after the last
// day a workbook can hold.
func timeToSerial(t time.Time) (float64, bool) {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if wall.Before(excelEpoch) || wall.After(lastSerialTime) {
		return 0, false
	}
	secs := wall.Unix() - excelEpoch.Unix()
	return float64(secs)/86400 + float64(wall.Nanosecond())/(86400*1e9), true
}
