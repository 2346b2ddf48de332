package dump

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05.999999"
	dateLayout     = "2006-01-02"
)

// Escaper converts values read from the source database into SQL literals.
// A nil Escaper uses the defaults.
type Escaper struct {
	// NoBackslashEscapes stops backslashes being doubled inside text literals,
	// for destinations running with the NO_BACKSLASH_ESCAPES sql_mode.
	NoBackslashEscapes bool
	// Location converts time.Time values other than DATE column values before
	// formatting. When nil they keep the location the driver returned them in.
	Location *time.Location
}

// AppendLiteral appends v as a SQL literal to buf.
//
// Numbers are written unquoted, nil as NULL, booleans as 1 or 0 and times as
// quoted datetime strings. Anything else is written as quoted text using its
// default string form.
func (x *Escaper) AppendLiteral(buf []byte, v any) []byte {
	return x.appendColumnLiteral(buf, v, "")
}

// appendColumnLiteral is AppendLiteral for a value read from a column of the
// given declared type. Times in DATE columns are calendar days: they are
// written without a time part and never converted to Location.
func (x *Escaper) appendColumnLiteral(buf []byte, v any, columnType string) []byte {
	switch v := v.(type) {
	case nil:
		return append(buf, "NULL"...)
	case int:
		return strconv.AppendInt(buf, int64(v), 10)
	case int8:
		return strconv.AppendInt(buf, int64(v), 10)
	case int16:
		return strconv.AppendInt(buf, int64(v), 10)
	case int32:
		return strconv.AppendInt(buf, int64(v), 10)
	case int64:
		return strconv.AppendInt(buf, v, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint8:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint16:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(buf, v, 10)
	case float32:
		return appendFloat(buf, float64(v), 32)
	case float64:
		return appendFloat(buf, v, 64)
	case bool:
		if v {
			return append(buf, '1')
		}
		return append(buf, '0')
	case string:
		return x.appendText(buf, v)
	case []byte:
		if v == nil {
			return append(buf, "NULL"...)
		}
		return x.appendText(buf, string(v))
	case time.Time:
		if v.IsZero() {
			return append(buf, "'0000-00-00'"...)
		}
		layout := dateLayout
		if !strings.EqualFold(columnType, "DATE") {
			layout = dateTimeLayout
			if loc := x.location(); loc != nil {
				v = v.In(loc)
			}
		}
		buf = append(buf, '\'')
		buf = v.AppendFormat(buf, layout)
		return append(buf, '\'')
	case driver.Valuer:
		value, err := v.Value()
		if err != nil {
			return x.appendText(buf, fmt.Sprint(v))
		}
		if _, ok := value.(driver.Valuer); ok {
			return x.appendText(buf, fmt.Sprint(value))
		}
		return x.appendColumnLiteral(buf, value, columnType)
	default:
		return x.appendText(buf, fmt.Sprint(v))
	}
}

// appendFloat writes the shortest decimal that parses back to f. NaN and
// infinities have no SQL literal.
func appendFloat(buf []byte, f float64, bitSize int) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(buf, "NULL"...)
	}
	return strconv.AppendFloat(buf, f, 'f', -1, bitSize)
}

func (x *Escaper) appendText(buf []byte, s string) []byte {
	backslashes := !x.noBackslashEscapes()
	buf = append(buf, '\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			buf = append(buf, '\'', '\'')
		case c == '\\' && backslashes:
			buf = append(buf, '\\', '\\')
		default:
			buf = append(buf, c)
		}
	}
	return append(buf, '\'')
}

func (x *Escaper) location() *time.Location {
	if x == nil {
		return nil
	}
	return x.Location
}

func (x *Escaper) noBackslashEscapes() bool {
	if x == nil {
		return false
	}
	return x.NoBackslashEscapes
}

// appendIdentifier wraps name in backticks, doubling any embedded backtick.
func appendIdentifier(buf []byte, name string) []byte {
	buf = append(buf, '`')
	for i := 0; i < len(name); i++ {
		if name[i] == '`' {
			buf = append(buf, '`')
		}
		buf = append(buf, name[i])
	}
	return append(buf, '`')
}
