package books

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// LooseNumber is a numeric field as the operator typed it. Historic
// documents mix JSON numbers, numeric strings, blanks and garbage in
// the same position, so the raw text is kept verbatim and parsing is
// deferred to Decimal(), which coerces anything unparseable to zero.
//
// The validity flag lets callers surface a warning without changing the
// default-to-zero arithmetic.
type LooseNumber string

// Loose builds a LooseNumber from a decimal value, fixed to two places.
func Loose(d decimal.Decimal) LooseNumber {
	return LooseNumber(d.StringFixed(2))
}

// Decimal parses the field. The bool reports whether the raw text was a
// well-formed number; on failure (or blank) the value is zero.
func (n LooseNumber) Decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsZero reports whether the field is blank or reads as zero.
func (n LooseNumber) IsZero() bool {
	d, _ := n.Decimal()
	return d.IsZero()
}

// UnmarshalJSON accepts a JSON number, a string, or null.
func (n *LooseNumber) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*n = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*n = LooseNumber(str)
		return nil
	}
	*n = LooseNumber(s)
	return nil
}

// MarshalJSON writes a JSON number when the raw text parses as one, and
// the verbatim string otherwise. Blank marshals as an empty string,
// matching how untouched credit/debit cells are stored.
func (n LooseNumber) MarshalJSON() ([]byte, error) {
	if d, ok := n.Decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(n))
}
