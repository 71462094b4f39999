package validation

import (
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/shopspring/decimal"
)

// untrimmed fields keep their submitted value byte for byte.
var untrimmed = map[string]bool{"account_password": true}

var decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(values []string) (interface{}, error) {
		return decimal.NewFromString(values[0])
	}, decimal.Decimal{})
	return d
}

// Malformed is embedded in forms with typed fields. It records the fields
// whose submitted value could not be converted to the field type.
type Malformed struct {
	fields map[string]bool
}

func (m *Malformed) recordMalformed(names []string) {
	if m.fields == nil {
		m.fields = make(map[string]bool, len(names))
	}
	for _, name := range names {
		m.fields[name] = true
	}
}

func (m *Malformed) isMalformed(name string) bool {
	return m.fields[name]
}

type malformedRecorder interface {
	recordMalformed(names []string)
}

type malformedChecker interface {
	isMalformed(name string) bool
}

// Decode fills dst from submitted form values. Values are trimmed and
// blank values count as missing. A value that cannot be converted leaves
// its field unset and is reported by validation rather than failing the
// decode.
func Decode(values url.Values, dst any) error {
	cleaned := make(url.Values, len(values))
	for name, submitted := range values {
		if len(submitted) == 0 {
			continue
		}
		value := submitted[0]
		if !untrimmed[name] {
			value = strings.TrimSpace(value)
		}
		if value == "" {
			continue
		}
		cleaned.Set(name, value)
	}

	err := decoder.Decode(dst, cleaned)
	var decodeErrs form.DecodeErrors
	if !errors.As(err, &decodeErrs) {
		return err
	}

	if recorder, ok := dst.(malformedRecorder); ok {
		names := make([]string, 0, len(decodeErrs))
		for name := range decodeErrs {
			names = append(names, name)
		}
		recorder.recordMalformed(names)
	}
	return nil
}
