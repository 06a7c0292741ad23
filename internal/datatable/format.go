package datatable

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyCode prefixes every monetary amount rendered by the admin.
const CurrencyCode = "USD"

// NotAvailable is rendered when a relation path cannot be resolved.
const NotAvailable = "N/A"

var moneyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders amount with the fixed currency code, thousands
// grouping and two decimals, e.g. "USD 1,234.50".
func FormatCurrency(amount float64) string {
	return moneyPrinter.Sprintf("%s %.2f", CurrencyCode, amount)
}

// RelationName resolves a dotted path such as "street.zone.name" against row.
// Each segment matches a struct field by json tag or, failing that, by name
// (case-insensitive). A nil pointer, nil interface, missing field or empty
// final value short-circuits to NotAvailable.
func RelationName(row any, path string) string {
	v := reflect.ValueOf(row)
	for _, segment := range strings.Split(path, ".") {
		v = indirect(v)
		if !v.IsValid() || v.Kind() != reflect.Struct {
			return NotAvailable
		}
		v = fieldByTag(v, segment)
	}

	v = indirect(v)
	if !v.IsValid() {
		return NotAvailable
	}
	s := stringify(v.Interface())
	if s == "" {
		return NotAvailable
	}
	return s
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// fieldByTag finds name among v's fields, descending into embedded structs.
func fieldByTag(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name || (tag == "" && strings.EqualFold(f.Name, name)) {
			return v.Field(i)
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		embedded := indirect(v.Field(i))
		if embedded.IsValid() && embedded.Kind() == reflect.Struct {
			if found := fieldByTag(embedded, name); found.IsValid() {
				return found
			}
		}
	}
	return reflect.Value{}
}

// stringify is the text form used for cells, search and equality filters.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02 15:04")
	case *time.Time:
		if x == nil {
			return ""
		}
		return stringify(*x)
	case fmt.Stringer:
		return x.String()
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

// compareValues orders two column values of the same column. Numbers compare
// numerically, strings case-insensitively, bools false before true, times
// chronologically; nil sorts first.
func compareValues(a, b any) int {
	if t1, ok := a.(time.Time); ok {
		if t2, ok := b.(time.Time); ok {
			return t1.Compare(t2)
		}
	}

	va, vb := indirect(reflect.ValueOf(a)), indirect(reflect.ValueOf(b))
	switch {
	case !va.IsValid() && !vb.IsValid():
		return 0
	case !va.IsValid():
		return -1
	case !vb.IsValid():
		return 1
	}

	if fa, ok := number(va); ok {
		if fb, ok := number(vb); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool {
		switch {
		case va.Bool() == vb.Bool():
			return 0
		case !va.Bool():
			return -1
		default:
			return 1
		}
	}

	return strings.Compare(strings.ToLower(stringify(a)), strings.ToLower(stringify(b)))
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}
