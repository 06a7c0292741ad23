package resource

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/simp-lee/parkadmin/internal/lookup"
)

// FieldType selects the input widget of a form field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldEmail       FieldType = "email"
	FieldPassword    FieldType = "password"
	FieldNumber      FieldType = "number"
	FieldTextarea    FieldType = "textarea"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
	// FieldPath is a JSON polyline edited on the street map.
	FieldPath FieldType = "path"
)

// FieldSpec declares one input of a resource form. Name matches the `form`
// tag of the form struct.
type FieldSpec struct {
	Name     string
	Label    string
	Type     FieldType
	Step     string
	Help     string
	Required bool
	Options  []lookup.Option
	// Lookup names a reference list resolved through the lookup cache.
	Lookup string
}

// FormField is a FieldSpec bound to the current values and errors.
type FormField struct {
	FieldSpec
	Value    string
	Selected map[string]bool
	Error    string
}

// buildFields binds specs to the values held by form and to errs (field
// name → message).
func buildFields(ctx context.Context, specs []FieldSpec, form any, errs map[string]string, lists *lookup.Cache, loaders map[string]lookup.Loader) ([]FormField, error) {
	values := formValues(form)
	out := make([]FormField, 0, len(specs))
	for _, spec := range specs {
		f := FormField{FieldSpec: spec, Error: errs[spec.Name]}

		if spec.Lookup != "" {
			load, ok := loaders[spec.Lookup]
			if !ok {
				return nil, fmt.Errorf("form field %s: unknown lookup %q", spec.Name, spec.Lookup)
			}
			opts, err := lists.Options(ctx, spec.Lookup, load)
			if err != nil {
				return nil, fmt.Errorf("form field %s: %w", spec.Name, err)
			}
			f.Options = opts
		}

		vals := values[spec.Name]
		switch spec.Type {
		case FieldMultiSelect:
			f.Selected = make(map[string]bool, len(vals))
			for _, v := range vals {
				f.Selected[v] = true
			}
		case FieldPassword:
			// Never echo secrets back into the page.
		default:
			if len(vals) > 0 {
				f.Value = vals[0]
			}
		}
		out = append(out, f)
	}
	return out, nil
}

// formValues reads the `form`-tagged fields of a struct (or pointer to one)
// as strings. Slices yield one value per element; nil pointers yield none.
func formValues(form any) map[string][]string {
	out := map[string][]string{}
	v := reflect.ValueOf(form)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return out
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return out
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		out[name] = fieldStrings(v.Field(i))
	}
	return out
}

func fieldStrings(v reflect.Value) []string {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return fieldStrings(v.Elem())
	case reflect.Slice:
		out := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, fieldStrings(v.Index(i))...)
		}
		return out
	case reflect.String:
		return []string{v.String()}
	case reflect.Bool:
		return []string{strconv.FormatBool(v.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []string{strconv.FormatInt(v.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Uint() == 0 {
			return []string{""}
		}
		return []string{strconv.FormatUint(v.Uint(), 10)}
	case reflect.Float32, reflect.Float64:
		return []string{strconv.FormatFloat(v.Float(), 'f', -1, 64)}
	default:
		return []string{fmt.Sprint(v.Interface())}
	}
}
