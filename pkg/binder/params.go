package binder

import (
	"encoding"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/dmitrymomot/tenantkit/pkg/apperr"
)

// Path binds `path` tagged fields using lookup, usually chi.URLParam.
func Path(lookup func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindTagged(v, "path", func(name string) (string, bool) {
			s := lookup(r, name)
			return s, s != ""
		}, ErrFailedToParsePath.Wrap)
	}
}

// Query binds `query` tagged fields from the URL query string.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values := r.URL.Query()
		return bindTagged(v, "query", func(name string) (string, bool) {
			if !values.Has(name) {
				return "", false
			}
			return values.Get(name), true
		}, ErrFailedToParseQuery.Wrap)
	}
}

var textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()

func bindTagged(v any, tag string, get func(string) (string, bool), wrap func(error) *apperr.Error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rt.NumField() {
		sf := rt.Field(i)
		name := sf.Tag.Get(tag)
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw, ok := get(name)
		if !ok {
			continue
		}
		if err := setValue(rv.Field(i), raw); err != nil {
			return wrap(fmt.Errorf("%s: %w", name, err))
		}
	}
	return nil
}

func setValue(field reflect.Value, raw string) error {
	if field.CanAddr() && field.Addr().Type().Implements(textUnmarshaler) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
