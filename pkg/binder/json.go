package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize caps request bodies at 1 MiB.
const DefaultMaxJSONSize = 1 << 20

// JSON decodes the body into v, rejecting unknown fields and trailing data.
// An empty body leaves v untouched.
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
			return nil
		}
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			return ErrUnsupportedMediaType.Wrap(fmt.Errorf("content type %q", r.Header.Get("Content-Type")))
		}

		dec := json.NewDecoder(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return ErrFailedToParseJSON.Wrap(err)
		}
		if dec.More() {
			return ErrFailedToParseJSON.Wrap(errors.New("unexpected data after JSON value"))
		}
		if dec.InputOffset() > DefaultMaxJSONSize {
			return ErrFailedToParseJSON.Wrap(fmt.Errorf("body exceeds %d bytes", DefaultMaxJSONSize))
		}
		return nil
	}
}
