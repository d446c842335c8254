// Package codec encodes run reports.
//
// The default codec is backed by github.com/goccy/go-json. The standard
// library codec is kept selectable by name for consumers that compare output
// byte for byte with encoding/json.
package codec

import (
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
// The empty name selects Default.
func ByName(name string) (Codec, bool) {
	switch name {
	case "":
		return Default, true
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Write encodes v with c and writes it to w followed by a newline.
func Write(w io.Writer, c Codec, v any) error {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		return fmt.Errorf("codec %s: marshal: %w", c.Name(), err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
