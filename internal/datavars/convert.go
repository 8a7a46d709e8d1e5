// SPDX-License-Identifier: MPL-2.0

package datavars

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON is JSON, with comments and trailing commas tolerated.
	FormatJSON Format = "json"
	// FormatYAML is YAML 1.2.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML 1.0.
	FormatTOML Format = "toml"
)

var errNotObject = errors.New("top-level value must be an object")

type (
	// Format names a supported data encoding.
	Format string

	// DecodeError reports data that could not be decoded or converted.
	DecodeError struct {
		Format Format
		Path   string
		Err    error
	}
)

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: decode %s: %v", e.Path, e.Format, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatOf picks a Format from a file extension. The boolean is false when
// the extension is not a supported data format.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

// IsDataFile reports whether path has a supported data extension.
func IsDataFile(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// ConvertFile decodes data according to path's extension and returns the
// equivalent SCSS variable declarations.
func ConvertFile(path string, data []byte, opts Options) (string, error) {
	format, ok := FormatOf(path)
	if !ok {
		return "", &DecodeError{Path: path, Err: fmt.Errorf("unsupported extension %q", filepath.Ext(path))}
	}
	out, err := Convert(format, data, opts)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Path = path
		}
		return "", err
	}
	return out, nil
}

// Convert decodes data in the given format and returns SCSS variable declarations.
func Convert(format Format, data []byte, opts Options) (string, error) {
	var (
		root value
		err  error
	)
	switch format {
	case FormatJSON:
		root, err = decodeJSON(data)
	case FormatYAML:
		root, err = decodeYAML(data)
	case FormatTOML:
		root, err = decodeTOML(data)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return "", &DecodeError{Format: format, Err: err}
	}

	switch root.kind {
	case kindNull:
		return "", nil
	case kindMap:
		return root.declarations(opts), nil
	default:
		return "", &DecodeError{Format: format, Err: errNotObject}
	}
}

func decodeJSON(data []byte) (value, error) {
	stripped := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return value{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return value{}, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// readJSON consumes one JSON value from dec, keeping object keys in order.
func readJSON(dec *json.Decoder) (value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := value{kind: kindMap}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value{}, err
				}
				key, _ := keyTok.(string)
				item, err := readJSON(dec)
				if err != nil {
					return value{}, err
				}
				v.keys = append(v.keys, key)
				v.items = append(v.items, item)
			}
			_, err := dec.Token()
			return v, err
		case '[':
			v := value{kind: kindList}
			for dec.More() {
				item, err := readJSON(dec)
				if err != nil {
					return value{}, err
				}
				v.items = append(v.items, item)
			}
			_, err := dec.Token()
			return v, err
		}
		return value{}, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return value{kind: kindString, text: t}, nil
	case json.Number:
		return value{kind: kindNumber, text: t.String()}, nil
	case bool:
		return value{kind: kindBool, text: strconv.FormatBool(t)}, nil
	default:
		return value{}, nil
	}
}

func decodeYAML(data []byte) (value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return value{}, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return value{}, nil
	}
	return fromYAML(doc.Content[0]), nil
}

func fromYAML(n *yaml.Node) value {
	switch n.Kind {
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		v := value{kind: kindMap}
		for i := 0; i+1 < len(n.Content); i += 2 {
			v.keys = append(v.keys, n.Content[i].Value)
			v.items = append(v.items, fromYAML(n.Content[i+1]))
		}
		return v
	case yaml.SequenceNode:
		v := value{kind: kindList}
		for _, c := range n.Content {
			v.items = append(v.items, fromYAML(c))
		}
		return v
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return value{}
		case "!!int", "!!float":
			return value{kind: kindNumber, text: n.Value}
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err == nil {
				return value{kind: kindBool, text: strconv.FormatBool(b)}
			}
		}
		return value{kind: kindString, text: n.Value}
	default:
		return value{}
	}
}

func decodeTOML(data []byte) (value, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return value{}, err
	}
	return fromAny(doc), nil
}

func fromAny(x any) value {
	switch t := x.(type) {
	case nil:
		return value{}
	case string:
		return value{kind: kindString, text: t}
	case bool:
		return value{kind: kindBool, text: strconv.FormatBool(t)}
	case int64:
		return value{kind: kindNumber, text: strconv.FormatInt(t, 10)}
	case float64:
		return value{kind: kindNumber, text: strconv.FormatFloat(t, 'g', -1, 64)}
	case time.Time:
		return value{kind: kindString, text: t.Format(time.RFC3339)}
	case []any:
		v := value{kind: kindList}
		for _, item := range t {
			v.items = append(v.items, fromAny(item))
		}
		return v
	case map[string]any:
		v := value{kind: kindMap}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			v.keys = append(v.keys, k)
			v.items = append(v.items, fromAny(t[k]))
		}
		return v
	default:
		return value{kind: kindString, text: fmt.Sprint(t)}
	}
}
