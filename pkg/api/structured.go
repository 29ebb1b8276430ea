package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

type valueKind int

const (
	kindScalar valueKind = iota
	kindObject
	kindArray
)

// jsonValue keeps object keys in document order, which map decoding loses.
type jsonValue struct {
	kind   valueKind
	scalar string
	keys   []string
	fields []jsonValue
	items  []jsonValue
}

// StructuredMarkdown converts a nested JSON object or array into markdown.
// Top-level scalar fields become bold labels, nested values become
// headings followed by bullet lists. Key order follows the source.
func StructuredMarkdown(data []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return "", fmt.Errorf("structured value: %w", err)
	}
	var b strings.Builder
	switch v.kind {
	case kindObject:
		for i, k := range v.keys {
			f := v.fields[i]
			if f.kind == kindScalar {
				fmt.Fprintf(&b, "**%s:** %s\n\n", TitleCase(k), f.scalar)
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", TitleCase(k))
			writeChildren(&b, f, "")
			b.WriteString("\n")
		}
	case kindArray:
		writeChildren(&b, v, "")
	default:
		b.WriteString(v.scalar)
	}
	return strings.TrimSpace(b.String()), nil
}

func writeField(b *strings.Builder, key string, v jsonValue, indent string) {
	if v.kind == kindScalar {
		fmt.Fprintf(b, "%s- **%s:** %s\n", indent, TitleCase(key), v.scalar)
		return
	}
	fmt.Fprintf(b, "%s- **%s:**\n", indent, TitleCase(key))
	writeChildren(b, v, indent+"  ")
}

func writeChildren(b *strings.Builder, v jsonValue, indent string) {
	switch v.kind {
	case kindObject:
		for i, k := range v.keys {
			writeField(b, k, v.fields[i], indent)
		}
	case kindArray:
		for _, it := range v.items {
			switch it.kind {
			case kindScalar:
				fmt.Fprintf(b, "%s- %s\n", indent, it.scalar)
			case kindObject:
				// first field heads the item, the rest nest under it
				for i, k := range it.keys {
					if i == 0 {
						writeField(b, k, it.fields[i], indent)
						continue
					}
					writeField(b, k, it.fields[i], indent+"  ")
				}
			case kindArray:
				writeChildren(b, it, indent)
			}
		}
	default:
		fmt.Fprintf(b, "%s- %s\n", indent, v.scalar)
	}
}

func readValue(dec *json.Decoder) (jsonValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return jsonValue{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := jsonValue{kind: kindObject}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return jsonValue{}, err
				}
				key, _ := kt.(string)
				fv, err := readValue(dec)
				if err != nil {
					return jsonValue{}, err
				}
				v.keys = append(v.keys, key)
				v.fields = append(v.fields, fv)
			}
			if _, err := dec.Token(); err != nil {
				return jsonValue{}, err
			}
			return v, nil
		case '[':
			v := jsonValue{kind: kindArray}
			for dec.More() {
				it, err := readValue(dec)
				if err != nil {
					return jsonValue{}, err
				}
				v.items = append(v.items, it)
			}
			if _, err := dec.Token(); err != nil {
				return jsonValue{}, err
			}
			return v, nil
		}
		return jsonValue{}, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return jsonValue{kind: kindScalar, scalar: t}, nil
	case json.Number:
		return jsonValue{kind: kindScalar, scalar: t.String()}, nil
	case bool:
		if t {
			return jsonValue{kind: kindScalar, scalar: "true"}, nil
		}
		return jsonValue{kind: kindScalar, scalar: "false"}, nil
	case nil:
		return jsonValue{kind: kindScalar}, nil
	}
	return jsonValue{}, fmt.Errorf("unexpected token %v", tok)
}

// TitleCase turns a snake_case or kebab-case key into "Title Case".
func TitleCase(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || unicode.IsSpace(r) })
	for i, p := range parts {
		rs := []rune(p)
		rs[0] = unicode.ToUpper(rs[0])
		parts[i] = string(rs)
	}
	return strings.Join(parts, " ")
}
