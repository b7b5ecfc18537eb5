package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Detail is the free-form document facet of an event: an ordered list of
// key/value pairs with variant-typed values (string, number, bool, nested
// document, array, null). It wraps bson.D so the document store round-trips
// it natively, and it marshals to JSON as a plain object with the original
// key order preserved, which keeps serialized snapshots deterministic.
type Detail struct {
	Doc bson.D
}

// NewDetail wraps an existing bson document.
func NewDetail(doc bson.D) *Detail {
	return &Detail{Doc: doc}
}

func (d Detail) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONDoc(&buf, d.Doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Detail) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("detail: expected object, got %v", tok)
	}

	doc, err := decodeJSONDoc(dec)
	if err != nil {
		return err
	}
	d.Doc = doc
	return nil
}

func writeJSONDoc(buf *bytes.Buffer, doc bson.D) error {
	buf.WriteByte('{')
	for i, e := range doc {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeJSONValue(buf, e.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	switch value := v.(type) {
	case bson.D:
		return writeJSONDoc(buf, value)
	case *Detail:
		return writeJSONDoc(buf, value.Doc)
	case primitive.A:
		return writeJSONArray(buf, value)
	case []any:
		return writeJSONArray(buf, value)
	case primitive.ObjectID:
		b, err := json.Marshal(value.Hex())
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func writeJSONArray(buf *bytes.Buffer, arr []any) error {
	buf.WriteByte('[')
	for i, v := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONValue(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// decodeJSONDoc consumes object members up to and including the closing
// brace. The opening brace must already have been consumed.
func decodeJSONDoc(dec *json.Decoder) (bson.D, error) {
	doc := bson.D{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("detail: expected object key, got %v", keyTok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return doc, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch value := tok.(type) {
	case json.Delim:
		switch value {
		case '{':
			return decodeJSONDoc(dec)
		case '[':
			arr := []any{}
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("detail: unexpected delimiter %v", value)
		}
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n, nil
		}
		return value.Float64()
	default:
		// string, bool or nil
		return value, nil
	}
}
