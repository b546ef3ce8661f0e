package validate

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"regexp"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/shopspring/decimal"
)

var base64Re = regexp.MustCompile(`^[A-Za-z0-9+/]+=*$`)

type kind string

const (
	kindMissing kind = "missing"
	kindNull    kind = "null"
	kindObject  kind = "object"
	kindArray   kind = "array"
	kindString  kind = "string"
	kindNumber  kind = "number"
	kindBool    kind = "boolean"
)

// object is a JSON object kept raw so field presence and type can be
// checked before decoding into typed structs.
type object map[string]json.RawMessage

func kindOf(raw json.RawMessage) kind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return kindMissing
	}
	switch raw[0] {
	case '{':
		return kindObject
	case '[':
		return kindArray
	case '"':
		return kindString
	case 't', 'f':
		return kindBool
	case 'n':
		return kindNull
	default:
		return kindNumber
	}
}

func (o object) kind(key string) kind {
	raw, ok := o[key]
	if !ok {
		return kindMissing
	}
	return kindOf(raw)
}

// require checks that key is present with the wanted JSON type.
func (o object) require(check, key string, want kind) error {
	if got := o.kind(key); got != want {
		return violation(check+"."+key, want, got, "field type")
	}
	return nil
}

// child decodes a nested object field.
func (o object) child(check, key string) (object, error) {
	if err := o.require(check, key, kindObject); err != nil {
		return nil, err
	}
	var out object
	if err := json.Unmarshal(o[key], &out); err != nil {
		return nil, violation(check+"."+key, "object", truncate(string(o[key]), 120), err.Error())
	}
	return out, nil
}

// number returns a numeric field as a decimal.
func (o object) number(check, key string) (decimal.Decimal, error) {
	if err := o.require(check, key, kindNumber); err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(string(bytes.TrimSpace(o[key])))
	if err != nil {
		return decimal.Zero, violation(check+"."+key, "number", string(o[key]), err.Error())
	}
	return d, nil
}

// positiveInt requires a numeric field holding an integer greater than zero.
func (o object) positiveInt(check, key string) (decimal.Decimal, error) {
	d, err := o.number(check, key)
	if err != nil {
		return d, err
	}
	if !d.IsInteger() || !d.IsPositive() {
		return d, violation(check+"."+key, "positive integer", d.String(), "")
	}
	return d, nil
}

func expectStatus(check string, resp *httpclient.Response, want int) error {
	if resp == nil {
		return violation(check+".status", want, "no response", "")
	}
	if resp.Status != want {
		return violation(check+".status", want, resp.Status, truncate(string(resp.Body), 300))
	}
	return nil
}

// decode unmarshals the body twice: raw for presence checks and into out.
func decode(check string, resp *httpclient.Response, out any) (object, error) {
	var obj object
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		return nil, violation(check+".body", "json object", truncate(string(resp.Body), 120), err.Error())
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return nil, violation(check+".body", "decodable payload", truncate(string(resp.Body), 120), err.Error())
		}
	}
	return obj, nil
}

func isBase64(s string) bool {
	if !base64Re.MatchString(s) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
