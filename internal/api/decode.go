package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// fields reads typed values out of one JSON object. The first failure is
// kept and reported by done(); later reads return zero values.
type fields struct {
	entity string
	raw    map[string]json.RawMessage
	err    error
}

// newFields parses data and applies renames (wire name -> field name) before
// any field is read.
func newFields(entity string, data json.RawMessage, renames map[string]string) (*fields, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Entity: entity, Err: errMissing}
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Entity: entity, Err: err}
	}
	if raw == nil {
		return nil, &DecodeError{Entity: entity, Err: fmt.Errorf("null object")}
	}
	for wire, name := range renames {
		if v, ok := raw[wire]; ok {
			delete(raw, wire)
			raw[name] = v
		}
	}
	return &fields{entity: entity, raw: raw}, nil
}

func (f *fields) fail(field string, err error) {
	if f.err == nil {
		f.err = &DecodeError{Entity: f.entity, Field: field, Err: err}
	}
}

func (f *fields) done() error {
	return f.err
}

// lookup treats a missing key and an explicit null the same.
func (f *fields) lookup(name string) (json.RawMessage, bool) {
	v, ok := f.raw[name]
	if !ok || isNull(v) {
		return nil, false
	}
	return v, true
}

func (f *fields) required(name string) (json.RawMessage, bool) {
	v, ok := f.lookup(name)
	if !ok {
		f.fail(name, errMissing)
	}
	return v, ok
}

func (f *fields) Int(name string) int {
	v, ok := f.required(name)
	if !ok {
		return 0
	}
	n, err := parseInt(v)
	if err != nil {
		f.fail(name, err)
	}
	return n
}

func (f *fields) OptInt(name string) Opt[int] {
	v, ok := f.lookup(name)
	if !ok {
		return None[int]()
	}
	n, err := parseInt(v)
	if err != nil {
		f.fail(name, err)
		return None[int]()
	}
	return Some(n)
}

func (f *fields) String(name string) string {
	v, ok := f.required(name)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		f.fail(name, err)
	}
	return s
}

func (f *fields) OptString(name string) Opt[string] {
	v, ok := f.lookup(name)
	if !ok {
		return None[string]()
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		f.fail(name, err)
		return None[string]()
	}
	return Some(s)
}

func (f *fields) Bool(name string) bool {
	v, ok := f.required(name)
	if !ok {
		return false
	}
	b, err := parseBool(v)
	if err != nil {
		f.fail(name, err)
	}
	return b
}

func (f *fields) Time(name string) time.Time {
	v, ok := f.required(name)
	if !ok {
		return time.Time{}
	}
	t, err := parseTime(v)
	if err != nil {
		f.fail(name, err)
	}
	return t
}

func (f *fields) OptTime(name string) Opt[time.Time] {
	v, ok := f.lookup(name)
	if !ok {
		return None[time.Time]()
	}
	t, err := parseTime(v)
	if err != nil {
		f.fail(name, err)
		return None[time.Time]()
	}
	return Some(t)
}

func (f *fields) Decimal(name string) decimal.Decimal {
	v, ok := f.required(name)
	if !ok {
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(v); err != nil {
		f.fail(name, err)
	}
	return d
}

func (f *fields) OptDecimal(name string) Opt[decimal.Decimal] {
	v, ok := f.lookup(name)
	if !ok {
		return None[decimal.Decimal]()
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(v); err != nil {
		f.fail(name, err)
		return None[decimal.Decimal]()
	}
	return Some(d)
}

// Billable keeps the tri-state integer; a JSON boolean maps to 0 or 1.
func (f *fields) Billable(name string) Billable {
	v, ok := f.required(name)
	if !ok {
		return NotBillable
	}
	if b, err := strconv.ParseBool(string(v)); err == nil {
		if b {
			return BillableUnbilled
		}
		return NotBillable
	}
	n, err := parseInt(v)
	if err != nil {
		f.fail(name, err)
		return NotBillable
	}
	if !Billable(n).Valid() {
		f.fail(name, fmt.Errorf("billable must be 0, 1 or 2, got %d", n))
		return NotBillable
	}
	return Billable(n)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// parseInt accepts a JSON number or a numeric string.
func parseInt(v json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("not an integer: %s", v)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

// parseBool accepts true/false, 0/1 and their string forms.
func parseBool(v json.RawMessage) (bool, error) {
	s := string(bytes.TrimSpace(v))
	var str string
	if json.Unmarshal(v, &str) == nil {
		s = str
	}
	switch s {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %s", v)
}

func parseTime(v json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return time.Time{}, fmt.Errorf("timestamp is not a string: %s", v)
	}
	return ParseTimestamp(s)
}
