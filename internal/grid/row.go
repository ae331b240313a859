// Package grid is the headless engine behind the interactive data grid.
//
// It owns everything the grid needs that is not drawing: the column model,
// the filter and sort pipeline, the virtualization window, the selection set
// with its bulk actions, keyboard cell navigation and header drag-reorder.
// A Controller ties those pieces together for one (project, view) pair and
// talks to the outside world through the DataSource interface.
//
// Nothing in this package is safe for concurrent use. The controller is
// owned by a single event loop (the bubbletea program, or a CLI command);
// slow data-source calls are split into a Begin/Execute/Complete triple so
// the loop can run Execute elsewhere and feed the result back.
package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reserved row fields. They are carried on Row itself and never surface as
// user-visible columns.
const (
	FieldUID    = "_uid"
	FieldListID = "_list_id"
)

// IsReservedField reports whether name is one of the internal row fields.
func IsReservedField(name string) bool {
	return name == FieldUID || name == FieldListID || name == "uid" || name == "listId"
}

// Kind is the type tag of a Scalar.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Scalar is a single cell value: a string, a number, a boolean or null.
// The zero value is null.
type Scalar struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Str returns a string scalar.
func Str(s string) Scalar { return Scalar{kind: KindString, str: s} }

// Num returns a numeric scalar.
func Num(f float64) Scalar { return Scalar{kind: KindNumber, num: f} }

// Int returns a numeric scalar from an integer.
func Int(i int64) Scalar { return Scalar{kind: KindNumber, num: float64(i)} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: KindBool, b: b} }

// Kind returns the scalar's type tag.
func (s Scalar) Kind() Kind { return s.kind }

// IsNull reports whether the scalar is null.
func (s Scalar) IsNull() bool { return s.kind == KindNull }

// Number returns the numeric value and whether the scalar is a number.
func (s Scalar) Number() (float64, bool) { return s.num, s.kind == KindNumber }

// Text returns the stringified, trimmed form of the value. This is the form
// used for filter membership, unique-value lists and the global search:
// null becomes "", numbers use the shortest round-trip representation
// (3 not 3.0) and booleans are "true"/"false".
func (s Scalar) Text() string {
	switch s.kind {
	case KindString:
		return strings.TrimSpace(s.str)
	case KindNumber:
		return formatNumber(s.num)
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return ""
	}
}

// String implements fmt.Stringer with the untrimmed display form.
func (s Scalar) String() string {
	if s.kind == KindString {
		return s.str
	}
	return s.Text()
}

// Equal reports whether two scalars have the same kind and value.
func (s Scalar) Equal(o Scalar) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case KindString:
		return s.str == o.str
	case KindNumber:
		return s.num == o.num || (math.IsNaN(s.num) && math.IsNaN(o.num))
	case KindBool:
		return s.b == o.b
	default:
		return true
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON encodes the scalar as its natural JSON value.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindString:
		return json.Marshal(s.str)
	case KindNumber:
		if math.IsNaN(s.num) || math.IsInf(s.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(s.num)
	case KindBool:
		return json.Marshal(s.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON string, number, bool or null. Arrays and
// objects are rejected: rows are flat.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	sc, err := ScalarOf(v)
	if err != nil {
		return err
	}
	*s = sc
	return nil
}

// ScalarOf converts a loosely typed Go value (as produced by encoding/json
// or a database driver) into a Scalar.
func ScalarOf(v any) (Scalar, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Scalar:
		return x, nil
	case string:
		return Str(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Num(x), nil
	case float32:
		return Num(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Str(x.String()), nil
		}
		return Num(f), nil
	default:
		return Null(), fmt.Errorf("unsupported cell value of type %T", v)
	}
}

// ParseScalar interprets user-typed text: numbers and booleans are
// recognized, "" becomes null, everything else stays a string.
func ParseScalar(text string) Scalar {
	t := strings.TrimSpace(text)
	if t == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Num(f)
	}
	switch t {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return Str(text)
}

// Row is one record of a view snapshot. Fields never contains the reserved
// uid/listId entries.
type Row struct {
	UID    string
	ListID string
	Fields map[string]Scalar
}

// NewRow builds a row, dropping any reserved keys from fields.
func NewRow(uid, listID string, fields map[string]Scalar) Row {
	clean := make(map[string]Scalar, len(fields))
	for k, v := range fields {
		if IsReservedField(k) {
			continue
		}
		clean[k] = v
	}
	return Row{UID: uid, ListID: listID, Fields: clean}
}

// Value returns the cell for column, null if absent.
func (r Row) Value(column string) Scalar {
	return r.Fields[column]
}

// MarshalJSON flattens the row into one object with the reserved fields.
func (r Row) MarshalJSON() ([]byte, error) {
	obj := make(map[string]Scalar, len(r.Fields)+2)
	for k, v := range r.Fields {
		obj[k] = v
	}
	obj[FieldUID] = Str(r.UID)
	if r.ListID != "" {
		obj[FieldListID] = Str(r.ListID)
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads a flat object, lifting the reserved fields out.
func (r *Row) UnmarshalJSON(data []byte) error {
	var obj map[string]Scalar
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	uid := obj[FieldUID].String()
	list := obj[FieldListID].String()
	*r = NewRow(uid, list, obj)
	return nil
}
