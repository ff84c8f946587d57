// Package shared provides value types used across all modules in agentlearn.
package shared

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ============================================================================
// Tagged Scalar Values
// ============================================================================

// ValueKind discriminates the variants of a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
)

// Value is a tagged scalar holding a string, number, or boolean. It replaces
// loosely-typed interface{} bags for action context and parameters while
// keeping JSON-like flexibility.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// String returns a Value holding a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a Value holding a number.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a Value holding a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string payload and whether the value is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric payload and whether the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean payload and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	default:
		return v.b == other.b
	}
}

// Canonical returns a stable textual form used for feature and cache keys.
func (v Value) Canonical() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	default:
		return strconv.FormatBool(v.b)
	}
}

// MarshalJSON encodes the underlying scalar directly.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	default:
		return json.Marshal(v.b)
	}
}

// UnmarshalJSON decodes a JSON scalar into the matching variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	case nil:
		*v = String("")
	default:
		return fmt.Errorf("unsupported scalar type %T", raw)
	}
	return nil
}

// ============================================================================
// Value Maps
// ============================================================================

// ValueMap is a key to tagged-scalar mapping used for contexts and parameters.
type ValueMap map[string]Value

// CloneValueMap returns an independent copy of a ValueMap. A nil map clones
// to nil so absence survives round trips.
func CloneValueMap(source ValueMap) ValueMap {
	if source == nil {
		return nil
	}
	cloned := make(ValueMap, len(source))
	for k, v := range source {
		cloned[k] = v
	}
	return cloned
}

// SortedKeys returns the map's keys in ascending order for stable iteration.
func SortedKeys(m ValueMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ============================================================================
// Outcomes
// ============================================================================

// OutcomeTag classifies the result of an observed action.
type OutcomeTag string

const (
	OutcomeSuccess OutcomeTag = "success"
	OutcomeFailure OutcomeTag = "failure"
	OutcomePartial OutcomeTag = "partial"
)

// RiskLevel classifies how risky an action is to execute.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)
