package layering

import (
	"encoding/json"
	"math"
	"math/big"

	"github.com/google/go-cmp/cmp"
)

var equalOptions = []cmp.Option{
	cmp.FilterValues(bothNumeric, cmp.Comparer(numbersEqual)),
}

// Equal reports whether a and b hold the same JSON-like value. Object keys
// compare order-insensitively, array elements order-sensitively, and numbers
// by value regardless of their Go representation, so an int decoded on one
// side equals a float64 or json.Number decoded on the other. A change of
// shape, such as a scalar identifier replaced by an object, is unequal.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, equalOptions...)
}

// Diff renders a human-readable difference between a and b, or "" when they
// are Equal.
func Diff(a, b any) string {
	return cmp.Diff(a, b, equalOptions...)
}

func bothNumeric(a, b any) bool {
	_, okA := number(a)
	_, okB := number(b)
	return okA && okB
}

// numeric holds either an exact integer or a float64.
type numeric struct {
	integer *big.Int
	float   float64
}

func (n numeric) bigFloat() *big.Float {
	if n.integer != nil {
		return new(big.Float).SetInt(n.integer)
	}
	return new(big.Float).SetFloat64(n.float)
}

func (n numeric) isNaN() bool {
	return n.integer == nil && math.IsNaN(n.float)
}

// numbersEqual compares integers exactly. Mixed or float operands compare
// through big.Float, which represents both sides without rounding.
func numbersEqual(a, b any) bool {
	x, _ := number(a)
	y, _ := number(b)
	if x.integer != nil && y.integer != nil {
		return x.integer.Cmp(y.integer) == 0
	}
	if x.isNaN() || y.isNaN() {
		return x.isNaN() && y.isNaN()
	}
	return x.bigFloat().Cmp(y.bigFloat()) == 0
}

func number(value any) (numeric, bool) {
	switch typed := value.(type) {
	case float64:
		return numeric{float: typed}, true
	case float32:
		return numeric{float: float64(typed)}, true
	case int:
		return numeric{integer: big.NewInt(int64(typed))}, true
	case int8:
		return numeric{integer: big.NewInt(int64(typed))}, true
	case int16:
		return numeric{integer: big.NewInt(int64(typed))}, true
	case int32:
		return numeric{integer: big.NewInt(int64(typed))}, true
	case int64:
		return numeric{integer: big.NewInt(typed)}, true
	case uint:
		return numeric{integer: new(big.Int).SetUint64(uint64(typed))}, true
	case uint8:
		return numeric{integer: new(big.Int).SetUint64(uint64(typed))}, true
	case uint16:
		return numeric{integer: new(big.Int).SetUint64(uint64(typed))}, true
	case uint32:
		return numeric{integer: new(big.Int).SetUint64(uint64(typed))}, true
	case uint64:
		return numeric{integer: new(big.Int).SetUint64(typed)}, true
	case json.Number:
		if integer, ok := new(big.Int).SetString(typed.String(), 10); ok {
			return numeric{integer: integer}, true
		}
		f, err := typed.Float64()
		if err != nil {
			return numeric{}, false
		}
		return numeric{float: f}, true
	default:
		return numeric{}, false
	}
}
