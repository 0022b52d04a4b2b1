package engine

import (
	"fmt"
	"reflect"
	"strings"

	"mercator-hq/ifccheck/pkg/model"
)

// Equal reports whether two attribute values are equal. Entities compare by
// identity; everything else compares structurally and type-sensitively, so
// the integer 1 differs from the string "1" and from the float 1.0.
func Equal(a, b any) bool {
	ea, aIsEntity := a.(model.Entity)
	eb, bIsEntity := b.(model.Entity)
	if aIsEntity || bIsEntity {
		return aIsEntity && bIsEntity && ea == eb
	}

	la, aIsList := a.([]any)
	lb, bIsList := b.([]any)
	if aIsList && bIsList {
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !Equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

// Contains reports whether v equals one of values.
func Contains(values []any, v any) bool {
	for _, candidate := range values {
		if Equal(candidate, v) {
			return true
		}
	}
	return false
}

// Display renders a value for result messages.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case model.Typed:
		return x.TypeTag()
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = Display(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
