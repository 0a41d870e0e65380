package vm

import (
	"fmt"

	"github.com/kristofer/lumen/pkg/value"
)

// formatValue renders a Value the way `print` and the execution tracer
// show it: nil/true/false literally, numbers with Go's shortest
// round-tripping form, and heap objects through their own Stringer (§4.5).
func formatValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNil:
		return "nil"
	case value.KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case value.KindNumber:
		return fmt.Sprintf("%g", v.AsNumber())
	case value.KindObj:
		if s, ok := v.AsObj().(fmt.Stringer); ok {
			return s.String()
		}
		return v.AsObj().ObjKind().String()
	default:
		return "?"
	}
}
