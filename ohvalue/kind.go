package ohvalue

import "fmt"

// Kind identifies the variant of a Value.
// Each Kind is canonicalized by exactly one rule.
type Kind uint8

const (
	K_Null = Kind(iota)
	K_Undefined
	K_Bool
	K_Number
	K_Text
	K_Seq
	K_Map
	K_Date
	K_Buffer
	K_TypedArray
	K_Pattern
	K_Func
	K_Object
	K_Error
	K_Unknown
)

var kindNames = [...]string{
	K_Null:       "null",
	K_Undefined:  "undefined",
	K_Bool:       "bool",
	K_Number:     "number",
	K_Text:       "text",
	K_Seq:        "seq",
	K_Map:        "map",
	K_Date:       "date",
	K_Buffer:     "buffer",
	K_TypedArray: "typedarray",
	K_Pattern:    "pattern",
	K_Func:       "func",
	K_Object:     "object",
	K_Error:      "error",
	K_Unknown:    "unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsComposite returns true for the Kinds which have identity, and can therefore
// participate in a cycle.
func (k Kind) IsComposite() bool {
	switch k {
	case K_Seq, K_Map, K_Object:
		return true
	default:
		return false
	}
}
