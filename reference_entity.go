// reference_entity.go - a minimal, literal-string Entity implementation
//
// Licensing Terms: GPLv2

package oval

import (
	"regexp"
	"strconv"
	"strings"
)

// StringEntity is a reference Entity backed by a plain Go string, covering
// the operations the walker actually exercises. It is not a substitute for
// the real S-expression-backed comparator: there is no support for node
// sets, collections, or datatype-aware relational comparison beyond what
// strconv.ParseFloat gives us for free. It exists so the walker and its tests
// have a concrete, dependency-free Entity to drive against.
type StringEntity struct {
	op      Operation
	hasOp   bool
	value   string
	pattern *regexp.Regexp // lazily compiled for OpPatternMatch
}

// NewStringEntity returns an Entity with an explicit operation.
func NewStringEntity(op Operation, value string) *StringEntity {
	return &StringEntity{op: op, hasOp: true, value: value}
}

// NewStringEntityNoOp returns an Entity with no operation attribute set,
// so callers can exercise the walker's "default to OpEquals" behavior.
func NewStringEntityNoOp(value string) *StringEntity {
	return &StringEntity{value: value}
}

// Operation satisfies Entity.
func (s *StringEntity) Operation() (Operation, bool) {
	return s.op, s.hasOp
}

// Value satisfies Entity.
func (s *StringEntity) Value() string {
	return s.value
}

// Compare satisfies Entity.
func (s *StringEntity) Compare(candidate string) CompareResult {
	op := s.op
	if !s.hasOp {
		op = OpEquals
	}

	switch op {
	case OpEquals:
		return boolResult(candidate == s.value)
	case OpNotEqual:
		return boolResult(candidate != s.value)
	case OpCaseInsensitiveEquals:
		return boolResult(strings.EqualFold(candidate, s.value))
	case OpCaseInsensitiveNotEqual:
		return boolResult(!strings.EqualFold(candidate, s.value))
	case OpPatternMatch:
		if s.pattern == nil {
			re, err := regexp.Compile(s.value)
			if err != nil {
				return ResultError
			}
			s.pattern = re
		}
		return boolResult(s.pattern.MatchString(candidate))
	case OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
		return s.compareOrdered(candidate, op)
	case OpSubsetOf:
		return boolResult(strings.Contains(s.value, candidate))
	case OpSupersetOf:
		return boolResult(strings.Contains(candidate, s.value))
	default:
		return ResultError
	}
}

func (s *StringEntity) compareOrdered(candidate string, op Operation) CompareResult {
	cn, err1 := strconv.ParseFloat(candidate, 64)
	vn, err2 := strconv.ParseFloat(s.value, 64)
	if err1 != nil || err2 != nil {
		// fall back to lexical ordering, same as an OVAL string datatype
		switch op {
		case OpGreaterThan:
			return boolResult(candidate > s.value)
		case OpLessThan:
			return boolResult(candidate < s.value)
		case OpGreaterThanOrEqual:
			return boolResult(candidate >= s.value)
		default:
			return boolResult(candidate <= s.value)
		}
	}
	switch op {
	case OpGreaterThan:
		return boolResult(cn > vn)
	case OpLessThan:
		return boolResult(cn < vn)
	case OpGreaterThanOrEqual:
		return boolResult(cn >= vn)
	default:
		return boolResult(cn <= vn)
	}
}

func boolResult(b bool) CompareResult {
	if b {
		return ResultTrue
	}
	return ResultFalse
}

var _ Entity = &StringEntity{}
