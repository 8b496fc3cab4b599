package mongopager

import (
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
)

type (
	// Predicate is a fragment of a match condition. It is an ordered document,
	// so identical options always render to an identical pipeline.
	//
	// The grammar produced here is:
	//
	//	{field: literal}                               equality
	//	{field: {$regex: pattern, $options: "i"}}      case-insensitive match
	//	{$and: [predicate...]}, {$or: [predicate...]}  combinators
	Predicate = bson.D

	// Selectors maps a field name to the value to filter by. Values are
	// usually strings or numbers.
	Selectors map[string]any
)

// SelectorAll is the selector value meaning "do not filter by this field".
const SelectorAll = "All"

// Eq builds an equality predicate {field: value}.
func Eq(field string, value any) Predicate {
	return Predicate{{Key: field, Value: value}}
}

// Regex builds a case-insensitive pattern predicate
// {field: {$regex: pattern, $options: "i"}}.
func Regex(field string, pattern string) Predicate {
	return Predicate{{
		Key: field,
		Value: bson.D{
			{Key: OperatorRegex.String(), Value: pattern},
			{Key: operatorOptions.String(), Value: regexCaseInsensitive},
		},
	}}
}

// And joins predicates with $and.
func And(predicates ...Predicate) Predicate {
	return combine(OperatorAnd, predicates)
}

// Or joins predicates with $or.
func Or(predicates ...Predicate) Predicate {
	return combine(OperatorOr, predicates)
}

func combine(op Operator, predicates []Predicate) Predicate {
	operands := make(bson.A, 0, len(predicates))
	for _, p := range predicates {
		operands = append(operands, p)
	}

	return Predicate{{Key: op.String(), Value: operands}}
}

// IsAbsentSelector reports whether a selector value means "no filter":
// nil, the empty string or SelectorAll.
//
// Zero numbers and false are legitimate filter values and are NOT absent.
func IsAbsentSelector(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == "" || v == SelectorAll
	default:
		return false
	}
}

// FilterPredicates converts selectors into equality predicates, one per field
// of filterBy that has a present value, in filterBy order. String values the
// codec recognizes are converted to the native identifier type.
func FilterPredicates(filterBy []string, selectors Selectors, codec IdentifierCodec) []Predicate {
	codec = codecOrDefault(codec)

	return lo.FilterMap(filterBy, func(field string, _ int) (Predicate, bool) {
		value, ok := selectors[field]
		if !ok || IsAbsentSelector(value) {
			return nil, false
		}

		if s, isString := value.(string); isString {
			value, _ = decodeIdentifier(codec, s)
		}

		return Eq(field, value), true
	})
}

// SearchPredicates builds exactly one predicate per field of searchBy.
//
// Whether searchText is an identifier is decided once: if it is, every field
// gets an equality predicate against the native identifier, otherwise every
// field gets a case-insensitive pattern predicate.
func SearchPredicates(searchBy []string, searchText string, codec IdentifierCodec) []Predicate {
	id, isID := decodeIdentifier(codecOrDefault(codec), searchText)

	return lo.Map(searchBy, func(field string, _ int) Predicate {
		if isID {
			return Eq(field, id)
		}

		return Regex(field, searchText)
	})
}
