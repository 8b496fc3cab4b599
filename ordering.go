package mongopager

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "asc"
	DirectionDESC Direction = "desc"
)

func (d Direction) Valid() bool {
	return d == DirectionASC || d == DirectionDESC
}

// ForSort maps the direction to the $sort value: 1 for ascending, -1 for
// anything else.
func (d Direction) ForSort() int {
	return lo.Ternary(d == DirectionASC, 1, -1)
}

type (
	// SortOrder sorts the records by a single field. An empty ID means the
	// records stay in natural store order, which is not stable across pages.
	SortOrder struct {
		ID        string
		Direction Direction
	}

	FieldAlias = string

	// FieldMapping maps external field aliases to document field paths.
	// Key is an external alias, value is an internal field path.
	FieldMapping = map[FieldAlias]string
)

// IsEmpty returns true if no sort stage should be emitted.
func (s *SortOrder) IsEmpty() bool {
	return s == nil || s.ID == ""
}

var _availableFieldNameSymbols = append([]rune("_."), lo.AlphanumericCharset...)

// validateFieldName rejects names that could be read as operators ($...)
// or that contain symbols outside of a plain dotted path.
func validateFieldName(field string) error {
	if field == "" {
		return fmt.Errorf("empty field name")
	}

	if !lo.Every(_availableFieldNameSymbols, []rune(field)) {
		return fmt.Errorf("field name contains forbidden symbols '%s'", field)
	}

	return nil
}

// ParseSortOrder builds a SortOrder from a string in the format
// "field asc|desc". Aliases are resolved via FieldMapping; an unknown alias
// is reported together with the closest known one.
//
// With a nil mapping the field is used as-is, provided it is a plain
// dotted path.
func ParseSortOrder(stringOrder string, mapping FieldMapping) (*SortOrder, error) {
	cut := strings.Fields(stringOrder)
	if len(cut) != 2 {
		return nil, fmt.Errorf("invalid sort order string format '%s'", stringOrder)
	}

	alias := cut[0]
	direction := Direction(strings.ToLower(cut[1]))
	if !direction.Valid() {
		return nil, fmt.Errorf("invalid sort direction '%s'", cut[1])
	}

	field := alias
	if mapping != nil {
		field = mapping[alias]
		if field == "" {
			return nil, fmt.Errorf("invalid field alias. closest: '%s'", closestAlias(alias, lo.Keys(mapping)))
		}
	}

	if err := validateFieldName(field); err != nil {
		return nil, err
	}

	return &SortOrder{
		ID:        field,
		Direction: direction,
	}, nil
}

func closestAlias(input FieldAlias, dataSet []FieldAlias) FieldAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		// Ties resolve lexicographically, lo.Keys has no stable order.
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
