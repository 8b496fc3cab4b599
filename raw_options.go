package mongopager

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawPaginationOptions is intended for API payloads. It can be filled from
// JSON, BSON or a loosely-typed map (see DecodeRawOptions) and converted into
// *PaginationOptions with Decode.
//
// Stages are deliberately absent: they are configured in code only.
type RawPaginationOptions struct {
	// Page - 1-based page number. 0 selects the first page.
	Page int64 `json:"page" bson:"page" mapstructure:"page" validate:"gte=0"`
	// Limit - page size. 0 returns every matching record.
	Limit     int64          `json:"limit" bson:"limit" mapstructure:"limit" validate:"gte=0"`
	Filter    *RawFilter     `json:"filter,omitempty" bson:"filter,omitempty" mapstructure:"filter"`
	Search    *RawSearch     `json:"search,omitempty" bson:"search,omitempty" mapstructure:"search"`
	SortOrder *RawSortOrder  `json:"sortOrder,omitempty" bson:"sortOrder,omitempty" mapstructure:"sortOrder"`
	Project   map[string]any `json:"project,omitempty" bson:"project,omitempty" mapstructure:"project"`
}

type (
	RawFilter struct {
		FilterBy  []string       `json:"filterBy" bson:"filterBy" mapstructure:"filterBy" validate:"dive,fieldname"`
		// Selectors - scalar values only: strings, numbers, booleans or ObjectIDs.
		Selectors map[string]any `json:"selectors" bson:"selectors" mapstructure:"selectors" validate:"selectors"`
	}

	RawSearch struct {
		SearchBy   []string `json:"searchBy" bson:"searchBy" mapstructure:"searchBy" validate:"dive,fieldname"`
		SearchText string   `json:"searchText" bson:"searchText" mapstructure:"searchText"`
	}

	RawSortOrder struct {
		ID string `json:"id" bson:"id" mapstructure:"id" validate:"omitempty,fieldname"`
		// Direction - "asc" or "desc", case-insensitive. Defaults to "asc".
		Direction string `json:"direction" bson:"direction" mapstructure:"direction" validate:"omitempty,direction"`
	}
)

// ErrSkipOverflow is returned when page and limit address records beyond
// the int64 range.
var ErrSkipOverflow = errors.New("page and limit overflow the skip offset")

var _validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	lo.Must0(v.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
		return Direction(strings.ToLower(fl.Field().String())).Valid()
	}))
	lo.Must0(v.RegisterValidation("fieldname", func(fl validator.FieldLevel) bool {
		return validateFieldName(fl.Field().String()) == nil
	}))
	lo.Must0(v.RegisterValidation("selectors", func(fl validator.FieldLevel) bool {
		selectors, ok := fl.Field().Interface().(map[string]any)

		return ok && lo.EveryBy(lo.Values(selectors), isScalarSelector)
	}))

	return v
}

// DecodeRawOptions decodes a loosely-typed option bag, such as parsed query
// parameters or a generic JSON object, into RawPaginationOptions.
// Strings are converted to numbers and single values to lists where needed.
func DecodeRawOptions(input map[string]any) (RawPaginationOptions, error) {
	var raw RawPaginationOptions

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return RawPaginationOptions{}, fmt.Errorf("cannot create options decoder: %w", err)
	}

	if err = decoder.Decode(input); err != nil {
		return RawPaginationOptions{}, fmt.Errorf("cannot decode pagination options: %w", err)
	}

	return raw, nil
}

// Decode validates RawPaginationOptions and converts them into
// *PaginationOptions. The limit is not capped; see DecodeMax.
func (r RawPaginationOptions) Decode() (*PaginationOptions, error) {
	return r.DecodeMax(NoLimit)
}

// DecodeMax is Decode with the limit normalized by NormalizeLimitMax, so a
// positive maxLimit also replaces unlimited requests.
func (r RawPaginationOptions) DecodeMax(maxLimit int64) (*PaginationOptions, error) {
	if err := _validate.Struct(r); err != nil {
		return nil, fmt.Errorf("invalid pagination options: %w", err)
	}

	opts := NewPaginationOptions().
		WithPage(r.Page).
		WithLimit(NormalizeLimitMax(r.Limit, maxLimit))

	if !opts.IsUnlimited() {
		if _, ok := skipFor(opts.GetPage(), opts.GetLimit()); !ok {
			return nil, fmt.Errorf("invalid pagination options: page %d, limit %d: %w",
				opts.GetPage(), opts.GetLimit(), ErrSkipOverflow)
		}
	}

	if r.Filter != nil {
		opts = opts.WithFilter(FilterSpec{
			FilterBy:  r.Filter.FilterBy,
			Selectors: r.Filter.Selectors,
		})
	}

	if r.Search != nil {
		opts = opts.WithSearch(SearchSpec{
			SearchBy:   r.Search.SearchBy,
			SearchText: r.Search.SearchText,
		})
	}

	if r.SortOrder != nil && r.SortOrder.ID != "" {
		direction := Direction(strings.ToLower(r.SortOrder.Direction))
		if direction == "" {
			direction = DirectionASC
		}

		opts = opts.WithSort(SortOrder{
			ID:        r.SortOrder.ID,
			Direction: direction,
		})
	}

	if len(r.Project) > 0 {
		opts = opts.WithProject(mapToSortedD(r.Project))
	}

	return opts, nil
}

// isScalarSelector reports whether value may be used as an exact-match
// selector. Documents and arrays would be read as query operators.
func isScalarSelector(value any) bool {
	switch value.(type) {
	case nil, string, bool, primitive.ObjectID:
		return true
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// mapToSortedD converts a map into a document with keys in lexical order.
func mapToSortedD(m map[string]any) bson.D {
	keys := lo.Keys(m)
	slices.Sort(keys)

	return lo.Map(keys, func(key string, _ int) bson.E {
		return bson.E{Key: key, Value: m[key]}
	})
}
