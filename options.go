package mongopager

import (
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type (
	// FilterSpec filters records by exact field values. Only fields listed
	// in FilterBy are considered; see IsAbsentSelector for skipped values.
	FilterSpec struct {
		FilterBy  []string
		Selectors Selectors
	}

	// SearchSpec matches SearchText against every field of SearchBy; a record
	// matches if any field does. SearchText is used as a regular expression.
	SearchSpec struct {
		SearchBy   []string
		SearchText string
	}
)

// PaginationOptions describes a single page request. The zero value (and a
// nil pointer) is valid and means: first page, no limit, no filtering, no
// sorting.
//
// Use the With* builders to configure it:
//
//	opts := mongopager.NewPaginationOptions().
//		WithPage(2).
//		WithLimit(20).
//		WithSort(mongopager.SortOrder{ID: "createdAt", Direction: mongopager.DirectionDESC})
type PaginationOptions struct {
	page             int64
	limit            int64
	filter           *FilterSpec
	search           *SearchSpec
	sortOrder        *SortOrder
	customFilters    Pipeline
	lookups          []LookupStage
	extraStages      Pipeline
	project          bson.D
	aggregateOptions *options.AggregateOptions
	codec            IdentifierCodec
}

func NewPaginationOptions() *PaginationOptions {
	return new(PaginationOptions)
}

// WithPage sets the 1-based page number. Values below 1 select the first page.
func (o *PaginationOptions) WithPage(page int64) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.page = NormalizePage(page)

	return o
}

// WithLimit sets the page size. NoLimit (0) or a negative value returns
// every matching record and makes the page number irrelevant.
func (o *PaginationOptions) WithLimit(limit int64) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.limit = NormalizeLimit(limit)

	return o
}

// WithUnlimited allows returning all records without a limit.
func (o *PaginationOptions) WithUnlimited() *PaginationOptions {
	return o.WithLimit(NoLimit)
}

// WithFilter sets the exact-value filter.
func (o *PaginationOptions) WithFilter(filter FilterSpec) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.filter = &filter

	return o
}

// WithSearch sets the free-text search.
func (o *PaginationOptions) WithSearch(search SearchSpec) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.search = &search

	return o
}

// WithSort sets the sort order. An empty SortOrder.ID disables sorting.
func (o *PaginationOptions) WithSort(sortOrder SortOrder) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.sortOrder = &sortOrder

	return o
}

// WithCustomFilters appends stages that run before the filter and search
// stages. They affect both the records and the total count.
func (o *PaginationOptions) WithCustomFilters(stages ...Stage) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.customFilters = append(o.customFilters, stages...)

	return o
}

// WithLookups appends $lookup stages that run on the records only, before
// sorting.
//
// Deprecated: use WithExtraStages.
func (o *PaginationOptions) WithLookups(lookups ...LookupStage) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.lookups = append(o.lookups, lookups...)

	return o
}

// WithExtraStages appends stages that run on the records only, after sorting
// and before skip/limit, so they see the sorted order.
func (o *PaginationOptions) WithExtraStages(stages ...Stage) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.extraStages = append(o.extraStages, stages...)

	return o
}

// WithProject sets the projection applied to the records as the last stage.
func (o *PaginationOptions) WithProject(spec bson.D) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.project = spec

	return o
}

// WithAggregateOptions sets driver options (collation, hints, read
// concern...) passed through to Aggregate.
func (o *PaginationOptions) WithAggregateOptions(opts *options.AggregateOptions) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.aggregateOptions = opts

	return o
}

// WithIdentifierCodec replaces the ObjectID detection used by filters and
// search.
func (o *PaginationOptions) WithIdentifierCodec(codec IdentifierCodec) *PaginationOptions {
	if o == nil {
		o = new(PaginationOptions)
	}

	o.codec = codec

	return o
}

// GetPage returns the 1-based page number, DefaultPage if unset.
func (o *PaginationOptions) GetPage() int64 {
	if o == nil {
		return DefaultPage
	}

	return NormalizePage(o.page)
}

// GetLimit returns the page size. NoLimit means unlimited.
func (o *PaginationOptions) GetLimit() int64 {
	if o == nil {
		return NoLimit
	}

	return o.limit
}

// IsUnlimited returns true if every matching record is returned.
func (o *PaginationOptions) IsUnlimited() bool {
	return o.GetLimit() == NoLimit
}

// GetSkip returns the number of records skipped before the page:
// (page-1)*limit, or 0 when unlimited. Saturates at math.MaxInt64.
func (o *PaginationOptions) GetSkip() int64 {
	if o.IsUnlimited() {
		return 0
	}

	skip, ok := skipFor(o.GetPage(), o.GetLimit())
	if !ok {
		return math.MaxInt64
	}

	return skip
}

// skipFor returns (page-1)*limit for page >= 1 and limit > 0, and false if
// the product does not fit in int64.
func skipFor(page, limit int64) (int64, bool) {
	if page-1 > math.MaxInt64/limit {
		return 0, false
	}

	return (page - 1) * limit, true
}

func (o *PaginationOptions) GetFilter() *FilterSpec {
	if o == nil {
		return nil
	}

	return o.filter
}

func (o *PaginationOptions) GetSearch() *SearchSpec {
	if o == nil {
		return nil
	}

	return o.search
}

func (o *PaginationOptions) GetSort() *SortOrder {
	if o == nil {
		return nil
	}

	return o.sortOrder
}

func (o *PaginationOptions) GetCustomFilters() Pipeline {
	if o == nil {
		return nil
	}

	return o.customFilters
}

// GetLookups returns the deprecated lookup stages.
func (o *PaginationOptions) GetLookups() []LookupStage {
	if o == nil {
		return nil
	}

	return o.lookups
}

func (o *PaginationOptions) GetExtraStages() Pipeline {
	if o == nil {
		return nil
	}

	return o.extraStages
}

func (o *PaginationOptions) GetProject() bson.D {
	if o == nil {
		return nil
	}

	return o.project
}

// GetAggregateOptions returns the driver options as set, possibly nil.
func (o *PaginationOptions) GetAggregateOptions() *options.AggregateOptions {
	if o == nil {
		return nil
	}

	return o.aggregateOptions
}

// GetIdentifierCodec returns the configured codec or DefaultIdentifierCodec.
func (o *PaginationOptions) GetIdentifierCodec() IdentifierCodec {
	if o == nil {
		return DefaultIdentifierCodec
	}

	return codecOrDefault(o.codec)
}
