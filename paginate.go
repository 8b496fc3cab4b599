package mongopager

import (
	"context"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Aggregator runs an aggregation pipeline. *mongo.Collection implements it.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

var _ Aggregator = (*mongo.Collection)(nil)

// PaginationResult is a page of records together with the total number of
// records matching the request.
type PaginationResult[T any] struct {
	// Total number of matching records, regardless of page and limit.
	Total int64 `json:"total" bson:"total"`
	// Page echoes the requested page.
	Page int64 `json:"page" bson:"page"`
	// Limit echoes the requested limit. NoLimit means unlimited.
	Limit int64 `json:"limit,omitempty" bson:"limit,omitempty"`
	// Records of the page. Never nil.
	Records []T `json:"records" bson:"records"`
}

type (
	tFacetResult[T any] struct {
		Total   []tCountResult `bson:"total"`
		Records []T            `bson:"records"`
	}

	tCountResult struct {
		Total int64 `bson:"total"`
	}
)

// Paginate builds the pipeline for query and opts, runs it with a single
// Aggregate call and returns the page.
//
// Errors returned by the store are passed through unchanged: there is no
// retry and no partial result.
func Paginate[T any](ctx context.Context, agg Aggregator, query Predicate, opts *PaginationOptions) (*PaginationResult[T], error) {
	return Execute[T](ctx, agg, BuildPipeline(query, opts), opts)
}

// Execute runs a pipeline produced by BuildPipeline and unwraps its $facet
// result. opts supplies the aggregate options and the echoed page and limit.
func Execute[T any](ctx context.Context, agg Aggregator, pipeline Pipeline, opts *PaginationOptions) (*PaginationResult[T], error) {
	var aggregateOptions []*options.AggregateOptions
	if o := opts.GetAggregateOptions(); o != nil {
		aggregateOptions = append(aggregateOptions, o)
	}

	cursor, err := agg.Aggregate(ctx, pipeline.BSON(), aggregateOptions...)
	if err != nil {
		return nil, err
	}

	// All closes the cursor.
	var facets []tFacetResult[T]
	if err = cursor.All(ctx, &facets); err != nil {
		return nil, err
	}

	facet := lo.FirstOrEmpty(facets)
	records := facet.Records
	if records == nil {
		records = make([]T, 0)
	}

	return &PaginationResult[T]{
		Total:   lo.FirstOrEmpty(facet.Total).Total,
		Page:    opts.GetPage(),
		Limit:   opts.GetLimit(),
		Records: records,
	}, nil
}
