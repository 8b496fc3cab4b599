package mongopager

import (
	"context"

	"go.uber.org/zap"
)

// Model binds pagination to a collection of documents decoded as T.
//
// Usage:
//
//	users := mongopager.NewModel[User](db.Collection("users")).
//		WithLogger(logger)
//
//	page, err := users.Paginate(ctx, nil, opts)
type Model[T any] struct {
	agg      Aggregator
	logger   *zap.Logger
	defaults *PaginationOptions
}

func NewModel[T any](agg Aggregator) *Model[T] {
	return &Model[T]{
		agg:    agg,
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger. Pipelines are logged at debug level.
func (m *Model[T]) WithLogger(logger *zap.Logger) *Model[T] {
	if m == nil {
		m = NewModel[T](nil)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	m.logger = logger

	return m
}

// WithDefaultOptions sets the options used when Paginate receives nil.
func (m *Model[T]) WithDefaultOptions(opts *PaginationOptions) *Model[T] {
	if m == nil {
		m = NewModel[T](nil)
	}

	m.defaults = opts

	return m
}

// Paginate returns one page of documents matching query and opts.
// See BuildPipeline for the pipeline layout.
func (m *Model[T]) Paginate(ctx context.Context, query Predicate, opts *PaginationOptions) (*PaginationResult[T], error) {
	if opts == nil {
		opts = m.defaults
	}

	pipeline := BuildPipeline(query, opts)
	if ce := m.logger.Check(zap.DebugLevel, "paginating"); ce != nil {
		ce.Write(
			zap.Int64("page", opts.GetPage()),
			zap.Int64("limit", opts.GetLimit()),
			zap.Stringer("pipeline", pipeline),
		)
	}

	result, err := Execute[T](ctx, m.agg, pipeline, opts)
	if err != nil {
		m.logger.Error("pagination failed", zap.Error(err))
		return nil, err
	}

	m.logger.Debug("paginated",
		zap.Int64("total", result.Total),
		zap.Int("records", len(result.Records)),
	)

	return result, nil
}
