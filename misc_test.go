package mongopager

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mockNamespace = "app.users"

func newMongoMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// facetResponse builds the single document a $facet pagination pipeline
// returns: {total: [{total: n}] | [], records: [...]}.
func facetResponse(total *int32, records ...bson.D) bson.D {
	totalArr := bson.A{}
	if total != nil {
		totalArr = append(totalArr, bson.D{{Key: FacetTotal, Value: *total}})
	}

	recordsArr := make(bson.A, 0, len(records))
	for _, r := range records {
		recordsArr = append(recordsArr, r)
	}

	return bson.D{
		{Key: FacetTotal, Value: totalArr},
		{Key: FacetRecords, Value: recordsArr},
	}
}

// tRecordingAggregator remembers what it was called with before delegating.
type tRecordingAggregator struct {
	inner    Aggregator
	calls    int
	pipeline interface{}
	options  []*options.AggregateOptions
}

func (r *tRecordingAggregator) Aggregate(
	ctx context.Context,
	pipeline interface{},
	opts ...*options.AggregateOptions,
) (*mongo.Cursor, error) {
	r.calls++
	r.pipeline = pipeline
	r.options = opts

	return r.inner.Aggregate(ctx, pipeline, opts...)
}

func ptr[T any](v T) *T {
	return &v
}
