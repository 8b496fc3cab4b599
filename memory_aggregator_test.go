package mongopager

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"slices"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// tMemoryAggregator evaluates the subset of the aggregation language this
// package emits over an in-memory collection.
type tMemoryAggregator struct {
	docs []bson.M
}

func (m *tMemoryAggregator) Aggregate(
	_ context.Context,
	pipeline interface{},
	_ ...*options.AggregateOptions,
) (*mongo.Cursor, error) {
	stages, ok := pipeline.(mongo.Pipeline)
	if !ok {
		return nil, fmt.Errorf("unexpected pipeline type %T", pipeline)
	}

	out, err := evalPipeline(slices.Clone(m.docs), stages)
	if err != nil {
		return nil, err
	}

	return mongo.NewCursorFromDocuments(lo.Map(out, func(d bson.M, _ int) interface{} { return d }), nil, nil)
}

func evalPipeline(docs []bson.M, stages mongo.Pipeline) ([]bson.M, error) {
	var err error
	for _, stage := range stages {
		if len(stage) != 1 {
			return nil, fmt.Errorf("stage must have one key: %v", stage)
		}

		docs, err = evalStage(docs, stage[0])
		if err != nil {
			return nil, err
		}
	}

	return docs, nil
}

func evalStage(docs []bson.M, stage bson.E) ([]bson.M, error) {
	switch stage.Key {
	case "$match":
		return lo.Filter(docs, func(d bson.M, _ int) bool {
			return matches(d, stage.Value.(bson.D))
		}), nil
	case "$count":
		return []bson.M{{stage.Value.(string): int32(len(docs))}}, nil
	case "$sort":
		spec := stage.Value.(bson.D)[0]
		sorted := slices.Clone(docs)
		slices.SortStableFunc(sorted, func(a, b bson.M) int {
			return compare(a[spec.Key], b[spec.Key]) * spec.Value.(int)
		})
		return sorted, nil
	case "$skip":
		n := int(stage.Value.(int64))
		return docs[min(n, len(docs)):], nil
	case "$limit":
		n := int(stage.Value.(int64))
		return docs[:min(n, len(docs))], nil
	case "$project":
		return lo.Map(docs, func(d bson.M, _ int) bson.M {
			ret := bson.M{}
			if id, ok := d["_id"]; ok {
				ret["_id"] = id
			}
			for _, e := range stage.Value.(bson.D) {
				ret[e.Key] = d[e.Key]
			}
			return ret
		}), nil
	case "$facet":
		result := bson.M{}
		for _, branch := range stage.Value.(bson.D) {
			out, err := evalPipeline(slices.Clone(docs), branch.Value.(mongo.Pipeline))
			if err != nil {
				return nil, err
			}
			result[branch.Key] = lo.Map(out, func(d bson.M, _ int) interface{} { return d })
		}
		return []bson.M{result}, nil
	default:
		return nil, fmt.Errorf("unsupported stage %s", stage.Key)
	}
}

func matches(doc bson.M, predicate bson.D) bool {
	for _, e := range predicate {
		switch e.Key {
		case "$and":
			if !lo.EveryBy(e.Value.(bson.A), func(p interface{}) bool { return matches(doc, p.(bson.D)) }) {
				return false
			}
		case "$or":
			if !lo.SomeBy(e.Value.(bson.A), func(p interface{}) bool { return matches(doc, p.(bson.D)) }) {
				return false
			}
		default:
			if cond, isCond := e.Value.(bson.D); isCond && len(cond) > 0 && cond[0].Key == "$regex" {
				s, _ := doc[e.Key].(string)
				if !regexp.MustCompile("(?i)" + cond[0].Value.(string)).MatchString(s) {
					return false
				}
				continue
			}

			if compare(doc[e.Key], e.Value) != 0 {
				return false
			}
		}
	}

	return true
}

func compare(a, b any) int {
	switch av := a.(type) {
	case int:
		bv, _ := b.(int)
		return av - bv
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	default:
		if reflect.DeepEqual(a, b) {
			return 0
		}
		return 1
	}
}
