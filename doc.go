// Package mongopager provides page/limit pagination for MongoDB built on a
// single aggregation round trip.
//
// # Overview
//
// A page request is described by PaginationOptions: page, limit, exact-value
// filters, free-text search, a single-field sort order, caller stages and a
// projection. BuildPipeline turns the options and an optional base query into
// one $facet stage with two branches:
//   - total: the filtering stages followed by $count;
//   - records: the filtering stages followed by lookups, $sort, extra stages,
//     $skip/$limit and $project.
//
// The count therefore always reflects the whole matching set, while records
// holds exactly one page.
//
// # Key concepts
//   - Predicate: match fragments built from Selectors (FilterPredicates) and
//     search text (SearchPredicates).
//   - IdentifierCodec: detects ObjectID hex strings and converts them before
//     they enter equality predicates.
//   - Stage: a closed set of stage variants plus OpaqueStage for
//     caller-provided stages.
//   - Paginate, Model: run the pipeline through an Aggregator such as
//     *mongo.Collection and unwrap the result into PaginationResult.
//   - RawPaginationOptions: API payload form of the options.
package mongopager
