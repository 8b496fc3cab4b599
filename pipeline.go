package mongopager

// Names of the $facet branches, also the keys of the aggregation result.
const (
	FacetTotal   = "total"
	FacetRecords = "records"
)

// BuildPipeline assembles the aggregation pipeline for a page request.
//
// The result always consists of one $facet stage with two branches sharing
// the same filtering prefix:
//
//	total:   [$match query] [custom filters] [$match $and] [$match $or] $count
//	records: [$match query] [custom filters] [$match $and] [$match $or]
//	         [lookups] [$sort] [extra stages] [$skip $limit] [$project]
//
// Every bracketed stage is emitted only when configured. The count is never
// affected by sorting, skipping, limiting or projection. A nil opts is
// treated as the zero PaginationOptions.
//
// BuildPipeline is pure: equal inputs produce equal pipelines.
func BuildPipeline(query Predicate, opts *PaginationOptions) Pipeline {
	filterStages := buildFilterStages(query, opts)

	count := make(Pipeline, 0, len(filterStages)+1)
	count = append(count, filterStages...)
	count = append(count, CountStage{Field: FacetTotal})

	return Pipeline{
		FacetStage{
			Branches: []FacetBranch{
				{Name: FacetTotal, Pipeline: count},
				{Name: FacetRecords, Pipeline: buildRecordsStages(filterStages, opts)},
			},
		},
	}
}

// buildFilterStages returns the stages shared by both facet branches.
func buildFilterStages(query Predicate, opts *PaginationOptions) Pipeline {
	stages := make(Pipeline, 0, len(opts.GetCustomFilters())+3)

	if len(query) > 0 {
		stages = append(stages, MatchStage{Predicate: query})
	}

	stages = append(stages, opts.GetCustomFilters()...)

	if filter := opts.GetFilter(); filter != nil && len(filter.FilterBy) > 0 && len(filter.Selectors) > 0 {
		predicates := FilterPredicates(filter.FilterBy, filter.Selectors, opts.GetIdentifierCodec())
		if len(predicates) > 0 {
			stages = append(stages, MatchStage{Predicate: And(predicates...)})
		}
	}

	if search := opts.GetSearch(); search != nil && len(search.SearchBy) > 0 && search.SearchText != "" {
		predicates := SearchPredicates(search.SearchBy, search.SearchText, opts.GetIdentifierCodec())
		stages = append(stages, MatchStage{Predicate: Or(predicates...)})
	}

	return stages
}

// buildRecordsStages continues the shared prefix into the records branch.
// The prefix is copied, never aliased.
func buildRecordsStages(filterStages Pipeline, opts *PaginationOptions) Pipeline {
	records := make(Pipeline, 0, len(filterStages)+len(opts.GetLookups())+len(opts.GetExtraStages())+4)
	records = append(records, filterStages...)

	for _, lookup := range opts.GetLookups() {
		records = append(records, lookup)
	}

	if sortOrder := opts.GetSort(); !sortOrder.IsEmpty() {
		records = append(records, SortStage{Field: sortOrder.ID, Direction: sortOrder.Direction})
	}

	records = append(records, opts.GetExtraStages()...)

	if !opts.IsUnlimited() {
		records = append(records,
			SkipStage{N: opts.GetSkip()},
			LimitStage{N: opts.GetLimit()},
		)
	}

	if project := opts.GetProject(); len(project) > 0 {
		records = append(records, ProjectStage{Spec: project})
	}

	return records
}
