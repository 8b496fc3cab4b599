package mongopager

import (
	"fmt"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// StageKind identifies the variant of a Stage.
type StageKind uint8

const (
	StageKindMatch StageKind = iota + 1
	StageKindLookup
	StageKindSort
	StageKindSkip
	StageKindLimit
	StageKindProject
	StageKindCount
	StageKindFacet
	StageKindOpaque
)

func (k StageKind) String() string {
	switch k {
	case StageKindMatch:
		return "$match"
	case StageKindLookup:
		return "$lookup"
	case StageKindSort:
		return "$sort"
	case StageKindSkip:
		return "$skip"
	case StageKindLimit:
		return "$limit"
	case StageKindProject:
		return "$project"
	case StageKindCount:
		return "$count"
	case StageKindFacet:
		return "$facet"
	case StageKindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("StageKind(%d)", uint8(k))
	}
}

// Stage is one step of an aggregation pipeline.
//
// The set of variants is closed: the stages built by this package each have
// their own type, and anything supplied by the caller that the package does
// not need to understand travels as OpaqueStage.
type Stage interface {
	Kind() StageKind
	// BSON renders the stage as a single-key document, e.g. {$skip: 10}.
	BSON() bson.D
	stage()
}

type (
	// MatchStage filters documents by a predicate.
	MatchStage struct {
		Predicate Predicate
	}

	// LookupStage joins documents from another collection. Either the
	// LocalField/ForeignField pair or Let/Pipeline (or both) may be set.
	LookupStage struct {
		From         string
		LocalField   string
		ForeignField string
		Let          bson.D
		Pipeline     Pipeline
		As           string
	}

	// SortStage sorts by a single field.
	SortStage struct {
		Field     string
		Direction Direction
	}

	// SkipStage skips N documents.
	SkipStage struct {
		N int64
	}

	// LimitStage passes at most N documents.
	LimitStage struct {
		N int64
	}

	// ProjectStage reshapes documents.
	ProjectStage struct {
		Spec bson.D
	}

	// CountStage replaces the input with {Field: <number of documents>}.
	CountStage struct {
		Field string
	}

	// FacetStage runs every branch over the same input and outputs one
	// document holding each branch result under its name.
	FacetStage struct {
		Branches []FacetBranch
	}

	FacetBranch struct {
		Name     string
		Pipeline Pipeline
	}

	// OpaqueStage is a caller-provided stage passed to the store verbatim.
	OpaqueStage struct {
		Value bson.D
	}
)

func (MatchStage) Kind() StageKind   { return StageKindMatch }
func (LookupStage) Kind() StageKind  { return StageKindLookup }
func (SortStage) Kind() StageKind    { return StageKindSort }
func (SkipStage) Kind() StageKind    { return StageKindSkip }
func (LimitStage) Kind() StageKind   { return StageKindLimit }
func (ProjectStage) Kind() StageKind { return StageKindProject }
func (CountStage) Kind() StageKind   { return StageKindCount }
func (FacetStage) Kind() StageKind   { return StageKindFacet }
func (OpaqueStage) Kind() StageKind  { return StageKindOpaque }

func (s MatchStage) BSON() bson.D {
	return singleKey(s.Kind(), s.Predicate)
}

func (s LookupStage) BSON() bson.D {
	spec := bson.D{{Key: "from", Value: s.From}}
	if s.LocalField != "" {
		spec = append(spec, bson.E{Key: "localField", Value: s.LocalField})
	}
	if s.ForeignField != "" {
		spec = append(spec, bson.E{Key: "foreignField", Value: s.ForeignField})
	}
	if len(s.Let) > 0 {
		spec = append(spec, bson.E{Key: "let", Value: s.Let})
	}
	if s.Pipeline != nil {
		spec = append(spec, bson.E{Key: "pipeline", Value: s.Pipeline.BSON()})
	}
	spec = append(spec, bson.E{Key: "as", Value: s.As})

	return singleKey(s.Kind(), spec)
}

func (s SortStage) BSON() bson.D {
	return singleKey(s.Kind(), bson.D{{Key: s.Field, Value: s.Direction.ForSort()}})
}

func (s SkipStage) BSON() bson.D {
	return singleKey(s.Kind(), s.N)
}

func (s LimitStage) BSON() bson.D {
	return singleKey(s.Kind(), s.N)
}

func (s ProjectStage) BSON() bson.D {
	return singleKey(s.Kind(), s.Spec)
}

func (s CountStage) BSON() bson.D {
	return singleKey(s.Kind(), s.Field)
}

func (s FacetStage) BSON() bson.D {
	branches := make(bson.D, 0, len(s.Branches))
	for _, branch := range s.Branches {
		branches = append(branches, bson.E{Key: branch.Name, Value: branch.Pipeline.BSON()})
	}

	return singleKey(s.Kind(), branches)
}

// BSON returns the caller-provided document unchanged.
func (s OpaqueStage) BSON() bson.D {
	return s.Value
}

func (MatchStage) stage()   {}
func (LookupStage) stage()  {}
func (SortStage) stage()    {}
func (SkipStage) stage()    {}
func (LimitStage) stage()   {}
func (ProjectStage) stage() {}
func (CountStage) stage()   {}
func (FacetStage) stage()   {}
func (OpaqueStage) stage()  {}

var (
	_ Stage = MatchStage{}
	_ Stage = LookupStage{}
	_ Stage = SortStage{}
	_ Stage = SkipStage{}
	_ Stage = LimitStage{}
	_ Stage = ProjectStage{}
	_ Stage = CountStage{}
	_ Stage = FacetStage{}
	_ Stage = OpaqueStage{}
)

func singleKey(kind StageKind, value any) bson.D {
	return bson.D{{Key: kind.String(), Value: value}}
}

// Pipeline is an ordered list of stages.
type Pipeline []Stage

// Opaque wraps raw stage documents so they can be passed as caller stages.
//
// Usage:
//
//	opts.WithExtraStages(mongopager.Opaque(
//		bson.D{{Key: "$addFields", Value: bson.D{{Key: "rank", Value: 1}}}},
//	)...)
func Opaque(docs ...bson.D) Pipeline {
	return lo.Map(docs, func(doc bson.D, _ int) Stage {
		return OpaqueStage{Value: doc}
	})
}

// BSON renders the pipeline in the form accepted by mongo.Collection.Aggregate.
// A nil pipeline renders as an empty, non-nil one.
func (p Pipeline) BSON() mongo.Pipeline {
	ret := make(mongo.Pipeline, 0, len(p))
	for _, s := range p {
		ret = append(ret, s.BSON())
	}

	return ret
}

// String - implements fmt.Stringer. Renders relaxed extended JSON.
func (p Pipeline) String() string {
	out, err := bson.MarshalExtJSON(bson.D{{Key: "pipeline", Value: p.BSON()}}, false, false)
	if err != nil {
		return fmt.Sprintf("<unrenderable pipeline: %v>", err)
	}

	return string(out)
}

var _ fmt.Stringer = Pipeline(nil)
