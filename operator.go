package mongopager

// Operator is a MongoDB query operator emitted into match predicates.
type Operator string

const (
	OperatorAnd   Operator = "$and"
	OperatorOr    Operator = "$or"
	OperatorRegex Operator = "$regex"

	// operatorOptions carries regex flags next to OperatorRegex. It is private
	// because it is never used on its own.
	operatorOptions Operator = "$options"
)

// regexCaseInsensitive is the only regex flag search predicates use.
const regexCaseInsensitive = "i"

func (o Operator) String() string {
	return string(o)
}
