package mongopager

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdentifierCodec recognizes store-native document identifiers written as
// strings and converts them to the native type.
//
// Predicates never touch the identifier representation directly, so another
// ID scheme can be plugged in via PaginationOptions.WithIdentifierCodec.
type IdentifierCodec interface {
	// Recognizes reports whether s is the canonical string form of an identifier.
	Recognizes(s string) bool
	// Decode converts a recognized string into the native identifier value.
	Decode(s string) (any, error)
}

// objectIDHexLength is the length of an ObjectID in its canonical hex form
// (12 bytes).
const objectIDHexLength = 24

var _objectIDHexPattern = regexp.MustCompile(fmt.Sprintf(`^[0-9a-fA-F]{%d}$`, objectIDHexLength))

// ObjectIDCodec is the IdentifierCodec for MongoDB ObjectIDs.
type ObjectIDCodec struct{}

// Recognizes - implements IdentifierCodec.
//
// Both the driver validation and the strict hex shape must pass: only the
// 24-character hex form converts.
func (ObjectIDCodec) Recognizes(s string) bool {
	return len(s) == objectIDHexLength &&
		_objectIDHexPattern.MatchString(s) &&
		primitive.IsValidObjectID(s)
}

// Decode - implements IdentifierCodec. Returns primitive.ObjectID.
func (ObjectIDCodec) Decode(s string) (any, error) {
	return primitive.ObjectIDFromHex(s)
}

var _ IdentifierCodec = ObjectIDCodec{}

// DefaultIdentifierCodec is used whenever no codec is configured.
var DefaultIdentifierCodec IdentifierCodec = ObjectIDCodec{}

func codecOrDefault(codec IdentifierCodec) IdentifierCodec {
	if codec == nil {
		return DefaultIdentifierCodec
	}

	return codec
}

// decodeIdentifier returns the native identifier for s when the codec
// recognizes it. Otherwise, or if decoding fails, s is returned unchanged.
func decodeIdentifier(codec IdentifierCodec, s string) (any, bool) {
	if !codec.Recognizes(s) {
		return s, false
	}

	id, err := codec.Decode(s)
	if err != nil {
		return s, false
	}

	return id, true
}
