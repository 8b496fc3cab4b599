package mongopager

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func Test_ObjectIDCodec_Recognizes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		valid bool
	}{
		{"lowercase hex", "507f1f77bcf86cd799439011", true},
		{"uppercase hex", "507F1F77BCF86CD799439011", true},
		{"mixed case hex", "507f1F77bcf86CD799439011", true},
		{"too short", "507f1f77bcf86cd79943901", false},
		{"too long", "507f1f77bcf86cd7994390111", false},
		{"non-hex symbols", "507f1f77bcf86cd79943901z", false},
		{"12-byte raw string", "abcdefghijkl", false},
		{"hex prefix", "0x507f1f77bcf86cd7994390", false},
		{"empty", "", false},
		{"plain text", "alice", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (ObjectIDCodec{}).Recognizes(tt.in); got != tt.valid {
				t.Errorf("%s: Recognizes(%q)=%v want %v", tt.name, tt.in, got, tt.valid)
			}
		})
	}
}

func Test_objectIDHexPattern(t *testing.T) {
	require.True(t, _objectIDHexPattern.MatchString(strings.Repeat("a", objectIDHexLength)))
	require.False(t, _objectIDHexPattern.MatchString(strings.Repeat("a", objectIDHexLength-1)))
	require.False(t, _objectIDHexPattern.MatchString(strings.Repeat("a", objectIDHexLength+1)))
}

func Test_ObjectIDCodec_Decode(t *testing.T) {
	got, err := ObjectIDCodec{}.Decode("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	want, _ := primitive.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.Equal(t, want, got)

	_, err = ObjectIDCodec{}.Decode("alice")
	require.Error(t, err)
}

// tBrokenCodec recognizes everything and fails to decode.
type tBrokenCodec struct{}

func (tBrokenCodec) Recognizes(string) bool { return true }

func (tBrokenCodec) Decode(string) (any, error) { return nil, errors.New("broken") }

// tPrefixCodec recognizes "id:<n>" strings as native identifiers.
type tPrefixCodec struct{}

func (tPrefixCodec) Recognizes(s string) bool { return len(s) > 3 && s[:3] == "id:" }

func (tPrefixCodec) Decode(s string) (any, error) { return "native-" + s[3:], nil }

func Test_decodeIdentifier(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name    string
		codec   IdentifierCodec
		in      string
		want    any
		decoded bool
	}{
		{"object id converts", ObjectIDCodec{}, oid.Hex(), oid, true},
		{"plain string stays", ObjectIDCodec{}, "alice", "alice", false},
		{"decode failure keeps string", tBrokenCodec{}, "alice", "alice", false},
		{"custom codec", tPrefixCodec{}, "id:42", "native-42", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, decoded := decodeIdentifier(tt.codec, tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.decoded, decoded)
		})
	}
}

func Test_codecOrDefault(t *testing.T) {
	require.Equal(t, DefaultIdentifierCodec, codecOrDefault(nil))
	require.Equal(t, tPrefixCodec{}, codecOrDefault(tPrefixCodec{}))
}
