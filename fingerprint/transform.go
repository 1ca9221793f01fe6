package fingerprint

import (
	"encoding/binary"
	"encoding/json"

	"github.com/zeebo/blake3"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/errors"
)

// Func is the caller-supplied transformation contract: it receives an
// artifact and returns the new payload bytes plus the updated side-channel
// string. When used with parallel stage execution it must be safe to
// invoke concurrently with itself.
type Func func(a artifact.Artifact) (payload []byte, sideChannel string, err error)

// Transform couples a transformation function with its cache identity:
// an explicit version token standing in for a digest of the function's
// code, and an optional parameter bundle standing in for its captured
// state. Bump the version whenever the function's logic changes; an
// unbumped token after a logic change silently serves stale cache entries.
type Transform struct {
	version string
	params  any
	fn      Func

	codeFP  Hash
	stateFP Hash
}

// New creates a transform from a version token and a function. Both are
// required.
func New(version string, fn Func) (*Transform, error) {
	if version == "" {
		return nil, errors.MissingArgument("version")
	}
	if fn == nil {
		return nil, errors.MissingArgument("transform")
	}
	return &Transform{
		version: version,
		fn:      fn,
		codeFP:  keyedHash(codeDomainKey, []byte(version)),
	}, nil
}

// WithParams returns a copy of the transform carrying the given captured
// parameters. Two transforms with the same version but different
// parameters fingerprint differently, so a parameter change invalidates
// cached results without a version bump. Parameters are serialized as
// JSON; they must marshal deterministically (structs and maps do, since
// map keys are sorted).
func (t *Transform) WithParams(params any) (*Transform, error) {
	serialized, err := json.Marshal(params)
	if err != nil {
		return nil, errors.InvalidArgument("params", "must be JSON-serializable").WithCause(err)
	}
	clone := *t
	clone.params = params
	clone.stateFP = keyedHash(stateDomainKey, serialized)
	return &clone, nil
}

// Version returns the transform's version token.
func (t *Transform) Version() string { return t.version }

// Params returns the transform's captured parameter bundle, or nil.
func (t *Transform) Params() any { return t.params }

// Invoke runs the transformation function on the given artifact.
func (t *Transform) Invoke(a artifact.Artifact) ([]byte, string, error) {
	return t.fn(a)
}

// Entry computes the cache-entry fingerprint for applying this transform
// to the given artifact: a keyed digest over the payload bytes, the
// artifact name, the code fingerprint, and the captured-state fingerprint.
// Variable-length segments are length-prefixed so segment boundaries are
// unambiguous.
func (t *Transform) Entry(a artifact.Artifact) Hash {
	hasher, err := blake3.NewKeyed(entryDomainKey[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var length [8]byte

	binary.BigEndian.PutUint64(length[:], uint64(len(a.Payload)))
	hasher.Write(length[:])
	hasher.Write(a.Payload)

	name := []byte(a.Identity.Name)
	binary.BigEndian.PutUint64(length[:], uint64(len(name)))
	hasher.Write(length[:])
	hasher.Write(name)

	hasher.Write(t.codeFP[:])
	hasher.Write(t.stateFP[:])

	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
