package artifact

import (
	"os"
	"path/filepath"

	"github.com/kbukum/stagekit/errors"
)

// Identity describes the origin file of an artifact. It is set once when
// the artifact is constructed and never changes as the artifact moves
// through transformation stages.
type Identity struct {
	// Name is the base name of the origin file, e.g. "photo.jpg".
	Name string `json:"name"`
	// Path is the absolute path of the origin file.
	Path string `json:"path"`
	// Size is the size of the origin file in bytes.
	Size int64 `json:"size"`
	// Extension is the file extension including the leading dot.
	Extension string `json:"extension"`
}

// Artifact is one file's identity, current payload, and side-channel
// metadata as it moves through the pipeline. Artifacts are values: stages
// derive new artifacts via WithResult and never mutate one in place.
type Artifact struct {
	// Identity is the immutable origin-file identity.
	Identity Identity `json:"identity"`
	// Payload is the artifact's current content at this point in the
	// pipeline.
	Payload []byte `json:"-"`
	// SideChannel is an opaque string carrying stage-to-stage metadata.
	// It is not part of the cache key but is persisted alongside the
	// cached payload and restored on cache hit.
	SideChannel string `json:"side_channel,omitempty"`
}

// New creates an in-memory artifact with the given name and payload.
func New(name string, payload []byte) Artifact {
	return Artifact{
		Identity: Identity{
			Name:      name,
			Size:      int64(len(payload)),
			Extension: filepath.Ext(name),
		},
		Payload: payload,
	}
}

// FromFile reads one source file into an artifact. An unreadable file
// fails with an IO_FAILURE error.
func FromFile(path string) (Artifact, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Artifact{}, errors.IOFailure("resolve", path, err)
	}
	payload, err := os.ReadFile(abs)
	if err != nil {
		return Artifact{}, errors.IOFailure("read", abs, err)
	}
	return Artifact{
		Identity: Identity{
			Name:      filepath.Base(abs),
			Path:      abs,
			Size:      int64(len(payload)),
			Extension: filepath.Ext(abs),
		},
		Payload: payload,
	}, nil
}

// WithResult derives a new artifact sharing this artifact's identity,
// carrying the given payload and side-channel string.
func (a Artifact) WithResult(payload []byte, sideChannel string) Artifact {
	return Artifact{
		Identity:    a.Identity,
		Payload:     payload,
		SideChannel: sideChannel,
	}
}

// Name returns the artifact's origin-file base name.
func (a Artifact) Name() string { return a.Identity.Name }
