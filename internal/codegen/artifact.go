package codegen

import (
	"fmt"

	"github.com/google/uuid"
	"lukechampine.com/blake3"
)

// Kind is the kind of a generated artifact.
type Kind uint8

const (
	KindShader Kind = iota
	KindCompute
)

// Ext is the file extension used for the kind.
func (k Kind) Ext() string {
	if k == KindCompute {
		return "compute"
	}
	return "shader"
}

func (k Kind) String() string { return k.Ext() }

// MarshalText lets kinds appear by name in dump output.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.Ext()), nil }

// Artifact is an imported generated source file.
type Artifact struct {
	ID     uuid.UUID
	Path   string
	Kind   Kind
	Text   string
	Digest [32]byte
	// Embedded marks a private copy made at save time. It no longer follows
	// edits of the cache file.
	Embedded bool

	released   bool
	objectName string
}

// NewArtifact creates a fresh artifact for text imported from path.
func NewArtifact(path string, kind Kind, text string) *Artifact {
	return &Artifact{
		ID:     uuid.New(),
		Path:   path,
		Kind:   kind,
		Text:   text,
		Digest: blake3.Sum256([]byte(text)),
	}
}

// Duplicate returns an independent embedded copy with a new identity.
func (a *Artifact) Duplicate() *Artifact {
	return &Artifact{
		ID:         uuid.New(),
		Path:       a.Path,
		Kind:       a.Kind,
		Text:       a.Text,
		Digest:     a.Digest,
		Embedded:   true,
		objectName: a.objectName,
	}
}

// Release marks the artifact as destroyed. Released artifacts are never
// reused.
func (a *Artifact) Release() { a.released = true }

// Released reports whether Release was called.
func (a *Artifact) Released() bool { return a.released }

func (a *Artifact) String() string {
	return fmt.Sprintf("%s(%s %s)", a.Kind, a.ID, a.Path)
}

// ObjectID is the stable identity of the artifact in secondary storage.
func (a *Artifact) ObjectID() string { return a.ID.String() }

// ObjectKind is the display kind used when the artifact is persisted.
func (a *Artifact) ObjectKind() string {
	if a.Kind == KindCompute {
		return "ComputeShader"
	}
	return "Shader"
}

func (a *Artifact) ObjectName() string { return a.objectName }

func (a *Artifact) SetObjectName(name string) { a.objectName = name }

// ObjectPayload is the generated text.
func (a *Artifact) ObjectPayload() ([]byte, error) { return []byte(a.Text), nil }
