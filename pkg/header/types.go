// Package header carries the kind, version and run metadata stamped on every
// structured document azops writes.
package header

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	APIVersionDomain = "azops.nvidia.com"
	APIVersionV1     = "v1"
)

// Metadata keys set by Set.
const (
	MetadataRunID       = "run-id"
	MetadataGeneratedAt = "generated-at"
)

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithRunID records the id of the run that produced the document.
func WithRunID(id string) Option {
	return WithMetadata(MetadataRunID, id)
}

// New creates a Header of the given kind with its API version derived from
// the kind, a generation timestamp and any extra options applied.
func New(kind string, opts ...Option) *Header {
	h := &Header{}
	h.Set(kind)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header identifies a generated document.
type Header struct {
	// Kind is the type of the document.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs about the run that produced the document.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Set initializes the Header for kind. The APIVersion has the form
// "<kind>.azops.nvidia.com/v1" and the generation timestamp is recorded.
func (h *Header) Set(kind string) {
	h.Kind = kind
	h.APIVersion = fmt.Sprintf("%s.%s/%s", strings.ToLower(kind), APIVersionDomain, APIVersionV1)
	h.Metadata = map[string]string{
		MetadataGeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// RunID returns the recorded run id, if any.
func (h *Header) RunID() string {
	if h == nil {
		return ""
	}
	return h.Metadata[MetadataRunID]
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
