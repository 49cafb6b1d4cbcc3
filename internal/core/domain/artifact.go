package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type ArtifactKind string

const (
	ArtifactKindModel      ArtifactKind = "MODEL"
	ArtifactKindNamedQuery ArtifactKind = "NAMED_QUERY"
	ArtifactKindCatalog    ArtifactKind = "VNF_CATALOG"
)

// CompositeModelVersion is the first namespace version in which a model is
// stored as a parent model with nested model-ver children. Older models are
// flat and must be converted before they can be pushed.
const CompositeModelVersion = 9

// Artifact is one distributable unit. The variant set is closed: only the
// types in this package implement it.
type Artifact interface {
	Kind() ArtifactKind
	// UniqueID identifies the artifact within a batch and on the remote store.
	UniqueID() string
	// Dependencies lists the unique identifiers this artifact references.
	Dependencies() []string
	Payload() []byte

	sealed()
}

var namespaceVersionPattern = regexp.MustCompile(`/v(\d+)/?$`)

// ParseNamespaceVersion extracts the trailing version token of a schema
// namespace, e.g. "http://org.onap/aai.inventory/v9" yields ("v9", 9, true).
func ParseNamespaceVersion(namespace string) (string, int, bool) {
	m := namespaceVersionPattern.FindStringSubmatch(strings.TrimSpace(namespace))
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	return "v" + m[1], n, true
}

// ============================================================================
// Model
// ============================================================================

type ModelArtifact struct {
	InvariantID string
	VersionID   string
	Namespace   string
	// Body is the complete model document. VersionBody is the nested
	// model-ver document, pushed on its own when the parent already exists.
	Body        []byte
	VersionBody []byte

	dependsOn []string
}

func NewModelArtifact(invariantID, versionID, namespace string, body []byte) (*ModelArtifact, error) {
	if strings.TrimSpace(invariantID) == "" || strings.TrimSpace(versionID) == "" {
		return nil, ErrInvalidArtifact
	}
	return &ModelArtifact{
		InvariantID: invariantID,
		VersionID:   versionID,
		Namespace:   namespace,
		Body:        body,
	}, nil
}

func (m *ModelArtifact) Kind() ArtifactKind { return ArtifactKindModel }

func (m *ModelArtifact) UniqueID() string { return ModelUniqueID(m.InvariantID, m.VersionID) }

func (m *ModelArtifact) Dependencies() []string { return m.dependsOn }

func (m *ModelArtifact) Payload() []byte { return m.Body }

// AddDependency records a referenced model. Repeated identifiers are kept once.
func (m *ModelArtifact) AddDependency(id string) {
	m.dependsOn = appendUnique(m.dependsOn, id)
}

// NamespaceVersion returns the version token of the namespace, or "" when
// the namespace carries none.
func (m *ModelArtifact) NamespaceVersion() string {
	v, _, _ := ParseNamespaceVersion(m.Namespace)
	return v
}

// IsComposite reports whether the model is stored as parent + model-ver.
// Models without a namespace version are assumed current.
func (m *ModelArtifact) IsComposite() bool {
	_, n, ok := ParseNamespaceVersion(m.Namespace)
	return !ok || n >= CompositeModelVersion
}

// RequiresConversion reports whether the payload must go through the
// conversion service before it is pushable.
func (m *ModelArtifact) RequiresConversion() bool {
	return !m.IsComposite()
}

func (m *ModelArtifact) sealed() {}

// ModelUniqueID joins the model identifiers the same way dependencies are
// declared.
func ModelUniqueID(invariantID, versionID string) string {
	return invariantID + "|" + versionID
}

// ============================================================================
// Named Query
// ============================================================================

type NamedQueryArtifact struct {
	UUID      string
	Namespace string
	Body      []byte

	dependsOn []string
}

func NewNamedQueryArtifact(id, namespace string, body []byte) (*NamedQueryArtifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidArtifact
	}
	return &NamedQueryArtifact{UUID: id, Namespace: namespace, Body: body}, nil
}

func (q *NamedQueryArtifact) Kind() ArtifactKind { return ArtifactKindNamedQuery }

func (q *NamedQueryArtifact) UniqueID() string { return q.UUID }

func (q *NamedQueryArtifact) Dependencies() []string { return q.dependsOn }

func (q *NamedQueryArtifact) Payload() []byte { return q.Body }

func (q *NamedQueryArtifact) AddDependency(id string) {
	q.dependsOn = appendUnique(q.dependsOn, id)
}

func (q *NamedQueryArtifact) NamespaceVersion() string {
	v, _, _ := ParseNamespaceVersion(q.Namespace)
	return v
}

func (q *NamedQueryArtifact) sealed() {}

// ============================================================================
// Catalog
// ============================================================================

// CatalogArtifact is one VNF image entry. Catalog artifacts never declare
// dependencies and are pushed in input order.
type CatalogArtifact struct {
	UUID string
	Body []byte
}

func NewCatalogArtifact(id string, body []byte) (*CatalogArtifact, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidArtifact
	}
	return &CatalogArtifact{UUID: id, Body: body}, nil
}

func (c *CatalogArtifact) Kind() ArtifactKind { return ArtifactKindCatalog }

func (c *CatalogArtifact) UniqueID() string { return c.UUID }

func (c *CatalogArtifact) Dependencies() []string { return nil }

func (c *CatalogArtifact) Payload() []byte { return c.Body }

func (c *CatalogArtifact) sealed() {}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
