package services

import (
	"strings"
)

const versionPlaceholder = "{version}"

// Paths builds remote store addresses. Templates carry a {version}
// placeholder that is replaced by the artifact's namespace version.
type Paths struct {
	BaseURL        string
	DefaultVersion string
	// CatalogVersion selects the endpoint version for catalog artifacts,
	// which carry no namespace.
	CatalogVersion string

	Model        string
	ModelVersion string
	NamedQuery   string
	VnfImage     string
}

// DefaultPaths returns the A&AI service-design-and-creation layout.
func DefaultPaths(baseURL string) Paths {
	return Paths{
		BaseURL:        baseURL,
		DefaultVersion: "v11",
		CatalogVersion: "v11",
		Model:          "/aai/{version}/service-design-and-creation/models/model/",
		ModelVersion:   "/model-vers/model-ver/",
		NamedQuery:     "/aai/{version}/service-design-and-creation/named-queries/named-query/",
		VnfImage:       "/aai/{version}/service-design-and-creation/vnf-images/vnf-image/",
	}
}

func (p Paths) resolve(template, version, id string) string {
	if version == "" {
		version = p.DefaultVersion
	}
	base := strings.TrimRight(p.BaseURL, "/")
	path := strings.ReplaceAll(template, versionPlaceholder, version)
	return base + path + id
}

// ModelAddress is the parent model resource.
func (p Paths) ModelAddress(version, invariantID string) string {
	return p.resolve(p.Model, version, invariantID)
}

// ModelVersionAddress is the model-ver child of a parent model.
func (p Paths) ModelVersionAddress(version, invariantID, versionID string) string {
	return strings.TrimRight(p.ModelAddress(version, invariantID), "/") + p.ModelVersion + versionID
}

// LegacyModelAddress is the flat model resource of pre-composite schemas,
// keyed by the model-name-version-id.
func (p Paths) LegacyModelAddress(version, versionID string) string {
	return p.resolve(p.Model, version, versionID)
}

func (p Paths) NamedQueryAddress(version, id string) string {
	return p.resolve(p.NamedQuery, version, id)
}

func (p Paths) VnfImageAddress(id string) string {
	return p.resolve(p.VnfImage, p.CatalogVersion, id)
}
