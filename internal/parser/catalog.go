package parser

import (
	"encoding/json"
	"fmt"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

type vnfCatalogDoc struct {
	Images []json.RawMessage `json:"image"`
}

type vnfImage struct {
	UUID               string `json:"att-uuid"`
	Application        string `json:"application"`
	ApplicationVendor  string `json:"application-vendor"`
	ApplicationVersion string `json:"application-version"`
}

// ParseVnfCatalog splits a VNF catalog document into one artifact per image.
// Each artifact's payload is the image entry as delivered.
func ParseVnfCatalog(payload []byte) ([]*domain.CatalogArtifact, error) {
	var doc vnfCatalogDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}

	images := make([]*domain.CatalogArtifact, 0, len(doc.Images))
	for i, raw := range doc.Images {
		var img vnfImage
		if err := json.Unmarshal(raw, &img); err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", domain.ErrInvalidArtifact, i, err)
		}
		a, err := domain.NewCatalogArtifact(img.UUID, raw)
		if err != nil {
			return nil, fmt.Errorf("image %d (%s %s): %w", i, img.Application, img.ApplicationVersion, err)
		}
		images = append(images, a)
	}
	return images, nil
}
