// Package parser turns raw distribution artifacts into domain artifacts.
package parser

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

// Result splits a distribution into the two artifact classes deployed in
// separate phases.
type Result struct {
	// Models holds model and named-query artifacts, in input order.
	Models []domain.Artifact
	// Catalog holds VNF image artifacts, in input order.
	Catalog []domain.Artifact
	// Skipped names raw artifacts of a type that is not deployed.
	Skipped []string
}

func (r *Result) Empty() bool {
	return len(r.Models) == 0 && len(r.Catalog) == 0
}

// Parse parses every raw artifact. Any malformed artifact fails the whole
// distribution.
func Parse(raw []domain.RawArtifact) (*Result, error) {
	res := &Result{}

	for _, ra := range raw {
		switch ra.Type {
		case domain.RawArtifactModelInventoryProfile:
			m, err := ParseModel(ra.Payload)
			if err != nil {
				return nil, fmt.Errorf("parse model artifact %q: %w", ra.Name, err)
			}
			res.Models = append(res.Models, m)

		case domain.RawArtifactModelQuerySpec:
			q, err := ParseNamedQuery(ra.Payload)
			if err != nil {
				return nil, fmt.Errorf("parse named query artifact %q: %w", ra.Name, err)
			}
			res.Models = append(res.Models, q)

		case domain.RawArtifactVnfCatalog:
			images, err := ParseVnfCatalog(ra.Payload)
			if err != nil {
				return nil, fmt.Errorf("parse vnf catalog artifact %q: %w", ra.Name, err)
			}
			for _, img := range images {
				res.Catalog = append(res.Catalog, img)
			}

		default:
			log.WithFields(log.Fields{
				"artifact": ra.Name,
				"type":     ra.Type,
			}).Warn("skipping artifact of unsupported type")
			res.Skipped = append(res.Skipped, ra.Name)
		}
	}

	return res, nil
}
