package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

const (
	relatedToModel    = "model"
	relatedToModelVer = "model-ver"
	keyModelInvariant = "model.model-invariant-id"
	keyModelVersion   = "model-ver.model-version-id"
	modelVerElement   = "model-ver"
)

type modelDoc struct {
	XMLName     xml.Name `xml:"model"`
	InvariantID string   `xml:"model-invariant-id"`
	Versions    []struct {
		VersionID string `xml:"model-version-id"`
		Inner     []byte `xml:",innerxml"`
	} `xml:"model-vers>model-ver"`

	// Pre-composite schemas.
	ModelID       string `xml:"model-id"`
	NameVersionID string `xml:"model-name-version-id"`
}

// ParseModel reads a model document. Current schemas yield a composite
// model (parent + model-ver); older ones yield a flat legacy model keyed
// by model-id and model-name-version-id.
func ParseModel(payload []byte) (*domain.ModelArtifact, error) {
	var doc modelDoc
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	namespace := doc.XMLName.Space

	var (
		m   *domain.ModelArtifact
		err error
	)
	switch {
	case doc.InvariantID != "" && len(doc.Versions) > 0:
		ver := doc.Versions[0]
		m, err = domain.NewModelArtifact(strings.TrimSpace(doc.InvariantID), strings.TrimSpace(ver.VersionID), namespace, payload)
		if err != nil {
			return nil, err
		}
		m.VersionBody = wrapElement(modelVerElement, namespace, ver.Inner)
	case doc.ModelID != "" && doc.NameVersionID != "":
		m, err = domain.NewModelArtifact(strings.TrimSpace(doc.ModelID), strings.TrimSpace(doc.NameVersionID), namespace, payload)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: model identifiers missing", domain.ErrInvalidArtifact)
	}

	deps, err := modelReferences(payload, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	for _, d := range deps {
		m.AddDependency(d)
	}
	return m, nil
}

type namedQueryDoc struct {
	XMLName xml.Name `xml:"named-query"`
	UUID    string   `xml:"named-query-uuid"`
}

// ParseNamedQuery reads a named-query document. Its elements may reference
// a model by invariant id alone; such references are kept as the bare
// invariant id and resolved against the batch when the graph is built.
func ParseNamedQuery(payload []byte) (*domain.NamedQueryArtifact, error) {
	var doc namedQueryDoc
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}

	q, err := domain.NewNamedQueryArtifact(strings.TrimSpace(doc.UUID), doc.XMLName.Space, payload)
	if err != nil {
		return nil, err
	}

	deps, err := modelReferences(payload, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	for _, d := range deps {
		q.AddDependency(d)
	}
	return q, nil
}

// modelReferences collects the model unique ids referenced by relationships
// to model-ver anywhere in the document. With invariantOnly, relationships
// to model are accepted too and a missing version yields the bare
// invariant id.
func modelReferences(payload []byte, invariantOnly bool) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(payload))

	var (
		refs      []string
		text      strings.Builder
		inRel     bool
		relatedTo string
		key       string
		invariant string
		version   string
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "relationship" {
				inRel = true
				relatedTo, key, invariant, version = "", "", "", ""
			}
			text.Reset()
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			value := strings.TrimSpace(text.String())
			text.Reset()
			if !inRel {
				continue
			}
			switch t.Name.Local {
			case "related-to":
				relatedTo = value
			case "relationship-key":
				key = value
			case "relationship-value":
				switch key {
				case keyModelInvariant:
					invariant = value
				case keyModelVersion:
					version = value
				}
			case "relationship":
				switch {
				case invariant == "":
				case version != "" && (relatedTo == relatedToModelVer || (invariantOnly && relatedTo == relatedToModel)):
					refs = append(refs, domain.ModelUniqueID(invariant, version))
				case invariantOnly && (relatedTo == relatedToModel || relatedTo == relatedToModelVer):
					refs = append(refs, invariant)
				}
				inRel = false
			}
		}
	}

	return refs, nil
}

func wrapElement(name, namespace string, inner []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<" + name)
	if namespace != "" {
		b.WriteString(` xmlns="` + namespace + `"`)
	}
	b.WriteString(">")
	b.Write(inner)
	b.WriteString("</" + name + ">")
	return b.Bytes()
}
