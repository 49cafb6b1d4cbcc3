package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onap/aai-model-loader-sub000/internal/core/domain"
)

const compositeModelXML = `<?xml version="1.0" encoding="UTF-8"?>
<model xmlns="http://org.onap/aai.inventory/v11">
  <model-invariant-id>svc-inv</model-invariant-id>
  <model-type>service</model-type>
  <model-vers>
    <model-ver>
      <model-version-id>svc-ver</model-version-id>
      <model-name>vFW</model-name>
      <model-version>1.0</model-version>
      <model-elements>
        <model-element>
          <model-element-uuid>el-1</model-element-uuid>
          <relationship-list>
            <relationship>
              <related-to>model-ver</related-to>
              <relationship-data>
                <relationship-key>model.model-invariant-id</relationship-key>
                <relationship-value>vf-inv</relationship-value>
              </relationship-data>
              <relationship-data>
                <relationship-key>model-ver.model-version-id</relationship-key>
                <relationship-value>vf-ver</relationship-value>
              </relationship-data>
            </relationship>
          </relationship-list>
          <model-elements>
            <model-element>
              <relationship-list>
                <relationship>
                  <related-to>model-ver</related-to>
                  <relationship-data>
                    <relationship-key>model.model-invariant-id</relationship-key>
                    <relationship-value>vfc-inv</relationship-value>
                  </relationship-data>
                  <relationship-data>
                    <relationship-key>model-ver.model-version-id</relationship-key>
                    <relationship-value>vfc-ver</relationship-value>
                  </relationship-data>
                </relationship>
                <relationship>
                  <related-to>model</related-to>
                  <relationship-data>
                    <relationship-key>model.model-invariant-id</relationship-key>
                    <relationship-value>ignored</relationship-value>
                  </relationship-data>
                </relationship>
              </relationship-list>
            </model-element>
          </model-elements>
        </model-element>
      </model-elements>
    </model-ver>
  </model-vers>
</model>`

const legacyModelXML = `<model xmlns="http://org.openecomp.aai.inventory/v8">
  <model-id>legacy-id</model-id>
  <model-name-version-id>legacy-nv</model-name-version-id>
  <model-name>old</model-name>
</model>`

const namedQueryXML = `<named-query xmlns="http://org.onap/aai.inventory/v11">
  <named-query-uuid>0f3c2e7a-8f1e-4b8a-9d3c-2b6a1f0e4d55</named-query-uuid>
  <named-query-name>vnf-to-esr</named-query-name>
  <named-query-elements>
    <named-query-element>
      <relationship-list>
        <relationship>
          <related-to>model-ver</related-to>
          <relationship-data>
            <relationship-key>model.model-invariant-id</relationship-key>
            <relationship-value>svc-inv</relationship-value>
          </relationship-data>
          <relationship-data>
            <relationship-key>model-ver.model-version-id</relationship-key>
            <relationship-value>svc-ver</relationship-value>
          </relationship-data>
        </relationship>
      </relationship-list>
    </named-query-element>
  </named-query-elements>
</named-query>`

const vnfCatalogJSON = `{"image":[
  {"att-uuid":"img-1","application":"vFW","application-vendor":"acme","application-version":"1.0"},
  {"att-uuid":"img-2","application":"vLB","application-vendor":"acme","application-version":"2.1"}
]}`

func TestParseModel_Composite(t *testing.T) {
	m, err := ParseModel([]byte(compositeModelXML))
	require.NoError(t, err)

	assert.Equal(t, "svc-inv|svc-ver", m.UniqueID())
	assert.Equal(t, "v11", m.NamespaceVersion())
	assert.True(t, m.IsComposite())
	assert.Equal(t, []string{"vf-inv|vf-ver", "vfc-inv|vfc-ver"}, m.Dependencies())
	assert.Contains(t, string(m.VersionBody), "<model-ver xmlns=\"http://org.onap/aai.inventory/v11\">")
	assert.Contains(t, string(m.VersionBody), "svc-ver")
}

func TestParseModel_Legacy(t *testing.T) {
	m, err := ParseModel([]byte(legacyModelXML))
	require.NoError(t, err)

	assert.Equal(t, "legacy-id|legacy-nv", m.UniqueID())
	assert.True(t, m.RequiresConversion())
	assert.Empty(t, m.Dependencies())
}

func TestParseModel_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not xml", payload: "{}"},
		{name: "missing identifiers", payload: `<model><model-type>service</model-type></model>`},
		{name: "missing version id", payload: `<model><model-invariant-id>x</model-invariant-id><model-vers><model-ver></model-ver></model-vers></model>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel([]byte(tt.payload))
			assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
		})
	}
}

func TestParseNamedQuery(t *testing.T) {
	q, err := ParseNamedQuery([]byte(namedQueryXML))
	require.NoError(t, err)

	assert.Equal(t, "0f3c2e7a-8f1e-4b8a-9d3c-2b6a1f0e4d55", q.UniqueID())
	assert.Equal(t, []string{"svc-inv|svc-ver"}, q.Dependencies())
}

func TestParseNamedQuery_InvariantOnlyReference(t *testing.T) {
	payload := `<named-query xmlns="http://org.onap/aai.inventory/v11">
  <named-query-uuid>0f3c2e7a-8f1e-4b8a-9d3c-2b6a1f0e4d55</named-query-uuid>
  <named-query-elements>
    <named-query-element>
      <relationship-list>
        <relationship>
          <related-to>model</related-to>
          <relationship-data>
            <relationship-key>model.model-invariant-id</relationship-key>
            <relationship-value>svc-inv</relationship-value>
          </relationship-data>
        </relationship>
      </relationship-list>
      <named-query-elements>
        <named-query-element>
          <relationship-list>
            <relationship>
              <related-to>model</related-to>
              <relationship-data>
                <relationship-key>model.model-invariant-id</relationship-key>
                <relationship-value>vnf-inv</relationship-value>
              </relationship-data>
            </relationship>
          </relationship-list>
        </named-query-element>
      </named-query-elements>
    </named-query-element>
  </named-query-elements>
</named-query>`

	q, err := ParseNamedQuery([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, []string{"svc-inv", "vnf-inv"}, q.Dependencies())
}

func TestParseModel_IgnoresInvariantOnlyReference(t *testing.T) {
	payload := `<model xmlns="http://org.onap/aai.inventory/v11">
  <model-invariant-id>svc-inv</model-invariant-id>
  <model-vers><model-ver><model-version-id>svc-ver</model-version-id>
    <model-elements><model-element><relationship-list><relationship>
      <related-to>model</related-to>
      <relationship-data>
        <relationship-key>model.model-invariant-id</relationship-key>
        <relationship-value>vnf-inv</relationship-value>
      </relationship-data>
    </relationship></relationship-list></model-element></model-elements>
  </model-ver></model-vers>
</model>`

	m, err := ParseModel([]byte(payload))
	require.NoError(t, err)

	assert.Empty(t, m.Dependencies())
}

func TestParseNamedQuery_InvalidUUID(t *testing.T) {
	_, err := ParseNamedQuery([]byte(`<named-query><named-query-uuid>nope</named-query-uuid></named-query>`))
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
}

func TestParseVnfCatalog(t *testing.T) {
	images, err := ParseVnfCatalog([]byte(vnfCatalogJSON))
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "img-1", images[0].UniqueID())
	assert.Equal(t, "img-2", images[1].UniqueID())
	assert.JSONEq(t, `{"att-uuid":"img-1","application":"vFW","application-vendor":"acme","application-version":"1.0"}`,
		string(images[0].Payload()))
}

func TestParseVnfCatalog_MissingUUID(t *testing.T) {
	_, err := ParseVnfCatalog([]byte(`{"image":[{"application":"vFW"}]}`))
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
}

func TestParse_SplitsClasses(t *testing.T) {
	res, err := Parse([]domain.RawArtifact{
		{Name: "catalog.json", Type: domain.RawArtifactVnfCatalog, Payload: []byte(vnfCatalogJSON)},
		{Name: "service.xml", Type: domain.RawArtifactModelInventoryProfile, Payload: []byte(compositeModelXML)},
		{Name: "query.xml", Type: domain.RawArtifactModelQuerySpec, Payload: []byte(namedQueryXML)},
		{Name: "heat.yaml", Type: "HEAT", Payload: []byte("heat_template_version: 2013-05-23")},
	})
	require.NoError(t, err)

	require.Len(t, res.Models, 2)
	assert.Equal(t, domain.ArtifactKindModel, res.Models[0].Kind())
	assert.Equal(t, domain.ArtifactKindNamedQuery, res.Models[1].Kind())
	assert.Len(t, res.Catalog, 2)
	assert.Equal(t, []string{"heat.yaml"}, res.Skipped)
	assert.False(t, res.Empty())
}

func TestParse_FailsOnMalformedArtifact(t *testing.T) {
	_, err := Parse([]domain.RawArtifact{
		{Name: "service.xml", Type: domain.RawArtifactModelInventoryProfile, Payload: []byte("<model>")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
	assert.Contains(t, err.Error(), "service.xml")
}
