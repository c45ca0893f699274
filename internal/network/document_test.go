package network

import (
	"os"
	"path/filepath"
	"testing"

	domainerrors "mapmatch/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionDocumentValidateRejectsMissingFields(t *testing.T) {
	valid := SectionDocument{
		SectionID: "sec-a",
		Type:      RoadTypeStreet,
		Shape:     []ShapePoint{{Lon: -118.30, Lat: 34.00}},
	}
	require.NoError(t, valid.Validate())

	missingID := valid
	missingID.SectionID = ""
	assert.Error(t, missingID.Validate())

	missingType := valid
	missingType.Type = ""
	assert.Error(t, missingType.Validate())

	missingShape := valid
	missingShape.Shape = nil
	assert.Error(t, missingShape.Validate())
}

func TestJunctionDocumentValidateRejectsMissingID(t *testing.T) {
	valid := JunctionDocument{JunctionID: "j-1"}
	require.NoError(t, valid.Validate())

	missingID := valid
	missingID.JunctionID = ""
	assert.Error(t, missingID.Validate())
}

func TestLoadSectionsDocumentRejectsMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sections.json")
	body := `{"numSections":1,"sections":{"sec-a":{"type":"street","numLanes":1,"speed":30,"numPoints":1,"shape":[{"lon":-118.3,"lat":34.0,"heading":null}]}}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadSectionsDocument(path)
	require.Error(t, err)
	assert.True(t, domainerrors.IsKind(err, domainerrors.KindBadInputSchema))
}

func TestLoadJunctionsDocumentRejectsMissingRequiredField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junctions.json")
	body := `{"numJunctions":1,"junctions":[{"name":"unnamed"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadJunctionsDocument(path)
	require.Error(t, err)
	assert.True(t, domainerrors.IsKind(err, domainerrors.KindBadInputSchema))
}
