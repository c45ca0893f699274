package network

import (
	"os"

	json "github.com/goccy/go-json"

	domainerrors "mapmatch/internal/domain/errors"

	"github.com/gotidy/ptr"
	"github.com/pkg/errors"
)

// RoadType identifies the road class of a Section, and indexes into the
// width-weight table (§6). Zero-weight types are excluded from scoring.
type RoadType string

// The closed enumeration of road types, per §6.
const (
	RoadTypeStreet           RoadType = "street"
	RoadTypeArterial         RoadType = "arterial"
	RoadTypeOffRamp          RoadType = "off ramp"
	RoadTypeOnRamp           RoadType = "on ramp"
	RoadTypeFreeway          RoadType = "freeway"
	RoadTypeFreewayConnector RoadType = "freeway connector"
	RoadTypeFreewayHOVLane   RoadType = "freeway hov lane"
	RoadTypeLightRailTrack   RoadType = "light rail track"
)

// RoadTypeWidthWeight maps a RoadType to its width weight. Zero means
// non-drivable; the Scorer discards candidates on zero-weight sections.
var RoadTypeWidthWeight = map[RoadType]float64{
	RoadTypeStreet:           1,
	RoadTypeArterial:         1,
	RoadTypeOffRamp:          1,
	RoadTypeOnRamp:           1,
	RoadTypeFreeway:          1,
	RoadTypeFreewayConnector: 1,
	RoadTypeFreewayHOVLane:   0,
	RoadTypeLightRailTrack:   0,
}

const kmhToMPH = 0.62137119

// ShapePoint is one point along a section's geometry. Heading is nullable in
// the wire schema (§6); a nil Heading is recomputed from neighboring points
// during section construction (see builder.go).
type ShapePoint struct {
	Lon     float64
	Lat     float64
	Heading *float64
}

// shapePointWire mirrors the §6 schema: {"lon":.., "lat":.., "heading": float|null}.
type shapePointWire struct {
	Lon     float64  `json:"lon"`
	Lat     float64  `json:"lat"`
	Heading *float64 `json:"heading"`
}

// Lane describes one physical lane of a Section (§6). The builder reads none
// of its fields (a section's width comes from its road type and NumLanes);
// they are decoded for completeness.
type Lane struct {
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	IsFullLane bool    `json:"isFullLane"`
	Offset     float64 `json:"offset"`
}

// SectionDocument is one entry of the sections map (§6).
type SectionDocument struct {
	SectionID  string       `json:"sectionID"`
	Name       string       `json:"name"`
	ExternalID string       `json:"externalID"`
	SpeedMPH   float64      `json:"-"`
	Type       RoadType     `json:"type"`
	NumLanes   int          `json:"numLanes"`
	Lanes      []Lane       `json:"lanes"`
	Shape      []ShapePoint `json:"-"`
}

type sectionDocumentWire struct {
	SectionID  string           `json:"sectionID"`
	Name       string           `json:"name"`
	ExternalID string           `json:"externalID"`
	Speed      float64          `json:"speed"`
	Type       RoadType         `json:"type"`
	NumLanes   int              `json:"numLanes"`
	Lanes      []Lane           `json:"lanes"`
	NumPoints  int              `json:"numPoints"`
	Shape      []shapePointWire `json:"shape"`
}

// UnmarshalJSON decodes the wire schema. The "speed" field is stored in
// SpeedMPH unchanged, as the mph value the schema defines; no km/h
// conversion happens here (see ConvertSpeedFromKMH).
func (s *SectionDocument) UnmarshalJSON(data []byte) error {
	var wire sectionDocumentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.WithStack(err)
	}

	s.SectionID = wire.SectionID
	s.Name = wire.Name
	s.ExternalID = wire.ExternalID
	s.SpeedMPH = wire.Speed
	s.Type = wire.Type
	s.NumLanes = wire.NumLanes
	s.Lanes = wire.Lanes
	s.Shape = make([]ShapePoint, len(wire.Shape))
	for i, sp := range wire.Shape {
		point := ShapePoint{Lon: sp.Lon, Lat: sp.Lat}
		if sp.Heading != nil {
			point.Heading = ptr.Float64(*sp.Heading)
		}
		s.Shape[i] = point
	}

	return nil
}

// ConvertSpeedFromKMH converts a speed given in km/h to mph, per §4.1's
// conversion contract. Extractors that already emit mph should not call this.
func ConvertSpeedFromKMH(kmh float64) float64 {
	return kmh * kmhToMPH
}

// Validate checks that a decoded SectionDocument carries every field the
// builder needs. goccy/go-json zero-fills absent fields rather than erroring
// on them, so a missing "sectionID", "type" or "shape" decodes silently
// without this check.
func (s *SectionDocument) Validate() error {
	if s.SectionID == "" {
		return errors.New("sectionID is required")
	}
	if s.Type == "" {
		return errors.New("type is required")
	}
	if len(s.Shape) == 0 {
		return errors.New("shape is required")
	}

	return nil
}

// SectionsDocument is the top-level section document (§6).
type SectionsDocument struct {
	NumSections int                        `json:"numSections"`
	Sections    map[string]SectionDocument `json:"sections"`
}

// Geolocation is a {"lat":.., "lon":..} pair as it appears in the junction
// document (§6) — kept distinct from geo.Point, which is [lon, lat] ordered,
// to mirror the wire schema's field order exactly.
type Geolocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Turn connects an origin section to a destination section at a junction (§6).
type Turn struct {
	TurnID               string  `json:"turnID"`
	OriginSectionID      string  `json:"originSectionID"`
	DestinationSectionID string  `json:"destinationSectionID"`
	FromLaneRange        [2]int  `json:"fromLaneRange"`
	ToLaneRange          [2]int  `json:"toLaneRange"`
	SpeedMPH             float64 `json:"speed"`
	Angle                float64 `json:"angle"`
	Type                 string  `json:"type"`
}

// JunctionDocument is one entry of the junctions list (§6).
type JunctionDocument struct {
	JunctionID   string      `json:"junctionID"`
	Name         string      `json:"name"`
	ExternalID   string      `json:"externalID"`
	Geolocation  Geolocation `json:"geolocation"`
	Signalized   bool        `json:"signalized"`
	NumEntrances int         `json:"numEntrances"`
	Entrances    []string    `json:"entrances"`
	NumExits     int         `json:"numExits"`
	Exits        []string    `json:"exits"`
	NumTurns     int         `json:"numTurns"`
	Turns        []Turn      `json:"turns"`
}

// JunctionsDocument is the top-level junction document (§6).
type JunctionsDocument struct {
	NumJunctions int                `json:"numJunctions"`
	Junctions    []JunctionDocument `json:"junctions"`
}

// Validate checks that a decoded JunctionDocument carries every field the
// builder needs; see SectionDocument.Validate for why this can't be left to
// the decoder.
func (j *JunctionDocument) Validate() error {
	if j.JunctionID == "" {
		return errors.New("junctionID is required")
	}

	return nil
}

// LoadJunctionsDocument reads and decodes a junction document from path.
func LoadJunctionsDocument(path string) (*JunctionsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read junctions document")
	}

	var doc JunctionsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domainerrors.Wrap(domainerrors.KindBadInputSchema, err, "decode junctions document")
	}

	for i := range doc.Junctions {
		if err := doc.Junctions[i].Validate(); err != nil {
			return nil, domainerrors.Wrap(domainerrors.KindBadInputSchema, err, "validate junction document")
		}
	}

	return &doc, nil
}

// LoadSectionsDocument reads and decodes a section document from path.
func LoadSectionsDocument(path string) (*SectionsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read sections document")
	}

	var doc SectionsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domainerrors.Wrap(domainerrors.KindBadInputSchema, err, "decode sections document")
	}

	for id, section := range doc.Sections {
		if err := section.Validate(); err != nil {
			return nil, domainerrors.Wrap(domainerrors.KindBadInputSchema, err, "validate section document "+id)
		}
	}

	return &doc, nil
}

// HeadingOrComputed dereferences a nullable shape-point heading, falling back
// to a computed value supplied by the caller when nil. Exported for use by
// builder.go when materializing graph vertices from shape points.
func HeadingOrComputed(h *float64, computed float64) float64 {
	if h == nil {
		return computed
	}

	return *h
}
