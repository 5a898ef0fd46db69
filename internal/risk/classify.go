package risk

import "strings"

// BridgeFamily groups the inventory type hierarchy codes into the families
// the standard assigns K8 constants to.
type BridgeFamily int

const (
	FamilyPlate BridgeFamily = iota
	FamilyBeam
	FamilyArch
	FamilyFrame
	FamilySuspension
	FamilyOther
)

// bridgeFamilies maps type hierarchy codes to their family.
var bridgeFamilies = map[int]BridgeFamily{
	1193: FamilyPlate,

	1111: FamilyBeam, // single-span girder
	1112: FamilyBeam, // continuous girder
	1113: FamilyBeam, // Gerber girder

	1123: FamilyArch,
	1124: FamilyArch, // stiffened arch / Langer beam
	11:   FamilyArch, // bridge, viaduct
	1125: FamilyArch, // vaulted construction
	112:  FamilyArch,

	1121: FamilyFrame,
	1122: FamilyFrame, // strutted frame

	1132: FamilySuspension,

	1192: FamilyOther, // trough bridge
	1131: FamilyOther, // cable-stayed
	191:  FamilyOther, // bridge complex
	1133: FamilyOther, // stress ribbon
	119:  FamilyOther, // special bridge
}

// ClassifyBridgeType returns the family for a type code.
func ClassifyBridgeType(typeCode int) (BridgeFamily, bool) {
	f, ok := bridgeFamilies[typeCode]
	return f, ok
}

// MaterialFamily groups the inventory material codes.
type MaterialFamily int

const (
	MaterialConcrete MaterialFamily = iota
	MaterialSteel
	MaterialMasonryTimber
	MaterialComposite
	MaterialOther
)

var materialFamilies = map[int]MaterialFamily{
	1121: MaterialConcrete, // concrete
	1123: MaterialConcrete, // reinforced concrete
	1124: MaterialConcrete, // clad reinforced concrete
	1125: MaterialConcrete, // prestressed concrete

	1141: MaterialSteel,

	1111: MaterialMasonryTimber, // masonry
	1112: MaterialMasonryTimber, // concrete-filled masonry
	117:  MaterialMasonryTimber, // timber

	1152: MaterialComposite,
	1153: MaterialComposite, // prestressed composite

	1162: MaterialOther, // prestressed cable
	1133: MaterialOther, // corrugated sheet
}

// ClassifyMaterial returns the family for a material code.
func ClassifyMaterial(materialCode int) (MaterialFamily, bool) {
	f, ok := materialFamilies[materialCode]
	return f, ok
}

// Crossing classifies what a bridge spans, derived from the free-form
// function text.
type Crossing int

const (
	CrossingUnknown Crossing = iota
	CrossingWater
	CrossingTraffic // road, rail or other infrastructure underneath
	CrossingNature  // terrain, nature or utility lines
)

// ClassifyCrossing derives the crossing kind from the function text.
func ClassifyCrossing(functionText string) Crossing {
	t := strings.ToLower(strings.TrimSpace(functionText))
	if t == "" {
		return CrossingUnknown
	}
	switch {
	case containsAny(t, "fluss", "gewässer", "bach", "kanal", "see"):
		return CrossingWater
	case containsAny(t, "strasse", "bahn", "autobahn", "weg", "verkehrsweg", "infrastruktur"):
		return CrossingTraffic
	case containsAny(t, "natur", "gelände", "hang", "tal", "leitung"):
		return CrossingNature
	default:
		return CrossingUnknown
	}
}

// WallClass groups the free-form wall type text into the four rows of the K8
// wall table.
type WallClass int

const (
	WallGravity WallClass = iota
	WallCantilever
	WallCladding
	WallOther
)

var gravityWallTypes = map[string]bool{
	"Schwergewichtsmauer in Beton":     true,
	"Schwergewichtsmauer in Mauerwerk": true,
	"Schwergewichtsmauern":             true,
	"Steinkorbmauer":                   true,
	"Trockenmauer":                     true,
	"Mauerwerk":                        true,
}

var cantileverWallTypes = map[string]bool{
	"Verankerte Winkelstützmauer":                true,
	"Winkelstützmauer":                           true,
	"Winkelstützmauer mit Mauerwerksverkleidung": true,
	"Winkelstützmauer mit Querträger(n)":         true,
	"Winkelstützmauer mit Wiederlager":           true,
}

// ClassifyWall maps a wall type text to its class. Empty text defaults to the
// cantilever class, matching the latest calibration of the wall table.
func ClassifyWall(wallType string) WallClass {
	switch {
	case gravityWallTypes[wallType]:
		return WallGravity
	case wallType == "" || cantileverWallTypes[wallType]:
		return WallCantilever
	case strings.Contains(wallType, "Verkleidungsmauer"):
		return WallCladding
	default:
		return WallOther
	}
}

// concreteWallTypes lists the wall types built from concrete for K9.
var concreteWallTypes = map[string]bool{
	"Schwergewichtsmauer in Beton": true,
	"Fertigbetonelement Mauer":     true,
	"Beton":                        true,
	"Spritzbeton":                  true,
	"Verankerter Spritzbeton":      true,
}

// slopeSideFunctions lists the function texts placing a wall on the slope
// side of the road.
var slopeSideFunctions = map[string]bool{
	"Schützt anderes":                     true,
	"Schützt anderes Infrastrukturobjekt": true,
	"Schützt Bahnanlage":                  true,
	"Schützt Fluss":                       true,
	"Schützt Gewässer":                    true,
	"Schützt Leitungen":                   true,
	"Schützt Natur":                       true,
	"Schützt Strasse / Weg":               true,
	"Schützt übrige Infrastruktur":        true,
	"Schützt Verkehrswege":                true,
	"Stützt Strasse / Weg":                true,
	"Stützt übrige Infrastruktur":         true,
	"Stützt Verkehrswege":                 true,
	"Trägt Strasse / Weg":                 true,
}

// IsOnSlopeSide reports whether the wall function places it on the slope side.
func IsOnSlopeSide(functionText string) bool {
	return slopeSideFunctions[functionText]
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
