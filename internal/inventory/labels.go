// Package inventory reads the bridge and support structure workbooks into
// model rows, resolving the inventory's sentinel conventions for missing
// values.
package inventory

// Column labels as exported by the inventory system. Several labels embed
// non-breaking spaces (U+00A0) rather than regular ones.
const (
	labelNumber           = " Nummer"
	labelAllBridgesNumber = "Nummer"
	labelName             = "Name"
	labelEast             = "Landeskoordinaten E [m]"
	labelNorth            = "Landeskoordinaten N [m]"
	labelNormYear         = "Belastungsnorm Text"
	labelYear             = "Baujahr"
	labelLength           = "Länge [m]"
	labelWidth            = "Breite [m]"
	labelLargestSpan      = "Grösste Spannweite  [m] )"
	labelSpan             = "Spannweite [m]"
	labelTypeCode         = "Typ Hierarchie-Code"
	labelTypeText         = "Typ Text"
	labelMaterialCode     = "Bauart Code"
	labelMaterialText     = "Bauart Text"
	labelConditionClass   = "Zustands- Klasse"
	labelFunctionText     = "Funktion Text"
	labelAxis             = "Achse"
	labelSkew             = "Schief [°]"
	labelMaintenanceDate  = "Erhaltungsmassnahme Datum der Abnahme"
	labelEarthquakeCheck  = "Erdbebenbeurteilung Erfüllung Erdbebenbeurteilung"

	labelWallCondition   = "Zustand"
	labelWallEast        = "Infrastrukturobjekt Landeskoordinaten E [m]"
	labelWallNorth       = "Infrastrukturobjekt Landeskoordinaten N [m]"
	labelWallArea        = "Infrastrukturobjekt Fläche [m²]"
	labelWallMaxHeight   = "Infrastrukturobjekt Max. Infrastrukturobjekthöhe [m]"
	labelWallLength      = "Infrastrukturobjekt Länge [m]"
	labelWallConsequence = "Einsturzkonsequenz - Stützmauern Text"
	labelWallType        = "Mauertyp Text"
)
