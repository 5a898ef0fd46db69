package model

import "time"

// RunKind distinguishes the two assessment pipelines.
type RunKind string

const (
	RunKindBridges RunKind = "bridges"
	RunKindWalls   RunKind = "walls"
)

// RunStatus tracks the lifecycle of an assessment run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one batch assessment over the full inventory.
type Run struct {
	ID       string    `json:"id"`
	Kind     RunKind   `json:"kind"`
	Revision string    `json:"revision"`
	Status   RunStatus `json:"status"`

	Processed          int `json:"processed"`
	Failed             int `json:"failed"`
	WithoutCoordinates int `json:"without_coordinates"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// BridgeAssessment is the flat per-bridge output record: identity, every
// intermediate factor, the probability of collapse, the four cost components
// and the final risk value.
type BridgeAssessment struct {
	Number int    `json:"number"`
	Name   string `json:"name"`

	NormYear           string `json:"norm_year"`
	YearOfConstruction string `json:"year_of_construction"`
	Age                string `json:"age"`
	Span               string `json:"span"`
	Type               string `json:"type"`
	Material           string `json:"material"`
	Function           string `json:"function"`
	EarthquakeZone     string `json:"earthquake_zone"`
	MaintenanceDate    string `json:"maintenance_date"`

	HumanErrorFactor          float64 `json:"k1_human_error"`
	StaticalDeterminacyFactor float64 `json:"k3_statical_determinacy"`
	ConditionFactor           float64 `json:"k4_condition"`
	OverpassFactor            float64 `json:"k6_overpass"`
	StaticCalculationFactor   float64 `json:"k7_static_calculation"`
	BridgeTypeFactor          float64 `json:"k8_bridge_type"`
	MaterialFactor            float64 `json:"k9_material"`
	RobustnessFactor          float64 `json:"k11_robustness"`
	EarthquakeFactor          float64 `json:"k13_earthquake"`

	ProbabilityOfCollapse float64 `json:"probability_of_collapse"`

	Axis             string  `json:"axis"`
	AADT             float64 `json:"aadt"`
	PercentageOfCars float64 `json:"percentage_of_cars"`

	ReplacementCosts float64 `json:"replacement_costs"`
	VictimCosts      float64 `json:"victim_costs"`
	VehicleLossCosts float64 `json:"vehicle_loss_costs"`
	DowntimeCosts    float64 `json:"downtime_costs"`
	DamageCosts      float64 `json:"damage_costs"`

	Risk float64 `json:"risk"`
}

// WallAssessment is the flat per-wall output record.
type WallAssessment struct {
	Number int    `json:"number"`
	Name   string `json:"name"`

	YearOfConstruction string `json:"year_of_construction"`
	Age                string `json:"age"`
	ConditionClass     string `json:"condition_class"`
	WallType           string `json:"wall_type"`
	Function           string `json:"function"`
	PrecipitationZone  string `json:"precipitation_zone"`

	HumanErrorFactor        float64 `json:"k1_human_error"`
	ConditionFactor         float64 `json:"k4_condition"`
	TypeFactor              float64 `json:"k8_type"`
	MaterialFactor          float64 `json:"k9_material"`
	VisibleAreaFactor       float64 `json:"k14_visible_area"`
	HeightFactor            float64 `json:"k15_height"`
	PrecipitationZoneFactor float64 `json:"k17_precipitation_zone"`

	ProbabilityOfCollapse float64 `json:"probability_of_collapse"`

	Axis             string  `json:"axis"`
	AADT             float64 `json:"aadt"`
	PercentageOfCars float64 `json:"percentage_of_cars"`

	ReplacementCosts float64 `json:"replacement_costs"`
	VictimCosts      float64 `json:"victim_costs"`
	VehicleLossCosts float64 `json:"vehicle_loss_costs"`
	DowntimeCosts    float64 `json:"downtime_costs"`
	DamageCosts      float64 `json:"damage_costs"`

	Risk float64 `json:"risk"`
}
