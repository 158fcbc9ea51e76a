package vitals

// Canonical vital names. These are also the JSON keys used in the vitals
// object of every persisted sample and alarm payload.
const (
	HeartRate        = "heart_rate"
	OxygenSaturation = "oxygen_saturation"
	BreathingRate    = "breathing_rate"
	SystolicBP       = "blood_pressure_systolic"
	DiastolicBP      = "blood_pressure_diastolic"
	BodyTemperature  = "body_temperature"
)

// Spec describes one monitored vital sign: its normal resting range and
// distribution, plus absolute physiological bounds and the activity/sleep
// reference means used by the console's slider ranges.
type Spec struct {
	Name string
	Unit string

	// Normal resting range and distribution.
	Min  float64
	Max  float64
	Mean float64
	Std  float64

	// Absolute physiological bounds — values outside these are not
	// survivable; the console clamps its sliders to them.
	AbsMin float64
	AbsMax float64

	// Reference means for non-resting states.
	ActivityMean float64
	SleepMean    float64
}

// catalog is the fixed, ordered table of the six monitored vitals.
// The ordering is load-bearing: it defines the feature order fed to the
// isolation-forest model, so it must never be reshuffled.
var catalog = []Spec{
	{
		Name: HeartRate, Unit: "bpm",
		Min: 60, Max: 100, Mean: 80, Std: 6.7,
		AbsMin: 0, AbsMax: 300,
		ActivityMean: 120, SleepMean: 60,
	},
	{
		Name: OxygenSaturation, Unit: "%",
		Min: 95, Max: 100, Mean: 97.5, Std: 0.8,
		AbsMin: 20, AbsMax: 100,
		ActivityMean: 98, SleepMean: 96.5,
	},
	{
		Name: BreathingRate, Unit: "breaths/min",
		Min: 12, Max: 20, Mean: 16, Std: 1.3,
		AbsMin: 4, AbsMax: 60,
		ActivityMean: 24, SleepMean: 12,
	},
	{
		Name: SystolicBP, Unit: "mmHg",
		Min: 90, Max: 120, Mean: 105, Std: 5.0,
		AbsMin: 50, AbsMax: 300,
		ActivityMean: 150, SleepMean: 95,
	},
	{
		Name: DiastolicBP, Unit: "mmHg",
		Min: 60, Max: 80, Mean: 70, Std: 3.3,
		AbsMin: 30, AbsMax: 200,
		ActivityMean: 70, SleepMean: 60,
	},
	{
		Name: BodyTemperature, Unit: "°C",
		Min: 36.1, Max: 37.2, Mean: 36.7, Std: 0.2,
		AbsMin: 21, AbsMax: 50,
		ActivityMean: 38, SleepMean: 36.4,
	},
}

// All returns the catalog in its canonical order. The returned slice is a
// copy; callers may not mutate the catalog through it.
func All() []Spec {
	out := make([]Spec, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the Spec for the named vital and whether it exists.
func Lookup(name string) (Spec, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names returns the vital names in canonical catalog order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, s := range catalog {
		out[i] = s.Name
	}
	return out
}

// Count is the number of monitored vitals.
func Count() int { return len(catalog) }
