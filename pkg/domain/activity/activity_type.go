// Package activity defines the activity records exchanged between the CSV
// normalizer, the records file and the Strava uploader.
package activity

// Strava only receives runs from the MapMyFitness export, so both the legacy
// "type" and the newer "sport_type" are fixed.
const (
	TypeRunning  = "Running"
	SportTypeRun = "Run"
)

// Activity is the body of a Strava "create activity" request.
type Activity struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	SportType      string `json:"sport_type"`
	StartDateLocal string `json:"start_date_local"` // ISO 8601, UTC
	ElapsedTime    int    `json:"elapsed_time"`     // seconds
	Description    string `json:"description"`
	Distance       int    `json:"distance"` // meters
	Calories       int    `json:"calories"`
}

// Record is an Activity plus the identifier generated by the normalizer.
// The identifier is only used for idempotency bookkeeping and is never sent
// to Strava.
type Record struct {
	ID string `json:"id"`
	Activity
}

// NewRun builds a running Activity whose description mirrors its name.
func NewRun(name, startDate string, elapsedSeconds, distanceMeters, calories int) Activity {
	return Activity{
		Name:           name,
		Type:           TypeRunning,
		SportType:      SportTypeRun,
		StartDateLocal: startDate,
		ElapsedTime:    elapsedSeconds,
		Description:    name,
		Distance:       distanceMeters,
		Calories:       calories,
	}
}
