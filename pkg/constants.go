package shared

const (
	ServiceName = "mmftostrava"

	TopicSyncOutcomes = "topic-sync-outcomes"

	EventSourceRunner      = "/mmftostrava/sync-runner"
	EventTypeSyncCompleted = "com.mmftostrava.sync.completed"
	EventTypeSyncFailed    = "com.mmftostrava.sync.failed"

	// Default file names, resolved under the data directory.
	DefaultDataDir        = "data"
	DefaultInputFile      = "mmf.csv"
	DefaultOutputFile     = "strava.json"
	DefaultSynchedIDsFile = "synched_ids.txt"
	DefaultErroredIDsFile = "errored_ids.txt"
	DefaultPort           = "8080"
)
