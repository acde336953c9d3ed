package constants

type (
	APIStatus   string
	StorePrefix string
	StoreKind   string
)

const (
	APIStatusAccepted  APIStatus = "accepted"
	APIStatusCompleted APIStatus = "completed"
	APIStatusConfirmed APIStatus = "confirmed"
	APIStatusOk        APIStatus = "ok"
	APIStatusDown      APIStatus = "down"

	StorePrefixDefaults   StorePrefix = "pref:default:"
	StorePrefixOverride   StorePrefix = "pref:override:"
	StorePrefixReasoning  StorePrefix = "reasoning:"
	StorePrefixBooking    StorePrefix = "booking:"
	StorePrefixSearch     StorePrefix = "search:"
	StorePrefixCandidates StorePrefix = "candidates:"
	StoreKeyEvents                    = "events"

	StoreKindMemory   StoreKind = "memory"
	StoreKindRedis    StoreKind = "redis"
	StoreKindSQLite   StoreKind = "sqlite"
	StoreKindPostgres StoreKind = "postgres"
	StoreKindMongo    StoreKind = "mongo"
)

// ID prefixes for opaque identifiers handed to clients.
const (
	IDPrefixTask         = "agent_task_"
	IDPrefixSearch       = "s_"
	IDPrefixCandidate    = "f_"
	IDPrefixBooking      = "b_"
	IDPrefixConfirmation = "C-"
)

// Reasoning log entry types.
const (
	LogTypeStep    = "step"
	LogTypeStage   = "stage"
	LogTypeInfo    = "info"
	LogTypeBooking = "booking"
)

// Candidate generation rotations.
var (
	FlightProviders = []string{"AirX", "FlyFast", "CloudAir"}
	StopVariants    = []string{"non-stop", "1 stop", "2 stops"}
)
