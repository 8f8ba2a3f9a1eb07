package api

// Route constants for the API endpoints

const (
	// Health endpoints
	PingEndpoint = "/ping" // Health check endpoint

	// URL parameters
	UserKeyURLParam = "userKey" // URL parameter for the hex user key
	IndexURLParam   = "index"   // URL parameter for a history index

	// Query parameters of the range endpoint
	RangeStartQueryParam = "start"
	RangeEndQueryParam   = "end"

	// Trust endpoints
	TrustEndpoint = "/trust/{" + UserKeyURLParam + "}"
	// POST: record a new trust event, GET: range query over the history
	EventsEndpoint = TrustEndpoint + "/events"
	// GET: single history entry by index
	EventByIndexEndpoint = EventsEndpoint + "/{" + IndexURLParam + "}"
	// GET: aggregate handles and plaintext aggregates
	TotalEndpoint         = TrustEndpoint + "/total"
	AverageEndpoint       = TrustEndpoint + "/average"
	CountEndpoint         = TrustEndpoint + "/count"
	HistoryLengthEndpoint = TrustEndpoint + "/history/length"
	ActivityEndpoint      = TrustEndpoint + "/activity"
	// GET: statistics, live (with side effect) and cached
	StatsEndpoint       = TrustEndpoint + "/stats"
	StatsCachedEndpoint = StatsEndpoint + "/cached"

	// POST: batch validity check
	ValidateEndpoint = "/trust/validate"

	// POST: system-side re-encryption for the reveal protocol
	RevealEndpoint = "/reveal"
)
