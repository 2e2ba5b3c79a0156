package directions

// Alternative is one candidate driving path returned by the provider for a
// single origin/destination query.
type Alternative struct {
	// Summary is a short label for the path, usually a road name. Empty when
	// the provider did not supply one.
	Summary string

	// DurationSeconds is the free-flow travel time.
	DurationSeconds int

	// TrafficDurationSeconds is the traffic-adjusted travel time, or 0 when
	// the provider did not supply a traffic estimate.
	TrafficDurationSeconds int

	// DistanceMeters is the total driving distance.
	DistanceMeters int

	// Steps are the turn-by-turn instruction strings in travel order. They
	// may contain HTML emphasis markup as returned by the provider.
	Steps []string
}

// directionsResponse mirrors the provider's JSON payload. Only the first leg
// of each route is used; commute routes have no waypoints, so there is
// exactly one leg per route.
type directionsResponse struct {
	Status string       `json:"status"`
	Routes []routeEntry `json:"routes"`
}

type routeEntry struct {
	Summary string `json:"summary"`
	Legs    []leg  `json:"legs"`
}

type leg struct {
	Duration          valueText  `json:"duration"`
	DurationInTraffic *valueText `json:"duration_in_traffic"`
	Distance          valueText  `json:"distance"`
	Steps             []step     `json:"steps"`
}

type valueText struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type step struct {
	HTMLInstructions string `json:"html_instructions"`
}
