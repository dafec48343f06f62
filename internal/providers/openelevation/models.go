package openelevation

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LookupAPIRequest struct {
	Locations []Location `json:"locations"`
}

// LookupAPIResponse holds one result per requested location, in request
// order. Results is nil when the key is absent from the payload.
type LookupAPIResponse struct {
	Results []LookupResult `json:"results"`
}

type LookupResult struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}
