package heretraffic

import "encoding/json"

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// IncidentResponse mirrors the top level of an incidents.json response. The
// individual traffic items are kept as raw JSON since their shape varies with
// the incident type, so callers decode the parts they need.
type IncidentResponse struct {
	Timestamp    string `json:"TIMESTAMP"`
	TrafficItems *struct {
		TrafficItem []json.RawMessage `json:"TRAFFICITEM"`
	} `json:"TRAFFICITEMS"`
}

// Items returns the raw traffic items of the response, which may be empty
// even for a successful query.
func (r *IncidentResponse) Items() []json.RawMessage {
	if r == nil || r.TrafficItems == nil {
		return nil
	}

	return r.TrafficItems.TrafficItem
}
