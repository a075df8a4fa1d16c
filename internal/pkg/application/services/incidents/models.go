package incidents

const statusCleared string = "CLEARED"

type itemDescription struct {
	Type  string `json:"TYPE"`
	Value string `json:"value"`
}

type itemCriticality struct {
	ID          string `json:"ID"`
	Description string `json:"DESCRIPTION"`
}

type geoCoordinate struct {
	Latitude  float64 `json:"LATITUDE"`
	Longitude float64 `json:"LONGITUDE"`
}

type itemLocation struct {
	GeoLoc struct {
		Origin geoCoordinate `json:"ORIGIN"`
	} `json:"GEOLOC"`
}

type trafficItem struct {
	ID          int64             `json:"TRAFFIC_ITEM_ID"`
	Status      string            `json:"TRAFFIC_ITEM_STATUS_SHORT_DESC"`
	Type        string            `json:"TRAFFIC_ITEM_TYPE_DESC"`
	StartTime   string            `json:"START_TIME"`
	EndTime     string            `json:"END_TIME"`
	Criticality itemCriticality   `json:"CRITICALITY"`
	Description []itemDescription `json:"TRAFFIC_ITEM_DESCRIPTION"`
	Location    itemLocation      `json:"LOCATION"`
}

func (ti trafficItem) shortDescription() string {
	for _, d := range ti.Description {
		if d.Type == "short_desc" {
			return d.Value
		}
	}

	if len(ti.Description) > 0 {
		return ti.Description[0].Value
	}

	return ti.Type
}
