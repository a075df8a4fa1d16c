package heretraffic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/matryer/is"
)

func TestIncidentsWithinBoundingBox(t *testing.T) {
	is := is.New(t)
	mockService, queries := setupMockServiceThatReturns(http.StatusOK, incidentsResponseJSON)
	tc := NewClient("s3cr3t", mockService.URL, 0)

	response, err := tc.IncidentsWithinBoundingBox(context.Background(),
		Point{Latitude: 52.5311, Longitude: 13.3644},
		Point{Latitude: 52.5114, Longitude: 13.4035},
		[]CriticalityStr{CriticalityCritical, CriticalityMajor},
	)

	is.NoErr(err)
	is.Equal(len(response.Items()), 2)

	query := <-queries
	is.Equal(query.Get("bbox"), "52.5311,13.3644;52.5114,13.4035")
	is.Equal(query.Get("criticality"), "critical,major")
	is.Equal(query.Get("apiKey"), "s3cr3t")
}

func TestIncidentsAlongCorridor(t *testing.T) {
	is := is.New(t)
	mockService, queries := setupMockServiceThatReturns(http.StatusOK, incidentsResponseJSON)
	tc := NewClient("s3cr3t", mockService.URL, 0)

	_, err := tc.IncidentsAlongCorridor(context.Background(),
		[]Point{{Latitude: 1.0, Longitude: 2.0}, {Latitude: 3.0, Longitude: 4.0}}, 50,
	)

	is.NoErr(err)

	query := <-queries
	is.Equal(query.Get("corridor"), "1.0,2.0;3.0,4.0;50")

	_, hasCriticality := query["criticality"]
	is.True(!hasCriticality) // corridor queries must not send a criticality filter
}

func TestIncidentsViaProximity(t *testing.T) {
	is := is.New(t)
	mockService, queries := setupMockServiceThatReturns(http.StatusOK, incidentsResponseJSON)
	tc := NewClient("s3cr3t", mockService.URL, 0)

	_, err := tc.IncidentsViaProximity(context.Background(), 52.5, 13.4, 1000,
		[]CriticalityInt{CriticalityIntCritical, CriticalityIntMajor},
	)

	is.NoErr(err)

	query := <-queries
	is.Equal(query.Get("prox"), "52.5,13.4,1000")
	is.Equal(query.Get("criticality"), "0,1")
}

func TestNullTrafficItemsIsStillASuccess(t *testing.T) {
	is := is.New(t)
	mockService, _ := setupMockServiceThatReturns(http.StatusOK, `{"TRAFFICITEMS":null}`)
	tc := NewClient("", mockService.URL, 0)

	response, err := tc.IncidentsWithinBoundingBox(context.Background(), Point{}, Point{}, nil)

	is.NoErr(err)
	is.Equal(len(response.Items()), 0)
}

func TestUnauthorizedResponseIsClassified(t *testing.T) {
	is := is.New(t)
	body := `{"error":"Unauthorized","error_description":"apiKey invalid. apiKey not found."}`
	mockService, _ := setupMockServiceThatReturns(http.StatusUnauthorized, body)
	tc := NewClient("bogus", mockService.URL, 0)

	_, err := tc.IncidentsWithinBoundingBox(context.Background(), Point{}, Point{}, nil)

	apiErr := &APIError{}
	is.True(errors.As(err, &apiErr))
	is.Equal(apiErr.Kind, ErrorUnauthorized)
	is.Equal(apiErr.Message, "apiKey invalid. apiKey not found.")
}

func TestInvalidRequestResponseIsClassified(t *testing.T) {
	is := is.New(t)
	body := `{"Type":"Invalid Request","Message":"Parameter bbox is malformed"}`
	mockService, _ := setupMockServiceThatReturns(http.StatusBadRequest, body)
	tc := NewClient("", mockService.URL, 0)

	_, err := tc.IncidentsWithinBoundingBox(context.Background(), Point{}, Point{}, nil)

	apiErr := &APIError{}
	is.True(errors.As(err, &apiErr))
	is.Equal(apiErr.Kind, ErrorInvalidRequest)
	is.Equal(apiErr.Message, "Parameter bbox is malformed")
}

func TestUnknownErrorShapeFallsBackToGeneric(t *testing.T) {
	is := is.New(t)
	mockService, _ := setupMockServiceThatReturns(http.StatusInternalServerError, `{"Type":"ServerFault"}`)
	tc := NewClient("", mockService.URL, 0)

	_, err := tc.IncidentsViaProximity(context.Background(), 0, 0, 0, nil)

	apiErr := &APIError{}
	is.True(errors.As(err, &apiErr))
	is.Equal(apiErr.Kind, ErrorGeneric)
	is.True(apiErr.Message != "")
}

func TestTransportFailureIsWrappedInAPIError(t *testing.T) {
	is := is.New(t)
	mockService, _ := setupMockServiceThatReturns(http.StatusOK, "")
	mockService.Close()
	tc := NewClient("", mockService.URL, 0)

	_, err := tc.IncidentsWithinBoundingBox(context.Background(), Point{}, Point{}, nil)

	apiErr := &APIError{}
	is.True(errors.As(err, &apiErr))
	is.Equal(apiErr.Kind, ErrorGeneric)
	is.True(apiErr.Unwrap() != nil)
}

func setupMockServiceThatReturns(statusCode int, body string) (*httptest.Server, chan url.Values) {
	queries := make(chan url.Values, 8)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	}))

	return server, queries
}

const incidentsResponseJSON string = `{"TIMESTAMP":"03/16/2020 09:15:12 GMT","VERSION":2.9,"TRAFFICITEMS":{"TRAFFICITEM":[{"TRAFFIC_ITEM_ID":2884599137149543,"ORIGINAL_TRAFFIC_ITEM_ID":2884599137149543,"TRAFFIC_ITEM_STATUS_SHORT_DESC":"ACTIVE","TRAFFIC_ITEM_TYPE_DESC":"ACCIDENT","START_TIME":"03/16/2020 08:12:01","END_TIME":"03/16/2020 10:00:00","CRITICALITY":{"ID":"1","DESCRIPTION":"major"},"TRAFFIC_ITEM_DESCRIPTION":[{"value":"Accident on A100 between Kaiserdamm and Spandauer Damm","TYPE":"short_desc"}],"LOCATION":{"GEOLOC":{"ORIGIN":{"LATITUDE":52.5234,"LONGITUDE":13.3745}}}},{"TRAFFIC_ITEM_ID":2884599137149544,"ORIGINAL_TRAFFIC_ITEM_ID":2884599137149544,"TRAFFIC_ITEM_STATUS_SHORT_DESC":"CLEARED","TRAFFIC_ITEM_TYPE_DESC":"ROAD_CLOSURE","START_TIME":"03/16/2020 06:40:00","END_TIME":"03/16/2020 08:55:00","CRITICALITY":{"ID":"0","DESCRIPTION":"critical"},"TRAFFIC_ITEM_DESCRIPTION":[{"value":"Closed due to roadworks on B96","TYPE":"short_desc"}],"LOCATION":{"GEOLOC":{"ORIGIN":{"LATITUDE":52.5301,"LONGITUDE":13.3912}}}}]}}`
