package heretraffic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// DefaultIncidentsURL is the production endpoint for the traffic incidents API.
const DefaultIncidentsURL string = "https://traffic.ls.hereapi.com/traffic/6.0/incidents.json"

var tracer = otel.Tracer("here-trafficincidents-client")

// Client is a binding for the HERE Traffic Incidents v6 API. Each query
// issues exactly one GET and returns either a parsed response or an *APIError.
type Client interface {
	IncidentsWithinBoundingBox(ctx context.Context, topLeft, bottomRight Point, criticality []CriticalityStr) (*IncidentResponse, error)
	IncidentsAlongCorridor(ctx context.Context, points []Point, width int) (*IncidentResponse, error)
	IncidentsViaProximity(ctx context.Context, latitude, longitude float64, radiusMeters int, criticality []CriticalityInt) (*IncidentResponse, error)
}

// NewClient creates a client for the incidents endpoint at incidentsURL,
// authenticating with apiKey. A zero timeout leaves requests unbounded.
func NewClient(apiKey, incidentsURL string, timeout time.Duration) Client {
	return &trafficClient{
		apiKey:       apiKey,
		incidentsURL: incidentsURL,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

type trafficClient struct {
	apiKey       string
	incidentsURL string
	httpClient   http.Client
}

func (tc *trafficClient) IncidentsWithinBoundingBox(ctx context.Context, topLeft, bottomRight Point, criticality []CriticalityStr) (*IncidentResponse, error) {
	params := url.Values{
		"bbox":        []string{bboxValue(topLeft, bottomRight)},
		"criticality": []string{joinCriticalityStr(criticality)},
	}

	return tc.performGet(ctx, "incidents-within-bounding-box", params)
}

func (tc *trafficClient) IncidentsAlongCorridor(ctx context.Context, points []Point, width int) (*IncidentResponse, error) {
	params := url.Values{
		"corridor": []string{corridorValue(points, width)},
	}

	return tc.performGet(ctx, "incidents-along-corridor", params)
}

func (tc *trafficClient) IncidentsViaProximity(ctx context.Context, latitude, longitude float64, radiusMeters int, criticality []CriticalityInt) (*IncidentResponse, error) {
	params := url.Values{
		"prox":        []string{proxValue(latitude, longitude, radiusMeters)},
		"criticality": []string{joinCriticalityInt(criticality)},
	}

	return tc.performGet(ctx, "incidents-via-proximity", params)
}

func (tc *trafficClient) performGet(ctx context.Context, operation string, params url.Values) (*IncidentResponse, error) {
	var err error

	ctx, span := tracer.Start(ctx, operation)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	params.Set("apiKey", tc.apiKey)

	apiReq, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.incidentsURL+"?"+params.Encode(), nil)
	if err != nil {
		err = fmt.Errorf("failed to create http request: %s", err.Error())
		return nil, err
	}

	apiResponse, err := tc.httpClient.Do(apiReq)
	if err != nil {
		err = &APIError{Kind: ErrorGeneric, Message: "failed to retrieve traffic incidents", Err: err}
		return nil, err
	}
	defer apiResponse.Body.Close()

	responseBody, rerr := io.ReadAll(apiResponse.Body)
	if rerr != nil {
		err = &APIError{Kind: ErrorGeneric, Message: "failed to read response body", Err: rerr}
		return nil, err
	}

	log.Debug("received response", "body", string(responseBody))

	// the TRAFFICITEMS key doubles as the success discriminator, a response
	// that lacks it carries one of the error envelopes instead
	probe := map[string]json.RawMessage{}
	if uerr := json.Unmarshal(responseBody, &probe); uerr != nil {
		err = &APIError{Kind: ErrorGeneric, Message: "failed to decode response body", Err: uerr}
		return nil, err
	}

	if _, ok := probe["TRAFFICITEMS"]; !ok {
		err = errorFromResponse(responseBody, operation)
		return nil, err
	}

	response := &IncidentResponse{}
	if uerr := json.Unmarshal(responseBody, response); uerr != nil {
		err = &APIError{Kind: ErrorGeneric, Message: "failed to decode incident response", Err: uerr}
		return nil, err
	}

	return response, nil
}
