package incidents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/context-broker/pkg/ngsild/client"
	"github.com/diwise/ingress-heretraffic/internal/pkg/application/services"
	"github.com/diwise/ingress-heretraffic/internal/pkg/infrastructure/heretraffic"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("here-trafficincidents")

type IncidentService interface {
	services.Starter
}

// NewIncidentService creates a service that polls traffic incidents within
// the given bounding box ("lat,lon;lat,lon", top left first) and republishes
// them to the context broker.
func NewIncidentService(ctx context.Context, tfc heretraffic.Client, boundingBox string, criticality []heretraffic.CriticalityStr, ctxBrokerClient client.ContextBrokerClient) (IncidentService, error) {
	topLeft, bottomRight, err := parseBoundingBox(boundingBox)
	if err != nil {
		return nil, err
	}

	return &incidentSvc{
		trafficClient:   tfc,
		topLeft:         topLeft,
		bottomRight:     bottomRight,
		criticality:     criticality,
		ctxBrokerClient: ctxBrokerClient,
		interval:        30 * time.Second,
		published:       map[int64]string{},
	}, nil
}

type incidentSvc struct {
	trafficClient   heretraffic.Client
	topLeft         heretraffic.Point
	bottomRight     heretraffic.Point
	criticality     []heretraffic.CriticalityStr
	ctxBrokerClient client.ContextBrokerClient
	interval        time.Duration
	published       map[int64]string
}

func (is *incidentSvc) Start(ctx context.Context) (chan struct{}, error) {

	done := make(chan struct{})

	go func() {
		tmr := time.NewTicker(is.interval)

		defer func() {
			tmr.Stop()
			done <- struct{}{}
		}()

		for {
			select {
			case <-tmr.C:
				{
					err := is.getAndPublishIncidents(ctx)
					if err != nil {
						logging.GetFromContext(ctx).Error(
							"failed to get and publish traffic incidents", "err", err.Error(),
						)

						apiErr := &heretraffic.APIError{}
						if errors.As(err, &apiErr) && apiErr.Kind == heretraffic.ErrorUnauthorized {
							// polling again will not make the credentials valid
							return
						}
					}
				}
			case <-ctx.Done():
				{
					return
				}
			}
		}
	}()

	return done, nil
}

func (is *incidentSvc) getAndPublishIncidents(ctx context.Context) error {
	var err error

	ctx, span := tracer.Start(ctx, "get-and-publish-incidents")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(
		span, logging.GetFromContext(ctx), ctx,
	)

	response, err := is.trafficClient.IncidentsWithinBoundingBox(ctx, is.topLeft, is.bottomRight, is.criticality)
	if err != nil {
		return err
	}

	for _, rawItem := range response.Items() {
		item := trafficItem{}
		if uerr := json.Unmarshal(rawItem, &item); uerr != nil {
			log.Warn("failed to decode traffic item", "err", uerr.Error())
			continue
		}

		previousStatus, ok := is.published[item.ID]
		if ok && previousStatus == item.Status {
			continue
		}

		if perr := is.publishIncidentToContextBroker(ctx, item); perr != nil {
			log.Error("unable to publish traffic incident", "incident", strconv.FormatInt(item.ID, 10), "err", perr.Error())
			continue
		}

		is.published[item.ID] = item.Status
	}

	return nil
}

// parseBoundingBox parses two corners from "lat,lon;lat,lon" form.
func parseBoundingBox(value string) (heretraffic.Point, heretraffic.Point, error) {
	points := make([]heretraffic.Point, 0, 2)

	corners := strings.Split(value, ";")
	if len(corners) != 2 {
		return heretraffic.Point{}, heretraffic.Point{}, fmt.Errorf("bounding box must contain exactly two corners, got %d", len(corners))
	}

	for _, corner := range corners {
		parts := strings.Split(corner, ",")
		if len(parts) != 2 {
			return heretraffic.Point{}, heretraffic.Point{}, fmt.Errorf("corner %q is not a lat,lon pair", corner)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return heretraffic.Point{}, heretraffic.Point{}, fmt.Errorf("failed to parse latitude from %q: %s", corner, err.Error())
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return heretraffic.Point{}, heretraffic.Point{}, fmt.Errorf("failed to parse longitude from %q: %s", corner, err.Error())
		}

		points = append(points, heretraffic.Point{Latitude: lat, Longitude: lon})
	}

	return points[0], points[1], nil
}
