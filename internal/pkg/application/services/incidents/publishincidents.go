package incidents

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/diwise/context-broker/pkg/datamodels/fiware"
	ngsierrors "github.com/diwise/context-broker/pkg/ngsild/errors"
	"github.com/diwise/context-broker/pkg/ngsild/types"
	"github.com/diwise/context-broker/pkg/ngsild/types/entities"
	"github.com/diwise/context-broker/pkg/ngsild/types/entities/decorators"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

const incidentTimeLayout string = "01/02/2006 15:04:05"

func (is *incidentSvc) publishIncidentToContextBroker(ctx context.Context, item trafficItem) error {
	var err error

	ctx, span := tracer.Start(ctx, "publish-to-broker")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	attributes := convertTrafficItemToFiwareEntity(item)

	fragment, _ := entities.NewFragment(attributes...)
	entityID := fiware.RoadAccidentIDPrefix + "here:traffic:api:incident:" + strconv.FormatInt(item.ID, 10)

	headers := map[string][]string{"Content-Type": {"application/ld+json"}}

	_, err = is.ctxBrokerClient.MergeEntity(ctx, entityID, fragment, headers)
	if err != nil {
		if !errors.Is(err, ngsierrors.ErrNotFound) {
			err = fmt.Errorf("failed to merge entity: %s", err.Error())
			return err
		}

		var entity types.Entity
		entity, err = entities.New(entityID, fiware.RoadAccidentTypeName, attributes...)
		if err != nil {
			err = fmt.Errorf("entities.New failed: %s", err.Error())
			return err
		}

		_, err = is.ctxBrokerClient.CreateEntity(ctx, entity, headers)
		if err != nil {
			err = fmt.Errorf("failed to post traffic incident to context broker: %s", err.Error())
			return err
		}
	}

	return nil
}

func convertTrafficItemToFiwareEntity(item trafficItem) []entities.EntityDecoratorFunc {
	status := "onGoing"
	if item.Status == statusCleared {
		status = "solved"
	}

	attributes := append(
		make([]entities.EntityDecoratorFunc, 0, 5),
		decorators.Description(item.shortDescription()),
		decorators.Status(status),
	)

	origin := item.Location.GeoLoc.Origin
	if origin.Latitude != 0 || origin.Longitude != 0 {
		attributes = append(attributes, decorators.Location(origin.Latitude, origin.Longitude))
	}

	if item.StartTime != "" {
		if t, terr := time.Parse(incidentTimeLayout, item.StartTime); terr == nil {
			utcTime := t.UTC().Format(time.RFC3339)
			attributes = append(attributes, decorators.DateCreated(utcTime), decorators.DateTime("accidentDate", utcTime))
		}
	}

	return attributes
}
