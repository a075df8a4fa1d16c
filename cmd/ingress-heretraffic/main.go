package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/diwise/context-broker/pkg/ngsild/client"
	"github.com/diwise/ingress-heretraffic/internal/pkg/application/services/incidents"
	"github.com/diwise/ingress-heretraffic/internal/pkg/infrastructure/heretraffic"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const serviceName string = "ingress-heretraffic"

var serviceVersion string = buildinfo.SourceVersion()

func main() {
	ctx, logger, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, "json")
	defer cleanup()

	apiKey := env.GetVariableOrDie(ctx, "HERE_API_KEY", "API key from the developer portal")
	incidentsURL := env.GetVariableOrDefault(ctx, "HERE_INCIDENTS_URL", heretraffic.DefaultIncidentsURL)
	contextBrokerURL := env.GetVariableOrDie(ctx, "CONTEXT_BROKER_URL", "context broker URL")
	boundingBox := env.GetVariableOrDefault(ctx, "INCIDENTS_BOUNDING_BOX", "62.55,15.85;62.27,17.45")
	criticalityFilter := env.GetVariableOrDefault(ctx, "INCIDENTS_CRITICALITY", "critical,major,minor")

	criticality, err := heretraffic.ParseCriticalities(criticalityFilter)
	if err != nil {
		fatal(logger, "invalid criticality filter", err)
	}

	trafficClient := heretraffic.NewClient(apiKey, incidentsURL, 10*time.Second)
	ctxBrokerClient := client.NewContextBrokerClient(contextBrokerURL)

	svc, err := incidents.NewIncidentService(ctx, trafficClient, boundingBox, criticality, ctxBrokerClient)
	if err != nil {
		fatal(logger, "failed to create incident service", err)
	}

	done, err := svc.Start(ctx)
	if err != nil {
		fatal(logger, "failed to start incident service", err)
	}

	<-done
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err.Error())
	os.Exit(1)
}
