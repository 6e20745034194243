package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/msalah0e/ontomap/internal/config"
	"github.com/msalah0e/ontomap/internal/errsink"
	"github.com/msalah0e/ontomap/internal/expand"
	"github.com/msalah0e/ontomap/internal/service"
	"github.com/msalah0e/ontomap/internal/session"
	"github.com/msalah0e/ontomap/internal/style"
	"github.com/msalah0e/ontomap/internal/telemetry"
)

var errNoService = errors.New("no service base_url configured; pass --fixture to answer from a file")

// mappingService returns the service answering mapping queries and a
// description of where answers come from.
func mappingService(c *config.Config, fixture *service.Fixture, offline bool, m *telemetry.Metrics, l *slog.Logger) (expand.MappingService, string, error) {
	if offline || c.Service.BaseURL == "" {
		if fixture == nil {
			return nil, "", errNoService
		}
		return fixture, "fixture", nil
	}
	client, err := service.NewHTTPClient(c.Service.BaseURL, c.Service.Timeout.Duration,
		service.WithAPIKey(c.Service.APIKey),
		service.WithUserAgent(c.Service.UserAgent+"/"+version),
		service.WithLogger(l),
		service.WithMetrics(m))
	if err != nil {
		return nil, "", err
	}
	return client, c.Service.BaseURL, nil
}

// pruner maps the prune_removed setting to a Pruner.
func pruner(c *config.Config, l *slog.Logger) expand.Pruner {
	if c.View.PruneRemoved {
		return expand.PruneMappings(l)
	}
	return expand.KeepStale
}

// loadSession builds a session holding every ontology of the fixture.
func loadSession(c *config.Config, fixture *service.Fixture, m *telemetry.Metrics, l *slog.Logger) (*session.Session, error) {
	resolver := style.NewResolver(c.Style)
	sess := session.New(c.View,
		session.WithResolver(resolver),
		session.WithPruner(pruner(c, l)),
		session.WithLogger(l),
		session.WithMetrics(m))
	for _, o := range fixture.Ontologies {
		r, err := o.Resource()
		if err != nil {
			return nil, err
		}
		if _, err := sess.AddOntology(r); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// errorSink reports to the console and the log.
func errorSink(l *slog.Logger) expand.ErrorSink {
	return errsink.Multi{errsink.Console{W: os.Stderr}, errsink.Log{Logger: l}}
}
