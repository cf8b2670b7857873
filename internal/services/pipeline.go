package services

import (
	"commute-planner/internal/domain"
	"commute-planner/internal/platform/obs"
	"commute-planner/internal/ports"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PipelineConfig struct {
	Region         string
	NearestOffices int
	NearestPersons int
	// OutputWorkbook is where designations are written; empty skips it.
	OutputWorkbook string
}

// Pipeline runs one end-to-end commute evaluation:
// load, sign, geocode, route, designate, then report and persist.
type Pipeline struct {
	Source   ports.RosterSource
	Geocoder ports.Geocoder
	Router   *Router
	Reporter ports.Reporter
	// Optional.
	Writer ports.RosterWriter
	Store  ports.ResultStore

	Config PipelineConfig
	Now    func() time.Time
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run executes the pipeline. Lookup and route failures are collected in
// the result; only roster, reporting and persistence errors abort.
func (p *Pipeline) Run(ctx context.Context) (_ *domain.RunResult, err error) {
	result := &domain.RunResult{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
	}

	ctx = obs.WithRunID(ctx, result.RunID)
	defer obs.Time(ctx, "pipeline.Run")(&err)

	log := logrus.WithField("run_id", result.RunID)

	rows, err := p.Source.Load()
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	var dupFailures []domain.Failure
	result.Roster, dupFailures = BuildRoster(rows, p.Geocoder, p.Config.Region)
	result.Failures = append(result.Failures, dupFailures...)
	log.Infof("roster built: %d people, %d offices", len(result.Roster.People), len(result.Roster.Offices))

	result.Failures = append(result.Failures, ResolveAll(ctx, result.Roster, p.Geocoder)...)

	routeFailures, err := p.Router.RouteAll(ctx, result.Roster)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	result.Failures = append(result.Failures, routeFailures...)

	Designate(result.Roster, p.Config.NearestOffices, p.Config.NearestPersons)
	result.FinishedAt = p.now()

	log.WithField("failures", len(result.Failures)).Info("routing complete")

	if p.Reporter != nil {
		if err := p.Reporter.Report(result); err != nil {
			return result, fmt.Errorf("run: report: %w", err)
		}
	}

	if p.Writer != nil && p.Config.OutputWorkbook != "" {
		if err := p.Writer.WriteResults(result.Roster, p.Config.OutputWorkbook); err != nil {
			return result, fmt.Errorf("run: %w", err)
		}
	}

	if p.Store != nil {
		if err := p.Store.SaveRun(ctx, ToRecord(result)); err != nil {
			return result, fmt.Errorf("run: %w", err)
		}
	}

	return result, nil
}
