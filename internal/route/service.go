package route

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/raincheck/raincheck/internal/geo"
	"github.com/raincheck/raincheck/internal/geocode"
)

// pointConcurrencyLimit bounds the per-point fan-out so a long route does
// not open hundreds of sockets at once.
const pointConcurrencyLimit = 8

// Service runs the full advisory pipeline: geocode the endpoints, sample
// the path, fetch both providers per point, merge, aggregate and classify.
// Each cycle owns its own snapshot graph; the only shared state is the
// publication sequence guarding the store.
type Service struct {
	geocoder   geocode.Geocoder
	primary    Provider
	secondary  Provider // may be nil
	store      Store
	startLabel string
	endLabel   string

	seq       atomic.Uint64
	mu        sync.Mutex
	published uint64
	lastErr   error
	lastErrAt time.Time
}

func NewService(gc geocode.Geocoder, primary, secondary Provider, store Store, startLabel, endLabel string) *Service {
	return &Service{
		geocoder:   gc,
		primary:    primary,
		secondary:  secondary,
		store:      store,
		startLabel: startLabel,
		endLabel:   endLabel,
	}
}

// Refresh runs one fetch cycle for the configured route and publishes the
// result. Cycles are sequenced: if a newer cycle has already published by
// the time this one completes, its result is dropped rather than
// overwriting fresher data. A geocoding failure aborts the cycle and leaves
// any previously published advisory in place.
func (s *Service) Refresh(ctx context.Context) (Result, error) {
	seq := s.seq.Add(1)

	res, err := s.compute(ctx, s.startLabel, s.endLabel)
	if err != nil {
		s.recordError(err)
		return Result{}, err
	}

	s.publish(seq, res)
	return res, nil
}

// Preview runs the pipeline for an arbitrary pair of endpoints without
// publishing anything.
func (s *Service) Preview(ctx context.Context, startText, endText string) (Result, error) {
	return s.compute(ctx, startText, endText)
}

// Latest returns the most recently published cycle result.
func (s *Service) Latest() (Result, error) {
	return s.store.Latest()
}

// History returns published results between from and to.
func (s *Service) History(from, to time.Time) ([]Result, error) {
	return s.store.Range(from, to)
}

// LastError reports the most recent cycle failure, if any cycle has failed
// since the last success.
func (s *Service) LastError() (error, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr, s.lastErrAt
}

func (s *Service) compute(ctx context.Context, startText, endText string) (Result, error) {
	start, err := s.geocoder.Resolve(ctx, startText)
	if err != nil {
		return Result{}, fmt.Errorf("resolve start %q: %w", startText, err)
	}
	end, err := s.geocoder.Resolve(ctx, endText)
	if err != nil {
		return Result{}, fmt.Errorf("resolve end %q: %w", endText, err)
	}

	points := geo.SamplePath(start, end, geo.DefaultSampleIntervalMeters, geo.DefaultMinSpacingMeters)
	log.Printf("route %s -> %s: %.1fkm, sampling %d points",
		startText, endText, geo.Distance(start, end)/1000, len(points))

	now := time.Now().UTC()
	slots := HourlySlots(now)

	timelines := make([]PointTimeline, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pointConcurrencyLimit)
	for i, pt := range points {
		i, pt := i, pt
		g.Go(func() error {
			primary, secondary := s.fetchPoint(gctx, pt)
			timelines[i] = PointTimeline{
				Coordinate: pt,
				Series:     MergeTimelines(primary, secondary, slots),
			}
			// Provider failures were already converted to absent; never
			// fail the group, the aggregator waits for every point.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	snapshot := RouteSnapshot{
		SamplePoints:   points,
		PointTimelines: timelines,
		StartLabel:     startText,
		EndLabel:       endText,
	}
	routeTL := AggregateRoute(timelines)

	return Result{
		CycleID:    uuid.NewString(),
		ComputedAt: now,
		Advisory:   Classify(routeTL, &snapshot, now),
		Route:      routeTL,
		Snapshot:   snapshot,
	}, nil
}

// fetchPoint queries both providers for one coordinate concurrently. Either
// side failing yields a nil timeline; the merge step only ever sees
// optional values.
func (s *Service) fetchPoint(ctx context.Context, pt geo.Coordinate) (Timeline, Timeline) {
	var (
		wg        sync.WaitGroup
		primary   Timeline
		secondary Timeline
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		tl, err := s.primary.Fetch(ctx, pt)
		if err != nil {
			log.Printf("provider %s fetch failed for (%.4f, %.4f): %v",
				s.primary.Name(), pt.Latitude, pt.Longitude, err)
			return
		}
		primary = tl
	}()

	if s.secondary != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tl, err := s.secondary.Fetch(ctx, pt)
			if err != nil {
				log.Printf("provider %s fetch failed for (%.4f, %.4f): %v",
					s.secondary.Name(), pt.Latitude, pt.Longitude, err)
				return
			}
			secondary = tl
		}()
	}

	wg.Wait()
	return primary, secondary
}

func (s *Service) publish(seq uint64, res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.published {
		log.Printf("cycle %s superseded before publishing; dropping", res.CycleID)
		return
	}
	s.published = seq
	s.lastErr = nil
	s.store.SaveResult(res)
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.lastErrAt = time.Now().UTC()
}
