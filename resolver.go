package departures

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tidbyt.dev/departures/config"
	"tidbyt.dev/departures/downloader"
	"tidbyt.dev/departures/model"
	"tidbyt.dev/departures/parse"
)

// Resolver answers departure queries by fetching and decoding
// station boards and train stop lists.
type Resolver struct {
	Downloader downloader.Downloader
	Stations   StationDirectory
	Config     *config.Config
	Logger     *zap.SugaredLogger

	parser *parse.Parser
}

func NewResolver(
	d downloader.Downloader,
	directory StationDirectory,
	cfg *config.Config,
	logger *zap.SugaredLogger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{
		Downloader: d,
		Stations:   directory,
		Config:     cfg,
		Logger:     logger,
		parser:     parse.NewParser(directory, logger),
	}
}

// URL of a station's departure board.
func (r *Resolver) StationURL(code string) string {
	return fmt.Sprintf(r.Config.ActiveSource().StationURL, code)
}

// URL of a train's stop list, as seen from a station.
func (r *Resolver) TrainURL(code string, train string) string {
	source := r.Config.ActiveSource()
	if source.PadTrainNumbers && len(train) == 2 {
		train = "00" + train
	}
	return fmt.Sprintf(source.TrainURL, code, train)
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	r.Logger.Debugw("fetching", "url", url)

	headers := map[string]string{}
	if r.Config.HTTP.UserAgent != "" {
		headers["User-Agent"] = r.Config.HTTP.UserAgent
	}

	return r.Downloader.Get(ctx, url, headers, downloader.GetOptions{
		MaxSize:   r.Config.HTTP.MaxSize,
		Timeout:   r.Config.HTTP.Timeout,
		Cache:     true,
		CacheTTL:  r.Config.CacheTTL,
		Retries:   r.Config.HTTP.Retries,
		RetryWait: r.Config.HTTP.RetryWait,
	})
}

// Fetches and decodes a station's departure board.
func (r *Resolver) LoadStation(ctx context.Context, code string) (*Station, error) {
	name, found := r.Stations.Name(code)
	if !found {
		return nil, fmt.Errorf("%w: station code %q", ErrLookupFailure, code)
	}

	body, err := r.fetch(ctx, r.StationURL(code))
	if err != nil {
		return nil, fmt.Errorf("fetching departures for %s: %w", code, err)
	}

	departures, err := r.parser.Departures(body)
	if err != nil {
		return nil, fmt.Errorf("parsing departures for %s: %w", code, err)
	}

	r.Logger.Debugw("loaded station", "code", code, "name", name, "departures", len(departures))

	return &Station{
		Code:       code,
		Name:       name,
		Departures: NewCatalog(departures),
	}, nil
}

// Fetches and decodes the stops of a train departing from a
// station. The route is in published order, earliest stop first.
func (r *Resolver) LoadRoute(ctx context.Context, code string, train string) (model.Route, error) {
	body, err := r.fetch(ctx, r.TrainURL(code, train))
	if err != nil {
		return nil, fmt.Errorf("fetching stops of train %s: %w", train, err)
	}

	route, err := r.parser.Route(body)
	if err != nil {
		return nil, fmt.Errorf("parsing stops of train %s: %w", train, err)
	}

	r.Logger.Debugw("loaded route", "train", train, "stops", len(route))

	return route, nil
}

// Upcoming reports the next trains from one station to another,
// along with whatever status the stations before the origin have
// published for each of them.
//
// If to is blank or unknown, the destination is inferred when
// possible (see ChooseDestination).
func (r *Resolver) Upcoming(ctx context.Context, from string, to string) (*Report, error) {
	origin, err := r.LoadStation(ctx, from)
	if err != nil {
		return nil, err
	}

	if to != "" && !r.Stations.Valid(to) {
		r.Logger.Warnw("ignoring unknown destination", "to", to)
	}

	dest, err := ChooseDestination(origin.Departures, r.Stations, to)
	if err != nil {
		return nil, err
	}
	destName, _ := r.Stations.Name(dest)

	n := origin.Departures.Rank(dest)
	if n == 0 {
		return nil, fmt.Errorf("%w to %s(%s)", ErrNoUpcomingTrains, destName, dest)
	}

	r.Logger.Debugw("ranked departures", "to", dest, "count", n)

	report := &Report{
		From:     origin.Code,
		FromName: origin.Name,
		To:       dest,
		ToName:   destName,
	}

	for _, dep := range origin.Departures.Ranked() {
		if dep.Rank > r.Config.MaxRankedTrains {
			break
		}

		r.Logger.Debugw("resolving train", "train", dep.Train, "rank", dep.Rank)

		train, err := r.resolveTrain(ctx, origin.Code, dep)
		if err != nil {
			return nil, err
		}
		report.Trains = append(report.Trains, *train)
	}

	return report, nil
}

func (r *Resolver) resolveTrain(ctx context.Context, from string, dep *model.Departure) (*TrainReport, error) {
	report := &TrainReport{Departure: *dep}

	route, err := r.LoadRoute(ctx, from, dep.Train)
	if err != nil {
		return nil, err
	}

	if len(route) == 0 {
		report.NoRoute = true
		return report, nil
	}

	// Most recent stop first.
	reversed := route.Reversed()

	i := reversed.Index(from)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s is not on the route of train %s", ErrRouteInconsistency, from, dep.Train)
	}

	report.Statuses, err = r.PreviousStopStatuses(ctx, reversed[i+1:], dep.Train)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Collects the status each stop's departure board shows for the
// train. Results follow the order of stops, regardless of how many
// boards are fetched at once.
func (r *Resolver) PreviousStopStatuses(ctx context.Context, stops model.Route, train string) ([]StopStatus, error) {
	results := make([][]StopStatus, len(stops))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Config.FetchConcurrency))

	for i, stop := range stops {
		i, stop := i, stop
		g.Go(func() error {
			station, err := r.LoadStation(gctx, stop.Code)
			if err != nil {
				return err
			}
			results[i] = trainStatuses(station, train)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	statuses := []StopStatus{}
	for _, s := range results {
		statuses = append(statuses, s...)
	}
	return statuses, nil
}

func trainStatuses(station *Station, train string) []StopStatus {
	statuses := []StopStatus{}
	for _, dep := range station.Departures.ByTrain(train) {
		if dep.Status == "" {
			continue
		}
		statuses = append(statuses, StopStatus{
			Name:   station.Name,
			Code:   station.Code,
			Status: dep.Status,
		})
	}
	return statuses
}
