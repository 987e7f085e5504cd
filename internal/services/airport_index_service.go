package services

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/itinerary"
	"github.com/tripwise/flight-planner/internal/models"
)

const (
	indexDimensions  = 2
	indexMinChildren = 25
	indexMaxChildren = 50
	indexTolerance   = 0.01

	// candidates fetched from the tree per requested neighbour, since the
	// tree ranks by planar degrees rather than great-circle distance
	nearbyOversample = 3
)

// indexedAirport wraps an airport for R-tree storage
type indexedAirport struct {
	airport *models.Airport
	rect    *rtreego.Rect
}

func (a *indexedAirport) Bounds() *rtreego.Rect {
	return a.rect
}

// NearbyAirport is an airport and its distance from the query airport
type NearbyAirport struct {
	Airport    models.Airport `json:"airport"`
	DistanceKm float64        `json:"distance_km"`
}

// AirportIndexService answers airport and nearest-neighbour queries.
// The index is rebuilt from the database and is safe for concurrent use.
type AirportIndexService struct {
	airports AirportStore
	logger   *logrus.Logger

	mu     sync.RWMutex
	tree   *rtreego.Rtree
	byCode map[string]*models.Airport
}

// NewAirportIndexService creates an empty index; call Rebuild to populate it
func NewAirportIndexService(airports AirportStore, logger *logrus.Logger) *AirportIndexService {
	return &AirportIndexService{
		airports: airports,
		logger:   logger,
		tree:     rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren),
		byCode:   make(map[string]*models.Airport),
	}
}

// Rebuild reloads every airport into a fresh tree and swaps it in
func (s *AirportIndexService) Rebuild(ctx context.Context) (int, error) {
	airports, err := s.airports.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	tree := rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren)
	byCode := make(map[string]*models.Airport, len(airports))
	for i := range airports {
		airport := &airports[i]
		if !airport.Location().Valid() {
			s.logger.WithField("airport", airport.Code).Warn("Skipping airport with invalid coordinates")
			continue
		}
		point := rtreego.Point{airport.Latitude, airport.Longitude}
		tree.Insert(&indexedAirport{airport: airport, rect: point.ToRect(indexTolerance)})
		byCode[airport.Code] = airport
	}

	s.mu.Lock()
	s.tree = tree
	s.byCode = byCode
	s.mu.Unlock()

	s.logger.WithField("airports", len(byCode)).Info("Airport index rebuilt")
	return len(byCode), nil
}

// Size returns the number of indexed airports
func (s *AirportIndexService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCode)
}

// GetAirport returns an airport by IATA code
func (s *AirportIndexService) GetAirport(ctx context.Context, code string) (*models.Airport, error) {
	s.mu.RLock()
	airport, ok := s.byCode[code]
	s.mu.RUnlock()
	if ok {
		copied := *airport
		return &copied, nil
	}

	airport, err := s.airports.GetByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAirportNotFound
	}
	return airport, err
}

// Distance returns the great-circle distance in km between two airports
func (s *AirportIndexService) Distance(ctx context.Context, from, to string) (float64, error) {
	a, err := s.GetAirport(ctx, from)
	if err != nil {
		return 0, err
	}
	b, err := s.GetAirport(ctx, to)
	if err != nil {
		return 0, err
	}
	return itinerary.DistanceKm(a.Location(), b.Location()), nil
}

// ListByCountry returns a country's airports ordered by code
func (s *AirportIndexService) ListByCountry(ctx context.Context, country string) ([]models.Airport, error) {
	return s.airports.ListByCountry(ctx, country)
}

// Nearby returns up to n indexed airports closest to the given one,
// nearest first, excluding the airport itself
func (s *AirportIndexService) Nearby(code string, n int) ([]NearbyAirport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	origin, ok := s.byCode[code]
	if !ok {
		return nil, ErrAirportNotFound
	}
	if n <= 0 {
		return []NearbyAirport{}, nil
	}

	k := min(n*nearbyOversample+1, len(s.byCode))
	candidates := s.tree.NearestNeighbors(k, rtreego.Point{origin.Latitude, origin.Longitude})

	nearby := make([]NearbyAirport, 0, len(candidates))
	for _, candidate := range candidates {
		item, ok := candidate.(*indexedAirport)
		if !ok || item == nil || item.airport.Code == code {
			continue
		}
		nearby = append(nearby, NearbyAirport{
			Airport:    *item.airport,
			DistanceKm: itinerary.DistanceKm(origin.Location(), item.airport.Location()),
		})
	}

	slices.SortStableFunc(nearby, func(a, b NearbyAirport) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		}
		return 0
	})
	if len(nearby) > n {
		nearby = nearby[:n]
	}
	return nearby, nil
}
