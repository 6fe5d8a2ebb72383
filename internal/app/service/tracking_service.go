package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/pkg/logger"
)

const (
	// walkStep bounds the per-tick marker move on each axis.
	walkStep = 0.0005
	// markerIdle is how long a marker nobody is subscribed to keeps moving
	// after its last Track before it is dropped.
	markerIdle = time.Hour
)

type Marker struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Milestone struct {
	Status    model.OrderStatus `json:"status"`
	Label     string            `json:"label"`
	Time      string            `json:"time"`
	Completed bool              `json:"completed"`
}

// Illustrative timeline, identical for every order.
var timeline = []Milestone{
	{Status: model.OrderStatusPlaced, Label: "Order Placed", Time: "2:30 PM", Completed: true},
	{Status: model.OrderStatusConfirmed, Label: "Confirmed", Time: "2:35 PM", Completed: true},
	{Status: model.OrderStatusPacked, Label: "Packed", Time: "2:50 PM", Completed: true},
	{Status: model.OrderStatusPickedUp, Label: "Picked Up", Time: "3:10 PM", Completed: true},
	{Status: model.OrderStatusOutForDelivery, Label: "Out for Delivery", Time: "3:25 PM", Completed: true},
	{Status: model.OrderStatusDelivered, Label: "Delivered", Time: "Est. 3:45 PM", Completed: false},
}

type TrackingView struct {
	OrderID    string      `json:"order_id"`
	Marker     Marker      `json:"marker"`
	Timeline   []Milestone `json:"timeline"`
	MapTileKey string      `json:"map_tile_key,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// MarkerUpdate is pushed to tracking subscribers on every tick.
type MarkerUpdate struct {
	OrderID   string    `json:"order_id"`
	Marker    Marker    `json:"marker"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TrackingPublisher interface {
	Publish(orderID string, message interface{}) error
	// Watching reports whether a live subscriber is following orderID.
	Watching(orderID string) bool
}

type TrackingService interface {
	// Track returns the order's marker, starting it at the map centre on first sight.
	Track(orderID string) *TrackingView
	// Advance moves every tracked marker one random-walk step and publishes it.
	Advance()
	Tracked() int
}

type trackedMarker struct {
	marker    Marker
	updatedAt time.Time
	lastSeen  time.Time
}

type trackingService struct {
	mu        sync.Mutex
	markers   map[string]*trackedMarker
	rng       *rand.Rand
	center    Marker
	tileKey   string
	publisher TrackingPublisher
	now       func() time.Time
}

func NewTrackingService(mapCfg config.MapConfig, publisher TrackingPublisher) TrackingService {
	return &trackingService{
		markers:   make(map[string]*trackedMarker),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		center:    Marker{Lat: mapCfg.CenterLat, Lng: mapCfg.CenterLng},
		tileKey:   mapCfg.TileKey,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *trackingService) Track(orderID string) *TrackingView {
	s.mu.Lock()
	now := s.now()
	tm, ok := s.markers[orderID]
	if !ok {
		tm = &trackedMarker{marker: s.center, updatedAt: now}
		s.markers[orderID] = tm
	}
	tm.lastSeen = now
	view := &TrackingView{
		OrderID:    orderID,
		Marker:     tm.marker,
		Timeline:   append([]Milestone(nil), timeline...),
		MapTileKey: s.tileKey,
		UpdatedAt:  tm.updatedAt,
	}
	s.mu.Unlock()
	return view
}

func (s *trackingService) Advance() {
	s.mu.Lock()
	now := s.now()
	updates := make([]MarkerUpdate, 0, len(s.markers))
	for orderID, tm := range s.markers {
		if now.Sub(tm.lastSeen) > markerIdle {
			if s.publisher == nil || !s.publisher.Watching(orderID) {
				delete(s.markers, orderID)
				continue
			}
			tm.lastSeen = now
		}
		tm.marker.Lat += (s.rng.Float64() - 0.5) * 2 * walkStep
		tm.marker.Lng += (s.rng.Float64() - 0.5) * 2 * walkStep
		tm.updatedAt = now
		updates = append(updates, MarkerUpdate{OrderID: orderID, Marker: tm.marker, UpdatedAt: now})
	}
	s.mu.Unlock()

	if s.publisher == nil {
		return
	}
	for _, u := range updates {
		if err := s.publisher.Publish(u.OrderID, u); err != nil {
			logger.Warn("Failed to publish tracking update", map[string]interface{}{
				"order_id": u.OrderID,
				"error":    err.Error(),
			})
		}
	}
}

func (s *trackingService) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}
