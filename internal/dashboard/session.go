package dashboard

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mypostula/backend/internal/app/models"
	"github.com/mypostula/backend/internal/app/services"
	"github.com/mypostula/backend/internal/realtime"
)

// Message types pushed to connected dashboards
const (
	MessageReady    = "ready"
	MessageSnapshot = "snapshot"
	MessageCatalog  = "catalog"
	MessageError    = "error"
)

// Message is an outbound frame sent to a dashboard connection
type Message struct {
	Type         string               `json:"type"`
	Postulations []models.Postulation `json:"postulations,omitempty"`
	Counts       *Counts              `json:"counts,omitempty"`
	Companies    []*models.Company    `json:"companies,omitempty"`
	Currencies   []*models.Currency   `json:"currencies,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// Sender delivers serialized frames to the peer
type Sender interface {
	Send(data []byte) bool
}

// Session keeps one dashboard connection in sync with the database.
// It loads the catalog and the initial list, subscribes to change events
// and refetches the whole list whenever anything changes. Mutating
// commands are applied to the local copy immediately so the peer sees
// the result before the refetch lands.
type Session struct {
	userID       int64
	postulations services.PostulationService
	companies    services.CompanyService
	currencies   services.CurrencyService
	hub          *realtime.Hub
	out          Sender
	logger       zerolog.Logger

	mu     sync.Mutex
	list   []models.Postulation
	counts Counts
	ready  bool
	closed bool

	// alive gates every continuation that may fire after Close
	alive     atomic.Bool
	events    chan *realtime.Event
	closeOnce sync.Once
}

// NewSession creates a session for one authenticated dashboard connection
func NewSession(
	userID int64,
	postulations services.PostulationService,
	companies services.CompanyService,
	currencies services.CurrencyService,
	hub *realtime.Hub,
	logger zerolog.Logger,
) *Session {
	return &Session{
		userID:       userID,
		postulations: postulations,
		companies:    companies,
		currencies:   currencies,
		hub:          hub,
		logger:       logger,
	}
}

// Bind attaches the outbound sender. Must be called before Start.
func (s *Session) Bind(out Sender) {
	s.out = out
}

// Start loads initial state, announces readiness and begins watching
// for change events. The session reports ready even when the initial
// fetch fails, so the peer is never left waiting. A session that was
// already closed, which happens when the peer drops during the
// handshake, stays closed.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.alive.Store(true)
	s.events = s.hub.Subscribe()
	s.mu.Unlock()

	s.sendCatalog(ctx)

	if err := s.refetch(ctx); err != nil {
		s.logger.Error().Err(err).Int64("userID", s.userID).Msg("Initial postulation fetch failed")
		s.send(&Message{Type: MessageError, Error: "failed to load postulations"})
	}

	s.mu.Lock()
	s.ready = true
	list, counts := s.snapshotLocked()
	s.mu.Unlock()

	s.send(&Message{Type: MessageReady, Postulations: list, Counts: &counts})

	go s.watch(ctx)
}

// Ready reports whether the session finished its initial load
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Snapshot returns the current list and counts
func (s *Session) Snapshot() ([]models.Postulation, Counts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close tears the session down. Safe to call more than once, and any
// in-flight continuation checks the liveness flag before touching state.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.alive.Store(false)
		if s.events != nil {
			s.hub.Unsubscribe(s.events)
		}
		s.mu.Unlock()
		s.logger.Debug().Int64("userID", s.userID).Msg("Dashboard session closed")
	})
}

// HandleCommand applies a command received from the peer
func (s *Session) HandleCommand(ctx context.Context, cmd realtime.Command) {
	if !s.alive.Load() {
		return
	}

	switch cmd.Action {
	case realtime.ActionSetStatus:
		s.handleSetStatus(ctx, cmd.ID, models.PostulationStatus(cmd.Status))
	case realtime.ActionDelete:
		s.handleDelete(ctx, cmd.ID)
	case realtime.ActionRefresh:
		if err := s.refetch(ctx); err != nil {
			s.send(&Message{Type: MessageError, Error: "failed to refresh postulations"})
			return
		}
		s.sendSnapshot()
	default:
		s.send(&Message{Type: MessageError, Error: "unknown action: " + cmd.Action})
	}
}

// handleSetStatus persists a status change, then patches the local copy
// so the next snapshot already reflects it
func (s *Session) handleSetStatus(ctx context.Context, id int64, status models.PostulationStatus) {
	if err := s.postulations.UpdateStatus(ctx, s.userID, id, status); err != nil {
		s.logger.Warn().Err(err).Int64("postulationID", id).Msg("Status update rejected")
		s.send(&Message{Type: MessageError, Error: err.Error()})
		return
	}

	if !s.alive.Load() {
		return
	}

	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].Status = status
			break
		}
	}
	s.counts = ComputeCounts(s.list)
	s.mu.Unlock()

	s.sendSnapshot()
}

// handleDelete persists a deletion, then drops the entry locally
func (s *Session) handleDelete(ctx context.Context, id int64) {
	if err := s.postulations.Delete(ctx, s.userID, id); err != nil {
		s.logger.Warn().Err(err).Int64("postulationID", id).Msg("Delete rejected")
		s.send(&Message{Type: MessageError, Error: err.Error()})
		return
	}

	if !s.alive.Load() {
		return
	}

	s.mu.Lock()
	filtered := s.list[:0]
	for _, p := range s.list {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	s.list = filtered
	s.counts = ComputeCounts(s.list)
	s.mu.Unlock()

	s.sendSnapshot()
}

// watch consumes change events until the hub closes the channel
func (s *Session) watch(ctx context.Context) {
	for event := range s.events {
		if !s.alive.Load() {
			return
		}
		if !s.relevant(event) {
			continue
		}

		if event.Table == realtime.TableCompanies {
			s.sendCatalog(ctx)
			continue
		}

		if err := s.refetch(ctx); err != nil {
			s.logger.Error().Err(err).Int64("userID", s.userID).Msg("Refetch after change event failed")
			continue
		}
		s.sendSnapshot()
	}
}

// relevant reports whether an event should trigger a resync
func (s *Session) relevant(event *realtime.Event) bool {
	switch event.Table {
	case realtime.TableCompanies:
		return true
	case realtime.TablePostulations:
		// Events are table wide, the refetch is owner filtered anyway
		return true
	}
	return false
}

// refetch replaces the local list with fresh database state
func (s *Session) refetch(ctx context.Context) error {
	list, err := s.postulations.List(ctx, s.userID)
	if err != nil {
		return err
	}

	if !s.alive.Load() {
		return nil
	}

	s.mu.Lock()
	s.list = list
	s.counts = ComputeCounts(list)
	s.mu.Unlock()

	return nil
}

func (s *Session) snapshotLocked() ([]models.Postulation, Counts) {
	list := make([]models.Postulation, len(s.list))
	copy(list, s.list)
	return list, s.counts
}

func (s *Session) sendSnapshot() {
	s.mu.Lock()
	list, counts := s.snapshotLocked()
	s.mu.Unlock()

	s.send(&Message{Type: MessageSnapshot, Postulations: list, Counts: &counts})
}

func (s *Session) sendCatalog(ctx context.Context) {
	companies, err := s.companies.GetAllCompanies(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load company catalog")
		s.send(&Message{Type: MessageError, Error: "failed to load companies"})
		return
	}

	currencies, err := s.currencies.GetAllCurrencies(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load currency catalog")
		s.send(&Message{Type: MessageError, Error: "failed to load currencies"})
		return
	}

	s.send(&Message{Type: MessageCatalog, Companies: companies, Currencies: currencies})
}

func (s *Session) send(msg *Message) {
	if !s.alive.Load() || s.out == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal dashboard message")
		return
	}

	s.out.Send(data)
}
