package wizard

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salonos/booking-engine/internal/content"
	"github.com/salonos/booking-engine/internal/observability/metrics"
	"github.com/salonos/booking-engine/pkg/logging"
)

// Config wires the wizard service dependencies.
type Config struct {
	Content content.Store
	Fetcher SlotFetcher
	Booker  Booker
	// Drafts persists session snapshots across restarts. Optional.
	Drafts  *DraftStore
	Metrics *metrics.BookingMetrics
	Logger  *logging.Logger

	// AllowSimulated converts scheduling-backend transport failures on
	// submission into a delayed simulated success instead of an error.
	AllowSimulated bool
	SimulateDelay  time.Duration
}

// Service owns the live wizard sessions, one per customer.
type Service struct {
	cfg    Config
	logger *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates the wizard service.
func NewService(cfg Config) *Service {
	if cfg.Content == nil {
		panic("wizard: content store required")
	}
	if cfg.Fetcher == nil {
		panic("wizard: slot fetcher required")
	}
	if cfg.Booker == nil {
		panic("wizard: booker required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Start creates a fresh session, snapshotting the stylist roster, service
// durations, and opening-hours text. Content-store failures degrade to empty
// snapshots so an unprovisioned store never blocks the flow.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	sess := s.newSession(ctx, uuid.NewString())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.cfg.Metrics.ObserveSessionStart()
	s.Persist(ctx, sess)
	return sess, nil
}

// Get returns a live session, restoring from the draft store when the
// process no longer holds it in memory.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	if s.cfg.Drafts == nil {
		return nil, ErrSessionNotFound
	}
	snap, err := s.cfg.Drafts.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	sess = s.newSession(ctx, id)
	sess.step = snap.Step
	sess.draft = snap.Draft

	s.mu.Lock()
	// Another request may have restored it first; keep that one.
	if existing, ok := s.sessions[id]; ok {
		sess = existing
	} else {
		s.sessions[id] = sess
	}
	s.mu.Unlock()
	return sess, nil
}

// Persist saves the session snapshot when a draft store is configured.
func (s *Service) Persist(ctx context.Context, sess *Session) {
	if s.cfg.Drafts == nil {
		return
	}
	if err := s.cfg.Drafts.Save(ctx, sess.ID, sess.Snapshot()); err != nil {
		s.logger.Warn("wizard: failed to persist session", "session_id", sess.ID, "error", err)
	}
}

func (s *Service) newSession(ctx context.Context, id string) *Session {
	stylists, err := s.cfg.Content.Stylists(ctx)
	if err != nil {
		s.logger.Warn("wizard: failed to load stylist roster", "error", err)
		stylists = nil
	}
	durations, err := s.cfg.Content.ServiceDurations(ctx)
	if err != nil {
		s.logger.Warn("wizard: failed to load service durations", "error", err)
		durations = map[string]int{}
	}
	scheduleText, err := content.OpeningHours(ctx, s.cfg.Content)
	if err != nil {
		s.logger.Warn("wizard: failed to load opening hours", "error", err)
		scheduleText = ""
	}

	return &Session{
		ID:             id,
		CreatedAt:      time.Now().UTC(),
		fetcher:        s.cfg.Fetcher,
		booker:         s.cfg.Booker,
		metrics:        s.cfg.Metrics,
		logger:         s.logger,
		simulateDelay:  s.cfg.SimulateDelay,
		allowSimulated: s.cfg.AllowSimulated,
		pickIndex:      rand.Intn,
		scheduleText:   scheduleText,
		stylists:       stylists,
		durations:      durations,
		step:           StepStylist,
	}
}

// Snapshot captures the persisted slice of session state. Slots are
// ephemeral and deliberately excluded.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Step: s.step, Draft: s.draft}
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
