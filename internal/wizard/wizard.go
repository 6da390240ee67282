// Package wizard drives the multi-step booking flow: stylist selection,
// service selection, date/time selection, and contact capture, ending in a
// submission to the scheduling backend.
package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/salonos/booking-engine/internal/availability"
	"github.com/salonos/booking-engine/internal/content"
	"github.com/salonos/booking-engine/internal/observability/metrics"
	"github.com/salonos/booking-engine/internal/scheduling"
	"github.com/salonos/booking-engine/pkg/logging"
)

const dateLayout = "2006-01-02"

// Step identifies a wizard stage.
type Step int

const (
	StepStylist Step = iota + 1
	StepService
	StepDateTime
	StepContact
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepStylist:
		return "stylist"
	case StepService:
		return "service"
	case StepDateTime:
		return "datetime"
	case StepContact:
		return "contact"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

var (
	ErrSessionNotFound  = errors.New("wizard: unknown session")
	ErrInvalidStep      = errors.New("wizard: action not valid for current step")
	ErrUnknownStylist   = errors.New("wizard: unknown stylist")
	ErrServiceRequired  = errors.New("wizard: select a service before continuing")
	ErrDateTimeRequired = errors.New("wizard: select a date and time before continuing")
	ErrSlotsPending     = errors.New("wizard: slot lookup still in progress")
	ErrUnknownSlot      = errors.New("wizard: time is not an offered slot")
	ErrBadDate          = errors.New("wizard: date must be YYYY-MM-DD")
	ErrContactRequired  = errors.New("wizard: name and an email or phone number are required")
)

// Draft is the in-progress booking selection, owned by exactly one session
// and mutated only by its event methods.
type Draft struct {
	Stylist         *content.Stylist `json:"stylist"`
	Service         string           `json:"service"`
	DurationMinutes int              `json:"duration_minutes"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
}

// SlotFetcher resolves bookable slots for a date.
type SlotFetcher interface {
	SlotsForDate(ctx context.Context, scheduleText string, date time.Time, stylist string) availability.Result
}

// Booker submits finalized bookings to the scheduling backend.
type Booker interface {
	Book(ctx context.Context, req scheduling.BookingRequest) (*scheduling.BookingResult, error)
}

// Session is one customer's trip through the booking wizard. Event methods
// are safe for concurrent use but the flow is sequential: each event runs to
// completion under the session lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	fetcher        SlotFetcher
	booker         Booker
	metrics        *metrics.BookingMetrics
	logger         *logging.Logger
	simulateDelay  time.Duration
	allowSimulated bool
	pickIndex      func(n int) int

	// Snapshotted at session start; the roster and durations back stylist
	// lookup and duration resolution for the whole attempt.
	scheduleText string
	stylists     []content.Stylist
	durations    map[string]int

	mu       sync.Mutex
	step     Step
	draft    Draft
	slots    []string
	fetchSeq uint64
	pending  int
	message  string
	wg       sync.WaitGroup
}

// View is the wizard state rendered to the client.
type View struct {
	SessionID string            `json:"session_id"`
	Step      int               `json:"step"`
	StepName  string            `json:"step_name"`
	Draft     Draft             `json:"draft"`
	Slots     []string          `json:"slots"`
	Loading   bool              `json:"loading"`
	Message   string            `json:"message,omitempty"`
	Stylists  []content.Stylist `json:"stylists"`
	Durations map[string]int    `json:"service_durations"`
}

// View renders the current session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := s.slots
	if slots == nil {
		slots = []string{}
	}
	return View{
		SessionID: s.ID,
		Step:      int(s.step),
		StepName:  s.step.String(),
		Draft:     s.draft,
		Slots:     slots,
		Loading:   s.pending > 0,
		Message:   s.message,
		Stylists:  s.stylists,
		Durations: s.durations,
	}
}

// SelectStylist records a stylist choice and advances past the stylist step.
// Re-selecting after backward navigation refires the slot fetch when a date
// is already chosen.
func (s *Session) SelectStylist(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepStylist {
		return ErrInvalidStep
	}
	var chosen *content.Stylist
	for i := range s.stylists {
		if s.stylists[i].Name == name {
			chosen = &s.stylists[i]
			break
		}
	}
	if chosen == nil {
		return ErrUnknownStylist
	}
	st := *chosen
	s.draft.Stylist = &st
	if s.draft.Date != "" {
		s.beginSlotFetch(ctx)
	}
	s.step = StepService
	return nil
}

// Skip advances past the stylist step with no stylist chosen ("any available
// stylist").
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepStylist {
		return ErrInvalidStep
	}
	s.step = StepService
	return nil
}

// SelectService records the service and its duration. It does not advance;
// leaving the service step is a separate explicit action.
func (s *Session) SelectService(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepService {
		return ErrInvalidStep
	}
	s.draft.Service = name
	minutes, ok := s.durations[name]
	if !ok || minutes <= 0 {
		minutes = content.DefaultServiceDuration
	}
	s.draft.DurationMinutes = minutes
	return nil
}

// SelectDate records the date, invalidates any chosen time, and fires a
// fresh slot fetch.
func (s *Session) SelectDate(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepDateTime {
		return ErrInvalidStep
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrBadDate
	}
	s.draft.Date = date
	s.draft.Time = ""
	s.message = ""
	s.beginSlotFetch(ctx)
	return nil
}

// SelectTime records a time from the currently offered slots.
func (s *Session) SelectTime(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepDateTime {
		return ErrInvalidStep
	}
	if s.pending > 0 {
		return ErrSlotsPending
	}
	for _, offered := range s.slots {
		if offered == slot {
			s.draft.Time = slot
			return nil
		}
	}
	return ErrUnknownSlot
}

// SetContact updates the contact fields.
func (s *Session) SetContact(name, email, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepContact {
		return ErrInvalidStep
	}
	s.draft.Name = name
	s.draft.Email = email
	s.draft.Phone = phone
	return nil
}

// Next advances one step. The stylist step always advances (equivalent to
// Skip); the service step requires a selection; the date/time step requires
// date, time, and a settled slot fetch.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.step {
	case StepStylist:
		s.step = StepService
		return nil
	case StepService:
		if s.draft.Service == "" {
			return ErrServiceRequired
		}
		s.step = StepDateTime
		return nil
	case StepDateTime:
		if s.draft.Date == "" || s.draft.Time == "" {
			return ErrDateTimeRequired
		}
		if s.pending > 0 {
			return ErrSlotsPending
		}
		s.step = StepContact
		return nil
	default:
		return ErrInvalidStep
	}
}

// Back navigates one step backwards. It never discards data already entered
// in later steps.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step <= StepStylist || s.step >= StepSuccess {
		return ErrInvalidStep
	}
	s.step--
	return nil
}

// Submit finalizes the booking. A draft without a stylist gets one assigned
// uniformly at random from the roster before submission. Transport failures
// become a simulated success after a short delay when allowed; an explicit
// backend rejection keeps the session in the contact step with the backend's
// message.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepContact {
		return ErrInvalidStep
	}
	if s.draft.Name == "" || (s.draft.Email == "" && s.draft.Phone == "") {
		return ErrContactRequired
	}
	if s.draft.Stylist == nil && len(s.stylists) > 0 {
		st := s.stylists[s.pickIndex(len(s.stylists))]
		s.draft.Stylist = &st
	}

	result, err := s.booker.Book(ctx, s.bookingRequest())
	if err != nil {
		if !s.allowSimulated {
			s.logger.Error("wizard: booking submission failed", "session_id", s.ID, "error", err)
			s.metrics.ObserveSubmission("failed")
			s.message = "Failed to create booking. Please try again."
			return nil
		}
		s.logger.Warn("wizard: scheduling backend unavailable, simulating success",
			"session_id", s.ID,
			"error", err,
		)
		time.Sleep(s.simulateDelay)
		s.metrics.ObserveSubmission("simulated")
		s.message = ""
		s.step = StepSuccess
		return nil
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Failed to create booking"
		}
		s.metrics.ObserveSubmission("rejected")
		s.message = msg
		return nil
	}

	s.metrics.ObserveSubmission("confirmed")
	s.message = ""
	s.step = StepSuccess
	return nil
}

// Restart clears the draft and returns to the stylist step.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = Draft{}
	s.slots = nil
	s.message = ""
	s.fetchSeq++ // invalidate any in-flight fetch
	s.step = StepStylist
	return nil
}

func (s *Session) bookingRequest() scheduling.BookingRequest {
	req := scheduling.BookingRequest{
		Service:         s.draft.Service,
		Date:            s.draft.Date,
		Time:            s.draft.Time,
		DurationMinutes: s.draft.DurationMinutes,
		Name:            s.draft.Name,
		Email:           s.draft.Email,
		Phone:           s.draft.Phone,
	}
	if st := s.draft.Stylist; st != nil {
		req.Stylist = &scheduling.Stylist{
			Name:       st.Name,
			Role:       st.Role,
			ImageURL:   st.ImageURL,
			CalendarID: st.CalendarID,
		}
	}
	return req
}

// beginSlotFetch issues a slot fetch keyed to the current draft. Callers
// must hold the session lock.
func (s *Session) beginSlotFetch(ctx context.Context) {
	s.fetchSeq++
	seq := s.fetchSeq
	date := s.draft.Date
	stylist := ""
	if s.draft.Stylist != nil {
		stylist = s.draft.Stylist.Name
	}
	s.pending++
	s.slots = nil
	s.wg.Add(1)
	go s.runSlotFetch(context.WithoutCancel(ctx), seq, date, stylist)
}

func (s *Session) runSlotFetch(ctx context.Context, seq uint64, date, stylist string) {
	defer s.wg.Done()
	day, err := time.Parse(dateLayout, date)
	var result availability.Result
	if err == nil {
		result = s.fetcher.SlotsForDate(ctx, s.scheduleText, day, stylist)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if seq != s.fetchSeq {
		// A newer selection superseded this fetch; its result wins.
		return
	}
	s.slots = result.Slots
	if result.Closed {
		s.message = result.Message
	}
}

// settle blocks until every issued slot fetch has completed. Test helper.
func (s *Session) settle() {
	s.wg.Wait()
}
