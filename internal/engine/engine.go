// internal/engine/engine.go

// Package engine owns the per-session conversation state machine. Each turn
// runs extraction, merge, completeness evaluation, and, when the record is
// complete, the booking procedure. Turns within a session are serialized;
// sessions are independent.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/common/metrics"
	"lease-concierge/internal/extract"
	"lease-concierge/internal/inventory"
	"lease-concierge/internal/models"
	"lease-concierge/internal/notify"
	"lease-concierge/internal/prospect"
	"lease-concierge/internal/responder"
	"lease-concierge/internal/session"
)

const (
	senderUser = "user"
	senderBot  = "bot"
)

// PropertyInfo carries the static property details woven into replies.
type PropertyInfo struct {
	Name        string
	Address     string
	OfficePhone string
}

// Options configures turn handling limits.
type Options struct {
	MaxUtteranceLen int
	HistoryWindow   int
}

// TurnResult is the outcome of one handled turn.
type TurnResult struct {
	SessionID        string                `json:"sessionId"`
	Reply            string                `json:"reply"`
	State            models.State          `json:"state"`
	Prospect         models.ProspectRecord `json:"prospect"`
	OfferedUnits     []models.Unit         `json:"offeredUnits,omitempty"`
	BookingConfirmed bool                  `json:"bookingConfirmed"`
}

// Engine is the conversation orchestrator.
type Engine struct {
	store      session.Store
	inventory  inventory.Inventory
	dispatcher *notify.Dispatcher
	responder  responder.Responder
	logger     logger.Logger
	tracer     trace.Tracer
	property   PropertyInfo
	opts       Options

	// now is swapped in tests for deterministic tour slots.
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes turns for one session. Entries are reference counted
// so the lock map only tracks sessions with a turn in flight.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// New creates an engine. A nil responder is allowed; the engine then always
// uses the deterministic reply copy.
func New(store session.Store, inv inventory.Inventory, dispatcher *notify.Dispatcher, resp responder.Responder, property PropertyInfo, opts Options, log logger.Logger) *Engine {
	if opts.MaxUtteranceLen <= 0 {
		opts.MaxUtteranceLen = 1000
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 10
	}
	return &Engine{
		store:      store,
		inventory:  inv,
		dispatcher: dispatcher,
		responder:  resp,
		logger:     log,
		tracer:     otel.Tracer("lease-concierge/engine"),
		property:   property,
		opts:       opts,
		now:        time.Now,
		locks:      make(map[string]*sessionLock),
	}
}

// HandleTurn processes one utterance for a session, creating the session on
// first contact. Turns for the same session are strictly serialized.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, utterance string) (*TurnResult, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	lock := e.acquireSession(sessionID)
	defer e.releaseSession(sessionID, lock)

	ctx, span := e.tracer.Start(ctx, "engine.handle_turn",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	start := e.now()

	sess, err := e.loadOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(utterance) > e.opts.MaxUtteranceLen {
		// Trim back to a rune boundary so the turn log stays valid UTF-8.
		cut := e.opts.MaxUtteranceLen
		for cut > 0 && !utf8.RuneStart(utterance[cut]) {
			cut--
		}
		utterance = utterance[:cut]
	}
	sess.AppendTurn(senderUser, utterance, e.now().UTC())

	reply, offered := e.processTurn(ctx, sess, utterance)

	sess.AppendTurn(senderBot, reply, e.now().UTC())
	sess.UpdatedAt = e.now().UTC()

	if err := e.store.Save(ctx, sess); err != nil {
		e.logger.WithError(err).Error("failed to persist session", map[string]interface{}{
			"session_id": sess.ID,
		})
		// The turn already happened; surface the reply anyway.
	}

	metrics.TurnsProcessed.WithLabelValues(string(sess.State)).Inc()
	metrics.TurnDuration.Observe(e.now().Sub(start).Seconds())
	span.SetAttributes(attribute.String("session.state", string(sess.State)))

	return &TurnResult{
		SessionID:        sess.ID,
		Reply:            reply,
		State:            sess.State,
		Prospect:         sess.Prospect,
		OfferedUnits:     offered,
		BookingConfirmed: sess.State == models.StateBookingConfirmed,
	}, nil
}

// processTurn runs the decision flow for one utterance and returns the reply
// plus any offered units.
func (e *Engine) processTurn(ctx context.Context, sess *models.Session, utterance string) (string, []models.Unit) {
	// Explicit selection commands bypass field collection entirely.
	if cmd := parseSelectionCommand(utterance); cmd.kind != cmdNone {
		return e.handleSelectionCommand(ctx, sess, cmd), nil
	}

	cands := extract.Extract(utterance)
	changed := prospect.Merge(&sess.Prospect, cands)
	for _, ft := range changed {
		metrics.FieldsExtracted.WithLabelValues(string(ft)).Inc()
	}
	if phone, ok := extract.SecondaryPhone(utterance); ok && !sess.Prospect.FieldSet(models.FieldPhone) {
		sess.Prospect.Phone = phone
		metrics.FieldsExtracted.WithLabelValues(string(models.FieldPhone)).Inc()
	}

	// A direct "book unit B301" seeds both the selection set and the bedroom
	// preference from the unit itself.
	if unitID, ok := parseBookUnit(utterance); ok {
		e.applyDirectUnitRequest(ctx, sess, unitID)
	} else if mentioned := parseMentionedUnits(utterance); len(mentioned) > 1 {
		for _, id := range mentioned {
			e.applyDirectUnitRequest(ctx, sess, id)
		}
	}

	missing := prospect.MissingFields(&sess.Prospect)

	if len(missing) == 0 {
		if sess.State == models.StateBookingConfirmed {
			return alreadyBookedReply(sess.Confirmation), nil
		}
		// Data completeness alone triggers booking; no keyword needed.
		sess.State = models.StateAwaitingConfirmation
		return e.runBooking(ctx, sess), nil
	}

	return e.collectReply(ctx, sess, utterance, missing)
}

// collectReply advances the collection flow: once a bedroom preference is
// known the session presents matching options while the remaining fields come
// in; before that it keeps prompting.
func (e *Engine) collectReply(ctx context.Context, sess *models.Session, utterance string, missing []models.FieldType) (string, []models.Unit) {
	var offered []models.Unit
	var fallback string

	if sess.Prospect.FieldSet(models.FieldBeds) {
		sess.State = models.StatePresentingOptions
		units, err := e.inventory.Find(ctx, models.Preferences{Beds: sess.Prospect.BedsWanted})
		if err != nil {
			e.logger.WithError(err).Error("inventory lookup failed", map[string]interface{}{
				"session_id": sess.ID,
			})
		}
		if len(units) == 0 && err == nil {
			beds := *sess.Prospect.BedsWanted
			groups, altErr := e.inventory.Alternatives(ctx, beds)
			if altErr != nil {
				e.logger.WithError(altErr).Error("alternatives lookup failed", map[string]interface{}{
					"session_id": sess.ID,
				})
			}
			fallback = alternativesReply(beds, groups) + "\n\n" + missingFieldReply(missing)
		} else {
			offered = units
			fallback = optionsReply(units, sess.Prospect.BedsWanted) + "\n\n" + missingFieldReply(missing)
		}
	} else {
		switch sess.State {
		case models.StateGreeting:
			sess.State = models.StateCollectingFields
			if len(extract.Extract(utterance)) == 0 {
				fallback = greetingReply(e.property.Name)
			} else {
				fallback = missingFieldReply(missing)
			}
		default:
			sess.State = models.StateCollectingFields
			fallback = missingFieldReply(missing)
		}
	}

	return e.phrase(ctx, sess, utterance, missing, offered, fallback), offered
}

// phrase asks the responder for natural text and substitutes the
// deterministic fallback on any failure.
func (e *Engine) phrase(ctx context.Context, sess *models.Session, utterance string, missing []models.FieldType, units []models.Unit, fallback string) string {
	if e.responder == nil {
		return fallback
	}

	history := sess.Turns
	if len(history) > e.opts.HistoryWindow {
		history = history[len(history)-e.opts.HistoryWindow:]
	}

	reply, err := e.responder.Reply(ctx, &responder.ReplyRequest{
		Utterance:     utterance,
		History:       history,
		Prospect:      sess.Prospect,
		MissingFields: missing,
		Units:         units,
		Outcome:       string(sess.State),
	})
	if err != nil {
		metrics.ResponderFallbacks.Inc()
		e.logger.WithError(err).Warn("responder failed, using fallback reply", map[string]interface{}{
			"session_id": sess.ID,
		})
		return fallback
	}
	return reply
}

func (e *Engine) handleSelectionCommand(ctx context.Context, sess *models.Session, cmd selectionCommand) string {
	switch cmd.kind {
	case cmdAddUnit:
		unit, err := e.inventory.Get(ctx, cmd.unitID)
		if err != nil || !unit.Available {
			return selectionUnavailableReply(cmd.unitID)
		}
		if !sess.SelectUnit(cmd.unitID) {
			return selectionAlreadyPresentReply(cmd.unitID)
		}
		if !sess.Prospect.FieldSet(models.FieldBeds) {
			sess.Prospect.BedsWanted = &unit.Beds
		}
		return selectionAddedReply(cmd.unitID, len(sess.SelectedUnitIDs))

	case cmdRemoveUnit:
		if !sess.DeselectUnit(cmd.unitID) {
			return selectionNotPresentReply(cmd.unitID)
		}
		return selectionRemovedReply(cmd.unitID, len(sess.SelectedUnitIDs))

	case cmdShowSelected:
		var units []models.Unit
		for _, id := range sess.SelectedUnitIDs {
			if u, err := e.inventory.Get(ctx, id); err == nil {
				units = append(units, u)
			}
		}
		return showSelectedReply(units)

	case cmdClearSelections:
		count := len(sess.SelectedUnitIDs)
		sess.SelectedUnitIDs = nil
		return clearedSelectionsReply(count)
	}
	return ""
}

// applyDirectUnitRequest adds an available named unit to the selection set
// and seeds the bedroom preference from the unit.
func (e *Engine) applyDirectUnitRequest(ctx context.Context, sess *models.Session, unitID string) {
	unit, err := e.inventory.Get(ctx, unitID)
	if err != nil || !unit.Available {
		return
	}
	sess.SelectUnit(unitID)
	if !sess.Prospect.FieldSet(models.FieldBeds) {
		beds := unit.Beds
		sess.Prospect.BedsWanted = &beds
	}
}

func (e *Engine) loadOrCreate(ctx context.Context, sessionID string) (*models.Session, error) {
	sess, err := e.store.Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, session.ErrNotFound) {
		e.logger.WithError(err).Error("session load failed, starting fresh", map[string]interface{}{
			"session_id": sessionID,
		})
	}
	now := e.now().UTC()
	return &models.Session{
		ID:        sessionID,
		State:     models.StateGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (e *Engine) acquireSession(sessionID string) *sessionLock {
	e.mu.Lock()
	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		e.locks[sessionID] = lock
	}
	lock.refs++
	e.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (e *Engine) releaseSession(sessionID string, lock *sessionLock) {
	lock.mu.Unlock()
	e.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(e.locks, sessionID)
	}
	e.mu.Unlock()
}
