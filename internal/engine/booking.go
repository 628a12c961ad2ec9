// internal/engine/booking.go
package engine

import (
	"context"
	"errors"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/metrics"
	"lease-concierge/internal/inventory"
	"lease-concierge/internal/models"
	"lease-concierge/internal/notify"
)

// runBooking executes the booking procedure for a session whose prospect
// record is complete. It reserves each selected unit (or the single best
// match when nothing is selected), and confirms the booking as soon as at
// least one reservation commits. Notification failure never unwinds a
// confirmed booking.
func (e *Engine) runBooking(ctx context.Context, sess *models.Session) string {
	targets, err := e.bookingTargets(ctx, sess)
	if err != nil {
		e.logger.WithError(err).Error("inventory lookup failed during booking", map[string]interface{}{
			"session_id": sess.ID,
		})
		sess.State = models.StatePresentingOptions
		return "I'm having trouble checking our inventory right now. Please try again in a moment."
	}

	var booked []models.Unit
	conflicted := false
	for _, unitID := range targets {
		err := e.inventory.Reserve(ctx, unitID)
		switch {
		case err == nil:
			unit, getErr := e.inventory.Get(ctx, unitID)
			if getErr != nil {
				// Reservation committed; fall back to the bare ID.
				unit = models.Unit{ID: unitID}
			}
			booked = append(booked, unit)
		case errors.Is(err, inventory.ErrAlreadyTaken):
			conflicted = true
			metrics.ReservationConflicts.Inc()
			e.logger.WithError(stderrors.NewReservationConflictError(unitID)).Warn("unit taken during booking", map[string]interface{}{
				"session_id": sess.ID,
				"unit_id":    unitID,
			})
		case errors.Is(err, inventory.ErrUnitNotFound):
			e.logger.WithError(stderrors.NewUnitNotFoundError(unitID)).Warn("unknown unit in selections", map[string]interface{}{
				"session_id": sess.ID,
				"unit_id":    unitID,
			})
		default:
			e.logger.WithError(err).Error("reservation failed", map[string]interface{}{
				"session_id": sess.ID,
				"unit_id":    unitID,
			})
		}
	}

	// Losing every target to contention is recoverable as long as the
	// category still has stock: retry with the next-best match.
	if len(booked) == 0 && conflicted {
		if unit, ok := e.reserveNextBest(ctx, sess, targets); ok {
			booked = append(booked, unit)
		}
	}

	if len(booked) == 0 {
		return e.handleNoReservations(ctx, sess)
	}

	conf := e.buildConfirmation(sess, booked)
	sess.State = models.StateBookingConfirmed
	sess.BookingOutcome = models.OutcomeConfirmed
	sess.Confirmation = conf
	sess.SelectedUnitIDs = nil
	metrics.BookingsConfirmed.Inc()

	notificationFailed := false
	if err := e.dispatcher.DispatchConfirmation(ctx, conf); err != nil {
		notificationFailed = true
		sess.NotificationError = err.Error()
		e.logger.WithError(err).Warn("confirmation notification failed", map[string]interface{}{
			"session_id": sess.ID,
		})
	}

	return bookingConfirmedReply(conf, sess.Prospect.Email, notificationFailed, e.property.OfficePhone)
}

// bookingTargets resolves which units to reserve: the explicit selection set,
// or the single cheapest match for the bedroom preference.
func (e *Engine) bookingTargets(ctx context.Context, sess *models.Session) ([]string, error) {
	if len(sess.SelectedUnitIDs) > 0 {
		targets := make([]string, len(sess.SelectedUnitIDs))
		copy(targets, sess.SelectedUnitIDs)
		return targets, nil
	}

	units, err := e.inventory.Find(ctx, models.Preferences{Beds: sess.Prospect.BedsWanted})
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}
	return []string{units[0].ID}, nil
}

// reserveNextBest recovers a reservation pass that lost every target to
// contention. It re-queries the bedroom preference and works down the
// remaining matches, cheapest first, until one commits or the category is
// exhausted.
func (e *Engine) reserveNextBest(ctx context.Context, sess *models.Session, tried []string) (models.Unit, bool) {
	skip := make(map[string]bool, len(tried))
	for _, id := range tried {
		skip[id] = true
	}

	for {
		units, err := e.inventory.Find(ctx, models.Preferences{Beds: sess.Prospect.BedsWanted})
		if err != nil {
			e.logger.WithError(err).Error("inventory lookup failed during retry", map[string]interface{}{
				"session_id": sess.ID,
			})
			return models.Unit{}, false
		}

		var next *models.Unit
		for i := range units {
			if !skip[units[i].ID] {
				next = &units[i]
				break
			}
		}
		if next == nil {
			return models.Unit{}, false
		}
		skip[next.ID] = true

		err = e.inventory.Reserve(ctx, next.ID)
		switch {
		case err == nil:
			e.logger.Info("booked next-best match after contention", map[string]interface{}{
				"session_id": sess.ID,
				"unit_id":    next.ID,
			})
			return *next, true
		case errors.Is(err, inventory.ErrAlreadyTaken):
			metrics.ReservationConflicts.Inc()
		case errors.Is(err, inventory.ErrUnitNotFound):
			// Delisted between the query and the reserve; keep going.
		default:
			e.logger.WithError(err).Error("reservation failed", map[string]interface{}{
				"session_id": sess.ID,
				"unit_id":    next.ID,
			})
			return models.Unit{}, false
		}
	}
}

// handleNoReservations handles a reservation pass with nothing left to book:
// the requested category is empty even after the next-best retry. The session
// returns to option presentation with alternatives; only an entirely sold-out
// inventory marks the booking failed.
func (e *Engine) handleNoReservations(ctx context.Context, sess *models.Session) string {
	sess.SelectedUnitIDs = nil

	beds := 0
	if sess.Prospect.BedsWanted != nil {
		beds = *sess.Prospect.BedsWanted
	}

	groups, err := e.inventory.Alternatives(ctx, beds)
	if err != nil {
		e.logger.WithError(err).Error("alternatives lookup failed", map[string]interface{}{
			"session_id": sess.ID,
		})
		groups = nil
	}

	if len(groups) == 0 {
		// Nothing in the requested category and nothing adjacent: the whole
		// portfolio is spoken for.
		sess.State = models.StateBookingFailed
		sess.BookingOutcome = models.OutcomeFailed
		return alternativesReply(beds, nil)
	}

	sess.State = models.StatePresentingOptions
	return alternativesReply(beds, groups)
}

func (e *Engine) buildConfirmation(sess *models.Session, booked []models.Unit) *models.ConfirmationRecord {
	tourDate, tourTime := notify.GenerateTourSlot(e.now())

	units := make([]models.BookedUnit, len(booked))
	for i, u := range booked {
		units[i] = models.BookedUnit{
			UnitID:             u.ID,
			Beds:               u.Beds,
			Baths:              u.Baths,
			Sqft:               u.Sqft,
			Rent:               u.Rent,
			ConfirmationNumber: notify.GenerateConfirmationNumber(),
		}
	}

	return &models.ConfirmationRecord{
		ProspectName:             sess.Prospect.Name,
		ProspectEmail:            sess.Prospect.Email,
		ProspectPhone:            sess.Prospect.Phone,
		Units:                    units,
		PropertyAddress:          e.property.Address,
		TourDate:                 tourDate,
		TourTime:                 tourTime,
		MasterConfirmationNumber: notify.GenerateConfirmationNumber(),
		CreatedAt:                e.now().UTC(),
	}
}
