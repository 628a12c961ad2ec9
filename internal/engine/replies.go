// internal/engine/replies.go
package engine

import (
	"fmt"
	"strings"

	"lease-concierge/internal/models"
	"lease-concierge/internal/prospect"
)

// Deterministic reply copy. Used directly when no responder is configured and
// as the fallback whenever the responder fails; the conversation never stalls
// on a phrasing error.

func greetingReply(propertyName string) string {
	return fmt.Sprintf(
		"Welcome to %s! I can help you find your next apartment and schedule a tour. "+
			"To get started, could you tell me your name and how many bedrooms you're looking for?",
		propertyName)
}

func missingFieldReply(missing []models.FieldType) string {
	if len(missing) == 0 {
		return "Thanks! Let me check our availability for you."
	}
	return "Thanks! " + prospect.Prompt(missing[0])
}

func optionsReply(units []models.Unit, beds *int) string {
	if len(units) == 0 {
		return "I don't see any available units matching that right now."
	}

	label := "available units"
	if beds != nil {
		label = bedsLabel(*beds) + " options"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are our %s:\n\n", label)
	for _, u := range units {
		fmt.Fprintf(&b, "• Unit %s | %s | %d sq ft | %s/month\n",
			u.ID, layoutLabel(u.Beds, u.Baths), u.Sqft, rentLabel(u.Rent))
	}
	b.WriteString("\nWould you like to select one? You can say \"add unit ")
	b.WriteString(units[0].ID)
	b.WriteString(" to my selections\" or ask about any of them.")
	return b.String()
}

func alternativesReply(beds int, groups []models.AlternativeGroup) string {
	if len(groups) == 0 {
		return fmt.Sprintf(
			"I'm sorry, we don't have any %s available right now, and the rest of our inventory is fully booked. "+
				"Please check back with us soon or call our leasing office.",
			bedsLabel(beds))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I'm sorry, we don't have any %s available right now. Nearby options:\n\n", bedsLabel(beds))
	for _, g := range groups {
		fmt.Fprintf(&b, "• %d available %s: %s-%s/month, %d-%d sq ft\n",
			g.Count, bedsLabel(g.Beds), rentLabel(g.MinRent), rentLabel(g.MaxRent), g.MinSqft, g.MaxSqft)
	}
	b.WriteString("\nWould any of these work for you?")
	return b.String()
}

func selectionAddedReply(unitID string, count int) string {
	return fmt.Sprintf(
		"Added Unit %s to your selections! You now have %d unit(s) selected. "+
			"Say \"show selected\" to review them, or keep going and I'll book tours once I have your details.",
		unitID, count)
}

func selectionAlreadyPresentReply(unitID string) string {
	return fmt.Sprintf("Unit %s is already in your selections.", unitID)
}

func selectionRemovedReply(unitID string, remaining int) string {
	return fmt.Sprintf("Removed Unit %s from your selections. You have %d unit(s) selected.", unitID, remaining)
}

func selectionNotPresentReply(unitID string) string {
	return fmt.Sprintf("Unit %s is not in your current selections.", unitID)
}

func selectionUnavailableReply(unitID string) string {
	return fmt.Sprintf("I'm sorry, Unit %s isn't available. Would you like to see similar units?", unitID)
}

func showSelectedReply(units []models.Unit) string {
	if len(units) == 0 {
		return "You haven't selected any units yet. You can add one with \"add unit A101 to my selections\"."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your selected units (%d):\n\n", len(units))
	for _, u := range units {
		fmt.Fprintf(&b, "• Unit %s | %s | %d sq ft | %s/month\n",
			u.ID, layoutLabel(u.Beds, u.Baths), u.Sqft, rentLabel(u.Rent))
	}
	return b.String()
}

func clearedSelectionsReply(count int) string {
	return fmt.Sprintf("Cleared %d selected unit(s). You can make new selections anytime.", count)
}

func bookingConfirmedReply(conf *models.ConfirmationRecord, email string, notificationFailed bool, officePhone string) string {
	ids := make([]string, len(conf.Units))
	for i, u := range conf.Units {
		ids[i] = u.UnitID
	}

	var b strings.Builder
	if len(ids) == 1 {
		fmt.Fprintf(&b, "Perfect! Your tour for Unit %s is confirmed for %s at %s. ", ids[0], conf.TourDate, conf.TourTime)
	} else {
		fmt.Fprintf(&b, "Perfect! Your tours for %d units are confirmed for %s at %s. Units booked: %s. ",
			len(ids), conf.TourDate, conf.TourTime, strings.Join(ids, ", "))
	}

	if notificationFailed {
		fmt.Fprintf(&b,
			"Your booking is secured, but we couldn't send the confirmation email to %s just now, so delivery may be delayed. "+
				"Please save these details, and call our leasing office at %s if you need anything.",
			email, officePhone)
	} else {
		fmt.Fprintf(&b,
			"I've sent a confirmation email to %s with all the details. "+
				"Please check your inbox and spam/junk folder if you don't see it within a few minutes.",
			email)
	}

	fmt.Fprintf(&b, " We'll see you at %s!", conf.PropertyAddress)
	return b.String()
}

func alreadyBookedReply(conf *models.ConfirmationRecord) string {
	if conf == nil {
		return "Your tour is already booked! Is there anything else I can help you with?"
	}
	return fmt.Sprintf("Your tour is already booked for %s at %s. Is there anything else I can help you with?",
		conf.TourDate, conf.TourTime)
}

func bedsLabel(beds int) string {
	if beds == 0 {
		return "studios"
	}
	return fmt.Sprintf("%d-bedroom units", beds)
}

func layoutLabel(beds int, baths float64) string {
	bathStr := fmt.Sprintf("%g", baths)
	if beds == 0 {
		return fmt.Sprintf("Studio/%s bath", bathStr)
	}
	return fmt.Sprintf("%d bed/%s bath", beds, bathStr)
}

func rentLabel(rent int) string {
	s := fmt.Sprintf("%d", rent)
	if len(s) > 3 {
		s = s[:len(s)-3] + "," + s[len(s)-3:]
	}
	return "$" + s
}
