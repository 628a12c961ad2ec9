// internal/notify/templates.go

// Package notify builds and dispatches tour confirmation emails. Dispatch is
// best-effort with bounded retries: a booking is never rolled back because the
// email could not be delivered.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lease-concierge/internal/models"
)

// Renderer builds confirmation email content from a confirmation record and
// static property details.
type Renderer struct {
	PropertyName    string
	PropertyAddress string
	OfficePhone     string
	FromEmail       string
}

// GenerateTourSlot suggests tomorrow at 2:00 PM.
func GenerateTourSlot(now time.Time) (date, timeOfDay string) {
	tomorrow := now.AddDate(0, 0, 1)
	return tomorrow.Format("Monday, January 02, 2006"), "2:00 PM"
}

// GenerateConfirmationNumber returns a short unique reference like CONF-3F9A1C.
func GenerateConfirmationNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CONF-" + strings.ToUpper(id[:6])
}

// Subject names the booked units in the subject line.
func (r *Renderer) Subject(conf *models.ConfirmationRecord) string {
	ids := unitIDs(conf.Units)
	if len(ids) == 1 {
		return "Tour Confirmation - " + ids[0]
	}
	return fmt.Sprintf("Tour Confirmation - %d Units (%s)", len(ids), strings.Join(ids, ", "))
}

// TextBody renders the plain text alternative.
func (r *Renderer) TextBody(conf *models.ConfirmationRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", conf.ProspectName)
	fmt.Fprintf(&b, "Thank you for your interest in %s! We're excited to confirm your apartment tour.\n\n", r.PropertyName)

	b.WriteString("TOUR DETAILS:\n")
	fmt.Fprintf(&b, "Property: %s\n", r.PropertyName)
	fmt.Fprintf(&b, "Address: %s\n", conf.PropertyAddress)
	fmt.Fprintf(&b, "Date: %s\n", conf.TourDate)
	fmt.Fprintf(&b, "Time: %s\n\n", conf.TourTime)

	if len(conf.Units) == 1 {
		u := conf.Units[0]
		fmt.Fprintf(&b, "UNIT:\n  • Unit %s: %s, %d sq ft, %s/month\n", u.UnitID, formatLayout(u.Beds, u.Baths), u.Sqft, formatRent(u.Rent))
		fmt.Fprintf(&b, "    Confirmation #: %s\n\n", u.ConfirmationNumber)
	} else {
		fmt.Fprintf(&b, "UNITS BOOKED (%d):\n", len(conf.Units))
		for _, u := range conf.Units {
			fmt.Fprintf(&b, "  • Unit %s: %s, %d sq ft, %s/month\n", u.UnitID, formatLayout(u.Beds, u.Baths), u.Sqft, formatRent(u.Rent))
			fmt.Fprintf(&b, "    Confirmation #: %s\n", u.ConfirmationNumber)
		}
		fmt.Fprintf(&b, "\nMaster Confirmation #: %s\n\n", conf.MasterConfirmationNumber)
	}

	b.WriteString("WHAT TO BRING:\n")
	b.WriteString("- Valid government-issued photo ID\n")
	b.WriteString("- Proof of income (recent pay stubs or employment letter)\n")
	b.WriteString("- Application fee ($50 - if you decide to apply)\n\n")

	b.WriteString("CONTACT INFORMATION:\n")
	fmt.Fprintf(&b, "Leasing Office: %s\n", r.OfficePhone)
	fmt.Fprintf(&b, "Email: %s\n\n", r.FromEmail)

	b.WriteString("Please arrive 5 minutes early. If you need to reschedule or have any questions, please call our leasing office or reply to this email.\n\n")
	b.WriteString("We look forward to showing you your potential new home!\n\n")
	fmt.Fprintf(&b, "Best regards,\nThe Leasing Team\n%s\n\n", r.PropertyName)

	b.WriteString("---\n")
	fmt.Fprintf(&b, "This email was sent to %s regarding your tour request.\n", conf.ProspectEmail)
	fmt.Fprintf(&b, "If you did not request this tour, please contact us at %s.\n", r.OfficePhone)

	return b.String()
}

// HTMLBody renders the HTML alternative.
func (r *Renderer) HTMLBody(conf *models.ConfirmationRecord) string {
	var units strings.Builder
	for _, u := range conf.Units {
		fmt.Fprintf(&units, `
                <div class="unit">
                    <p><strong>Unit %s</strong> | %s | %d sq ft | %s/month</p>
                    <p class="conf-number">Confirmation #: %s</p>
                </div>`,
			u.UnitID, formatLayout(u.Beds, u.Baths), u.Sqft, formatRent(u.Rent), u.ConfirmationNumber)
	}

	master := ""
	if len(conf.Units) > 1 {
		master = fmt.Sprintf(`
                <p><strong>Master Confirmation #:</strong> %s</p>`, conf.MasterConfirmationNumber)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2c3e50; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .details { background-color: white; padding: 15px; border-left: 4px solid #3498db; margin: 20px 0; }
        .unit { background-color: white; padding: 10px 15px; margin: 10px 0; border: 1px solid #eee; }
        .conf-number { color: #666; font-size: 13px; }
        .bring-list { background-color: white; padding: 15px; border-left: 4px solid #e74c3c; margin: 20px 0; }
        .contact-info { background-color: white; padding: 15px; border-left: 4px solid #27ae60; margin: 20px 0; }
        .footer { text-align: center; padding: 20px; color: #666; }
        ul { margin: 10px 0; padding-left: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Tour Confirmation</h1>
            <p>%s</p>
        </div>
        <div class="content">
            <p>Dear %s,</p>
            <p>Thank you for your interest in %s! We're excited to confirm your apartment tour.</p>

            <div class="details">
                <h3>Tour Details</h3>
                <p><strong>Property:</strong> %s</p>
                <p><strong>Address:</strong> %s</p>
                <p><strong>Date:</strong> %s</p>
                <p><strong>Time:</strong> %s</p>%s%s
            </div>

            <div class="bring-list">
                <h3>What to Bring</h3>
                <ul>
                    <li>Valid government-issued photo ID</li>
                    <li>Proof of income (recent pay stubs or employment letter)</li>
                    <li>Application fee ($50 - if you decide to apply)</li>
                </ul>
            </div>

            <div class="contact-info">
                <h3>Contact Information</h3>
                <p><strong>Leasing Office:</strong> %s</p>
                <p><strong>Email:</strong> %s</p>
            </div>

            <p>Please arrive 5 minutes early. If you need to reschedule or have any questions, please call our leasing office or reply to this email.</p>
            <p><strong>We look forward to showing you your potential new home!</strong></p>
        </div>
        <div class="footer">
            <p>Best regards,<br>The Leasing Team<br>%s</p>
        </div>
    </div>
</body>
</html>`,
		r.PropertyName, conf.ProspectName, r.PropertyName,
		r.PropertyName, conf.PropertyAddress, conf.TourDate, conf.TourTime,
		units.String(), master,
		r.OfficePhone, r.FromEmail,
		r.PropertyName)
}

// formatLayout renders "2 bed/2 bath" or "Studio/1 bath" for zero bedrooms.
func formatLayout(beds int, baths float64) string {
	bathStr := fmt.Sprintf("%g", baths)
	if beds == 0 {
		return fmt.Sprintf("Studio/%s bath", bathStr)
	}
	return fmt.Sprintf("%d bed/%s bath", beds, bathStr)
}

// formatRent renders a monthly rent with a thousands separator, e.g. $1,800.
func formatRent(rent int) string {
	s := fmt.Sprintf("%d", rent)
	if len(s) <= 3 {
		return "$" + s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return "$" + strings.Join(parts, ",")
}

func unitIDs(units []models.BookedUnit) []string {
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.UnitID
	}
	return ids
}
