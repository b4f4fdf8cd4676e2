package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/brightloom/storefront-backend/pkg/db/models"
	"github.com/brightloom/storefront-backend/pkg/mailer"
	"github.com/shopspring/decimal"
)

// OrderConfirmation builds the customer receipt for a completed order.
func OrderConfirmation(order *models.Order) mailer.Message {
	var items strings.Builder
	for _, item := range order.Items {
		line := fmt.Sprintf("%s x%d", item.Name, item.Quantity)
		items.WriteString("<li>" + html.EscapeString(line) + "</li>")
	}
	total := formatCents(order.TotalCents)

	return mailer.Message{
		To:      []string{order.CustomerEmail},
		Subject: "Your order is confirmed",
		HTML: fmt.Sprintf(
			"<p>Thanks for your order!</p><ul>%s</ul><p>Total: %s</p>",
			items.String(), total,
		),
		Text: fmt.Sprintf("Thanks for your order! Total: %s", total),
	}
}

// BookingReceived notifies the studio inbox about a new booking request.
func BookingReceived(to string, booking *models.Booking) mailer.Message {
	body := fmt.Sprintf(
		"New booking request from %s (%s): %s on %s at %s",
		booking.Name, booking.Email, booking.BookingType, booking.EventDate, booking.EventTime,
	)
	return mailer.Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New booking request: %s", booking.BookingType),
		HTML:    "<p>" + html.EscapeString(body) + "</p>",
		Text:    body,
	}
}

// ContactReceived notifies the studio inbox about a contact form submission.
func ContactReceived(to string, msg *models.ContactMessage) mailer.Message {
	subject := "New contact message"
	if msg.Subject != nil && strings.TrimSpace(*msg.Subject) != "" {
		subject = fmt.Sprintf("New contact message: %s", *msg.Subject)
	}
	body := fmt.Sprintf("From %s (%s):\n\n%s", msg.Name, msg.Email, msg.Message)
	return mailer.Message{
		To:      []string{to},
		Subject: subject,
		HTML:    "<p>" + html.EscapeString(body) + "</p>",
		Text:    body,
	}
}

func formatCents(cents int64) string {
	amount := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	return "$" + amount.StringFixed(2)
}
