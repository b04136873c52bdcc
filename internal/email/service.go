package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

// OrderConfirmationEmail carries the data rendered into the order
// confirmation message. Money fields are preformatted display strings;
// the service does no arithmetic.
type OrderConfirmationEmail struct {
	Email    string
	Username string
	OrderID  int64
	Items    []OrderConfirmationItem
	Subtotal string
	Discount string
	Total    string
}

// OrderConfirmationItem is one line of the order summary table.
type OrderConfirmationItem struct {
	Title     string
	Quantity  int32
	UnitPrice string
}

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<h1>Thanks for your order, {{.Username}}!</h1>
<p>Order #{{.OrderID}} has been placed.</p>
<table>
{{range .Items}}<tr><td>{{.Title}}</td><td>x {{.Quantity}}</td><td>{{.UnitPrice}}</td></tr>
{{end}}</table>
<p>Subtotal: {{.Subtotal}}</p>
{{if .Discount}}<p>Discount: {{.Discount}}</p>{{end}}
<p><strong>Total: {{.Total}}</strong></p>
`))

// Service handles email composition and sending.
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
}

// NewService creates a new email service.
func NewService(sender Sender, fromAddress, fromName string) *Service {
	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

// SendOrderConfirmation sends an order confirmation email.
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderConfirmationEmail) error {
	var html bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	email := &Email{
		To:       []string{data.Email},
		From:     fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress),
		Subject:  fmt.Sprintf("Order confirmation #%d", data.OrderID),
		HTMLBody: html.String(),
		TextBody: fmt.Sprintf("Thanks for your order, %s! Order #%d has been placed. Total: %s",
			data.Username, data.OrderID, data.Total),
	}

	if _, err := s.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send order confirmation email: %w", err)
	}

	return nil
}
