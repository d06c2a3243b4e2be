package email

import (
	"fmt"
	"strings"
	"time"

	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/domain/shared/events"
	"harvestcycle/internal/shared/logger"
)

// Renderer turns a markdown body into safe HTML.
type Renderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

// AdminNotifier e-mails the operations inbox whenever a fresh-swap request is created.
type AdminNotifier struct {
	sender   Sender
	renderer Renderer
	to       string
	loc      *time.Location
	logger   logger.Interface
}

func NewAdminNotifier(sender Sender, renderer Renderer, adminAddress string, loc *time.Location, log logger.Interface) *AdminNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminNotifier{
		sender:   sender,
		renderer: renderer,
		to:       adminAddress,
		loc:      loc,
		logger:   log,
	}
}

func (n *AdminNotifier) CanHandle(eventType string) bool {
	return eventType == replacement.EventTypeCreated
}

func (n *AdminNotifier) Handle(event events.DomainEvent) error {
	created, ok := event.(*replacement.RequestCreatedEvent)
	if !ok {
		return nil
	}
	if n.to == "" {
		n.logger.Debugw("admin address not configured, skipping notification", "request_id", created.AggregateID)
		return nil
	}

	subject, body := n.compose(created)
	htmlBody, err := n.renderer.ToHTMLSanitized(body)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	if err := n.sender.Send(n.to, subject, htmlBody, body); err != nil {
		return err
	}

	n.logger.Infow("fresh-swap notification sent", "request_id", created.AggregateID, "to", n.to)
	return nil
}

func (n *AdminNotifier) compose(e *replacement.RequestCreatedEvent) (string, string) {
	week := e.WeekStart.In(n.loc).Format(time.DateOnly)
	subject := fmt.Sprintf("New fresh-swap request for week of %s", week)

	var b strings.Builder
	b.WriteString("## New fresh-swap request\n\n")
	fmt.Fprintf(&b, "- **Request:** `%s`\n", e.AggregateID)
	fmt.Fprintf(&b, "- **Subscriber:** `%s`\n", e.SubscriberID)
	fmt.Fprintf(&b, "- **Week of:** %s\n", week)
	fmt.Fprintf(&b, "- **Submitted:** %s\n", e.OccurredAt.In(n.loc).Format(time.DateTime))
	if e.Reason != "" {
		b.WriteString("\n**Reason**\n\n")
		for _, line := range strings.Split(e.Reason, "\n") {
			b.WriteString("> " + line + "\n")
		}
	}
	return subject, b.String()
}
