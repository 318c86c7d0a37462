package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/xavierca1/crm-board/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

//go:embed templates/handoff.html
var templatesFS embed.FS

var handoffTemplate = template.Must(template.ParseFS(templatesFS, "templates/handoff.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string, to []string, boardURL string) *EmailSender {
	return &EmailSender{
		From:     from,
		To:       to,
		BoardURL: boardURL,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// NotifyHandoff implementa queue.HandoffNotifier.
func (s *EmailSender) NotifyHandoff(ctx context.Context, event queue.ClienteEvent) error {
	if len(s.To) == 0 {
		return fmt.Errorf("nenhum destinatário configurado para handoff")
	}

	m, err := s.buildHandoffMessage(event)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func (s *EmailSender) buildHandoffMessage(event queue.ClienteEvent) (*gomail.Message, error) {
	nome := event.Nome
	if nome == "" {
		nome = event.WhatsAppID
	}

	data := HandoffEmailData{
		Nome:       nome,
		WhatsAppID: event.WhatsAppID,
		Status:     string(event.StatusCRM),
		Stage:      event.Stage,
		OccurredAt: event.OccurredAt.Format("02/01/2006 15:04 MST"),
		BoardURL:   s.BoardURL,
	}

	var body bytes.Buffer
	if err := handoffTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To...)
	m.SetHeader("Subject", fmt.Sprintf("Atendimento humano: %s", nome))
	m.SetBody("text/html", body.String())

	return m, nil
}
