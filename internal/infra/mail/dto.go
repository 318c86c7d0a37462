package mail

type HandoffEmailData struct {
	Nome       string
	WhatsAppID string
	Status     string
	Stage      string
	OccurredAt string
	BoardURL   string
}

type EmailSender struct {
	From     string
	To       []string // caixa dos operadores
	BoardURL string

	dialer dialer
}
