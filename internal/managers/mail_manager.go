package managers

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"

	"bookstore-server/internal/config"
)

// MailMgr sends the transactional mail. One activation mail per
// registration; delivery is fire-and-forget from the caller's perspective.
type MailMgr interface {
	SendActivationMail(email, userName, activationURL string) error
}

// MailManager sends mail through Mailgun, with bodies rendered by Hermes.
type MailManager struct {
	Hermes      *hermes.Hermes
	Mailgun     *mailgun.MailgunImpl
	sender      string
	environment string
}

// SendActivationMail sends the account activation mail containing the
// activation link (site domain + encoded uid + token).
func (mm *MailManager) SendActivationMail(email, userName, activationURL string) error {
	if mm.environment != "production" {
		log.Info("Skipping activation mail in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: userName,
			Intros: []string{
				"Welcome to the Bookstore! We're very excited to have you on board.",
				"Your account stays inactive until you confirm this email address.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To activate your account, please click the button below:",
					Button: hermes.Button{
						Text: "Activate your account",
						Link: activationURL,
					},
				},
			},
			Outros: []string{
				"If you did not register, you can safely ignore this mail.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer cancel()

	message := mm.Mailgun.NewMessage(mm.sender, "Activate your Account", "", email)
	message.SetHtml(emailBody)
	if _, _, err := mm.Mailgun.Send(ctx, message); err != nil {
		log.Warning("Error sending activation mail: " + err.Error())
		return err
	}
	log.Debug("Activation mail sent to ", email)

	return nil
}

// NewMailManager initializes the Mailgun client and the Hermes renderer.
// Outside production the manager only logs instead of sending.
func NewMailManager(cfg config.MailConfig, environment string) MailMgr {
	log.Info("Initializing mail manager")

	if environment != "production" {
		log.Info("Running in development mode, mail will not be sent to users")
	}

	mailgunInstance := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)

	return &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name: "Bookstore",
				Link: "https://" + cfg.Domain + "/",
			},
		},
		Mailgun:     mailgunInstance,
		sender:      cfg.Sender,
		environment: environment,
	}
}
