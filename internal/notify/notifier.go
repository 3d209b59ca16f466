package notify

import (
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/veenapanicker/nexus/internal/models"
)

// Config holds the delivery channel settings.
type Config struct {
	SlackToken   string
	SlackChannel string
	SMTPHost     string
	SMTPPort     int
	EmailFrom    string
	Password     string
}

// Notifier sends operational messages: admin invitation emails and
// expiring-license notices to Slack. Channels with empty config are
// skipped silently so a bare dev setup works without SMTP or Slack.
type Notifier struct {
	slackClient *slack.Client
	emailDialer *gomail.Dialer
	config      *Config
	logger      *zap.Logger
}

func New(config *Config, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Notifier{config: config, logger: logger}
	if config.SlackToken != "" {
		n.slackClient = slack.New(config.SlackToken)
	}
	if config.SMTPHost != "" {
		n.emailDialer = gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.EmailFrom, config.Password)
	}
	return n
}

// SendAdminInvite emails an invitation to a newly added administrator.
func (n *Notifier) SendAdminInvite(admin *models.AdminUser) error {
	if n.emailDialer == nil {
		n.logger.Debug("smtp not configured, skipping invite email",
			zap.String("email", admin.Email))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.config.EmailFrom)
	m.SetHeader("To", admin.Email)
	m.SetHeader("Subject", "You've been invited to the Nexus admin dashboard")

	body := fmt.Sprintf(`Hello %s,

%s has invited you to administer %s on Nexus.

Role: %s
Reports access: %s
Licenses access: %s
Enrollment access: %s

Sign in with your institutional email to get started.
`, admin.Name, admin.AddedBy, admin.Institution, admin.Role,
		admin.Permissions.Reports, admin.Permissions.Licenses, admin.Permissions.Enrollment)
	m.SetBody("text/plain", body)

	if err := n.emailDialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}
	return nil
}

// NotifyLicenseExpiring posts an expiring-license notice to Slack.
func (n *Notifier) NotifyLicenseExpiring(lic *models.License) error {
	if n.slackClient == nil {
		n.logger.Debug("slack not configured, skipping license notice",
			zap.String("license_id", lic.ID))
		return nil
	}

	attachment := slack.Attachment{
		Color: "#ffcc00",
		Title: fmt.Sprintf("License expiring: %s", lic.Product),
		Fields: []slack.AttachmentField{
			{Title: "Product", Value: string(lic.Product), Short: true},
			{Title: "Seats in use", Value: fmt.Sprintf("%d / %d", lic.UsedSeats, lic.TotalSeats), Short: true},
			{Title: "Expires", Value: lic.ExpirationDate.Format("2006-01-02"), Short: true},
			{Title: "Days left", Value: fmt.Sprintf("%d", int(time.Until(lic.ExpirationDate).Hours()/24)), Short: true},
		},
		Footer: "Nexus license monitor",
	}

	_, _, err := n.slackClient.PostMessage(
		n.config.SlackChannel,
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}
	return nil
}
