package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Hameed1117/User-Management/internal/mailer"
	"github.com/Hameed1117/User-Management/internal/mq"
	"github.com/Hameed1117/User-Management/types"
)

// EmailChannel is the broker channel carrying outbound email jobs.
const EmailChannel = "emails"

// EmailJob is the serialized form of an outbound email handed to the
// message broker.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier hands outbound account email to a delivery mechanism.
type Notifier interface {
	SendVerification(ctx context.Context, user types.User, token string) error
}

// MailNotifier delivers account email synchronously through a Mailer.
type MailNotifier struct {
	mailer  mailer.Mailer
	baseURL string
}

func NewMailNotifier(m mailer.Mailer, baseURL string) *MailNotifier {
	return &MailNotifier{mailer: m, baseURL: baseURL}
}

func (n *MailNotifier) SendVerification(ctx context.Context, user types.User, token string) error {
	subject, body := verificationEmail(n.baseURL, user, token)
	return n.mailer.Send(ctx, user.Email, subject, body)
}

// QueueNotifier publishes account email as jobs on a message broker;
// an EmailWorker delivers them out of band.
type QueueNotifier struct {
	queue   *mq.MQ
	baseURL string
}

func NewQueueNotifier(queue *mq.MQ, baseURL string) *QueueNotifier {
	return &QueueNotifier{queue: queue, baseURL: baseURL}
}

func (n *QueueNotifier) SendVerification(ctx context.Context, user types.User, token string) error {
	subject, body := verificationEmail(n.baseURL, user, token)
	job, err := json.Marshal(EmailJob{To: user.Email, Subject: subject, Body: body})
	if err != nil {
		return err
	}
	_, err = n.queue.Publish(ctx, EmailChannel, job, map[string]string{"kind": "verification"})
	return err
}

// EmailWorker consumes email jobs from the broker and delivers them
// through a Mailer.
type EmailWorker struct {
	queue  *mq.MQ
	mailer mailer.Mailer
	logger *slog.Logger
}

func NewEmailWorker(queue *mq.MQ, m mailer.Mailer, logger *slog.Logger) *EmailWorker {
	return &EmailWorker{queue: queue, mailer: m, logger: logger}
}

// Run blocks consuming the email channel until ctx is cancelled.
func (w *EmailWorker) Run(ctx context.Context) error {
	return w.queue.Subscribe(ctx, EmailChannel, func(ctx context.Context, msg mq.Message) error {
		var job EmailJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			// Malformed jobs are dropped, not redelivered forever.
			w.logger.Error("dropping malformed email job", "message_id", msg.ID, "error", err)
			return nil
		}
		if err := w.mailer.Send(ctx, job.To, job.Subject, job.Body); err != nil {
			w.logger.Warn("email delivery failed, nacking", "message_id", msg.ID, "error", err)
			return err
		}
		return nil
	})
}

func verificationEmail(baseURL string, user types.User, token string) (subject, body string) {
	link := fmt.Sprintf("%s/verify-email/%s/%s", baseURL, user.ID, token)
	subject = "Verify your account"
	body = fmt.Sprintf(
		"Hello %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nThe link is valid for a limited time and can be used only once.\nIf you did not create this account, you can ignore this message.\n",
		user.Nickname, link,
	)
	return subject, body
}
