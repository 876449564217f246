package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/config"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	"github.com/oksasatya/go-ddd-social/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-social/pkg/mailer/templates"
)

// outcome tells the consumer loop what to do with a delivery
type outcome int

const (
	ack outcome = iota
	drop
	retry
)

var errEmptyJob = errors.New("job has neither template nor body")

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, ch, err := helpers.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch between workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	sender := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			settle(msg, handle(ctx, sender, logger, msg.Body))
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func settle(msg amqp.Delivery, o outcome) {
	switch o {
	case ack:
		_ = msg.Ack(false)
	case retry:
		_ = msg.Nack(false, true)
	default:
		_ = msg.Nack(false, false)
	}
}

// render resolves subject and bodies for a job, preferring its template
func render(job *mailer.EmailJob) (subject, text, html string, err error) {
	helpers.EnsureRecipientAndEmail(job)
	if job.Template != "" {
		return mailtpl.Render(job.Template, job.Data)
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return "", "", "", errEmptyJob
	}
	return job.Subject, job.Text, job.HTML, nil
}

// handle decodes, renders and sends one queued job. Malformed jobs are
// dropped; send failures are requeued.
func handle(ctx context.Context, sender mailer.Sender, logger *logrus.Logger, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogWarn(logger, "bad message", err, nil)
		return drop
	}
	if job.To == "" {
		helpers.LogWarn(logger, "message without recipient", nil, logrus.Fields{"template": job.Template})
		return drop
	}
	subject, text, html, err := render(&job)
	if err != nil {
		helpers.LogWarn(logger, "render failed", err, logrus.Fields{"template": job.Template})
		return drop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := sender.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(logger, "send failed", err, logrus.Fields{"to": job.To, "template": job.Template})
		return retry
	}
	logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return ack
}
