package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Drop            // malformed or unrenderable, never retried
	Requeue         // transient send failure
)

// Worker turns queued EmailJob payloads into sent emails.
type Worker struct {
	Sender  Sender
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewWorker(sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Logger: logger, Timeout: 15 * time.Second}
}

// Process decodes, renders and sends one job. redelivered jobs that fail to send are
// dropped instead of requeued so a bad address cannot loop forever.
func (w *Worker) Process(ctx context.Context, body []byte, redelivered bool) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	log := w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html, err := job.Render()
	if err != nil {
		log.WithError(err).Warn("render email failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Warn("send email failed")
		if redelivered {
			return Drop
		}
		return Requeue
	}
	log.Info("email sent")
	return Ack
}
