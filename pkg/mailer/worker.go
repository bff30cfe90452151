package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/mesto-api/pkg/mailer/templates"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string, tags ...string) error
}

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Requeue         // transient send failure
	Drop            // message can never succeed
)

var ErrUnknownTemplate = errors.New("unknown email template")

// Worker turns queued EmailJobs into sent emails.
type Worker struct {
	Sender      Sender
	AppName     string
	SendTimeout time.Duration
	Logger      *logrus.Logger
}

// Handle processes one raw queue message.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.log().WithError(err).Warn("bad email message")
		return Drop
	}
	subject, text, html, err := w.Render(job)
	if err != nil {
		w.log().WithError(err).WithField("template", job.Template).Warn("render email failed")
		return Drop
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html, tagsFor(job)...); err != nil {
		w.log().WithError(err).WithField("to", job.To).Warn("send email failed")
		return Requeue
	}
	return Ack
}

// Render resolves the subject and bodies of job.
func (w *Worker) Render(job EmailJob) (string, string, string, error) {
	if job.To == "" {
		return "", "", "", errors.New("email job without recipient")
	}
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	if !mailtpl.Known(job.Template) {
		return "", "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, job.Template)
	}
	data := job.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Email"]; !ok {
		data["Email"] = job.To
	}
	if v, _ := data["AppName"].(string); v == "" && w.AppName != "" {
		data["AppName"] = w.AppName
	}
	return mailtpl.Render(job.Template, data)
}

func tagsFor(job EmailJob) []string {
	if job.Template == "" {
		return nil
	}
	return []string{job.Template}
}

func (w *Worker) log() *logrus.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return logrus.StandardLogger()
}
