package application

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/pkg/mailer"
	mailtpl "github.com/oksasatya/task-manager-api/pkg/mailer/templates"
)

// Notifier sends account lifecycle emails. Calls never block the request and never fail it.
type Notifier interface {
	Welcome(u *entity.User)
	Farewell(u *entity.User)
}

// JobPublisher is satisfied by *helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands email jobs to the email worker through the message queue.
type QueueNotifier struct {
	Pub     JobPublisher
	AppName string
	Logger  *logrus.Logger
	Timeout time.Duration

	wg sync.WaitGroup
}

func NewQueueNotifier(pub JobPublisher, appName string, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Pub: pub, AppName: appName, Logger: logger, Timeout: 5 * time.Second}
}

func (n *QueueNotifier) Welcome(u *entity.User) {
	n.publish(u, mailtpl.Welcome)
}

func (n *QueueNotifier) Farewell(u *entity.User) {
	n.publish(u, mailtpl.Farewell)
}

func (n *QueueNotifier) publish(u *entity.User, template string) {
	job := mailer.NewTemplateJob(u.Email, template,
		mailtpl.NewData(u.Name, u.Email, mailtpl.WithAppName(n.AppName), mailtpl.WithTime(time.Now())))

	userID := u.ID
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		// detached from the request: the response may be written before the publish completes
		ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
		defer cancel()
		if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
			n.Logger.WithError(err).WithFields(logrus.Fields{"template": template, "user_id": userID}).Warn("enqueue email failed")
		}
	}()
}

// Wait blocks until in-flight publishes finish. Called on shutdown.
func (n *QueueNotifier) Wait() {
	n.wg.Wait()
}

// LogNotifier is used when no queue is configured.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Welcome(u *entity.User) {
	n.Logger.WithField("user_id", u.ID).Debug("welcome email skipped: queue not configured")
}

func (n LogNotifier) Farewell(u *entity.User) {
	n.Logger.WithField("user_id", u.ID).Debug("farewell email skipped: queue not configured")
}
