package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	"github.com/oksasatya/go-ddd-social/pkg/mailer"
	tpl "github.com/oksasatya/go-ddd-social/pkg/mailer/templates"
)

// NotifyOptions configures notification emails for a service
type NotifyOptions struct {
	Notifier Notifier
	AppName  string
	AppURL   string
}

func newNotifications(o NotifyOptions, logger *logrus.Logger) notifications {
	return notifications{notifier: o.Notifier, logger: logger, appName: o.AppName, appURL: o.AppURL}
}

// notifications enqueues best-effort emails; failures are logged, never returned
type notifications struct {
	notifier Notifier
	logger   *logrus.Logger
	appName  string
	appURL   string
}

func (n notifications) send(ctx context.Context, typ string, to *entity.User, actor *entity.User, path string, opts ...tpl.Option) {
	if n.notifier == nil || to == nil || to.Email == "" {
		return
	}
	opts = append([]tpl.Option{tpl.WithAppName(n.appName)}, opts...)
	if actor != nil {
		opts = append(opts, tpl.WithActor(actor.Name, actor.Email))
	}
	if n.appURL != "" && path != "" {
		opts = append(opts, tpl.WithActionURL(n.appURL+path))
	}
	job := mailer.EmailJob{To: to.Email, Template: typ, Data: tpl.New(typ, to.Name, to.Email, opts...)}
	if err := n.notifier.Notify(ctx, job); err != nil {
		helpers.LogWarn(n.logger, "notification enqueue failed", err, logrus.Fields{"template": typ, "user_id": to.ID})
	}
}
