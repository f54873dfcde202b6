package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Notification template identifiers.
const (
	TemplateForgotPassword = "auth/forgot_password"
	TemplateVerifyEmail    = "auth/verify_email"
)

// Notifier delivers flow notifications out of band, normally email.
// A send must complete or fail before the triggering request responds;
// failures are terminal for the request but already-persisted challenge
// state is not rolled back.
type Notifier interface {
	Send(ctx context.Context, to, template string, data map[string]any) error
}

// LogNotifier is the development Notifier. It writes the notification
// to the logger instead of delivering it.
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger Logger) *LogNotifier {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, to, template string, data map[string]any) error {
	if to == "" {
		return goerrors.New("notification recipient is required", goerrors.CategoryBadInput)
	}
	n.logger.Info("sending notification", "to", to, "template", template, "context", data)
	return nil
}
