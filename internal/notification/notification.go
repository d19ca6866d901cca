package notification

import (
	"context"
	"fmt"
	"strings"

	"markpedia-os/internal/config"
	"markpedia-os/internal/events"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier tells people about leave workflow changes.
type Notifier interface {
	NotifyLeaveStatusChanged(ctx context.Context, event events.LeaveStatusChangedEvent) error
}

// Sender is the part of *gomail.Dialer used to deliver mail.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailNotifier struct {
	sender Sender
	from   string
	to     []string
	logger *zap.Logger
}

func NewEmailNotifier(sender Sender, from string, to []string, logger ...*zap.Logger) *EmailNotifier {
	l := zap.L().Named("notification.email")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.email")
	}
	return &EmailNotifier{sender: sender, from: from, to: to, logger: l}
}

// New returns an SMTP notifier when cfg is complete and a log-only notifier
// otherwise.
func New(cfg config.SMTPConfig, logger *zap.Logger) Notifier {
	if !cfg.Enabled() {
		return NewLogNotifier(logger)
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return NewEmailNotifier(dialer, cfg.From, cfg.To, logger)
}

func (n *EmailNotifier) NotifyLeaveStatusChanged(ctx context.Context, event events.LeaveStatusChangedEvent) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.to...)
	msg.SetHeader("Subject", Subject(event))
	msg.SetBody("text/plain", Body(event))
	if event.RequestID != "" {
		msg.SetHeader("X-Request-ID", event.RequestID)
	}

	if err := n.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send leave notification: %w", err)
	}

	n.logger.Debug("leave notification sent",
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("to_status", event.ToStatus),
		zap.Int("recipients", len(n.to)),
	)
	return nil
}

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.L()
	}
	return &LogNotifier{logger: logger.Named("notification.log")}
}

func (n *LogNotifier) NotifyLeaveStatusChanged(_ context.Context, event events.LeaveStatusChangedEvent) error {
	n.logger.Info(Subject(event),
		zap.String("leave_request_id", event.LeaveRequestID),
		zap.String("employee_id", event.EmployeeID),
		zap.String("request_id", event.RequestID),
	)
	return nil
}

func Subject(event events.LeaveStatusChangedEvent) string {
	if event.FromStatus == "" {
		return fmt.Sprintf("Leave request submitted: %s, %d day(s)", event.LeaveType, event.TotalDays)
	}
	return fmt.Sprintf("Leave request %s: %s -> %s", strings.ReplaceAll(event.Action, "_", " "), event.FromStatus, event.ToStatus)
}

func Body(event events.LeaveStatusChangedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leave request: %s\n", event.LeaveRequestID)
	fmt.Fprintf(&b, "Employee: %s\n", event.EmployeeID)
	fmt.Fprintf(&b, "Type: %s\n", event.LeaveType)
	fmt.Fprintf(&b, "Period: %s to %s (%d working day(s))\n", event.StartDate, event.EndDate, event.TotalDays)
	fmt.Fprintf(&b, "Status: %s\n", event.ToStatus)
	fmt.Fprintf(&b, "Action: %s by %s (%s)\n", event.Action, event.ActorID, event.ActorRole)
	if event.BalanceEffect != "" && event.BalanceEffect != "none" {
		fmt.Fprintf(&b, "Balance: %s\n", event.BalanceEffect)
	}
	if event.Remarks != "" {
		fmt.Fprintf(&b, "Remarks: %s\n", event.Remarks)
	}
	return b.String()
}
