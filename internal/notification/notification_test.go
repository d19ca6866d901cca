package notification_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"markpedia-os/internal/config"
	"markpedia-os/internal/events"
	"markpedia-os/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func approvedEvent() events.LeaveStatusChangedEvent {
	return events.LeaveStatusChangedEvent{
		EventType:      events.LeaveStatusChangedEventType,
		RequestID:      "rid-1",
		LeaveRequestID: "leave-1",
		EmployeeID:     "emp-1",
		Action:         "hr_approve",
		FromStatus:     "MANAGER_APPROVED",
		ToStatus:       "HR_APPROVED",
		ActorID:        "hr-1",
		ActorRole:      "HR",
		LeaveType:      "ANNUAL",
		StartDate:      "2024-03-04",
		EndDate:        "2024-03-08",
		TotalDays:      5,
		BalanceEffect:  "debit",
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Leave request hr approve: MANAGER_APPROVED -> HR_APPROVED", notification.Subject(approvedEvent()))

	created := approvedEvent()
	created.FromStatus = ""
	assert.Equal(t, "Leave request submitted: ANNUAL, 5 day(s)", notification.Subject(created))
}

func TestBody(t *testing.T) {
	body := notification.Body(approvedEvent())
	assert.Contains(t, body, "Period: 2024-03-04 to 2024-03-08 (5 working day(s))")
	assert.Contains(t, body, "Balance: debit")
	assert.NotContains(t, body, "Remarks:")

	ev := approvedEvent()
	ev.BalanceEffect = "none"
	ev.Remarks = "enjoy"
	body = notification.Body(ev)
	assert.NotContains(t, body, "Balance:")
	assert.Contains(t, body, "Remarks: enjoy")
}

func TestEmailNotifier(t *testing.T) {
	t.Run("sends one message to every recipient", func(t *testing.T) {
		sender := &fakeSender{}
		n := notification.NewEmailNotifier(sender, "hr@markpedia.test", []string{"a@markpedia.test", "b@markpedia.test"}, zap.NewNop())

		err := n.NotifyLeaveStatusChanged(context.Background(), approvedEvent())

		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		msg := sender.sent[0]
		assert.Equal(t, []string{"hr@markpedia.test"}, msg.GetHeader("From"))
		assert.Equal(t, []string{"a@markpedia.test", "b@markpedia.test"}, msg.GetHeader("To"))
		assert.Equal(t, []string{"rid-1"}, msg.GetHeader("X-Request-ID"))

		var raw bytes.Buffer
		_, err = msg.WriteTo(&raw)
		require.NoError(t, err)
		assert.Contains(t, raw.String(), "Leave request: leave-1")
	})

	t.Run("wraps sender errors", func(t *testing.T) {
		smtpErr := errors.New("connection refused")
		n := notification.NewEmailNotifier(&fakeSender{err: smtpErr}, "hr@markpedia.test", []string{"a@markpedia.test"}, zap.NewNop())

		err := n.NotifyLeaveStatusChanged(context.Background(), approvedEvent())

		assert.ErrorIs(t, err, smtpErr)
	})
}

func TestNew(t *testing.T) {
	n := notification.New(config.SMTPConfig{}, zap.NewNop())
	_, isLog := n.(*notification.LogNotifier)
	assert.True(t, isLog, "incomplete smtp config falls back to logging")
	assert.NoError(t, n.NotifyLeaveStatusChanged(context.Background(), approvedEvent()))

	n = notification.New(config.SMTPConfig{Host: "smtp.test", Port: 587, From: "hr@markpedia.test", To: []string{"a@markpedia.test"}}, zap.NewNop())
	_, isEmail := n.(*notification.EmailNotifier)
	assert.True(t, isEmail)
}
