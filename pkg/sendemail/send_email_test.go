package sendemail

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"incubator/pkg/config"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	resp, _ := args.Get(0).(*rest.Response)
	return resp, args.Error(1)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendEmail(ctx context.Context, subject, toEmail, plain, html string) error {
	return m.Called(ctx, subject, toEmail, plain, html).Error(0)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewEmailService_DisabledWithoutKey(t *testing.T) {
	svc := NewEmailService(config.Config{})
	require.ErrorIs(t, svc.SendEmail(context.Background(), "s", "a@b.co", "t", "h"), ErrDisabled)
}

func TestEmailService_StatusErrors(t *testing.T) {
	sender := new(mockSender)
	svc := &emailService{client: sender, senderEmail: "noreply@example.com", senderName: "Incubator"}

	sender.On("SendWithContext", mock.Anything, mock.MatchedBy(func(m *mail.SGMailV3) bool {
		return m.Subject == "hello" && m.From.Address == "noreply@example.com"
	})).Return(&rest.Response{StatusCode: 202}, nil).Once()
	require.NoError(t, svc.SendEmail(context.Background(), "hello", "a@b.co", "t", "h"))

	sender.On("SendWithContext", mock.Anything, mock.Anything).Return(&rest.Response{StatusCode: 401}, nil).Once()
	require.Error(t, svc.SendEmail(context.Background(), "hello", "a@b.co", "t", "h"))

	sender.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp")).Once()
	require.Error(t, svc.SendEmail(context.Background(), "hello", "a@b.co", "t", "h"))
}

func TestMailer_DisabledIsSilent(t *testing.T) {
	m := NewMailer(disabledService{}, quietLogger())
	require.NoError(t, m.SendRegistrationConfirmation(context.Background(), "a@b.co", "Asha", "Acme"))
}

func TestMailer_DecisionContent(t *testing.T) {
	svc := new(mockEmailService)
	m := NewMailer(svc, quietLogger())

	svc.On("SendEmail", mock.Anything, "Your startup has been approved", "a@b.co",
		mock.MatchedBy(func(text string) bool { return text == "Hi Asha, Acme has been approved." }),
		mock.MatchedBy(func(html string) bool { return html != "" })).Return(nil).Once()

	require.NoError(t, m.SendDecision(context.Background(), "a@b.co", "Asha", "Acme", true))
	svc.AssertExpectations(t)
}

func TestDecisionEmail_EscapesHTML(t *testing.T) {
	_, _, html := decisionEmail("<b>x</b>", "Acme", false)
	require.NotContains(t, html, "<b>x</b>")
	require.Contains(t, html, "not approved")
}
