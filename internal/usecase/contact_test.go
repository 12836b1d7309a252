package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMailer mocks the outbound mail transport
type MockMailer struct {
	mock.Mock

	mu   sync.Mutex
	sent []mailer.Message
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockMailer) Verify(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMailer) sentMessages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mailer.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		SMTPUser:     "owner@example.com",
		SMTPPass:     "secret",
		ContactEmail: "inbox@example.com",
		SiteName:     "Jane Doe",
		SiteURL:      "https://example.com",
		MailTimeout:  time.Second,
	}
}

func validRequest() *domain.ContactRequest {
	return &domain.ContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Hello there",
		Message: "This is a sufficiently long message.",
	}
}

func TestSendContactMessage_NotConfigured(t *testing.T) {
	mockMail := new(MockMailer)
	mockMail.On("IsConfigured").Return(false)

	uc := usecase.NewContactUsecase(mockMail, testConfig())
	err := uc.SendContactMessage(context.Background(), validRequest(), domain.RequestMeta{})

	assert.ErrorIs(t, err, domain.ErrMailNotConfigured)
	// No network call may happen without credentials
	mockMail.AssertNotCalled(t, "Verify", mock.Anything)
	mockMail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendContactMessage_VerifyFails(t *testing.T) {
	mockMail := new(MockMailer)
	mockMail.On("IsConfigured").Return(true)
	mockMail.On("Verify", mock.Anything).Return(&mailer.TransportError{
		Code: mailer.CodeConnection,
		Err:  errors.New("dial tcp: connection refused"),
	})

	uc := usecase.NewContactUsecase(mockMail, testConfig())
	err := uc.SendContactMessage(context.Background(), validRequest(), domain.RequestMeta{})

	assert.Error(t, err)
	var terr *mailer.TransportError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, mailer.CodeConnection, terr.Code)
	// Verification failure means zero send attempts
	mockMail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendContactMessage_DualDispatch(t *testing.T) {
	mockMail := new(MockMailer)
	mockMail.On("IsConfigured").Return(true)
	mockMail.On("Verify", mock.Anything).Return(nil)
	mockMail.On("Send", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewContactUsecase(mockMail, testConfig())
	meta := domain.RequestMeta{ClientIP: "203.0.113.7", UserAgent: "Mozilla/5.0"}
	err := uc.SendContactMessage(context.Background(), validRequest(), meta)

	assert.NoError(t, err)
	mockMail.AssertNumberOfCalls(t, "Send", 2)

	// Exactly one notification to the override inbox and one auto-reply
	// to the submitter
	recipients := map[string]mailer.Message{}
	for _, msg := range mockMail.sentMessages() {
		recipients[msg.To] = msg
	}
	notification, ok := recipients["inbox@example.com"]
	assert.True(t, ok, "notification should go to the configured inbox")
	assert.Equal(t, "Portfolio Contact: Hello there", notification.Subject)
	assert.Equal(t, "jane@example.com", notification.ReplyTo)
	assert.Contains(t, notification.HTML, "This is a sufficiently long message.")
	assert.Contains(t, notification.HTML, "203.0.113.7")

	autoReply, ok := recipients["jane@example.com"]
	assert.True(t, ok, "auto-reply should go back to the submitter")
	assert.Contains(t, autoReply.HTML, "Hello there")
	assert.Contains(t, autoReply.HTML, "This is a sufficiently long message.")
}

func TestSendContactMessage_PartialSendFailure(t *testing.T) {
	sendErr := &mailer.TransportError{Code: mailer.CodeConnection, Err: errors.New("broken pipe")}

	mockMail := new(MockMailer)
	mockMail.On("IsConfigured").Return(true)
	mockMail.On("Verify", mock.Anything).Return(nil)
	// Notification succeeds, auto-reply fails
	mockMail.On("Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return m.To == "inbox@example.com"
	})).Return(nil)
	mockMail.On("Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return m.To == "jane@example.com"
	})).Return(sendErr)

	uc := usecase.NewContactUsecase(mockMail, testConfig())
	err := uc.SendContactMessage(context.Background(), validRequest(), domain.RequestMeta{})

	// One failed send fails the whole submission, never partial success
	assert.Error(t, err)
	var terr *mailer.TransportError
	assert.True(t, errors.As(err, &terr))
	mockMail.AssertNumberOfCalls(t, "Send", 2)
}

func TestSendContactMessage_AuthFailureDuringSend(t *testing.T) {
	mockMail := new(MockMailer)
	mockMail.On("IsConfigured").Return(true)
	mockMail.On("Verify", mock.Anything).Return(nil)
	mockMail.On("Send", mock.Anything, mock.Anything).Return(&mailer.TransportError{
		Code: mailer.CodeAuth,
		Err:  fmt.Errorf("535 authentication failed"),
	})

	uc := usecase.NewContactUsecase(mockMail, testConfig())
	err := uc.SendContactMessage(context.Background(), validRequest(), domain.RequestMeta{})

	assert.Error(t, err)
	var terr *mailer.TransportError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, mailer.CodeAuth, terr.Code)
}
