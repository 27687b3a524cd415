// internal/workers/products/notify-winner/handler_test.go
package notifywinner

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	awsclient "dropship-workers/internal/common/aws"
	"dropship-workers/internal/common/config"
	"dropship-workers/internal/common/errors"
	"dropship-workers/internal/common/logger"
	"dropship-workers/internal/scoring"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock AWS Clients
// ==========================

type MockSNS struct {
	mock.Mock
}

func (m *MockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSES struct {
	mock.Mock
}

func (m *MockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*ses.SendEmailOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

const topicARN = "arn:aws:sns:us-east-1:123456789012:product-winners"

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func testConfig(snsOn, emailOn bool) *Config {
	cfg := DefaultConfig()
	cfg.SNSEnabled = snsOn
	cfg.TopicARN = topicARN
	cfg.EmailEnabled = emailOn
	cfg.ToEmails = []string{"buyer@example.com"}
	return cfg
}

func createTestHandler(t *testing.T, cfg *Config, snsClient *MockSNS, sesClient *MockSES) *Handler {
	opts := HandlerOptions{CustomConfig: cfg, Logger: logger.NewTestLogger(t)}
	if snsClient != nil {
		opts.Publisher = awsclient.NewPublisher(snsClient)
	}
	if sesClient != nil {
		opts.Mailer = awsclient.NewMailer(sesClient, "alerts@example.com")
	}

	h, err := NewHandler(opts)
	require.NoError(t, err)
	h.now = func() time.Time { return fixedNow }
	return h
}

func winningAnalysis() *scoring.ProductAnalysis {
	return &scoring.ProductAnalysis{
		TotalScore:     92,
		TotalScoreRaw:  91.5,
		IsWinner:       true,
		Potential:      scoring.PotentialHigh,
		Reasons:        []string{"Massive social proof: 12.0K reviews"},
		Warnings:       []string{"Few product images"},
		SuggestedPrice: decimal.RequireFromString("24.99"),
	}
}

func winnerInput() *Input {
	return &Input{
		ProductID: "prod-1",
		Analysis:  winningAnalysis(),
		Product:   &scoring.ProductSignal{Title: "LED Sunset Lamp", Source: scoring.SourceTemu},
		URL:       "https://temu.com/item/1",
	}
}

// ==========================
// Execute Tests
// ==========================

func TestExecute_SkipsNonWinner(t *testing.T) {
	snsClient := new(MockSNS)
	h := createTestHandler(t, testConfig(true, false), snsClient, nil)

	out, err := h.Execute(context.Background(), &Input{
		ProductID: "prod-2",
		Analysis:  &scoring.ProductAnalysis{TotalScore: 55, Potential: scoring.PotentialMedium},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSkipped, out.Status)
	assert.Empty(t, out.AlertID)
	assert.Nil(t, out.NotifiedAt)
	snsClient.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestExecute_PublishesWinnerAlert(t *testing.T) {
	snsClient := new(MockSNS)
	var published *sns.PublishInput
	snsClient.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)

	h := createTestHandler(t, testConfig(true, false), snsClient, nil)

	out, err := h.Execute(context.Background(), winnerInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, "sns-1", out.SNSMessageID)
	assert.Len(t, out.AlertID, 36)
	require.NotNil(t, out.NotifiedAt)
	assert.Equal(t, fixedNow, *out.NotifiedAt)

	require.NotNil(t, published)
	assert.Equal(t, topicARN, aws.ToString(published.TopicArn))
	assert.Equal(t, "Winning product detected", aws.ToString(published.Subject))
	assert.Equal(t, "temu", aws.ToString(published.MessageAttributes["source"].StringValue))
	assert.Equal(t, "high", aws.ToString(published.MessageAttributes["potential"].StringValue))

	var alert map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(published.Message)), &alert))
	assert.Equal(t, out.AlertID, alert["alertId"])
	assert.Equal(t, "prod-1", alert["productId"])
	assert.Equal(t, "LED Sunset Lamp", alert["title"])
	assert.Equal(t, 92.0, alert["score"])
	assert.Equal(t, "24.99", alert["suggestedPrice"])
	assert.Equal(t, "2026-10-01T12:00:00Z", alert["detectedAt"])

	snsClient.AssertExpectations(t)
}

func TestExecute_SendsEmail(t *testing.T) {
	snsClient := new(MockSNS)
	snsClient.On("Publish", mock.Anything, mock.Anything).
		Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)

	sesClient := new(MockSES)
	sesClient.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		body := aws.ToString(in.Message.Body.Text.Data)
		return aws.ToString(in.Source) == "alerts@example.com" &&
			in.Destination.ToAddresses[0] == "buyer@example.com" &&
			aws.ToString(in.Message.Subject.Data) == "Winning product detected: LED Sunset Lamp (92)" &&
			strings.Contains(body, "Suggested price: $24.99") &&
			strings.Contains(body, "+ Massive social proof") &&
			strings.Contains(body, "- Few product images")
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("email-1")}, nil)

	h := createTestHandler(t, testConfig(true, true), snsClient, sesClient)

	out, err := h.Execute(context.Background(), winnerInput())
	require.NoError(t, err)

	assert.Equal(t, "sns-1", out.SNSMessageID)
	assert.Equal(t, "email-1", out.EmailMessageID)
	sesClient.AssertExpectations(t)
}

func TestExecute_EmailFailureAfterSNSIsLogged(t *testing.T) {
	snsClient := new(MockSNS)
	snsClient.On("Publish", mock.Anything, mock.Anything).
		Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)
	sesClient := new(MockSES)
	sesClient.On("SendEmail", mock.Anything, mock.Anything).Return(nil, stderrors.New("daily quota exceeded"))

	h := createTestHandler(t, testConfig(true, true), snsClient, sesClient)

	out, err := h.Execute(context.Background(), winnerInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.Empty(t, out.EmailMessageID)
}

func TestExecute_SendFailures(t *testing.T) {
	tests := []struct {
		name        string
		snsOn       bool
		emailOn     bool
		wantChannel string
	}{
		{name: "sns publish fails", snsOn: true, wantChannel: channelSNS},
		{name: "email only fails", emailOn: true, wantChannel: channelEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snsClient := new(MockSNS)
			snsClient.On("Publish", mock.Anything, mock.Anything).Return(nil, stderrors.New("throttled"))
			sesClient := new(MockSES)
			sesClient.On("SendEmail", mock.Anything, mock.Anything).Return(nil, stderrors.New("rejected"))

			h := createTestHandler(t, testConfig(tt.snsOn, tt.emailOn), snsClient, sesClient)

			_, err := h.Execute(context.Background(), winnerInput())
			require.Error(t, err)

			std := errors.AsStandardError(err)
			assert.Equal(t, errors.ErrCodeNotificationSendFailed, std.Code)
			assert.True(t, std.Retryable)
			assert.Equal(t, tt.wantChannel, std.Metadata["channel"])
			assert.Equal(t, "prod-1", std.Metadata["productId"])
		})
	}
}

func TestExecute_ValidatesInput(t *testing.T) {
	h := createTestHandler(t, testConfig(true, false), new(MockSNS), nil)

	for _, input := range []*Input{{Analysis: winningAnalysis()}, {ProductID: "prod-1"}} {
		_, err := h.Execute(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeValidationFailed, errors.AsStandardError(err).Code)
	}
}

// ==========================
// Configuration Tests
// ==========================

func TestNewHandler_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		opts HandlerOptions
	}{
		{name: "no channel", cfg: testConfig(false, false)},
		{name: "sns without publisher", cfg: testConfig(true, false)},
		{name: "email without mailer", cfg: testConfig(false, true)},
		{name: "sns without topic", cfg: func() *Config {
			c := testConfig(true, false)
			c.TopicARN = ""
			return c
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.CustomConfig = tt.cfg
			_, err := NewHandler(tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestCreateConfigFromAppConfig_ReadsAWSIntegration(t *testing.T) {
	app := &config.Config{}
	app.Integrations.AWS.SNS.Enabled = true
	app.Integrations.AWS.SNS.TopicARN = topicARN
	app.Integrations.AWS.SES.Enabled = true
	app.Integrations.AWS.SES.ToEmails = []string{"ops@example.com"}

	cfg := createConfigFromAppConfig(app, nil)

	assert.True(t, cfg.SNSEnabled)
	assert.Equal(t, topicARN, cfg.TopicARN)
	assert.True(t, cfg.EmailEnabled)
	assert.Equal(t, []string{"ops@example.com"}, cfg.ToEmails)
	assert.NoError(t, cfg.Validate())
}
