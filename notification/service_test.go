package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront-api/models"
	"storefront-api/notification"
)

func TestNormalizePhone(t *testing.T) {
	svc := notification.NewService(nil, nil, "91", zap.NewNop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare ten digits get country code", "9876543210", "919876543210"},
		{"leading zero replaced", "09876543210", "919876543210"},
		{"formatting characters stripped", "+91 98765-43210", "919876543210"},
		{"already prefixed passes through", "919876543210", "919876543210"},
		{"short number passes through", "12345", "12345"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.NormalizePhone(tt.in))
		})
	}
}

func TestSendOrderConfirmation_FailsGracefully(t *testing.T) {
	// No transport configured.
	svc := notification.NewService(nil, nil, "91", zap.NewNop())
	res := svc.SendOrderConfirmation(context.Background(), &models.Order{}, "")
	assert.False(t, res.Success)

	// Transport configured but no customer email on the order.
	svc = notification.NewService(stubEmailSender{}, nil, "91", zap.NewNop())
	res = svc.SendOrderConfirmation(context.Background(), &models.Order{}, "")
	assert.False(t, res.Success)
	assert.Equal(t, "no customer email", res.Error)
}

type stubEmailSender struct{}

func (stubEmailSender) SendEmail(context.Context, string, string, string, []notification.Attachment) (notification.SendResult, error) {
	return notification.SendResult{MessageID: "stub"}, nil
}

func TestSendSMSNotification_LogsOnly(t *testing.T) {
	svc := notification.NewService(nil, nil, "91", zap.NewNop())

	res := svc.SendSMSNotification(context.Background(), "9876543210", "Order Status Update")
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.MessageID)

	res = svc.SendSMSNotification(context.Background(), "", "Order Status Update")
	assert.False(t, res.Success)
}
