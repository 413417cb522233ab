package nats

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/piresc/ordertrack/internal/pkg/constants"
	"github.com/piresc/ordertrack/services/tracking/mocks"
	"github.com/stretchr/testify/assert"
)

func TestOrderHandler_LifecycleEvents(t *testing.T) {
	tests := []struct {
		name       string
		handle     func(h *OrderHandler, data []byte) error
		data       string
		wantReason string
		wantErr    bool
	}{
		{
			name:       "delivered",
			handle:     (*OrderHandler).handleOrderDelivered,
			data:       `{"order_id":"O1","status":"delivered"}`,
			wantReason: constants.ReasonOrderDelivered,
		},
		{
			name:       "cancelled",
			handle:     (*OrderHandler).handleOrderCancelled,
			data:       `{"order_id":"O1"}`,
			wantReason: constants.ReasonOrderCancelled,
		},
		{
			name:    "malformed payload",
			handle:  (*OrderHandler).handleOrderDelivered,
			data:    `{"order_id":`,
			wantErr: true,
		},
		{
			name:    "missing order id",
			handle:  (*OrderHandler).handleOrderCancelled,
			data:    `{"status":"cancelled"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockTrackingUC(ctrl)
			if !tt.wantErr {
				uc.EXPECT().CloseOrder(gomock.Any(), "O1", tt.wantReason).Return(nil)
			}
			h := NewOrderHandler(uc, nil)

			// Act
			err := tt.handle(h, []byte(tt.data))

			// Assert
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
