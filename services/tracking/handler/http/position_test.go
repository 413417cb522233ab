package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/internal/utils"
	"github.com/piresc/ordertrack/services/tracking"
	"github.com/piresc/ordertrack/services/tracking/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(e *echo.Echo, orderID, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/tracking/orders/"+orderID+"/position", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderID")
	c.SetParamValues(orderID)
	if userID != "" {
		c.Set("user_id", userID)
		c.Set("role", role)
	}
	return c, rec
}

func TestPositionHandler_GetPosition(t *testing.T) {
	snapshot := &models.PositionSnapshot{
		OrderID:   "O1",
		Active:    true,
		CourierOn: true,
		LastPosition: &models.TrackedPosition{
			Position: models.Position{Lat: -12.05, Lng: -77.04},
			Seq:      3,
		},
	}

	tests := []struct {
		name       string
		userID     string
		role       string
		setupMock  func(uc *mocks.MockTrackingUC)
		wantStatus int
	}{
		{
			name:   "participant gets snapshot",
			userID: "u-customer",
			role:   "customer",
			setupMock: func(uc *mocks.MockTrackingUC) {
				uc.EXPECT().
					Snapshot(gomock.Any(), models.Identity{UserID: "u-customer", Role: models.RoleCustomer}, "O1").
					Return(snapshot, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing identity",
			setupMock:  func(uc *mocks.MockTrackingUC) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown role claim",
			userID:     "u-admin",
			role:       "admin",
			setupMock:  func(uc *mocks.MockTrackingUC) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "unknown order",
			userID: "u-customer",
			role:   "customer",
			setupMock: func(uc *mocks.MockTrackingUC) {
				uc.EXPECT().Snapshot(gomock.Any(), gomock.Any(), "O1").Return(nil, tracking.ErrOrderNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "stranger",
			userID: "u-other",
			role:   "customer",
			setupMock: func(uc *mocks.MockTrackingUC) {
				uc.EXPECT().Snapshot(gomock.Any(), gomock.Any(), "O1").Return(nil, tracking.ErrNotAParticipant)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "directory failure",
			userID: "u-customer",
			role:   "customer",
			setupMock: func(uc *mocks.MockTrackingUC) {
				uc.EXPECT().Snapshot(gomock.Any(), gomock.Any(), "O1").Return(nil, assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockTrackingUC(ctrl)
			tt.setupMock(uc)
			h := NewPositionHandler(uc)
			c, rec := newContext(echo.New(), "O1", tt.userID, tt.role)

			// Act
			err := h.GetPosition(c)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				utils.Response
				Data models.PositionSnapshot `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Success)
			assert.Equal(t, *snapshot, body.Data)
		})
	}
}
