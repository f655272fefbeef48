package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/andikar-ai/wordledger/internal/app/service/payment"
	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/pkg/types"
)

type stubPaymentMgr struct {
	initiatePurchase func(req *payment.CreatePaymentRequest) (*payment.InitiatePurchaseResult, error)
	getPayment       func(id string) (*models.Payment, error)
	listUserPayments func(req *payment.ListUserPaymentsRequest) ([]*models.Payment, error)
}

func (s *stubPaymentMgr) InitiatePurchase(_ context.Context, req *payment.CreatePaymentRequest) (*payment.InitiatePurchaseResult, error) {
	return s.initiatePurchase(req)
}
func (s *stubPaymentMgr) GetPayment(_ context.Context, id string) (*models.Payment, error) {
	return s.getPayment(id)
}
func (s *stubPaymentMgr) ListUserPayments(_ context.Context, req *payment.ListUserPaymentsRequest) ([]*models.Payment, error) {
	return s.listUserPayments(req)
}
func (s *stubPaymentMgr) CreatePayment(_ context.Context, _ *payment.CreatePaymentRequest) (*models.Payment, error) {
	panic("not used")
}
func (s *stubPaymentMgr) AttachProviderReference(_ context.Context, _, _, _ string) (*models.Payment, error) {
	panic("not used")
}
func (s *stubPaymentMgr) MarkTerminal(_ context.Context, _ *payment.MarkTerminalRequest) (*payment.MarkTerminalResult, error) {
	panic("not used")
}
func (s *stubPaymentMgr) GetPaymentByCorrelation(_ context.Context, _, _ string) (*models.Payment, error) {
	panic("not used")
}
func (s *stubPaymentMgr) FindMatchingPending(_ context.Context, _ string, _ int64) (*models.Payment, error) {
	panic("not used")
}
func (s *stubPaymentMgr) PendingOlderThan(_ context.Context, _ time.Duration) ([]*models.Payment, error) {
	panic("not used")
}
func (s *stubPaymentMgr) CancelStalePayments(_ context.Context, _ time.Duration) (int64, error) {
	panic("not used")
}
func (s *stubPaymentMgr) ScanPayments(_ context.Context, _ *payment.ScanPaymentsRequest) (*payment.ScanPaymentsResponse, error) {
	panic("not used")
}

func TestApiInitiatePurchase_ReturnsCheckoutInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr := &stubPaymentMgr{
		initiatePurchase: func(req *payment.CreatePaymentRequest) (*payment.InitiatePurchaseResult, error) {
			require.Equal(t, "u1", req.UserID)
			require.EqualValues(t, 2500, req.Amount)
			return &payment.InitiatePurchaseResult{
				PaymentID:         "p1",
				Reference:         "REF1",
				CheckoutRequestID: "CHK1",
				WordsGranted:      60000,
			}, nil
		},
	}
	r := gin.New()
	r.POST("/api/v1/payments", ApiInitiatePurchase(mgr))

	body, _ := json.Marshal(map[string]any{"user_id": "u1", "phone": "0712345678", "amount": 2500})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "REF1")
	require.Contains(t, w.Body.String(), "60000")
}

func TestApiInitiatePurchase_InvalidAmount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr := &stubPaymentMgr{
		initiatePurchase: func(_ *payment.CreatePaymentRequest) (*payment.InitiatePurchaseResult, error) {
			return nil, payment.ErrInvalidAmount
		},
	}
	r := gin.New()
	r.POST("/api/v1/payments", ApiInitiatePurchase(mgr))

	body, _ := json.Marshal(map[string]any{"user_id": "u1", "phone": "0712345678", "amount": 1234})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

func TestApiGetPayment_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr := &stubPaymentMgr{
		getPayment: func(_ string) (*models.Payment, error) {
			return nil, payment.ErrPaymentNotFound
		},
	}
	r := gin.New()
	r.GET("/api/v1/payments/:id", ApiGetPayment(mgr))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/nope", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

func TestApiListPayments_RequiresUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/payments", ApiListPayments(&stubPaymentMgr{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "missing user_id")
}

func TestApiListPayments_ReturnsRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mgr := &stubPaymentMgr{
		listUserPayments: func(req *payment.ListUserPaymentsRequest) ([]*models.Payment, error) {
			require.Equal(t, "u1", req.UserID)
			require.Equal(t, 5, req.Size)
			return []*models.Payment{{ID: "p1", UserID: "u1", Status: types.PaymentStatusCompleted}}, nil
		},
	}
	r := gin.New()
	r.GET("/api/v1/payments", ApiListPayments(mgr))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?user_id=u1&size=5", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"p1"`)
}

func TestRegisterPaymentRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterPaymentRoutes(g, &stubPaymentMgr{})

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/payments"))
	require.True(t, contains("GET /api/v1/payments"))
	require.True(t, contains("GET /api/v1/payments/:id"))
}
