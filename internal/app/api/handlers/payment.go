package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andikar-ai/wordledger/internal/app/service/payment"
	"github.com/andikar-ai/wordledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type initiatePurchaseRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}

// @Summary      Initiate Purchase
// @Description  Creates a payment intent and triggers an M-Pesa STK push for one of the fixed word-credit bundles.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body initiatePurchaseRequest true "Purchase request"
// @Success      200  {object}  handlers.RespInitiatePurchase
// @Router       /api/v1/payments [post]
func ApiInitiatePurchase(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req initiatePurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := mgr.InitiatePurchase(c.Request.Context(), &payment.CreatePaymentRequest{
			UserID: req.UserID,
			Phone:  req.Phone,
			Amount: req.Amount,
		})
		if err != nil {
			if errors.Is(err, payment.ErrInvalidAmount) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Payment
// @Description  Returns one payment by id.
// @Tags         Payment
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200  {object}  handlers.RespPayment
// @Router       /api/v1/payments/{id} [get]
func ApiGetPayment(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		row, err := mgr.GetPayment(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, payment.ErrPaymentNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(row))
	}
}

// @Summary      List Payments
// @Description  Lists a user's payments, most recent first.
// @Tags         Payment
// @Produce      json
// @Param        user_id query string true "User ID"
// @Param        from    query int    false "Offset"
// @Param        size    query int    false "Page size"
// @Success      200  {object}  handlers.RespPaymentList
// @Router       /api/v1/payments [get]
func ApiListPayments(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		// Read pagination from query params
		from := 0
		if v := c.Query("from"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				from = n
			}
		}
		size := 100
		if v := c.Query("size"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				size = n
			} else {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid size"))
				return
			}
		}

		rows, err := mgr.ListUserPayments(c.Request.Context(), &payment.ListUserPaymentsRequest{
			UserID: userID,
			From:   from,
			Size:   size,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, mgr payment.Manager) {
	r.POST("/payments", ApiInitiatePurchase(mgr))
	r.GET("/payments", ApiListPayments(mgr))
	r.GET("/payments/:id", ApiGetPayment(mgr))
}
