package handlers

import (
	"io"
	"net/http"

	"github.com/andikar-ai/wordledger/internal/app/service/reconciler"
	"github.com/andikar-ai/wordledger/pkg/logctx"
	"github.com/andikar-ai/wordledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      Payment Callback
// @Description  Receives the aggregator's asynchronous payment result. Always acks once the callback is on record; only a store failure produces a retryable 500.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body object true "Provider callback payload"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payments/callback [post]
// ApiPaymentCallback handles aggregator payment callbacks
func ApiPaymentCallback(h *reconciler.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		logctx.FromGin(c, h.Logger).Infow("payment_callback_received")

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := h.HandleCallback(c.Request.Context(), raw)
		if err != nil {
			// Store-level failure: a real 500 tells the provider to retry.
			logctx.FromGin(c, h.Logger).Errorw("payment_callback_handle_error", "error", err.Error())
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		logctx.FromGin(c, h.Logger).Infow("payment_callback_handled",
			"matched", res.Matched, "payment_id", res.PaymentID, "transitioned", res.Transitioned)
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterCallbackRoutes(r gin.IRouter, h *reconciler.Handler) {
	r.POST("/payments/callback", ApiPaymentCallback(h))
}
