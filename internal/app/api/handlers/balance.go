package handlers

import (
	"errors"
	"net/http"

	"github.com/andikar-ai/wordledger/internal/app/service/balance"
	"github.com/andikar-ai/wordledger/pkg/metrics"
	"github.com/andikar-ai/wordledger/pkg/response"

	"github.com/gin-gonic/gin"
)

type balanceView struct {
	UserID    string `json:"user_id"`
	Remaining int64  `json:"remaining"`
	Purchased int64  `json:"purchased"`
	Used      int64  `json:"used"`
}

type consumeWordsRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Words  int64  `json:"words" binding:"required"`
}

type consumeWordsResponse struct {
	OK        bool  `json:"ok"`
	Remaining int64 `json:"remaining"`
}

// @Summary      Get Balance
// @Description  Returns the user's word balance, creating a zeroed one on first access.
// @Tags         Balance
// @Produce      json
// @Param        user_id query string true "User ID"
// @Success      200  {object}  handlers.RespBalance
// @Router       /api/v1/balance [get]
func ApiGetBalance(mgr balance.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		row, err := mgr.GetOrCreate(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&balanceView{
			UserID:    row.UserID,
			Remaining: row.RemainingWords,
			Purchased: row.TotalWordsPurchased,
			Used:      row.TotalWordsUsed,
		}))
	}
}

// @Summary      Consume Words
// @Description  Debits words from the user's balance. Fails with the available/requested shortfall when the balance is insufficient.
// @Tags         Balance
// @Accept       json
// @Produce      json
// @Param        request body consumeWordsRequest true "Consume request"
// @Success      200  {object}  handlers.RespConsumeWords
// @Router       /api/v1/balance/consume [post]
func ApiConsumeWords(mgr balance.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req consumeWordsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		row, err := mgr.Debit(c.Request.Context(), req.UserID, req.Words)
		if err != nil {
			var insufficient *balance.InsufficientBalanceError
			if errors.As(err, &insufficient) {
				c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeBadRequest, insufficient))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}

		metrics.WordsDebited.Add(float64(req.Words))
		c.JSON(http.StatusOK, response.OKT(&consumeWordsResponse{OK: true, Remaining: row.RemainingWords}))
	}
}

func RegisterBalanceRoutes(r gin.IRouter, mgr balance.Manager) {
	r.GET("/balance", ApiGetBalance(mgr))
	r.POST("/balance/consume", ApiConsumeWords(mgr))
}
