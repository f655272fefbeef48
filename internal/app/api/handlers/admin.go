package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/andikar-ai/wordledger/internal/app/service/payment"
	"github.com/andikar-ai/wordledger/internal/app/service/statistics"
	"github.com/andikar-ai/wordledger/pkg/config"
	"github.com/andikar-ai/wordledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      Scan Payments (Admin)
// @Description  Retrieves a paginated and filterable list of payments.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body payment.ScanPaymentsRequest true "Scan request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespScanPayments
// @Router       /api/v1/admin/payments/scan [post]
func ApiScanPayments(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.ScanPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := mgr.ScanPayments(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List Stale Pending Payments (Admin)
// @Description  Lists pending payments older than the given age in minutes.
// @Tags         Admin
// @Produce      json
// @Param        minutes query int false "Minimum age in minutes (defaults to the configured threshold)"
// @Success      200  {object}  handlers.RespPaymentList
// @Router       /api/v1/admin/payments/stale [get]
func ApiListStalePayments(mgr payment.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		minutes := cfg.StalePaymentMinutes
		if v := c.Query("minutes"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid minutes"))
				return
			}
			minutes = n
		}
		rows, err := mgr.PendingOlderThan(c.Request.Context(), time.Duration(minutes)*time.Minute)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

type sweepPaymentsResponse struct {
	Cancelled int64 `json:"cancelled"`
}

// @Summary      Sweep Stale Payments (Admin)
// @Description  Cancels pending payments older than the configured threshold.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/payments/sweep [post]
func ApiSweepStalePayments(mgr payment.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		cancelled, err := mgr.CancelStalePayments(c.Request.Context(), time.Duration(cfg.StalePaymentMinutes)*time.Minute)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&sweepPaymentsResponse{Cancelled: cancelled}))
	}
}

// @Summary      Get Ledger Statistics (Admin)
// @Description  Retrieves daily purchase statistics and ledger-wide totals.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.LedgerStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespLedgerStatistic
// @Router       /api/v1/admin/statistics [post]
func ApiGetLedgerStatistics(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.LedgerStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetLedgerStatistics(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, mgr payment.Manager, cfg *config.Config, stats *statistics.Service) {
	r.POST("/payments/scan", ApiScanPayments(mgr))
	r.GET("/payments/stale", ApiListStalePayments(mgr, cfg))
	r.POST("/payments/sweep", ApiSweepStalePayments(mgr, cfg))
	r.POST("/statistics", ApiGetLedgerStatistics(stats))
}
