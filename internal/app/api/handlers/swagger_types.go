package handlers

import (
	"github.com/andikar-ai/wordledger/internal/app/service/payment"
	"github.com/andikar-ai/wordledger/internal/app/service/statistics"
	"github.com/andikar-ai/wordledger/internal/models"
	"github.com/andikar-ai/wordledger/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespInitiatePurchase wraps InitiatePurchaseResult in the standard envelope.
type RespInitiatePurchase struct {
	Code    response.APIResponseCode       `json:"code"`
	Message string                         `json:"message"`
	Data    payment.InitiatePurchaseResult `json:"data"`
}

// RespPayment wraps a single payment in the standard envelope.
type RespPayment struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Payment           `json:"data"`
}

// RespPaymentList wraps a list of payments in the standard envelope.
type RespPaymentList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Payment         `json:"data"`
}

// RespScanPayments wraps ScanPaymentsResponse in the standard envelope.
type RespScanPayments struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    payment.ScanPaymentsResponse `json:"data"`
}

// RespBalance wraps the user's balance view in the standard envelope.
type RespBalance struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    balanceView              `json:"data"`
}

// RespConsumeWords wraps the consume result in the standard envelope.
type RespConsumeWords struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    consumeWordsResponse     `json:"data"`
}

// RespLedgerStatistic wraps LedgerStatisticResponse in the standard envelope.
type RespLedgerStatistic struct {
	Code    response.APIResponseCode           `json:"code"`
	Message string                             `json:"message"`
	Data    statistics.LedgerStatisticResponse `json:"data"`
}
