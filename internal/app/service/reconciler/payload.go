package reconciler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/andikar-ai/wordledger/pkg/types"
)

// Payload is the untrusted callback body reduced to the fields the matching
// chain cares about. Providers disagree on casing and on whether amount is a
// number or a string, so extraction is deliberately lenient.
type Payload struct {
	Reference         string
	CheckoutRequestID string
	Phone             string
	Amount            int64
	HasAmount         bool
	Status            string
	Message           string
	Raw               json.RawMessage
}

// ParsePayload never fails: an unparseable body yields an empty payload that
// will simply not match anything.
func ParsePayload(raw []byte) *Payload {
	p := &Payload{Raw: json.RawMessage(raw)}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return p
	}

	p.Reference = firstString(body, "reference", "Reference", "ref")
	p.CheckoutRequestID = firstString(body, "checkout_request_id", "CheckoutRequestID", "checkoutRequestId")
	p.Phone = firstString(body, "phone", "Phone", "msisdn")
	p.Status = firstString(body, "status", "Status", "result")
	p.Message = firstString(body, "message", "Message", "error_message")

	if p.Status == "" {
		// Daraja-style payloads signal the outcome with a numeric result code.
		if v, ok := lookup(body, "ResultCode", "result_code"); ok {
			if asInt, ok := toInt64(v); ok {
				if asInt == 0 {
					p.Status = "success"
				} else {
					p.Status = "failed"
				}
			}
		}
	}

	if v, ok := lookup(body, "amount", "Amount"); ok {
		if asInt, ok := toInt64(v); ok {
			p.Amount = asInt
			p.HasAmount = true
		}
	}
	return p
}

// Outcome maps the payload status to a terminal outcome: success/completed
// mean the money arrived, anything else is a failure.
func (p *Payload) Outcome() types.PaymentOutcome {
	switch strings.ToLower(strings.TrimSpace(p.Status)) {
	case "success", "completed", "complete", "0":
		return types.PaymentOutcomeSuccess
	default:
		return types.PaymentOutcomeFailure
	}
}

// HasCorrelation reports whether any provider-assigned id is present.
func (p *Payload) HasCorrelation() bool {
	return p.Reference != "" || p.CheckoutRequestID != ""
}

func lookup(body map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := body[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstString(body map[string]any, keys ...string) string {
	v, ok := lookup(body, keys...)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int64(f), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}
