package payment

import (
	"context"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client *razorpay.Client
}

func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	return &RazorpayProvider{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

func (r *RazorpayProvider) Name() string { return "razorpay" }

func (r *RazorpayProvider) RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	notes := map[string]interface{}{"reason": request.Reason}
	for k, v := range request.Metadata {
		notes[k] = v
	}

	amount := int(ToMinorUnits(request.Amount))
	refund, err := r.client.Payment.Refund(request.TransactionID, amount, map[string]interface{}{"notes": notes}, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return parseRazorpayRefund(refund), nil
}

// parseRazorpayRefund reads the loosely typed JSON map the SDK returns.
// Numbers arrive as float64.
func parseRazorpayRefund(body map[string]interface{}) *RefundResponse {
	resp := &RefundResponse{}
	if v, ok := body["id"].(string); ok {
		resp.RefundID = v
	}
	if v, ok := body["status"].(string); ok {
		resp.Status = v
	}
	if v, ok := body["currency"].(string); ok {
		resp.Currency = v
	}
	if v, ok := body["amount"].(float64); ok {
		resp.Amount = FromMinorUnits(int64(v))
	}
	if v, ok := body["created_at"].(float64); ok {
		resp.CreatedAt = int64(v)
	}
	return resp
}
