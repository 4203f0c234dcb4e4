package config

type PaymentConfig struct {
	Provider       string          `yaml:"provider"`
	Stripe         *StripeConfig   `yaml:"stripe"`
	Razorpay       *RazorpayConfig `yaml:"razorpay"`
	Currency       string          `yaml:"currency"`
	RefundOnCancel bool            `yaml:"refund_on_cancel"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

type RazorpayConfig struct {
	KeyID     string `yaml:"key_id"`
	KeySecret string `yaml:"key_secret"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		Provider: getEnv("PAYMENT_PROVIDER", "none"),
		Stripe: &StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Razorpay: &RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		Currency:       getEnv("PAYMENT_CURRENCY", "INR"),
		RefundOnCancel: getEnvAsBool("PAYMENT_REFUND_ON_CANCEL", true),
	}
}
