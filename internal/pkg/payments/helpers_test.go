package payments

import (
	"time"

	"github.com/ManuelReschke/PayFox/internal/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		StripeSecretKey:      "sk_test_123",
		StripeAccountCountry: "GB",
		PremadeProductID:     "prod_premade",
		PremadeAccountID:     "acct_premade",
	}
}

func strPtr(s string) *string { return &s }

// fixedNow is 10:00 local time on 2030-01-01.
var fixedNow = time.Date(2030, 1, 1, 10, 0, 0, 0, time.Local)
