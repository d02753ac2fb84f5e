package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
	"github.com/ManuelReschke/PayFox/internal/pkg/payments/paymentstest"
)

func TestSalesGrowthZeroGuard(t *testing.T) {
	assert.Equal(t, float64(0), SalesGrowth(150, 0))
	assert.Equal(t, float64(0), SalesGrowth(0, 0))
	assert.Equal(t, float64(50), SalesGrowth(150, 100))
	assert.Equal(t, float64(-50), SalesGrowth(50, 100))
}

func TestAverageOrderValue(t *testing.T) {
	assert.Equal(t, float64(0), AverageOrderValue(100, 0))
	assert.Equal(t, float64(25), AverageOrderValue(100, 4))
}

func TestDayWindows(t *testing.T) {
	today, yesterday := DayWindows(fixedNow)

	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local).Unix(), today)
	assert.Equal(t, today-86400, yesterday)
}

func TestStatsGet(t *testing.T) {
	today, yesterday := DayWindows(fixedNow)

	gw := paymentstest.New()
	gw.Balance = &stripe.Balance{Available: []*stripe.BalanceAmount{{Amount: 4200}, {Amount: 99}}}
	gw.PaymentIntents[today] = []*stripe.PaymentIntent{{AmountReceived: 1500}, {AmountReceived: 500}}
	gw.PaymentIntents[yesterday] = []*stripe.PaymentIntent{{AmountReceived: 1000}}
	gw.Customers[today] = []*stripe.Customer{{ID: "cus_1"}, {ID: "cus_2"}, {ID: "cus_3"}}
	gw.Customers[yesterday] = []*stripe.Customer{{ID: "cus_0"}}
	gw.Errors["ListIssuingTransactions"] = errors.New("issuing not enabled")

	s := NewStatsService(gw)
	s.now = func() time.Time { return fixedNow }

	stats, err := s.Get(context.Background(), models.StatsRequest{StripeAccount: "acct_merchant"})
	require.NoError(t, err)

	assert.Equal(t, int64(4200), stats.Balance)
	assert.Equal(t, float64(20), stats.TodaysSales)
	assert.Equal(t, float64(100), stats.SalesGrowth)
	assert.Equal(t, float64(10), stats.TodaysAvgOrderValue)
	assert.Equal(t, float64(0), stats.AvgOrderValueGrowth)
	assert.Equal(t, 3, stats.TodaysCustomers)
	assert.Equal(t, 2, stats.CustomerGrowth)
	assert.Equal(t, 0, stats.TransactionCount)
}

func TestStatsGetNoSalesYesterday(t *testing.T) {
	today, _ := DayWindows(fixedNow)

	gw := paymentstest.New()
	gw.PaymentIntents[today] = []*stripe.PaymentIntent{{AmountReceived: 2500}}
	gw.Issuing = []*stripe.IssuingTransaction{{ID: "ipi_1"}, {ID: "ipi_2"}}

	s := NewStatsService(gw)
	s.now = func() time.Time { return fixedNow }

	stats, err := s.Get(context.Background(), models.StatsRequest{StripeAccount: "acct_merchant"})
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.Balance)
	assert.Equal(t, float64(25), stats.TodaysSales)
	assert.Equal(t, float64(0), stats.SalesGrowth)
	assert.Equal(t, float64(25), stats.AvgOrderValueGrowth)
	assert.Equal(t, 2, stats.TransactionCount)
}

func TestStatsGetBalanceFailure(t *testing.T) {
	gw := paymentstest.New()
	gw.Errors["GetBalance"] = &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "unavailable"}

	_, err := NewStatsService(gw).Get(context.Background(), models.StatsRequest{StripeAccount: "acct_merchant"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindRemote))
	assert.Equal(t, "api_error", apperror.TypeOf(err))
	assert.Equal(t, 0, gw.Count("ListPaymentIntents"))
}
