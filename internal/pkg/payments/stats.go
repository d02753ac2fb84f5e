package payments

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v82"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/apperror"
)

const secondsPerDay = 86400

// Stats is the day-over-day summary for a connected account.
type Stats struct {
	Balance             int64   `json:"balance"`
	TodaysSales         float64 `json:"todays_sales"`
	SalesGrowth         float64 `json:"sales_growth"`
	TodaysCustomers     int     `json:"todays_customers"`
	CustomerGrowth      int     `json:"customer_growth"`
	TransactionCount    int     `json:"transaction_count"`
	TodaysAvgOrderValue float64 `json:"todays_avg_order_value"`
	AvgOrderValueGrowth float64 `json:"avg_order_value_growth"`
}

// DayWindows returns the unix times of today's and yesterday's local midnight.
func DayWindows(now time.Time) (todayMidnight, yesterdayMidnight int64) {
	y, m, d := now.Date()
	todayMidnight = time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Unix()
	return todayMidnight, todayMidnight - secondsPerDay
}

// SalesGrowth returns the percentage change from yesterday to today, or 0
// when there were no sales yesterday.
func SalesGrowth(today, yesterday float64) float64 {
	if yesterday == 0 {
		return 0
	}
	return (today - yesterday) / yesterday * 100
}

// AverageOrderValue returns sales/count, or 0 for no orders.
func AverageOrderValue(sales float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sales / float64(count)
}

// StatsService aggregates balance, sales, customers and transactions.
type StatsService struct {
	gateway Gateway
	now     func() time.Time
}

func NewStatsService(gateway Gateway) *StatsService {
	return &StatsService{gateway: gateway, now: time.Now}
}

type window struct {
	from, to int64
}

func (w window) rangeParams() *stripe.RangeQueryParams {
	r := &stripe.RangeQueryParams{GreaterThanOrEqual: w.from}
	if w.to > 0 {
		r.LesserThan = w.to
	}
	return r
}

// Get computes the stats for req.StripeAccount. Only the transaction count
// tolerates a failed query; it is reported as 0.
func (s *StatsService) Get(ctx context.Context, req models.StatsRequest) (*Stats, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validation("stats", err.Error())
	}

	todayMidnight, yesterdayMidnight := DayWindows(s.now())
	today := window{from: todayMidnight}
	yesterday := window{from: yesterdayMidnight, to: todayMidnight}

	stats := &Stats{}

	balance, err := s.gateway.GetBalance(ctx, req.StripeAccount)
	if err != nil {
		return nil, remoteError("stats/balance", err)
	}
	if len(balance.Available) > 0 {
		stats.Balance = balance.Available[0].Amount
	}

	todaySales, todayOrders, err := s.sales(ctx, req, today)
	if err != nil {
		return nil, err
	}
	yesterdaySales, yesterdayOrders, err := s.sales(ctx, req, yesterday)
	if err != nil {
		return nil, err
	}

	stats.TodaysSales = todaySales
	stats.SalesGrowth = SalesGrowth(todaySales, yesterdaySales)
	stats.TodaysAvgOrderValue = AverageOrderValue(todaySales, todayOrders)
	stats.AvgOrderValueGrowth = stats.TodaysAvgOrderValue - AverageOrderValue(yesterdaySales, yesterdayOrders)

	todayCustomers, err := s.customers(ctx, req, today)
	if err != nil {
		return nil, err
	}
	yesterdayCustomers, err := s.customers(ctx, req, yesterday)
	if err != nil {
		return nil, err
	}
	stats.TodaysCustomers = todayCustomers
	stats.CustomerGrowth = todayCustomers - yesterdayCustomers

	stats.TransactionCount = s.transactions(ctx, req, today)

	return stats, nil
}

// sales returns the received amount in major units and the number of
// payment intents created in w.
func (s *StatsService) sales(ctx context.Context, req models.StatsRequest, w window) (float64, int, error) {
	params := &stripe.PaymentIntentListParams{CreatedRange: w.rangeParams()}
	params.Limit = req.Limit
	params.SetStripeAccount(req.StripeAccount)

	intents, err := s.gateway.ListPaymentIntents(ctx, params)
	if err != nil {
		return 0, 0, remoteError("stats/payment_intents", err)
	}

	var received int64
	for _, pi := range intents {
		received += pi.AmountReceived
	}
	return float64(received) / 100, len(intents), nil
}

func (s *StatsService) customers(ctx context.Context, req models.StatsRequest, w window) (int, error) {
	params := &stripe.CustomerListParams{CreatedRange: w.rangeParams()}
	params.Limit = req.Limit
	params.SetStripeAccount(req.StripeAccount)

	customers, err := s.gateway.ListCustomers(ctx, params)
	if err != nil {
		return 0, remoteError("stats/customers", err)
	}
	return len(customers), nil
}

func (s *StatsService) transactions(ctx context.Context, req models.StatsRequest, w window) int {
	params := &stripe.IssuingTransactionListParams{CreatedRange: w.rangeParams()}
	params.Limit = req.Limit
	params.SetStripeAccount(req.StripeAccount)

	txs, err := s.gateway.ListIssuingTransactions(ctx, params)
	if err != nil {
		log.Warnf("[Stats] Transaction count for %s unavailable, using 0: %v", req.StripeAccount, err)
		return 0
	}
	return len(txs)
}
