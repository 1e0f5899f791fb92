// Package sales builds the sales report payload from priced orders.
package sales

import (
	"sort"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/shopspring/decimal"
)

const DefaultTopCustomers = 5

// Pricer prices a single order from its lines and client discount.
type Pricer interface {
	OrderTotal(order *model.Order) pricing.Breakdown
}

type CustomerRevenue struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type ProductSales struct {
	Name              string `json:"product_name"`
	TotalQuantitySold int    `json:"total_quantity_sold"`
}

type OrderRow struct {
	ID         string            `json:"id"`
	ClientName string            `json:"client_name"`
	CreatedAt  time.Time         `json:"created_at"`
	Status     model.OrderStatus `json:"status"`
	Total      decimal.Decimal   `json:"total"`
}

type Report struct {
	StartDate          string            `json:"start_date"`
	EndDate            string            `json:"end_date"`
	ReportDate         string            `json:"report_date"`
	TotalRevenue       decimal.Decimal   `json:"total_revenue"`
	TotalOrders        int               `json:"total_orders_count"`
	TopCustomers       []CustomerRevenue `json:"top_customers"`
	MostPopularProduct *ProductSales     `json:"most_popular_product"`
	Orders             []OrderRow        `json:"all_orders"`
}

type Options struct {
	TopCustomers int
	Now          time.Time
}

// Aggregate summarises the confirmed and shipped orders created inside r.
// Orders outside the range or in other statuses are ignored, so callers may pass a superset.
func Aggregate(orders []model.Order, r DateRange, pricer Pricer, opts Options) *Report {
	limit := opts.TopCustomers
	if limit <= 0 {
		limit = DefaultTopCustomers
	}

	report := &Report{
		StartDate:    r.StartDate.Format(DateLayout),
		EndDate:      r.EndDate.Format(DateLayout),
		ReportDate:   opts.Now.In(r.EndDate.Location()).Format(DateLayout),
		TotalRevenue: decimal.Zero,
		TopCustomers: []CustomerRevenue{},
		Orders:       []OrderRow{},
	}

	var customers []CustomerRevenue
	customerIndex := map[string]int{}
	quantities := map[string]int{}

	for i := range orders {
		order := &orders[i]
		if !order.Status.Counted() || !r.Contains(order.CreatedAt) {
			continue
		}

		total := pricer.OrderTotal(order).Total
		report.TotalRevenue = report.TotalRevenue.Add(total)
		report.TotalOrders++
		report.Orders = append(report.Orders, OrderRow{
			ID:         order.ID,
			ClientName: order.ClientName,
			CreatedAt:  order.CreatedAt,
			Status:     order.Status,
			Total:      total,
		})

		if idx, ok := customerIndex[order.ClientName]; ok {
			customers[idx].Total = customers[idx].Total.Add(total)
		} else {
			customerIndex[order.ClientName] = len(customers)
			customers = append(customers, CustomerRevenue{Name: order.ClientName, Total: total})
		}

		for _, line := range order.Lines {
			quantities[line.Product.Name] += line.Quantity
		}
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].Total.GreaterThan(customers[j].Total)
	})
	if len(customers) > limit {
		customers = customers[:limit]
	}
	report.TopCustomers = append(report.TopCustomers, customers...)

	report.MostPopularProduct = mostPopular(quantities)

	return report
}

// mostPopular picks the highest quantity; equal quantities go to the smallest name.
func mostPopular(quantities map[string]int) *ProductSales {
	var best *ProductSales
	for name, qty := range quantities {
		if best == nil || qty > best.TotalQuantitySold || (qty == best.TotalQuantitySold && name < best.Name) {
			best = &ProductSales{Name: name, TotalQuantitySold: qty}
		}
	}
	return best
}
