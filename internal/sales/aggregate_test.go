package sales

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var january = DateRange{
	StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
}

func order(id, client string, status model.OrderStatus, day int, lines ...model.OrderLine) model.Order {
	return model.Order{
		ID:           id,
		ClientName:   client,
		Status:       status,
		CreatedAt:    time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC),
		DeliveryCost: decimal.Zero,
		Lines:        lines,
	}
}

func item(name string, price int64, qty int) model.OrderLine {
	return model.OrderLine{
		ProductID: name,
		Quantity:  qty,
		Product:   model.Product{Name: name, Price: decimal.NewFromInt(price)},
	}
}

func opts() Options {
	return Options{Now: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil, january, pricing.NewEngine(pricing.DefaultConfig()), opts())

	assert.True(t, report.TotalRevenue.IsZero())
	assert.Equal(t, 0, report.TotalOrders)
	assert.Empty(t, report.TopCustomers)
	assert.NotNil(t, report.TopCustomers)
	assert.Nil(t, report.MostPopularProduct)
	assert.Equal(t, "2024-01-01", report.StartDate)
	assert.Equal(t, "2024-01-31", report.EndDate)
	assert.Equal(t, "2024-02-01", report.ReportDate)
}

func TestAggregate_FiltersStatusAndRange(t *testing.T) {
	orders := []model.Order{
		order("1", "Alice", model.OrderStatusConfirmed, 5, item("pen", 3000, 1)),
		order("2", "Alice", model.OrderStatusShipped, 6, item("pen", 3000, 1)),
		order("3", "Bob", model.OrderStatusDraft, 6, item("pen", 3000, 10)),
		order("4", "Bob", model.OrderStatusCancelled, 6, item("pen", 3000, 10)),
	}
	outside := order("5", "Bob", model.OrderStatusConfirmed, 1, item("pen", 3000, 10))
	outside.CreatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	orders = append(orders, outside)

	report := Aggregate(orders, january, pricing.NewEngine(pricing.DefaultConfig()), opts())

	assert.Equal(t, 2, report.TotalOrders)
	assert.Equal(t, "6000", report.TotalRevenue.String())
	require.Len(t, report.TopCustomers, 1)
	assert.Equal(t, "Alice", report.TopCustomers[0].Name)
	require.NotNil(t, report.MostPopularProduct)
	assert.Equal(t, ProductSales{Name: "pen", TotalQuantitySold: 2}, *report.MostPopularProduct)
	require.Len(t, report.Orders, 2)
	assert.Equal(t, "1", report.Orders[0].ID)
}

func TestAggregate_TopCustomersStableAndLimited(t *testing.T) {
	var orders []model.Order
	// Seven customers; Carol and Dan tie, Carol is seen first.
	for i, c := range []struct {
		name  string
		price int64
	}{
		{"Amy", 3000}, {"Carol", 5000}, {"Dan", 5000}, {"Eve", 9000}, {"Fay", 2500}, {"Gus", 2600}, {"Hal", 2700},
	} {
		orders = append(orders, order(string(rune('a'+i)), c.name, model.OrderStatusConfirmed, 10, item("x", c.price, 1)))
	}
	orders = append(orders, order("z", "Amy", model.OrderStatusShipped, 11, item("x", 3000, 1)))

	report := Aggregate(orders, january, pricing.NewEngine(pricing.DefaultConfig()), opts())

	names := make([]string, 0, len(report.TopCustomers))
	for _, c := range report.TopCustomers {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Eve", "Amy", "Carol", "Dan", "Hal"}, names)
	assert.Equal(t, "6000", report.TopCustomers[1].Total.String())
}

func TestAggregate_MostPopularTieBreaksByName(t *testing.T) {
	orders := []model.Order{
		order("1", "Alice", model.OrderStatusConfirmed, 5, item("zebra", 3000, 4), item("apple", 3000, 1)),
		order("2", "Bob", model.OrderStatusConfirmed, 6, item("apple", 3000, 3), item("mango", 3000, 2)),
	}

	report := Aggregate(orders, january, pricing.NewEngine(pricing.DefaultConfig()), opts())

	require.NotNil(t, report.MostPopularProduct)
	assert.Equal(t, "apple", report.MostPopularProduct.Name)
	assert.Equal(t, 4, report.MostPopularProduct.TotalQuantitySold)
}

func TestAggregate_UsesPricingEngine(t *testing.T) {
	o := order("1", "Alice", model.OrderStatusConfirmed, 5, item("crate", 1000, 200))
	o.ApplyVAT = true
	o.DeliveryCost = decimal.NewFromInt(500)

	report := Aggregate([]model.Order{o}, january, pricing.NewEngine(pricing.DefaultConfig()), opts())

	assert.Equal(t, "201600.00", report.TotalRevenue.StringFixed(2))
}
