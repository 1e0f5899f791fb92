package pricing

import (
	"testing"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(productID, price string, qty int, discount string) model.OrderLine {
	return model.OrderLine{
		ProductID: productID,
		Quantity:  qty,
		Product: model.Product{
			BaseModel:          model.BaseModel{ID: productID},
			Name:               "product-" + productID,
			Price:              dec(price),
			StockQuantity:      1000,
			DiscountPercentage: dec(discount),
		},
	}
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func TestComputeTotal_LargeOrderWithVolumeDiscount(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	order := &model.Order{ApplyVAT: true, DeliveryCost: dec("500")}
	lines := []model.OrderLine{line("p1", "1000", 200, "0")}

	b := engine.ComputeTotal(order, lines, decimal.Zero)

	assertAmount(t, "200000.00", b.ItemsTotal)
	assertAmount(t, "20000.00", b.VolumeDiscount)
	assertAmount(t, "180000.00", b.Subtotal)
	assertAmount(t, "21600.00", b.VAT)
	assertAmount(t, "0.00", b.DeliveryFee)
	assertAmount(t, "201600.00", b.Total)
	assert.False(t, b.Clamped)
}

func TestComputeTotal_VolumeThreshold(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	order := &model.Order{DeliveryCost: dec("200")}

	atThreshold := engine.ComputeTotal(order, []model.OrderLine{line("p1", "150000", 1, "0")}, decimal.Zero)
	assert.True(t, atThreshold.VolumeDiscount.IsZero())
	assertAmount(t, "150000.00", atThreshold.Total)

	above := engine.ComputeTotal(order, []model.OrderLine{line("p1", "150000.01", 1, "0")}, decimal.Zero)
	assertAmount(t, "15000.00", above.VolumeDiscount.Round(2))
	assertAmount(t, "135000.01", above.Total)
}

func TestComputeTotal_DeliveryThreshold(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	order := &model.Order{DeliveryCost: dec("200")}

	atThreshold := engine.ComputeTotal(order, []model.OrderLine{line("p1", "2000", 1, "0")}, decimal.Zero)
	assertAmount(t, "200.00", atThreshold.DeliveryFee)
	assertAmount(t, "2200.00", atThreshold.Total)

	above := engine.ComputeTotal(order, []model.OrderLine{line("p1", "2000.01", 1, "0")}, decimal.Zero)
	assert.True(t, above.DeliveryFee.IsZero())
	assertAmount(t, "2000.01", above.Total)
}

func TestComputeTotal_VATOff(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	order := &model.Order{ApplyVAT: false}

	for _, price := range []string{"1", "2500", "999999.99"} {
		b := engine.ComputeTotal(order, []model.OrderLine{line("p1", price, 3, "5")}, dec("7.5"))
		assert.True(t, b.VAT.IsZero(), "price %s", price)
	}
}

func TestComputeTotal_StackedDiscounts(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	order := &model.Order{ApplyVAT: true, DeliveryCost: dec("200")}
	lines := []model.OrderLine{
		line("p1", "1000", 2, "10"), // 2000, product discount 200
		line("p2", "500", 1, "0"),   // 500
	}

	b := engine.ComputeTotal(order, lines, dec("5"))

	assertAmount(t, "2500.00", b.ItemsTotal)
	assertAmount(t, "200.00", b.ProductDiscountTotal)
	assertAmount(t, "125.00", b.ClientDiscountAmount)
	assert.True(t, b.VolumeDiscount.IsZero())
	assertAmount(t, "2175.00", b.Subtotal)
	assertAmount(t, "261.00", b.VAT)
	assert.True(t, b.DeliveryFee.IsZero())
	assertAmount(t, "2436.00", b.Total)
}

func TestComputeTotal_RoundsHalfUpAtEnd(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// 12.5% off 1.00 leaves 0.875, which is kept until the final rounding
	b := engine.ComputeTotal(&model.Order{}, []model.OrderLine{line("p1", "1.00", 1, "12.5")}, decimal.Zero)
	assert.Equal(t, "0.875", b.Subtotal.String())
	assertAmount(t, "0.88", b.Total)

	withVAT := engine.ComputeTotal(&model.Order{ApplyVAT: true}, []model.OrderLine{line("p1", "1.00", 1, "12.5")}, decimal.Zero)
	assert.Equal(t, "0.105", withVAT.VAT.String())
	assertAmount(t, "0.98", withVAT.Total)

	half := engine.ComputeTotal(&model.Order{}, []model.OrderLine{line("p1", "0.005", 1, "0")}, decimal.Zero)
	assertAmount(t, "0.01", half.Total)
}

func TestComputeTotal_ClampsNegativeSubtotal(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	order := &model.Order{ApplyVAT: true, DeliveryCost: dec("300")}

	b := engine.ComputeTotal(order, []model.OrderLine{line("p1", "100", 1, "80")}, dec("50"))

	assert.True(t, b.Clamped)
	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.VAT.IsZero())
	assertAmount(t, "300.00", b.Total)
}

func TestComputeTotal_EmptyOrderChargesDelivery(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	b := engine.ComputeTotal(&model.Order{DeliveryCost: dec("200")}, nil, decimal.Zero)
	assertAmount(t, "200.00", b.Total)
}

func TestComputeTotal_Idempotent(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	order := &model.Order{ApplyVAT: true, DeliveryCost: dec("150"), ClientDiscount: dec("3")}
	order.Lines = []model.OrderLine{line("p1", "333.33", 7, "2.5"), line("p2", "0.99", 11, "0")}

	first := engine.OrderTotal(order)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, engine.OrderTotal(order))
	}
}

func TestComputeTotal_CustomConfig(t *testing.T) {
	engine := NewEngine(Config{
		VolumeDiscountThreshold: dec("100"),
		VolumeDiscountRate:      dec("0.5"),
		VATRate:                 dec("0.2"),
		FreeDeliveryThreshold:   dec("10000"),
	})
	order := &model.Order{ApplyVAT: true, DeliveryCost: dec("10")}

	b := engine.ComputeTotal(order, []model.OrderLine{line("p1", "200", 1, "0")}, decimal.Zero)
	assertAmount(t, "100.00", b.Subtotal)
	assertAmount(t, "130.00", b.Total)
}
