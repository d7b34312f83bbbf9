package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	t.Run("Sums price times quantity", func(t *testing.T) {
		lines := []Line{
			{UnitPrice: 4.99, Quantity: 2},
			{UnitPrice: 13.99, Quantity: 1},
		}
		assert.Equal(t, 23.97, Subtotal(lines))
	})

	t.Run("Order of lines does not matter", func(t *testing.T) {
		a := []Line{{UnitPrice: 4.99, Quantity: 2}, {UnitPrice: 13.99, Quantity: 1}}
		b := []Line{{UnitPrice: 13.99, Quantity: 1}, {UnitPrice: 4.99, Quantity: 2}}
		assert.Equal(t, Subtotal(a), Subtotal(b))
	})

	t.Run("Empty cart is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Subtotal(nil))
	})
}

func TestCompute(t *testing.T) {
	lines := []Line{{UnitPrice: 50, Quantity: 2}}

	t.Run("Default tax rate is zero", func(t *testing.T) {
		q := Compute(lines, 0, 0)
		assert.Equal(t, 100.0, q.Subtotal)
		assert.Equal(t, 0.0, q.Tax)
		assert.Equal(t, 0.0, q.Shipping)
		assert.Equal(t, 100.0, q.Total)
	})

	t.Run("Tax applies to subtotal before discount", func(t *testing.T) {
		q := Compute(lines, 0.1, 20)
		assert.Equal(t, 10.0, q.Tax)
		assert.Equal(t, 90.0, q.Total)
	})

	t.Run("Discount clamped to subtotal", func(t *testing.T) {
		q := Compute(lines, 0, 500)
		assert.Equal(t, 100.0, q.Discount)
		assert.Equal(t, 0.0, q.Total)
	})

	t.Run("Shipping is always zero", func(t *testing.T) {
		q := Compute(lines, 0.2, 0)
		assert.Equal(t, 0.0, q.Shipping)
	})

	t.Run("Rounds to cents", func(t *testing.T) {
		q := Compute([]Line{{UnitPrice: 0.1, Quantity: 3}}, 0, 0)
		assert.Equal(t, 0.3, q.Subtotal)
		assert.Equal(t, 0.3, q.Total)
	})
}
