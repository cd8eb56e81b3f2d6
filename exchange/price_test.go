package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparePrice(t *testing.T) {
	lhs := Price{Numerator: 3, Denominator: 5}
	rhs := Price{Numerator: 4, Denominator: 7}
	assert.Equal(t, 1, ComparePrice(lhs, rhs))

	lhs.Numerator = 1
	assert.Equal(t, -1, ComparePrice(lhs, rhs))

	lhs.Numerator = 8
	lhs.Denominator = 14
	assert.Equal(t, 0, ComparePrice(lhs, rhs))
}

func TestCostForAmount(t *testing.T) {
	// 3 units at price 2/1 costs 6.
	assert.Equal(t, int64(6), costForAmount(3, Price{Numerator: 2, Denominator: 1}))
	// 1 unit at price 1/3 costs ceil(1/3) = 1.
	assert.Equal(t, int64(1), costForAmount(1, Price{Numerator: 1, Denominator: 3}))
	// 4 units at price 3/2 costs ceil(12/2) = 6.
	assert.Equal(t, int64(6), costForAmount(4, Price{Numerator: 3, Denominator: 2}))
}
