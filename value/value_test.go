package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	require.False(t, Truthy(Nil{}))
	require.False(t, Truthy(Boolean(false)))
	require.True(t, Truthy(Boolean(true)))
	require.True(t, Truthy(Int(0)))
	require.True(t, Truthy(String("")))
}

func TestEqualCrossesNumericTags(t *testing.T) {
	require.True(t, Equal(Int(3), Float(3.0)))
	require.True(t, Equal(Float(3.0), Int(3)))
	require.False(t, Equal(Int(3), Float(3.1)))
	require.False(t, Equal(String("3"), Int(3)))
	require.True(t, Equal(Nil{}, Nil{}))
}

func TestAddIntOverflowPromotesToFloat(t *testing.T) {
	sum := Add(Int(math.MaxInt32), Int(1))
	f, ok := sum.(Float)
	require.True(t, ok)
	require.Equal(t, float64(math.MaxInt32)+1, float64(f))
}

func TestAddWithinRangeStaysInt(t *testing.T) {
	sum := Add(Int(2), Int(3))
	i, ok := sum.(Int)
	require.True(t, ok)
	require.Equal(t, Int(5), i)
}

func TestNegMinInt32Overflows(t *testing.T) {
	n := Neg(Int(math.MinInt32))
	f, ok := n.(Float)
	require.True(t, ok)
	require.Equal(t, -float64(math.MinInt32), float64(f))
}

func TestAddConcatenatesStrings(t *testing.T) {
	require.Equal(t, String("ab"), Add(String("a"), String("b")))
}

func TestDivTruncatesIntegers(t *testing.T) {
	require.Equal(t, Int(2), Div(Int(7), Int(3)))
	require.Equal(t, Int(-2), Div(Int(-7), Int(3)))
}

func TestDivFloatWhenEitherOperandIsFloat(t *testing.T) {
	q := Div(Int(7), Float(2))
	f, ok := q.(Float)
	require.True(t, ok)
	require.Equal(t, 3.5, float64(f))
}

func TestLessThanGreaterThan(t *testing.T) {
	require.True(t, LessThan(Int(1), Float(2)))
	require.True(t, GreaterThan(Float(2), Int(1)))
}
