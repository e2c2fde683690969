package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"melidash/internal/domain/value"
)

func TestOperatorCompare(t *testing.T) {
	testCases := []struct {
		op          value.Operator
		left, right float64
		want        bool
	}{
		{value.OperatorLessThan, 5, 10, true},
		{value.OperatorLessThan, 10, 10, false},
		{value.OperatorGreaterThan, 11, 10, true},
		{value.OperatorLessEqual, 10, 10, true},
		{value.OperatorGreaterEqual, 9.99, 10, false},
		{value.OperatorEquals, 0.1 + 0.2, 0.3, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.op), func(t *testing.T) {
			rq := require.New(t)

			got, err := tc.op.Compare(tc.left, tc.right)
			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}

	_, err := value.Operator("between").Compare(1, 2)
	require.ErrorContains(t, err, `unknown operator "between"`)
}

func TestParse(t *testing.T) {
	rq := require.New(t)

	_, err := value.ParseConditionType("stock_level")
	rq.NoError(err)
	_, err = value.ParseConditionType("weather")
	rq.Error(err)

	unit, err := value.ParseUnit("")
	rq.NoError(err)
	rq.Equal(value.UnitPercentage, unit)

	_, err = value.ParseActionType("match_competitor")
	rq.NoError(err)

	role, err := value.ParseRole("manager")
	rq.NoError(err)
	rq.Equal(value.RoleManager, role)
	_, err = value.ParseRole("root")
	rq.Error(err)
}

func TestTemperatureLabel(t *testing.T) {
	testCases := []struct {
		score float64
		want  value.TemperatureLabel
	}{
		{-5, value.TemperatureCold},
		{19.4, value.TemperatureCold},
		{20, value.TemperatureCool},
		{39, value.TemperatureCool},
		{40, value.TemperatureWarm},
		{60, value.TemperatureHot},
		{79.4, value.TemperatureHot},
		{80, value.TemperatureBurning},
		{140, value.TemperatureBurning},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, value.NewTemperature(tc.score).Label(), "score %v", tc.score)
	}
}
