package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("isodate", isoDate))
	require.NoError(t, v.RegisterValidation("money", money))

	tests := []struct {
		name  string
		value string
		tag   string
		valid bool
	}{
		{"合法日期", "2026-03-08", "isodate", true},
		{"非法日期", "2026-02-30", "isodate", false},
		{"带时间", "2026-03-08T00:00:00Z", "isodate", false},
		{"两位小数", "1.50", "money", true},
		{"整数", "2", "money", true},
		{"零", "0", "money", true},
		{"三位小数", "1.505", "money", false},
		{"负数", "-1", "money", false},
		{"超过上限", "1000", "money", false},
		{"非数字", "abc", "money", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Var(tt.value, tt.tag)
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}
