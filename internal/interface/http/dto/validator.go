package dto

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var maxMoney = decimal.RequireFromString("999.99")

// RegisterValidations 注册自定义校验规则,启动时调用一次
//   - isodate: YYYY-MM-DD格式的日期
//   - money: 0到999.99之间且最多两位小数的金额字符串
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return err
	}
	return v.RegisterValidation("money", money)
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

func money(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(maxMoney) && d.Exponent() >= -2
}

// ParseDate 解析已通过isodate校验的日期(UTC零点)
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
