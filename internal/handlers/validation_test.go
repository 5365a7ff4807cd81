package handlers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDecimalValidation(t *testing.T) {
	v := validator.New()
	registerDecimalType(v)

	type line struct {
		Amount   decimal.Decimal `validate:"gt=0"`
		Discount decimal.Decimal `validate:"gte=0"`
	}

	assert.NoError(t, v.Struct(line{Amount: decimal.RequireFromString("0.01")}))
	assert.Error(t, v.Struct(line{Amount: decimal.Zero}))
	assert.Error(t, v.Struct(line{Amount: decimal.NewFromInt(5), Discount: decimal.NewFromInt(-1)}))
}
