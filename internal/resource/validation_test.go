package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/om_console/pkg/shopapi"
)

func TestParser(t *testing.T) {
	var p Parser
	assert.Equal(t, 1500, p.WholeAmount("estimated_cost", "1500.00"))
	assert.Equal(t, 0, p.Int("stock", " "))
	assert.Equal(t, "499.5", p.Money("price", "499.50").String())
	require.NoError(t, p.Err())

	p.WholeAmount("estimated_cost", "12.5")
	p.Int("quantity", "two")
	p.Money("price", "-1")
	p.IntAtLeast("stock", "0", 1)

	var fe FieldErrors
	require.True(t, errors.As(p.Err(), &fe))
	assert.Equal(t, FieldErrors{
		"estimated_cost": "Enter a whole amount.",
		"quantity":       "Enter a whole number.",
		"price":          "Amount cannot be negative.",
		"stock":          "Must be at least 1.",
	}, fe)
}

func TestFromAPIError(t *testing.T) {
	assert.Nil(t, FromAPIError(errors.New("boom")))
	assert.Nil(t, FromAPIError(&shopapi.APIError{Kind: shopapi.KindServer, Message: "x"}))

	fe := FromAPIError(&shopapi.APIError{Kind: shopapi.KindValidation, Message: "Insufficient stock"})
	assert.Equal(t, FieldErrors{"": "Insufficient stock"}, fe)

	fe = FromAPIError(&shopapi.APIError{
		Kind:   shopapi.KindValidation,
		Fields: map[string][]string{"quantity": {"Ensure this value is greater than or equal to 1."}},
	})
	assert.Equal(t, "Ensure this value is greater than or equal to 1.", fe["quantity"])
}

func TestFieldErrorsMessage(t *testing.T) {
	err := FieldErrors{"name": "This field is required.", "": "Insufficient stock"}
	assert.Equal(t, "invalid form: Insufficient stock; name: This field is required.", err.Error())
}
