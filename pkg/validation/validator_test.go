package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,resetcode"`
	Pass  string `json:"password" binding:"required,pwd"`
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(sample{Email: "not-an-email", Code: "12ab56", Pass: "short"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Contains(t, details, "code")
	assert.Contains(t, details, "password")
}

func TestToDetailsValidInput(t *testing.T) {
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(sample{Email: "siti@example.com", Code: "123456", Pass: "long-enough"})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(nil))
}
