package validation

import (
	"idea-inbox/internal/common/enum"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Driver enum.NotifyDriverEnum `mapstructure:"driver" validate:"enum"`
	Port   int                   `json:"port" validate:"gte=1,lte=65535"`
	Path   string                `mapstructure:"path" validate:"required,startswith=/"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Setup())
	require.NoError(t, Setup(), "setup is idempotent")

	assert.NoError(t, Validate(sample{Driver: enum.NotifyNone, Port: 80, Path: "/x"}))

	err := Validate(sample{Driver: "kafka", Port: 0, Path: "x"})
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Validation failed")
	assert.Contains(t, msg, "sample.driver must be one of the allowed enum values")
	assert.Contains(t, msg, "sample.port must be greater than or equal to 1")
	assert.Contains(t, msg, "sample.path must start with /")
}
