package integrity

import (
	"testing"

	"studyhub/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFeature(t *testing.T) {
	st := newTestStore(t, models.State{})
	f := NewFeature(st, st.DB(), nil, bucketCfg, "", zap.NewNop())

	assert.Equal(t, "integrity", f.Name())
	assert.True(t, f.IsEnabled())
	assert.NotNil(t, f.Service())
	assert.NoError(t, f.Load(fiber.New()))
}
