package markupify

import (
	"sync"

	"github.com/markupify/markupify-go/internal/types"
)

// Re-exported configuration types for the document renderer.
type (
	Symbol       = types.Symbol
	RenderConfig = types.RenderConfig
)

var (
	defaultConfig     *RenderConfig
	defaultConfigOnce sync.Once
)

// DefaultConfig returns the default render configuration (singleton).
func DefaultConfig() *RenderConfig {
	defaultConfigOnce.Do(func() {
		defaultConfig = types.DefaultRenderConfig()
	})
	return defaultConfig
}
