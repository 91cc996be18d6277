package playback

import (
	"go.uber.org/zap"
)

// NullRenderer satisfies the renderer contract without any media backend.
// Commands are logged and otherwise dropped; useful for wiring and for
// running the service headless.
type NullRenderer struct {
	logger *zap.Logger
}

func NewNullRenderer(logger *zap.Logger) *NullRenderer {
	return &NullRenderer{logger: logger}
}

func (r *NullRenderer) Play() {
	r.logger.Debug("Renderer command", zap.String("command", "play"))
}

func (r *NullRenderer) Pause() {
	r.logger.Debug("Renderer command", zap.String("command", "pause"))
}

func (r *NullRenderer) SeekTo(seconds float64) {
	r.logger.Debug("Renderer command",
		zap.String("command", "seekTo"),
		zap.Float64("seconds", seconds))
}
