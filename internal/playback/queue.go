// Package playback drives the single-track playback cursor over the
// currently active track list, under the shuffle and repeat flags.
package playback

import (
	"go.uber.org/zap"

	"tunedeck/internal/core"
)

// RepeatMode controls what happens at track and queue boundaries.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// PlayRecorder receives the track each time playback moves onto it.
type PlayRecorder interface {
	RecordPlayed(track core.Track)
}

const noCursor = -1

// Controller is the playback state machine: a cursor into the active list,
// the playing flag, and the shuffle/repeat policy. It commands the external
// renderer and reacts to its ended signal. The active list is a view
// selection, not owned data.
//
// Controller is not safe for concurrent use; callers serialize access.
type Controller struct {
	renderer core.Renderer
	recorder PlayRecorder
	logger   *zap.Logger

	sourceID   string
	activeList []core.Track
	cursor     int
	isPlaying  bool
	shuffle    bool
	repeat     RepeatMode
}

func NewController(renderer core.Renderer, recorder PlayRecorder, logger *zap.Logger) *Controller {
	return &Controller{
		renderer: renderer,
		recorder: recorder,
		logger:   logger,
		cursor:   noCursor,
	}
}

// SetActiveList swaps the list playback operates on. The cursor survives
// when the new list is the one the current track was drawn from (tab
// switches back and forth); any other source change unsets it. The playing
// flag persists either way so the mini-player stays alive.
func (c *Controller) SetActiveList(sourceID string, tracks []core.Track) {
	if sourceID != c.sourceID {
		c.cursor = noCursor
		c.sourceID = sourceID
	}
	c.activeList = tracks
	if c.cursor >= len(c.activeList) {
		c.cursor = noCursor
	}
}

// SelectTrack activates the track at index. Selecting the current track
// toggles play/pause; selecting another moves the cursor, starts playback
// and records the track as played.
func (c *Controller) SelectTrack(index int) {
	if index < 0 || index >= len(c.activeList) {
		return
	}

	if index == c.cursor {
		c.TogglePlay()
		return
	}

	c.cursor = index
	c.isPlaying = true
	c.renderer.Play()
	c.recorder.RecordPlayed(c.activeList[index])

	c.logger.Debug("Track selected",
		zap.Int("cursor", index),
		zap.String("title", c.activeList[index].Title))
}

// TogglePlay flips the playing flag and issues the matching renderer
// command. No-op without a current track.
func (c *Controller) TogglePlay() {
	if c.cursor == noCursor {
		return
	}
	c.isPlaying = !c.isPlaying
	if c.isPlaying {
		c.renderer.Play()
	} else {
		c.renderer.Pause()
	}
}

// Advance moves to the next track. Under repeat-one it restarts the current
// track instead. At the end of the list repeat-all wraps to the start;
// otherwise playback stops with the cursor left in place. Also invoked when
// the renderer signals end-of-track.
func (c *Controller) Advance() {
	if len(c.activeList) == 0 {
		return
	}

	if c.repeat == RepeatOne {
		c.renderer.SeekTo(0)
		return
	}

	if c.cursor == noCursor {
		c.cursor = 0
		return
	}

	next := c.cursor + 1
	switch {
	case next < len(c.activeList):
		c.moveTo(next)
	case c.repeat == RepeatAll:
		c.moveTo(0)
	default:
		c.isPlaying = false
		c.logger.Debug("End of queue reached", zap.Int("cursor", c.cursor))
	}
}

// Retreat moves to the previous track. No-op when the cursor is unset or
// already at the start.
func (c *Controller) Retreat() {
	if c.cursor == noCursor || c.cursor == 0 {
		return
	}
	c.isPlaying = true
	c.moveTo(c.cursor - 1)
}

func (c *Controller) moveTo(index int) {
	c.cursor = index
	if c.isPlaying {
		c.renderer.Play()
	}
	c.recorder.RecordPlayed(c.activeList[index])

	c.logger.Debug("Cursor moved",
		zap.Int("cursor", index),
		zap.String("title", c.activeList[index].Title))
}

// ToggleShuffle flips the shuffle flag. The flag does not currently alter
// the linear advance/retreat order.
func (c *Controller) ToggleShuffle() {
	c.shuffle = !c.shuffle
}

// CycleRepeat steps the repeat mode off → all → one → off.
func (c *Controller) CycleRepeat() {
	switch c.repeat {
	case RepeatOff:
		c.repeat = RepeatAll
	case RepeatAll:
		c.repeat = RepeatOne
	default:
		c.repeat = RepeatOff
	}
}

// HandleRendererState maps the renderer's inbound signals onto queue
// transitions. Only the ended signal carries meaning.
func (c *Controller) HandleRendererState(state string) {
	if state == core.RendererStateEnded {
		c.Advance()
	}
}

// CurrentTrack returns the track under the cursor, or nil when unset.
func (c *Controller) CurrentTrack() *core.Track {
	if c.cursor == noCursor || c.cursor >= len(c.activeList) {
		return nil
	}
	track := c.activeList[c.cursor]
	return &track
}

// Cursor returns the cursor position; ok is false when unset.
func (c *Controller) Cursor() (int, bool) {
	if c.cursor == noCursor {
		return 0, false
	}
	return c.cursor, true
}

func (c *Controller) IsPlaying() bool {
	return c.isPlaying
}

func (c *Controller) Shuffle() bool {
	return c.shuffle
}

func (c *Controller) Repeat() RepeatMode {
	return c.repeat
}

// ActiveSource returns the id of the list playback currently operates on.
func (c *Controller) ActiveSource() string {
	return c.sourceID
}
