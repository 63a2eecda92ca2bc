package keypad

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MaxBrightness is the number of scoreboard brightness steps.
const MaxBrightness = 8

// Poller runs next to the game loop. It takes raw presses, drops the ones
// that arrive inside the debounce window, handles the backlight and
// brightness keys itself and forwards everything else through a bounded
// channel. The game loop only ever sees Keys().
type Poller struct {
	raw      chan Key
	out      chan Key
	debounce time.Duration
	now      func() time.Time
	log      *zap.Logger

	mu         sync.Mutex
	lastPress  time.Time
	backlight  bool
	brightness uint8

	onBacklight  func(on bool)
	onBrightness func(level uint8)
}

// NewPoller creates a poller whose channels hold up to buffer keys.
func NewPoller(debounce time.Duration, buffer int, log *zap.Logger) *Poller {
	if buffer < 1 {
		buffer = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		raw:       make(chan Key, buffer),
		out:       make(chan Key, buffer),
		debounce:  debounce,
		now:       time.Now,
		log:       log,
		backlight: true,
	}
}

// OnBacklight registers a callback for backlight toggles.
func (p *Poller) OnBacklight(callback func(on bool)) {
	p.onBacklight = callback
}

// OnBrightness registers a callback for brightness changes.
func (p *Poller) OnBrightness(callback func(level uint8)) {
	p.onBrightness = callback
}

// Keys returns the channel of debounced keys meant for the game loop.
func (p *Poller) Keys() <-chan Key {
	return p.out
}

// Press queues a raw key press. It never blocks; the press is dropped and
// false returned when the queue is full.
func (p *Poller) Press(k Key) bool {
	select {
	case p.raw <- k:
		return true
	default:
		p.log.Debug("key dropped, queue full", zap.Stringer("key", k))
		return false
	}
}

// Backlight reports whether the display backlight is on.
func (p *Poller) Backlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlight
}

// Brightness returns the current scoreboard brightness.
func (p *Poller) Brightness() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.brightness
}

// Run processes presses until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	for {
		var k Key
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k = <-p.raw:
		}

		if k == Unknown {
			continue
		}
		if !p.accept() {
			p.log.Debug("key debounced", zap.Stringer("key", k))
			continue
		}

		switch k {
		case BacklightKey:
			p.toggleBacklight()
		case BrightnessKey:
			p.stepBrightness()
		default:
			select {
			case p.out <- k:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// accept records the press time and returns false if the previous accepted
// press was less than the debounce window ago.
func (p *Poller) accept() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.now()
	if !p.lastPress.IsZero() && t.Sub(p.lastPress) < p.debounce {
		return false
	}
	p.lastPress = t
	return true
}

func (p *Poller) toggleBacklight() {
	p.mu.Lock()
	p.backlight = !p.backlight
	on := p.backlight
	p.mu.Unlock()

	p.log.Info("backlight toggled", zap.Bool("on", on))
	if p.onBacklight != nil {
		p.onBacklight(on)
	}
}

func (p *Poller) stepBrightness() {
	p.mu.Lock()
	p.brightness = (p.brightness + 1) % MaxBrightness
	level := p.brightness
	p.mu.Unlock()

	p.log.Info("brightness changed", zap.Uint8("level", level))
	if p.onBrightness != nil {
		p.onBrightness(level)
	}
}
