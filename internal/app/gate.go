package app

import (
	"time"

	"icebreaker-service/internal/domain"
)

// GateConfig holds the passcodes and the window during which the gallery is locked.
type GateConfig struct {
	QuizPasscode       string
	GalleryPasscode    string
	GalleryWindowStart time.Time
	GalleryWindowEnd   time.Time
}

// Gate decides whether a view may be entered. It is a soft speed-bump with
// plaintext passcodes, not an access control boundary.
type Gate struct {
	cfg GateConfig
	now func() time.Time
}

func NewGate(cfg GateConfig) *Gate {
	return NewGateWithClock(cfg, time.Now)
}

// NewGateWithClock is test-only for a fixed wall clock.
func NewGateWithClock(cfg GateConfig, now func() time.Time) *Gate {
	return &Gate{cfg: cfg, now: now}
}

// RequiresPasscode reports whether entering view needs a passcode right now.
func (g *Gate) RequiresPasscode(view domain.View) (bool, error) {
	switch view {
	case domain.ViewHome, domain.ViewProfile:
		return false, nil
	case domain.ViewQuiz:
		return true, nil
	case domain.ViewGallery:
		return g.galleryLocked(g.now()), nil
	}
	return false, domain.ErrUnknownView
}

// Navigate checks passcode for view. The clock is read once per call.
func (g *Gate) Navigate(view domain.View, passcode string) error {
	var want string
	switch view {
	case domain.ViewHome, domain.ViewProfile:
		return nil
	case domain.ViewQuiz:
		want = g.cfg.QuizPasscode
	case domain.ViewGallery:
		if !g.galleryLocked(g.now()) {
			return nil
		}
		want = g.cfg.GalleryPasscode
	default:
		return domain.ErrUnknownView
	}
	if passcode == "" {
		return domain.ErrPasscodeRequired
	}
	if passcode != want {
		return domain.ErrPasscodeMismatch
	}
	return nil
}

func (g *Gate) galleryLocked(now time.Time) bool {
	if g.cfg.GalleryWindowStart.IsZero() || g.cfg.GalleryWindowEnd.IsZero() {
		return false
	}
	return !now.Before(g.cfg.GalleryWindowStart) && !now.After(g.cfg.GalleryWindowEnd)
}
