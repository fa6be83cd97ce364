package config

import "time"

type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetSessionSweepInterval() time.Duration
	GetConsumeOnSuccess() bool
}

type Session struct {
	TTL              time.Duration `env:"SESSION_TTL" envDefault:"10m"`
	SweepInterval    time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
	ConsumeOnSuccess bool          `env:"SESSION_CONSUME_ON_SUCCESS" envDefault:"true"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionTTL() time.Duration {
	if s.TTL <= 0 {
		return 10 * time.Minute
	}
	return s.TTL
}

func (s Session) GetSessionSweepInterval() time.Duration {
	if s.SweepInterval <= 0 {
		return 5 * time.Minute
	}
	return s.SweepInterval
}

// GetConsumeOnSuccess reports whether the first status poll that observes a
// successful login deletes the session.
func (s Session) GetConsumeOnSuccess() bool {
	return s.ConsumeOnSuccess
}
