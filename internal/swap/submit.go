package swap

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/google/uuid"
)

// SubmitterConfig tunes the simulated submission.
type SubmitterConfig struct {
	FailureRate float64
	MinDelay    time.Duration
	MaxDelay    time.Duration
	Rand        *rand.Rand
}

// DefaultSubmitterConfig matches the demo: 2-5s delay and a 10% failure chance.
func DefaultSubmitterConfig() SubmitterConfig {
	return SubmitterConfig{
		FailureRate: constants.SubmitFailureRate,
		MinDelay:    constants.SubmitMinDelay,
		MaxDelay:    constants.SubmitMaxDelay,
	}
}

// Submitter pretends to broadcast a swap. Nothing is mutated before it succeeds, so a
// failure needs no rollback.
type Submitter struct {
	cfg SubmitterConfig
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSubmitter(cfg SubmitterConfig) *Submitter {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	return &Submitter{cfg: cfg, rng: rng}
}

// Submit waits for the simulated network delay and then either fails with
// ErrTransientFailure or returns a receipt. It returns ctx.Err() if ctx ends first.
func (s *Submitter) Submit(ctx context.Context) (*Receipt, error) {
	delay, fail, hash := s.draw()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if fail {
		return nil, ErrTransientFailure
	}
	return &Receipt{
		ID:          uuid.NewString(),
		TxHash:      hash,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

func (s *Submitter) draw() (time.Duration, bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delay := s.cfg.MinDelay
	if span := s.cfg.MaxDelay - s.cfg.MinDelay; span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span)))
	}
	fail := s.rng.Float64() < s.cfg.FailureRate

	const hexDigits = "0123456789abcdef"
	var b strings.Builder
	b.Grow(66)
	b.WriteString("0x")
	for i := 0; i < 64; i++ {
		b.WriteByte(hexDigits[s.rng.Intn(16)])
	}
	return delay, fail, b.String()
}
