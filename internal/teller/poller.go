package teller

import (
	"context"
	"errors"
	"time"

	"github.com/cleared-dev/ledgerview/internal/model"
)

// DefaultPollInterval is how often a Poller refreshes when none is set.
const DefaultPollInterval = 30 * time.Second

// Poller refreshes one account on a fixed interval until its context ends.
type Poller struct {
	Service  *Service
	Account  model.AccountType
	Interval time.Duration
	OnUpdate func(Snapshot) // called after every published refresh
	OnError  func(error)    // optional; superseded refreshes are not reported
}

// Run refreshes immediately and then on every tick. It returns nil when ctx
// is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	p.poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snap, err := p.Service.Refresh(ctx, p.Account)
	switch {
	case err == nil:
		if p.OnUpdate != nil {
			p.OnUpdate(snap)
		}
	case errors.Is(err, ErrSuperseded), ctx.Err() != nil:
	case p.OnError != nil:
		p.OnError(err)
	}
}
