package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/spetersoncode/cyclegraph/internal/ctxlog"
	"github.com/spetersoncode/cyclegraph/internal/retry"
)

// ErrSourceUnavailable is returned when a mock source keeps failing after
// all retry attempts.
var ErrSourceUnavailable = errors.New("automation: source unavailable")

// Desktop applications reported by the mock activity tracker.
const (
	AppReportGeneration = "report_generation"
	AppDataEntry        = "data_entry"
	AppEmailResponse    = "email_response"
)

var desktopApps = []string{AppReportGeneration, AppDataEntry, AppEmailResponse}

// between returns a random int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func mockCRM(rng *rand.Rand) CRMData {
	return CRMData{
		Sales:  between(rng, 10, 50),
		Orders: between(rng, 5, 20),
	}
}

func mockDesktop(rng *rand.Rand) DesktopActivity {
	return DesktopActivity{
		ActiveApp:   desktopApps[rng.Intn(len(desktopApps))],
		DurationMin: between(rng, 5, 120),
	}
}

func mockCustomerService(rng *rand.Rand) CustomerService {
	return CustomerService{
		Tickets:      between(rng, 1, 10),
		ResponseTime: 0.5 + rng.Float64()*1.5,
	}
}

// fetch reads one source, simulating transient failures and retrying them.
func fetch[T any](ctx context.Context, o *Options, rng *rand.Rand, name string, read func(*rand.Rand) T) (T, error) {
	log := ctxlog.FromContext(ctx)

	cfg := o.SourceRetry
	cfg.Rand = rng
	hook := func(attempt int, delay time.Duration, err error) {
		log.Warn("source read failed, retrying", "source", name, "attempt", attempt, "delay_ms", delay.Milliseconds(), ctxlog.Error(err))
	}

	v, err := retry.DoWithHook(ctx, cfg, hook, func() (T, error) {
		if o.SourceFailureRate > 0 && rng.Float64() < o.SourceFailureRate {
			var zero T
			return zero, retry.Transient(fmt.Errorf("%w: %s", ErrSourceUnavailable, name))
		}
		return read(rng), nil
	})
	if err != nil {
		return v, fmt.Errorf("read %s: %w", name, err)
	}
	return v, nil
}
