// internal/common/database/health.go
package database

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pinger is satisfied by every backing store the workers depend on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check names one dependency pinged by readiness and startup.
type Check struct {
	Name   string
	Pinger Pinger
}

// Report maps a check name to its ping error; nil means healthy.
type Report map[string]error

func (r Report) Healthy() bool {
	for _, err := range r {
		if err != nil {
			return false
		}
	}
	return true
}

// Statuses renders the report for a JSON body.
func (r Report) Statuses() map[string]string {
	out := make(map[string]string, len(r))
	for name, err := range r {
		if err != nil {
			out[name] = err.Error()
			continue
		}
		out[name] = "ok"
	}
	return out
}

// CheckAll pings every dependency concurrently. A failing check never
// cancels the others so the report is always complete.
func CheckAll(ctx context.Context, checks ...Check) Report {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		report = make(Report, len(checks))
	)
	for _, c := range checks {
		c := c
		g.Go(func() error {
			err := c.Pinger.Ping(ctx)
			mu.Lock()
			report[c.Name] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return report
}
