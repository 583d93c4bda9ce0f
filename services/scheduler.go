// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartLeaderboardScheduler refreshes the cached leaderboard every interval.
// The caller shuts the returned scheduler down.
func StartLeaderboardScheduler(lb *LeaderboardService, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			entries, err := lb.Refresh(ctx)
			if err != nil {
				log.Printf("[Scheduler] leaderboard refresh failed: %v", err)
				return
			}
			log.Printf("[Scheduler] leaderboard refreshed (%d entries)", len(entries))
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
