package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
)

// Config controls a simulation run.
type Config struct {
	BaseURL  string
	Visitors int
	Workers  int
	Timeout  time.Duration
	TopN     int
	Seed     int64

	// Logger receives run progress; nil discards it.
	Logger logger.Logger
}

// Stats aggregates the run's outcomes.
type Stats struct {
	mu sync.Mutex

	Completed int
	Undefined int
	Failed    int
	Primary   map[string]int

	StartTime time.Time
	Duration  time.Duration
}

func (s *Stats) record(category string, undefined bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed++
	if undefined {
		s.Undefined++
		return
	}
	if s.Primary == nil {
		s.Primary = make(map[string]int)
	}
	s.Primary[category]++
}

func (s *Stats) fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed++
}

// Run drives Config.Visitors simulated sessions against the service and
// cross-checks the aggregate style ranking afterwards.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	stats := &Stats{StartTime: time.Now()}

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	log.Info(ctx, "starting simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("visitors", cfg.Visitors),
		logger.Int("workers", cfg.Workers),
	)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(worker)))
			for i := range jobs {
				if err := runVisitor(ctx, client, rng, fmt.Sprintf("visitor-%d", i), stats); err != nil {
					stats.fail()
					log.Warn(ctx, "visitor failed", logger.Int("visitor", i), logger.Error(err))
				}
			}
		}(w)
	}

	for i := 0; i < cfg.Visitors; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return stats, fmt.Errorf("simulation interrupted: %w", ctx.Err())
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	stats.Duration = time.Since(stats.StartTime)

	if err := verifyRanking(ctx, client, cfg, stats); err != nil {
		return stats, err
	}

	log.Info(ctx, "simulation finished",
		logger.Int("completed", stats.Completed),
		logger.Int("undefined", stats.Undefined),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
	)
	return stats, nil
}

// runVisitor walks one session from name submission to result.
func runVisitor(ctx context.Context, client *Client, rng *rand.Rand, name string, stats *Stats) error {
	snap, err := client.CreateSession(ctx, name)
	if err != nil {
		return err
	}
	id := snap.ID

	// Bounded walk; a healthy catalog finishes far earlier.
	for step := 0; step < 1000; step++ {
		switch snap.Phase {
		case "normal", "strategic":
			snap, err = answerActive(ctx, client, rng, snap)
			if err != nil {
				return err
			}
		case "main_transition":
			snap, err = client.Confirm(ctx, id)
			if err != nil {
				return err
			}
		case "final_transition":
			res, err := client.SeeResult(ctx, id)
			if err != nil {
				return err
			}
			if res.Undefined {
				stats.record("", true)
			} else {
				stats.record(res.Result.PrimaryStyle.Category, false)
			}
			return nil
		default:
			return fmt.Errorf("session %s stuck in phase %q", id, snap.Phase)
		}
	}
	return fmt.Errorf("session %s did not finish", id)
}

// answerActive picks the required number of random options on the active
// question and advances past it.
func answerActive(ctx context.Context, client *Client, rng *rand.Rand, snap snapshot) (snapshot, error) {
	q := snap.ActiveQuestion
	if q == nil {
		return snap, fmt.Errorf("session %s: no active question in phase %s", snap.ID, snap.Phase)
	}

	required := 1
	if q.Kind == "normal" {
		required = 3
		if q.SelectionCount > 0 {
			required = q.SelectionCount
		}
	}

	picks := rng.Perm(len(q.Options))[:required]
	var last selectResult
	for _, p := range picks {
		res, err := client.Select(ctx, snap.ID, q.ID, q.Options[p].ID)
		if err != nil {
			return snap, err
		}
		last = res
	}

	if last.AutoAdvance {
		// Let the server's own timer move the session, then re-read.
		return waitForAdvance(ctx, client, snap.ID, q.ID)
	}
	return client.Next(ctx, snap.ID)
}

// waitForAdvance polls until the auto-advance timer has moved the session off
// questionID.
func waitForAdvance(ctx context.Context, client *Client, id, questionID string) (snapshot, error) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return snapshot{}, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
		snap, err := client.Session(ctx, id)
		if err != nil {
			return snapshot{}, err
		}
		if snap.ActiveQuestion == nil || snap.ActiveQuestion.ID != questionID {
			return snap, nil
		}
	}
	return snapshot{}, fmt.Errorf("session %s: auto-advance never fired on %s", id, questionID)
}

// verifyRanking compares the service's top-style ranking with the locally
// observed primary distribution.
func verifyRanking(ctx context.Context, client *Client, cfg *Config, stats *Stats) error {
	counts, err := client.TopStyles(ctx, cfg.TopN)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}

	stats.mu.Lock()
	local := make(map[string]int, len(stats.Primary))
	for k, v := range stats.Primary {
		local[k] = v
	}
	stats.mu.Unlock()

	for _, c := range counts {
		// Other clients may be running concurrently; the service count
		// must be at least what this run contributed.
		if c.Sessions < local[c.Category] {
			return fmt.Errorf("ranking mismatch for %q: service=%d local=%d", c.Category, c.Sessions, local[c.Category])
		}
		delete(local, c.Category)
	}

	// With fewer entries than the requested cap the ranking is complete, so
	// every locally observed category must appear in it.
	if len(counts) < cfg.TopN && len(local) > 0 {
		missing := make([]string, 0, len(local))
		for k := range local {
			missing = append(missing, k)
		}
		sort.Strings(missing)
		return fmt.Errorf("ranking missing categories: %v", missing)
	}
	return nil
}
