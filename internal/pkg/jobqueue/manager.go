package jobqueue

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PayFox/internal/pkg/config"
	"github.com/ManuelReschke/PayFox/internal/pkg/metrics"
)

const defaultStatsInterval = 30 * time.Second

// Manager owns the job queue and its background reporting
type Manager struct {
	queue         *Queue
	statsInterval time.Duration
	statsTicker   *time.Ticker
	stopCh        chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	running       bool
}

// NewManager builds the queue from the webhook settings of cfg.
func NewManager(client *redis.Client, cfg *config.Config, onDeadLetter func(job *Job)) *Manager {
	return &Manager{
		queue: NewQueue(client, Options{
			Workers:      cfg.WebhookWorkers,
			MaxRetries:   cfg.WebhookMaxRetries,
			RetryDelay:   cfg.WebhookRetryDelay,
			OnDeadLetter: onDeadLetter,
		}),
		statsInterval: defaultStatsInterval,
	}
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and the depth reporter
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue")

	m.queue.Start()

	m.statsTicker = time.NewTicker(m.statsInterval)
	m.wg.Add(1)
	go m.statsWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the depth reporter and then the queue
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue...")

	if m.statsTicker != nil {
		m.statsTicker.Stop()
	}

	close(m.stopCh)
	m.running = false
	m.wg.Wait()

	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// statsWorker publishes the list lengths as gauges
func (m *Manager) statsWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			return
		case <-m.statsTicker.C:
			if err := m.reportDepth(context.Background()); err != nil {
				log.Errorf("[JobQueue Manager] Depth report error: %v", err)
			}
		}
	}
}

func (m *Manager) reportDepth(ctx context.Context) error {
	pending, err := m.queue.GetQueueSize(ctx)
	if err != nil {
		return err
	}
	processing, err := m.queue.GetProcessingSize(ctx)
	if err != nil {
		return err
	}
	dead, err := m.queue.GetDeadLetterSize(ctx)
	if err != nil {
		return err
	}
	delayed, err := m.queue.GetDelayedSize(ctx)
	if err != nil {
		return err
	}

	metrics.QueueDepth(string(JobStatusPending), pending)
	metrics.QueueDepth(string(JobStatusProcessing), processing)
	metrics.QueueDepth(string(JobStatusDeadLetter), dead)
	metrics.QueueDepth(string(JobStatusRetrying), delayed)
	if dead > 0 {
		log.Warnf("[JobQueue Manager] %d jobs in dead letter", dead)
	}
	return nil
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
