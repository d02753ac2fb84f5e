package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key prefixes
	JobKeyPrefix     = "job:"
	JobQueueKey      = "job_queue"
	JobProcessingKey = "job_processing"
	JobStatsKey      = "job_stats"
	JobDeadLetterKey = "job_dead_letter"
	// sorted set of jobs waiting for their retry, scored by due time in ms
	JobDelayedKey = "job_delayed"

	// Job settings
	DefaultWorkers    = 3
	DefaultMaxRetries = 3
	DefaultRetryDelay = 30 * time.Second
	JobTTL            = 24 * time.Hour // Jobs expire after 24 hours
	DeadLetterTTL     = 7 * 24 * time.Hour
	DeadLetterLimit   = 1000

	defaultStuckAfter    = 10 * time.Minute
	defaultSweepInterval = time.Minute

	defaultPromoteInterval = time.Second
	promoteBatch           = 100
)

// promoteScript moves due members of the delayed set onto the pending list
// in one step, so a crash never leaves a job in neither.
var promoteScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, id in ipairs(ids) do
	redis.call('ZREM', KEYS[1], id)
	redis.call('LPUSH', KEYS[2], id)
end
return #ids
`)

// Handler processes one job. Returning an error wrapped with Permanent skips
// the remaining retries.
type Handler func(ctx context.Context, job *Job) error

// Options configures a Queue. Zero values fall back to the defaults above.
type Options struct {
	Workers       int
	MaxRetries    int
	RetryDelay    time.Duration
	StuckAfter    time.Duration
	SweepInterval time.Duration
	// PromoteInterval is how often due retries are moved back to the queue.
	PromoteInterval time.Duration
	// OnDeadLetter is called after a job has been parked in the dead-letter list.
	OnDeadLetter func(job *Job)
}

// Queue manages background jobs using Redis
type Queue struct {
	client     *redis.Client
	opts       Options
	workers    int
	workerPool chan struct{}
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool

	handlersMu sync.RWMutex
	handlers   map[JobType]Handler
}

// NewQueue creates a new job queue on the given redis client
func NewQueue(client *redis.Client, opts Options) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.StuckAfter <= 0 {
		opts.StuckAfter = defaultStuckAfter
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.PromoteInterval <= 0 {
		opts.PromoteInterval = defaultPromoteInterval
	}

	return &Queue{
		client:     client,
		opts:       opts,
		workers:    opts.Workers,
		workerPool: make(chan struct{}, opts.Workers),
		stopCh:     make(chan struct{}),
		handlers:   make(map[JobType]Handler),
	}
}

// RegisterHandler sets the handler for a job type. Register before Start.
func (q *Queue) RegisterHandler(jobType JobType, h Handler) {
	q.handlersMu.Lock()
	defer q.handlersMu.Unlock()
	q.handlers[jobType] = h
}

func (q *Queue) handlerFor(jobType JobType) (Handler, bool) {
	q.handlersMu.RLock()
	defer q.handlersMu.RUnlock()
	h, ok := q.handlers[jobType]
	return h, ok
}

// Start starts the job queue workers
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}

	q.stopCh = make(chan struct{})
	q.running = true
	log.Infof("[JobQueue] Starting %d workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.workerPool <- struct{}{}
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	// Recovers jobs stuck in processing after a crash
	q.wg.Add(1)
	go q.stuckSweeper(q.opts.StuckAfter, q.opts.SweepInterval)

	// Retries scheduled before a restart are picked up here as well
	q.wg.Add(1)
	go q.delayedPromoter(q.opts.PromoteInterval)
}

// Stop stops the job queue workers and waits for running jobs to finish
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}

	log.Info("[JobQueue] Stopping workers...")
	close(q.stopCh)
	q.running = false
	q.wg.Wait()

	// drain the slots so a later Start begins from an empty pool
	for len(q.workerPool) > 0 {
		<-q.workerPool
	}
	log.Info("[JobQueue] All workers stopped")
}

// IsRunning returns whether the workers are currently running
func (q *Queue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// stuckSweeper periodically scans the processing list and requeues jobs stuck for longer than maxAge
func (q *Queue) stuckSweeper(maxAge time.Duration, interval time.Duration) {
	defer q.wg.Done()
	log.Infof("[JobQueue] Stuck sweeper running (maxAge=%s, interval=%s)", maxAge, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ctx := context.Background()
	for {
		select {
		case <-q.stopCh:
			log.Info("[JobQueue] Stuck sweeper stopping")
			return
		case <-ticker.C:
			if n := q.sweepStuck(ctx, maxAge, time.Now()); n > 0 {
				log.Warnf("[JobQueue] Recovered %d stuck jobs", n)
			}
		}
	}
}

// delayedPromoter periodically moves due retries back to the pending list
func (q *Queue) delayedPromoter(interval time.Duration) {
	defer q.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ctx := context.Background()
	for {
		select {
		case <-q.stopCh:
			return
		case <-ticker.C:
			if n := q.promoteDue(ctx, time.Now()); n > 0 {
				log.Debugf("[JobQueue] Requeued %d delayed jobs", n)
			}
		}
	}
}

// promoteDue requeues delayed jobs due at or before now and returns how many
// were moved.
func (q *Queue) promoteDue(ctx context.Context, now time.Time) int {
	n, err := promoteScript.Run(ctx, q.client, []string{JobDelayedKey, JobQueueKey}, now.UnixMilli(), promoteBatch).Int()
	if err != nil {
		log.Errorf("[JobQueue] Failed to promote delayed jobs: %v", err)
		return 0
	}
	return n
}

// sweepStuck requeues pending or processing jobs older than maxAge that sit
// in the processing list, and drops entries of settled jobs. It returns the
// number of recovered jobs.
func (q *Queue) sweepStuck(ctx context.Context, maxAge time.Duration, now time.Time) int {
	ids, err := q.client.LRange(ctx, JobProcessingKey, 0, -1).Result()
	if err != nil {
		log.Errorf("[JobQueue] Sweeper LRange error: %v", err)
		return 0
	}

	recovered := 0
	for _, id := range ids {
		data, err := q.client.Get(ctx, JobKeyPrefix+id).Result()
		if err != nil {
			if err != redis.Nil {
				log.Errorf("[JobQueue] Sweeper Get error for %s: %v", id, err)
			}
			_ = q.client.LRem(ctx, JobProcessingKey, 1, id).Err()
			continue
		}
		var job Job
		if uerr := json.Unmarshal([]byte(data), &job); uerr != nil {
			log.Errorf("[JobQueue] Sweeper unmarshal error for %s: %v", id, uerr)
			_ = q.client.LRem(ctx, JobProcessingKey, 1, id).Err()
			continue
		}
		// a pending record here was dequeued but not yet marked as processing
		if job.Status != JobStatusProcessing && job.Status != JobStatusPending {
			_ = q.client.LRem(ctx, JobProcessingKey, 1, id).Err()
			continue
		}

		started := job.UpdatedAt
		if job.ProcessedAt != nil && !job.ProcessedAt.IsZero() {
			started = *job.ProcessedAt
		}
		if started.IsZero() {
			started = job.CreatedAt
		}
		if now.Sub(started) <= maxAge {
			continue
		}

		log.Warnf("[JobQueue] Recovering stuck job %s (type=%s), age=%s", job.ID, job.Type, now.Sub(started))
		job.Status = JobStatusPending
		job.ErrorMsg = "recovered by sweeper"
		job.UpdatedAt = now
		q.updateJob(ctx, &job)
		_ = q.client.LRem(ctx, JobProcessingKey, 1, id).Err()
		_ = q.client.RPush(ctx, JobQueueKey, id).Err()
		recovered++
	}
	return recovered
}

// worker processes jobs from the queue
func (q *Queue) worker(id int) {
	defer q.wg.Done()
	log.Infof("[JobQueue] Worker %d started", id)

	ctx := context.Background()

	for {
		select {
		case <-q.stopCh:
			log.Infof("[JobQueue] Worker %d stopping", id)
			return
		default:
			<-q.workerPool

			job, err := q.dequeueJob(ctx)
			if err != nil {
				if err != redis.Nil {
					log.Errorf("[JobQueue] Worker %d: Error dequeuing job: %v", id, err)
					time.Sleep(time.Second)
				}
				q.workerPool <- struct{}{}
				continue
			}

			if job != nil {
				log.Debugf("[JobQueue] Worker %d processing job %s (Type: %s)", id, job.ID, job.Type)
				q.processJob(ctx, job)
			}

			q.workerPool <- struct{}{}
		}
	}
}

// EnqueueJob adds a new job to the queue
func (q *Queue) EnqueueJob(ctx context.Context, jobType JobType, payload map[string]interface{}) (*Job, error) {
	now := time.Now()
	job := &Job{
		ID:         uuid.New().String(),
		Type:       jobType,
		Status:     JobStatusPending,
		Payload:    payload,
		CreatedAt:  now,
		UpdatedAt:  now,
		RetryCount: 0,
		MaxRetries: q.opts.MaxRetries,
	}

	jobData, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, JobKeyPrefix+job.ID, jobData, JobTTL)
	pipe.LPush(ctx, JobQueueKey, job.ID)
	pipe.HIncrBy(ctx, JobStatsKey, string(JobStatusPending), 1)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	log.Debugf("[JobQueue] Enqueued job %s (Type: %s)", job.ID, job.Type)
	return job, nil
}

// dequeueJob gets the next job from the queue
func (q *Queue) dequeueJob(ctx context.Context) (*Job, error) {
	// Move job from pending queue to processing queue atomically
	jobID, err := q.client.BRPopLPush(ctx, JobQueueKey, JobProcessingKey, time.Second).Result()
	if err != nil {
		return nil, err
	}

	jobData, err := q.client.Get(ctx, JobKeyPrefix+jobID).Result()
	if err != nil {
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		return nil, fmt.Errorf("job data not found for ID %s", jobID)
	}

	var job Job
	if err := json.Unmarshal([]byte(jobData), &job); err != nil {
		q.client.LRem(ctx, JobProcessingKey, 1, jobID)
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", jobID, err)
	}

	return &job, nil
}

// processJob runs the registered handler and settles the job: completed,
// scheduled for retry, or dead-lettered.
func (q *Queue) processJob(ctx context.Context, job *Job) {
	job.MarkAsProcessing()
	q.updateJob(ctx, job)

	var err error
	if h, ok := q.handlerFor(job.Type); ok {
		err = h(ctx, job)
	} else {
		err = Permanent(fmt.Errorf("unknown job type: %s", job.Type))
	}

	defer q.removeFromProcessing(ctx, job.ID)

	if err == nil {
		log.Debugf("[JobQueue] Job %s completed successfully", job.ID)
		job.MarkAsCompleted()
		q.updateJobStats(ctx, JobStatusCompleted, 1)
		q.removeCompletedJob(ctx, job.ID)
		return
	}

	log.Errorf("[JobQueue] Job %s failed: %v", job.ID, err)
	job.MarkAsFailed(err.Error())

	if !IsPermanent(err) && job.IsRetryable() {
		delay := q.retryDelay(job.RetryCount)
		log.Infof("[JobQueue] Retrying job %s in %s (Attempt %d/%d)", job.ID, delay, job.RetryCount, job.MaxRetries)
		job.MarkAsRetrying()
		if err := q.scheduleRetry(ctx, job, time.Now().Add(delay)); err != nil {
			log.Errorf("[JobQueue] Failed to schedule retry of job %s: %v", job.ID, err)
		}
		return
	}

	q.deadLetter(ctx, job)
}

// scheduleRetry stores the job record, adds it to the delayed set and takes
// it off the processing list in one transaction. The entry survives restarts
// and is requeued by the promoter once due.
func (q *Queue) scheduleRetry(ctx context.Context, job *Job, due time.Time) error {
	jobData, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, JobKeyPrefix+job.ID, jobData, JobTTL)
		pipe.ZAdd(ctx, JobDelayedKey, redis.Z{Score: float64(due.UnixMilli()), Member: job.ID})
		pipe.LRem(ctx, JobProcessingKey, 1, job.ID)
		return nil
	})
	return err
}

// retryDelay doubles the base delay for every attempt already made.
func (q *Queue) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return q.opts.RetryDelay * time.Duration(1<<uint(attempt-1))
}

// deadLetter parks a job in the dead-letter list and keeps its record for
// DeadLetterTTL.
func (q *Queue) deadLetter(ctx context.Context, job *Job) {
	job.MarkAsDeadLetter(job.ErrorMsg)
	log.Errorf("[JobQueue] Job %s moved to dead letter after %d attempts: %s", job.ID, job.RetryCount, job.ErrorMsg)

	jobData, err := json.Marshal(job)
	if err != nil {
		log.Errorf("[JobQueue] Failed to marshal job %s: %v", job.ID, err)
		return
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, JobKeyPrefix+job.ID, jobData, DeadLetterTTL)
	pipe.LPush(ctx, JobDeadLetterKey, job.ID)
	pipe.LTrim(ctx, JobDeadLetterKey, 0, DeadLetterLimit-1)
	pipe.HIncrBy(ctx, JobStatsKey, string(JobStatusDeadLetter), 1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Errorf("[JobQueue] Failed to dead-letter job %s: %v", job.ID, err)
		return
	}

	if q.opts.OnDeadLetter != nil {
		q.opts.OnDeadLetter(job)
	}
}

// updateJob updates job data in Redis
func (q *Queue) updateJob(ctx context.Context, job *Job) {
	jobData, err := json.Marshal(job)
	if err != nil {
		log.Errorf("[JobQueue] Failed to marshal job %s: %v", job.ID, err)
		return
	}

	if err := q.client.Set(ctx, JobKeyPrefix+job.ID, jobData, JobTTL).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to update job %s: %v", job.ID, err)
	}
}

// removeFromProcessing removes a job from the processing queue
func (q *Queue) removeFromProcessing(ctx context.Context, jobID string) {
	if err := q.client.LRem(ctx, JobProcessingKey, 1, jobID).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to remove job %s from processing queue: %v", jobID, err)
	}
}

// removeCompletedJob completely removes a completed job from Redis
func (q *Queue) removeCompletedJob(ctx context.Context, jobID string) {
	if err := q.client.Del(ctx, JobKeyPrefix+jobID).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to remove completed job %s from Redis: %v", jobID, err)
	}
}

// updateJobStats updates job statistics
func (q *Queue) updateJobStats(ctx context.Context, status JobStatus, delta int64) {
	if err := q.client.HIncrBy(ctx, JobStatsKey, string(status), delta).Err(); err != nil {
		log.Errorf("[JobQueue] Failed to update job stats: %v", err)
	}
}

// GetJob retrieves a job by ID
func (q *Queue) GetJob(ctx context.Context, jobID string) (*Job, error) {
	jobData, err := q.client.Get(ctx, JobKeyPrefix+jobID).Result()
	if err != nil {
		return nil, err
	}

	var job Job
	if err := json.Unmarshal([]byte(jobData), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

// DeadLetters returns up to limit dead-lettered jobs, newest first. Entries
// whose record has expired are skipped.
func (q *Queue) DeadLetters(ctx context.Context, limit int64) ([]*Job, error) {
	if limit <= 0 {
		limit = DeadLetterLimit
	}
	ids, err := q.client.LRange(ctx, JobDeadLetterKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	jobs := make([]*Job, 0, len(ids))
	for _, id := range ids {
		job, err := q.GetJob(ctx, id)
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// GetJobStats returns statistics about job statuses
func (q *Queue) GetJobStats(ctx context.Context) (map[JobStatus]int64, error) {
	stats, err := q.client.HGetAll(ctx, JobStatsKey).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[JobStatus]int64)
	for status, count := range stats {
		if countInt, err := json.Number(count).Int64(); err == nil {
			result[JobStatus(status)] = countInt
		}
	}

	return result, nil
}

// GetQueueSize returns the number of pending jobs
func (q *Queue) GetQueueSize(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, JobQueueKey).Result()
}

// GetProcessingSize returns the number of jobs being processed
func (q *Queue) GetProcessingSize(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, JobProcessingKey).Result()
}

// GetDelayedSize returns the number of jobs waiting for a retry
func (q *Queue) GetDelayedSize(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, JobDelayedKey).Result()
}

// GetDeadLetterSize returns the number of dead-lettered jobs
func (q *Queue) GetDeadLetterSize(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, JobDeadLetterKey).Result()
}
