package jobs

import (
	"context"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/pkg/logger"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BanExpirer lifts expired bans. ModerationService implements it.
type BanExpirer interface {
	ExpireBan(ctx context.Context, kind models.SubjectKind, id primitive.ObjectID) error
	ExpireBans(ctx context.Context) (int, error)
}

type WorkerOptions struct {
	Concurrency   int
	Queue         string
	SweepInterval time.Duration
}

// Worker processes ban tasks and registers the periodic sweep.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	opts      WorkerOptions
	logger    *logger.Logger
}

func NewWorker(redis asynq.RedisConnOpt, opts WorkerOptions, expirer BanExpirer, log *logger.Logger) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.Queue == "" {
		opts.Queue = defaultQueue
	}

	adapter := &asynqLogger{log: log.WithField("component", "worker")}
	server := asynq.NewServer(redis, asynq.Config{
		Concurrency: opts.Concurrency,
		Queues:      map[string]int{opts.Queue: 1},
		Logger:      adapter,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.WithError(err).WithField("task_type", task.Type()).Error("Background task failed")
		}),
	})

	var scheduler *asynq.Scheduler
	if opts.SweepInterval > 0 {
		scheduler = asynq.NewScheduler(redis, &asynq.SchedulerOpts{Logger: adapter, Location: time.UTC})
	}

	return &Worker{
		server:    server,
		scheduler: scheduler,
		mux:       NewServeMux(expirer, log),
		opts:      opts,
		logger:    log,
	}
}

// NewServeMux routes the moderation task types to expirer.
func NewServeMux(expirer BanExpirer, log *logger.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBanExpiry, handleBanExpiry(expirer, log))
	mux.HandleFunc(TypeBanSweep, handleBanSweep(expirer, log))
	return mux
}

func (w *Worker) Start() error {
	if w.scheduler != nil {
		task, opts := NewBanSweepTask(w.opts.Queue)
		spec := fmt.Sprintf("@every %s", w.opts.SweepInterval)
		if _, err := w.scheduler.Register(spec, task, opts...); err != nil {
			return fmt.Errorf("failed to register ban sweep: %w", err)
		}
		if err := w.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	w.logger.WithFields(map[string]interface{}{
		"queue":          w.opts.Queue,
		"concurrency":    w.opts.Concurrency,
		"sweep_interval": w.opts.SweepInterval.String(),
	}).Info("Background worker started")
	return nil
}

func (w *Worker) Shutdown() {
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
	w.logger.Info("Background worker stopped")
}

func handleBanExpiry(expirer BanExpirer, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, id, err := parseBanExpiry(task)
		if err != nil {
			log.WithError(err).Warn("Dropping ban expiry task")
			return err
		}
		if err := expirer.ExpireBan(ctx, p.Kind, id); err != nil {
			return fmt.Errorf("failed to expire %s ban %s: %w", p.Kind, p.SubjectID, err)
		}
		return nil
	}
}

func handleBanSweep(expirer BanExpirer, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		lifted, err := expirer.ExpireBans(ctx)
		if lifted > 0 {
			log.WithField("lifted", lifted).Info("Expired bans lifted")
		}
		if err != nil {
			return fmt.Errorf("ban sweep stopped after %d: %w", lifted, err)
		}
		return nil
	}
}

// asynqLogger routes asynq's internal logging through the application logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.log.Fatal(fmt.Sprint(args...)) }
