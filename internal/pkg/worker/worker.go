package worker

import (
	"time"

	"digistore/internal/pkg/mailer"
	"digistore/pkg/logger"

	"go.uber.org/zap"
)

// MailTask is one outbound notification. Delivery is best-effort with
// bounded retries; a permanently failed task is logged and dropped.
type MailTask struct {
	To      string
	Subject string
	Body    string
	Retry   int
}

// Pool sends notification mail off the request path.
type Pool struct {
	TaskQueue  chan MailTask
	RetryQueue chan MailTask
	Mailer     mailer.Mailer
	WorkerNum  int
	MaxRetry   int
}

func NewPool(m mailer.Mailer, workerNum, bufferSize int) *Pool {
	return &Pool{
		TaskQueue:  make(chan MailTask, bufferSize),
		RetryQueue: make(chan MailTask, bufferSize/2),
		Mailer:     m,
		WorkerNum:  workerNum,
		MaxRetry:   3,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	go p.retryWorker()
	logger.Info("Notification pool started", zap.Int("workers", p.WorkerNum))
}

func (p *Pool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.Mailer.Send(task.To, task.Subject, task.Body); err != nil {
			logger.Warn("Mail delivery failed",
				zap.Int("worker", id),
				zap.String("to", task.To),
				zap.Int("attempt", task.Retry),
				zap.Error(err),
			)

			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					p.logDropped(task, "retry queue full")
				}
			} else {
				p.logDropped(task, "max retries exceeded")
			}
		}
	}
}

func (p *Pool) retryWorker() {
	for task := range p.RetryQueue {
		// backoff grows with the attempt count
		time.Sleep(time.Duration(task.Retry) * time.Second)

		select {
		case p.TaskQueue <- task:
		default:
			p.logDropped(task, "main queue full")
		}
	}
}

func (p *Pool) logDropped(task MailTask, reason string) {
	logger.Error("Notification dropped",
		zap.String("to", task.To),
		zap.String("subject", task.Subject),
		zap.String("reason", reason),
	)
}

// Enqueue adds a task without blocking the request handler.
func (p *Pool) Enqueue(task MailTask) {
	select {
	case p.TaskQueue <- task:
	default:
		p.logDropped(task, "queue full on enqueue")
	}
}
