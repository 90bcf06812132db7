package worker

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const (
	TASK_CHAN_SIZE = 100
)

// WorkerFunction handles one task. Any error it returns kills the tomb and
// with it every other worker of the pool.
type WorkerFunction = func(t *tomb.Tomb, task any) error

type Pool struct {
	n     int      // number of workers
	tasks chan any // pending tasks
	t     *tomb.Tomb
}

func NewPool(size uint) *Pool {
	if size == 0 {
		size = 1
	}
	return &Pool{
		n:     int(size),
		tasks: make(chan any, TASK_CHAN_SIZE),
	}
}

// Setup starts the workers under t. It must be called before AddTask.
func (pool *Pool) Setup(t *tomb.Tomb, work WorkerFunction) {
	pool.t = t
	for id := 0; id < pool.n; id++ {
		t.Go(func() error {
			return pool.worker(t, id, work)
		})
	}
}

// AddTask queues a task. Returns false if the pool is shutting down and the
// task was dropped.
func (pool *Pool) AddTask(task any) bool {
	select {
	case pool.tasks <- task:
		return true
	case <-pool.t.Dying():
		return false
	}
}

// Close signals that no more tasks will be added. Workers drain the queue and
// exit.
func (pool *Pool) Close() {
	close(pool.tasks)
}

// Workers wait on tasks in the queue and action them.
func (pool *Pool) worker(t *tomb.Tomb, id int, work WorkerFunction) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task, ok := <-pool.tasks:
			if !ok {
				return nil
			}
			if err := work(t, task); err != nil {
				log.Error().Err(err).Int("id", id).Msg("worker exiting")
				return err
			}
		}
	}
}
