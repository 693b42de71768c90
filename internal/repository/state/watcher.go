package state

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Watcher listens for state-change notifications and fans them out to a
// callback. It is the cross-process analog of another browser tab's storage
// event: a second instance setting the completion flag must reach this one.
type Watcher struct {
	pool    *pgxpool.Pool
	logger  *log.Logger
	handler func(ctx context.Context, op, key string)
}

func NewWatcher(pool *pgxpool.Pool, logger *log.Logger, handler func(ctx context.Context, op, key string)) *Watcher {
	return &Watcher{pool: pool, logger: logger, handler: handler}
}

// Run blocks on the notification channel until the context is canceled,
// reacquiring the listening connection after failures.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if err := w.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Printf("state listener lost, retrying: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (w *Watcher) listen(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("listen on %s: %w", NotifyChannel, err)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		op, key, ok := parsePayload(notification.Payload)
		if !ok {
			w.logger.Printf("ignoring malformed state notification %q", notification.Payload)
			continue
		}
		w.handler(ctx, op, key)
	}
}

func parsePayload(payload string) (op, key string, ok bool) {
	op, key, found := strings.Cut(payload, ":")
	if !found || key == "" {
		return "", "", false
	}
	if op != "set" && op != "del" {
		return "", "", false
	}
	return op, key, true
}
