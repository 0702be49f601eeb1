package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/metrics"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type fakeSubs struct {
	subs    []model.PushSubscription
	deleted []uuid.UUID
	err     error
}

func (f *fakeSubs) ListByUser(_ context.Context, userID uuid.UUID) ([]model.PushSubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.PushSubscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubs) DeleteByID(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type sent struct {
	endpoint string
	payload  pushPayload
	opts     webpush.Options
}

func newTestWorker(subs *fakeSubs, status map[string]int) (*NotificationWorker, *[]sent) {
	cfg := &config.Config{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv", VAPIDSubject: "mailto:ops@example.com"}
	w := NewNotificationWorker(cfg, nil, subs, zerolog.New(io.Discard))

	var calls []sent
	w.send = func(_ context.Context, message []byte, s *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
		var p pushPayload
		if err := json.Unmarshal(message, &p); err != nil {
			return nil, err
		}
		calls = append(calls, sent{endpoint: s.Endpoint, payload: p, opts: *options})

		code, ok := status[s.Endpoint]
		if !ok {
			return nil, errors.New("dial tcp: connection refused")
		}
		return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
	return w, &calls
}

func TestDeliver_SendsToEveryEndpoint(t *testing.T) {
	metrics.Init()
	user := uuid.New()
	subs := &fakeSubs{subs: []model.PushSubscription{
		{ID: uuid.New(), UserID: user, Endpoint: "https://push.example/a"},
		{ID: uuid.New(), UserID: user, Endpoint: "https://push.example/b"},
		{ID: uuid.New(), UserID: uuid.New(), Endpoint: "https://push.example/other"},
	}}
	w, calls := newTestWorker(subs, map[string]int{
		"https://push.example/a": http.StatusCreated,
		"https://push.example/b": http.StatusCreated,
	})

	before := testutil.ToFloat64(metrics.PushDeliveries.WithLabelValues("sent"))
	w.Deliver(context.Background(), &model.Notification{
		UserID: user,
		Kind:   model.NotificationRevisionRequested,
		Title:  "Revision requested",
		Body:   "Essay on tides",
	})

	if len(*calls) != 2 {
		t.Fatalf("sent %d pushes, want 2", len(*calls))
	}
	for _, c := range *calls {
		if c.payload.Kind != model.NotificationRevisionRequested || c.payload.Title != "Revision requested" {
			t.Fatalf("payload = %+v", c.payload)
		}
		if c.opts.VAPIDPrivateKey != "priv" || c.opts.Subscriber != "mailto:ops@example.com" {
			t.Fatalf("options = %+v", c.opts)
		}
	}
	if got := testutil.ToFloat64(metrics.PushDeliveries.WithLabelValues("sent")) - before; got != 2 {
		t.Fatalf("sent counter moved by %v", got)
	}
}

func TestDeliver_PrunesExpiredEndpoints(t *testing.T) {
	metrics.Init()
	user := uuid.New()
	gone, notFound, failing := uuid.New(), uuid.New(), uuid.New()
	subs := &fakeSubs{subs: []model.PushSubscription{
		{ID: gone, UserID: user, Endpoint: "https://push.example/gone"},
		{ID: notFound, UserID: user, Endpoint: "https://push.example/missing"},
		{ID: failing, UserID: user, Endpoint: "https://push.example/down"},
	}}
	w, _ := newTestWorker(subs, map[string]int{
		"https://push.example/gone":    http.StatusGone,
		"https://push.example/missing": http.StatusNotFound,
	})

	w.Deliver(context.Background(), &model.Notification{UserID: user, Kind: model.NotificationChatMessage})

	if len(subs.deleted) != 2 {
		t.Fatalf("deleted = %v", subs.deleted)
	}
	for _, id := range subs.deleted {
		if id == failing {
			t.Fatal("a transport failure must not delete the subscription")
		}
	}
}

func TestDeliver_NoSubscriptionsIsNoop(t *testing.T) {
	subs := &fakeSubs{}
	w, calls := newTestWorker(subs, nil)

	w.Deliver(context.Background(), &model.Notification{UserID: uuid.New()})
	if len(*calls) != 0 {
		t.Fatal("nothing should be sent")
	}

	subs.err = errors.New("db down")
	w.Deliver(context.Background(), &model.Notification{UserID: uuid.New()})
	if len(*calls) != 0 {
		t.Fatal("nothing should be sent when the lookup fails")
	}
}

func TestNextBackoff(t *testing.T) {
	lo, hi := 100*time.Millisecond, time.Second
	tests := []struct{ prev, want time.Duration }{
		{0, lo},
		{lo, 200 * time.Millisecond},
		{400 * time.Millisecond, 800 * time.Millisecond},
		{800 * time.Millisecond, hi},
		{hi, hi},
	}
	for _, tt := range tests {
		if got := nextBackoff(tt.prev, lo, hi); got != tt.want {
			t.Errorf("nextBackoff(%v) = %v, want %v", tt.prev, got, tt.want)
		}
	}
}

// countingWriter counts log lines containing a marker.
type countingWriter struct {
	marker string
	n      int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if strings.Contains(string(p), c.marker) {
		c.n++
	}
	return len(p), nil
}

func TestStart_BacksOffWhileRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	defer rdb.Close()

	logs := &countingWriter{marker: "BLPop error"}
	w := NewNotificationWorker(&config.Config{}, rdb, &fakeSubs{}, zerolog.New(logs))
	w.minBackoff = 40 * time.Millisecond
	w.maxBackoff = 80 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after the context ended")
	}

	// 300ms at 40ms, 80ms, 80ms... allows a handful of attempts, not a spin.
	if logs.n == 0 || logs.n > 8 {
		t.Fatalf("logged %d queue errors in 300ms", logs.n)
	}
}
