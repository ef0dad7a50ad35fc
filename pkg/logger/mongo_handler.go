package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogDocument is one log record as stored in the logs collection.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Service   string    `bson:"service"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// logTTL is how long Mongo keeps a record before its TTL index expires it.
const logTTL = 30 * 24 * time.Hour

// secretKeys never reach Mongo; any attribute whose key contains one is
// replaced by "[redacted]".
var secretKeys = []string{"password", "private_key", "privatekey", "token", "secret"}

// shipper batches documents to Mongo from one goroutine. A full queue drops
// records rather than block the caller.
type shipper struct {
	insert  func(ctx context.Context, docs []any) error
	queue   chan LogDocument
	batch   int
	every   time.Duration
	dropped atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}
}

func newShipper(insert func(context.Context, []any) error, queue, batch int, every time.Duration) *shipper {
	s := &shipper{
		insert:  insert,
		queue:   make(chan LogDocument, queue),
		batch:   batch,
		every:   every,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *shipper) push(doc LogDocument) {
	select {
	case s.queue <- doc:
	default:
		s.dropped.Add(1)
	}
}

func (s *shipper) run() {
	defer close(s.stopped)
	tick := time.NewTicker(s.every)
	defer tick.Stop()

	pending := make([]any, 0, s.batch)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = s.insert(ctx, pending)
		cancel()
		pending = make([]any, 0, s.batch)
	}

	for {
		select {
		case doc := <-s.queue:
			if pending = append(pending, doc); len(pending) >= s.batch {
				flush()
			}
		case <-tick.C:
			flush()
		case <-s.stop:
			for {
				select {
				case doc := <-s.queue:
					pending = append(pending, doc)
				default:
					flush()
					return
				}
			}
		}
	}
}

// close ships what is queued and waits for the last insert.
func (s *shipper) close() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.stopped
}

// MongoHandler is a slog.Handler that ships Info and above to MongoDB. The
// request_id attribute becomes a top-level field so one request's lines
// can be found with a single indexed query.
type MongoHandler struct {
	ship   *shipper
	attrs  []slog.Attr
	prefix string
	done   func()
}

// NewMongoHandler connects to uri, ensures the TTL index on
// db.collection and starts shipping. Close flushes and disconnects.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(4))
	if err != nil {
		return nil, fmt.Errorf("mongo logs: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo logs: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32(logTTL.Seconds()))},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo logs: indexes: %w", err)
	}

	insert := func(ctx context.Context, docs []any) error {
		_, err := col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
		return err
	}
	h := &MongoHandler{ship: newShipper(insert, 4096, 50, 2*time.Second)}
	h.done = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return h, nil
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelInfo }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	doc := LogDocument{
		Time:    r.Time.UTC(),
		Level:   r.Level.String(),
		Service: "agromart",
		Msg:     r.Message,
		Attrs:   bson.M{},
	}
	put := func(key string, v slog.Value) {
		switch {
		case key == "request_id":
			doc.RequestID = v.String()
		case secret(key):
			doc.Attrs[key] = "[redacted]"
		default:
			doc.Attrs[key] = plain(v)
		}
	}
	for _, a := range h.attrs {
		put(a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(h.prefix+a.Key, a.Value)
		return true
	})

	h.ship.push(doc)
	return nil
}

// WithAttrs stores attrs with the current group prefix already applied.
func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &c
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// Dropped counts records lost to a full queue.
func (h *MongoHandler) Dropped() int64 { return h.ship.dropped.Load() }

// Close flushes queued records and disconnects. It is safe to call twice.
func (h *MongoHandler) Close() {
	h.ship.close()
	if h.done != nil {
		h.done()
	}
}

func secret(key string) bool {
	k := strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// plain turns a value into something BSON encodes readably.
func plain(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC()
	case slog.KindGroup:
		m := bson.M{}
		for _, a := range v.Group() {
			m[a.Key] = plain(a.Value)
		}
		return m
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.Any()
	}
}

// tee sends each record to every handler that wants it.
type tee []slog.Handler

func (t tee) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
