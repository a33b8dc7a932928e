// Package mongo reads events from a MongoDB collection.
//
// Documents carry at least title, start and end; start and end are BSON
// dates. Any _id type is accepted and rendered as a string:
//
//	{ "_id": ObjectId("..."), "title": "Standup", "calendar": "team",
//	  "start": ISODate("2024-03-04T09:00:00Z"), "end": ISODate("2024-03-04T09:15:00Z") }
//
// An index on {start: 1, end: 1} keeps window queries cheap; [Source.EnsureIndex]
// creates it.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/dayview/pkg/event"
)

// Defaults applied by [Connect].
const (
	DefaultDatabase   = "dayview"
	DefaultCollection = "events"
	connectTimeout    = 10 * time.Second
)

// Config locates the collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Source queries one collection. It is safe for concurrent use.
type Source struct {
	client *driver.Client
	coll   *driver.Collection
	name   string
}

// Connect dials MongoDB and pings it.
func Connect(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: empty URI")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := driver.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return &Source{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		name:   cfg.Database + "." + cfg.Collection,
	}, nil
}

// Name identifies the source in logs.
func (s *Source) Name() string { return "mongo:" + s.name }

// Close disconnects the client.
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Events returns the events intersecting [from, to), sorted by start.
func (s *Source) Events(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}, {Key: "end", Value: -1}})
	cur, err := s.coll.Find(ctx, windowFilter(from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode: %w", err)
	}
	out := make([]event.Event, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.event())
	}
	return out, nil
}

// Upsert writes events keyed by ID. Events without an ID get one first.
func (s *Source) Upsert(ctx context.Context, events []event.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	event.AssignIDs(events)

	models := make([]driver.WriteModel, 0, len(events))
	for _, e := range events {
		models = append(models, driver.NewReplaceOneModel().
			SetFilter(bson.M{"_id": e.ID}).
			SetReplacement(fromEvent(e)).
			SetUpsert(true))
	}
	res, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("mongo: bulk write: %w", err)
	}
	return int(res.UpsertedCount + res.ModifiedCount), nil
}

// EnsureIndex creates the {start, end} index used by Events.
func (s *Source) EnsureIndex(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, driver.IndexModel{
		Keys: bson.D{{Key: "start", Value: 1}, {Key: "end", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("mongo: create index: %w", err)
	}
	return nil
}

// windowFilter matches documents overlapping [from, to), plus zero-length
// documents inside it.
func windowFilter(from, to time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"start": bson.M{"$lt": to}, "end": bson.M{"$gt": from}},
		bson.M{"start": bson.M{"$gte": from, "$lt": to}, "$expr": bson.M{"$eq": bson.A{"$start", "$end"}}},
	}}
}

type document struct {
	ID          any       `bson:"_id,omitempty"`
	Title       string    `bson:"title"`
	Start       time.Time `bson:"start"`
	End         time.Time `bson:"end"`
	AllDay      bool      `bson:"allDay,omitempty"`
	Calendar    string    `bson:"calendar,omitempty"`
	Location    string    `bson:"location,omitempty"`
	Description string    `bson:"description,omitempty"`
}

func (d document) event() event.Event {
	return event.Event{
		ID:          idString(d.ID),
		Title:       d.Title,
		Start:       d.Start,
		End:         d.End,
		AllDay:      d.AllDay,
		Calendar:    d.Calendar,
		Location:    d.Location,
		Description: d.Description,
	}
}

func fromEvent(e event.Event) document {
	return document{
		ID:          e.ID,
		Title:       e.Title,
		Start:       e.Start.UTC(),
		End:         e.End.UTC(),
		AllDay:      e.AllDay,
		Calendar:    e.Calendar,
		Location:    e.Location,
		Description: e.Description,
	}
}

func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return fmt.Sprint(v)
	}
}
