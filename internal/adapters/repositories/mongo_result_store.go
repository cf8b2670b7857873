package repositories

import (
	"commute-planner/internal/domain"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const runsCollection = "runs"

type runDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	RunID      string             `bson:"run_id"`
	StartedAt  time.Time          `bson:"started_at"`
	FinishedAt time.Time          `bson:"finished_at"`
	Places     []placeDocument    `bson:"places"`
	Rankings   []rankingDocument  `bson:"rankings"`
	Failures   []failureDocument  `bson:"failures"`
}

type placeDocument struct {
	Kind     string  `bson:"kind"`
	Name     string  `bson:"name"`
	Address  string  `bson:"address"`
	Resolved bool    `bson:"resolved"`
	Lat      float64 `bson:"lat"`
	Lng      float64 `bson:"lng"`
	Geohash  string  `bson:"geohash,omitempty"`
}

type rankingDocument struct {
	Person   string `bson:"person"`
	Office   string `bson:"office"`
	Metric   string `bson:"metric"`
	Position int    `bson:"position"`
	Mode     string `bson:"mode"`
	Value    int    `bson:"value"`
}

type failureDocument struct {
	Kind    string `bson:"kind"`
	Entity  string `bson:"entity"`
	Office  string `bson:"office,omitempty"`
	Mode    string `bson:"mode,omitempty"`
	Message string `bson:"message"`
}

// MongoDB-backed implementation of the ResultStore port.
// Each run is one document.
type MongoResultStore struct {
	coll *mongo.Collection
}

func NewMongoResultStore(db *mongo.Database) *MongoResultStore {
	return &MongoResultStore{coll: db.Collection(runsCollection)}
}

// OpenMongo connects and pings the server.
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("open mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("open mongo: ping: %w", err)
	}
	return client, nil
}

func (s *MongoResultStore) SaveRun(ctx context.Context, run domain.RunRecord) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(run)); err != nil {
		return fmt.Errorf("save run: insert run_id=%s: %w", run.RunID, err)
	}
	return nil
}

func (s *MongoResultStore) LatestRun(ctx context.Context) (domain.RunRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}})

	var doc runDocument
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.RunRecord{}, domain.ErrNoRuns
	}
	if err != nil {
		return domain.RunRecord{}, fmt.Errorf("latest run: find: %w", err)
	}

	return fromDocument(doc), nil
}

func toDocument(run domain.RunRecord) runDocument {
	doc := runDocument{
		RunID:      run.RunID,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		Places:     make([]placeDocument, 0, len(run.Places)),
		Rankings:   make([]rankingDocument, 0, len(run.Rankings)),
		Failures:   make([]failureDocument, 0, len(run.Failures)),
	}
	for _, p := range run.Places {
		doc.Places = append(doc.Places, placeDocument(p))
	}
	for _, r := range run.Rankings {
		doc.Rankings = append(doc.Rankings, rankingDocument{
			Person: r.Person, Office: r.Office, Metric: r.Metric,
			Position: r.Position, Mode: string(r.Mode), Value: r.Value,
		})
	}
	for _, f := range run.Failures {
		doc.Failures = append(doc.Failures, failureDocument{
			Kind: string(f.Kind), Entity: f.Entity, Office: f.Office,
			Mode: string(f.Mode), Message: f.Message,
		})
	}
	return doc
}

func fromDocument(doc runDocument) domain.RunRecord {
	run := domain.RunRecord{
		RunID:      doc.RunID,
		StartedAt:  doc.StartedAt,
		FinishedAt: doc.FinishedAt,
	}
	for _, p := range doc.Places {
		run.Places = append(run.Places, domain.PlaceRecord(p))
	}
	for _, r := range doc.Rankings {
		run.Rankings = append(run.Rankings, domain.RankingRecord{
			Person: r.Person, Office: r.Office, Metric: r.Metric,
			Position: r.Position, Mode: domain.TransportMode(r.Mode), Value: r.Value,
		})
	}
	for _, f := range doc.Failures {
		run.Failures = append(run.Failures, domain.FailureRecord{
			Kind: domain.FailureKind(f.Kind), Entity: f.Entity, Office: f.Office,
			Mode: domain.TransportMode(f.Mode), Message: f.Message,
		})
	}
	return run
}
