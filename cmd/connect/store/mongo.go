package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/connect-sim/cmd/connect/game"
	"github.com/ardanlabs/connect-sim/cmd/connect/match"
	"github.com/ardanlabs/connect-sim/foundation/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Document is the form a match is archived in.
type Document struct {
	MatchID string    `bson:"match_id"`
	Height  int       `bson:"height"`
	Width   int       `bson:"width"`
	Cells   []int     `bson:"cells"`
	Winner  int       `bson:"winner"`
	Outcome string    `bson:"outcome"`
	First   int       `bson:"first"`
	Moves   []int     `bson:"moves"`
	Plies   int       `bson:"plies"`
	Players []string  `bson:"players"`
	Started time.Time `bson:"started"`
	Ended   time.Time `bson:"ended"`
}

// DocumentOf converts a match result into an archive document.
func DocumentOf(res match.Result) Document {
	var width int
	if len(res.Grid) > 0 {
		width = len(res.Grid[0])
	}

	return Document{
		MatchID: res.ID,
		Height:  len(res.Grid),
		Width:   width,
		Cells:   game.FlattenGrid(res.Grid),
		Winner:  int(res.Winner),
		Outcome: res.Outcome.String(),
		First:   int(res.First),
		Moves:   res.Columns(),
		Plies:   res.Plies(),
		Players: res.Players[:],
		Started: res.Started,
		Ended:   res.Ended,
	}
}

// Record rebuilds the persisted record held in the document.
func (d Document) Record() (Record, error) {
	grid, err := game.UnflattenGrid(d.Cells, d.Height, d.Width)
	if err != nil {
		return Record{}, fmt.Errorf("document %s: %w", d.MatchID, err)
	}

	return Record{Grid: grid, Winner: game.Marker(d.Winner)}, nil
}

// =============================================================================

// Tally counts match outcomes.
type Tally struct {
	OneWins int
	TwoWins int
	Draws   int
}

// Add counts one outcome.
func (t *Tally) Add(o match.Outcome) {
	switch o {
	case match.OneWins:
		t.OneWins++
	case match.TwoWins:
		t.TwoWins++
	default:
		t.Draws++
	}
}

// Total returns the number of matches counted.
func (t Tally) Total() int {
	return t.OneWins + t.TwoWins + t.Draws
}

// =============================================================================

// Archive stores finished matches in MongoDB.
type Archive struct {
	col *mongo.Collection
}

// NewArchive creates the matches collection and its indexes if needed.
func NewArchive(ctx context.Context, client *mongo.Client, dbName string) (*Archive, error) {

	// -------------------------------------------------------------------------
	// Create database and collection

	const collectionName = "matches"

	db := client.Database(dbName)

	col, err := mongodb.CreateCollection(ctx, db, collectionName)
	if err != nil {
		return nil, fmt.Errorf("createCollection: %w", err)
	}

	// -------------------------------------------------------------------------
	// Create indexes

	unique := true
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "match_id", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	}

	if _, err := col.Indexes().CreateOne(ctx, indexModel); err != nil {
		return nil, fmt.Errorf("createIndex: %w", err)
	}

	return &Archive{col: col}, nil
}

// Save inserts a finished match.
func (a *Archive) Save(ctx context.Context, res match.Result) error {
	if _, err := a.col.InsertOne(ctx, DocumentOf(res)); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

// Tally counts the outcomes of every archived match.
func (a *Archive) Tally(ctx context.Context) (Tally, error) {
	pipeline := mongo.Pipeline{
		{{
			Key: "$group",
			Value: bson.M{
				"_id":   "$outcome",
				"count": bson.M{"$sum": 1},
			}},
		},
	}

	cur, err := a.col.Aggregate(ctx, pipeline)
	if err != nil {
		return Tally{}, fmt.Errorf("aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var groups []struct {
		Outcome string `bson:"_id"`
		Count   int    `bson:"count"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return Tally{}, fmt.Errorf("all: %w", err)
	}

	var t Tally
	for _, g := range groups {
		switch g.Outcome {
		case match.OneWins.String():
			t.OneWins += g.Count
		case match.TwoWins.String():
			t.TwoWins += g.Count
		default:
			t.Draws += g.Count
		}
	}

	return t, nil
}

// Recent returns up to limit matches, most recently finished first.
func (a *Archive) Recent(ctx context.Context, limit int64) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ended", Value: -1}}).SetLimit(limit)

	cur, err := a.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("all: %w", err)
	}

	return docs, nil
}
