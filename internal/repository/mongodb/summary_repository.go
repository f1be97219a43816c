package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// summaryDocument is the stored shape of a domain.DailySummary. Money is kept
// as decimal strings so no precision is lost in BSON doubles.
type summaryDocument struct {
	Date      string `bson:"_id"`
	Revenue   string `bson:"revenue"`
	Count     int    `bson:"count"`
	Quantity  int    `bson:"quantity"`
	AvgTicket string `bson:"avg_ticket"`
	TopItem   string `bson:"top_item,omitempty"`
}

func toDocument(s domain.DailySummary) summaryDocument {
	return summaryDocument{
		Date:      s.Date,
		Revenue:   s.Revenue.String(),
		Count:     s.Count,
		Quantity:  s.Quantity,
		AvgTicket: s.AvgTicket.String(),
		TopItem:   s.TopItem,
	}
}

func (d summaryDocument) toDomain() (domain.DailySummary, error) {
	revenue, err := decimal.NewFromString(d.Revenue)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("decode revenue of %s: %w", d.Date, err)
	}
	avg, err := decimal.NewFromString(d.AvgTicket)
	if err != nil {
		return domain.DailySummary{}, fmt.Errorf("decode avg ticket of %s: %w", d.Date, err)
	}
	return domain.DailySummary{
		Date:      d.Date,
		Revenue:   revenue,
		Count:     d.Count,
		Quantity:  d.Quantity,
		AvgTicket: avg,
		TopItem:   d.TopItem,
	}, nil
}

// SummaryRepository archives daily summaries keyed by date.
type SummaryRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

var _ repository.SummaryRepository = (*SummaryRepository)(nil)

// NewSummaryRepository connects to MongoDB and verifies the connection.
func NewSummaryRepository(ctx context.Context, uri, dbName, collName string) (*SummaryRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if collName == "" {
		collName = "daily_summaries"
	}

	return &SummaryRepository{
		client:   client,
		dbName:   dbName,
		collName: collName,
	}, nil
}

func (r *SummaryRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveDailySummary replaces the summary of the same date or inserts it.
func (r *SummaryRepository) SaveDailySummary(ctx context.Context, s domain.DailySummary) error {
	doc := toDocument(s)
	_, err := r.collection().ReplaceOne(ctx,
		bson.M{"_id": doc.Date},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save daily summary %s: %w", s.Date, err)
	}
	return nil
}

func (r *SummaryRepository) ListDailySummaries(ctx context.Context, filter repository.SaleFilter) ([]domain.DailySummary, error) {
	cursor, err := r.collection().Find(ctx, dateFilter(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []summaryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode daily summaries: %w", err)
	}

	out := make([]domain.DailySummary, 0, len(docs))
	for _, d := range docs {
		s, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SummaryRepository) DeleteDailySummary(ctx context.Context, date string) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": date})
	if err != nil {
		return fmt.Errorf("failed to delete daily summary %s: %w", date, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("daily summary %s: %w", date, domain.ErrNotFound)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *SummaryRepository) Close(ctx context.Context) error {
	if err := r.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}

func dateFilter(f repository.SaleFilter) bson.M {
	bounds := bson.M{}
	if f.Start != "" {
		bounds["$gte"] = f.Start
	}
	if f.End != "" {
		bounds["$lte"] = f.End
	}
	if len(bounds) == 0 {
		return bson.M{}
	}
	return bson.M{"_id": bounds}
}
