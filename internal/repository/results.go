package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/devarajan8/veritas/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resultsCollection = "analysis_results"

type ResultsRepository struct {
	mongoRepo *MongoRepository
}

func NewResultsRepository(mongoRepo *MongoRepository) *ResultsRepository {
	return &ResultsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *ResultsRepository) InsertAnalysisResult(ctx context.Context, result *models.AnalysisResult) error {
	result.CreatedAt = time.Now()

	err := r.mongoRepo.InsertOne(ctx, resultsCollection, result)
	if err != nil {
		return fmt.Errorf("failed to insert analysis result: %w", err)
	}

	return nil
}

func (r *ResultsRepository) GetLatestResultByAssignmentID(ctx context.Context, assignmentID string) (*models.AnalysisResult, error) {
	filter := bson.M{"assignmentId": assignmentID}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var result models.AnalysisResult
	err := r.mongoRepo.FindOne(ctx, resultsCollection, filter, opts).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis result: %w", err)
	}

	return &result, nil
}

func (r *ResultsRepository) GetResultsBySubject(ctx context.Context, subject string) ([]*models.AnalysisResult, error) {
	filter := bson.M{"subject": subject}

	cursor, err := r.mongoRepo.FindMany(ctx, resultsCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find analysis results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.AnalysisResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode analysis results: %w", err)
	}

	return results, nil
}

func (r *ResultsRepository) CountResultsByAssignmentID(ctx context.Context, assignmentID string) (int64, error) {
	filter := bson.M{"assignmentId": assignmentID}

	count, err := r.mongoRepo.CountDocuments(ctx, resultsCollection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count analysis results: %w", err)
	}

	return count, nil
}
