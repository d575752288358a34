package repository

import (
	"context"
	"fmt"
	"os"

	"referral_leaderboard/internal/model"
	"referral_leaderboard/pkg/logger"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	fieldUserID        = "userId"
	fieldReferralCount = "referralCount"
)

type FirestoreConfig struct {
	ProjectID       string `json:"projectId"`
	CredentialsFile string `json:"credentialsFile"`
	EmulatorHost    string `json:"emulatorHost"`
	Collection      string `json:"collection"`
}

// FirestoreRepository stores entries as documents of a single collection,
// the document id being the entry id.
type FirestoreRepository struct {
	client     *firestore.Client
	collection string
}

type firestoreEntry struct {
	UserID        string `firestore:"userId"`
	ReferralCount int    `firestore:"referralCount"`
}

func (e firestoreEntry) toModel(id string) *model.Entry {
	return &model.Entry{
		ID:            id,
		UserID:        e.UserID,
		ReferralCount: e.ReferralCount,
	}
}

func NewFirestore(ctx context.Context, cfg FirestoreConfig) (*FirestoreRepository, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	if cfg.EmulatorHost != "" {
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.EmulatorHost); err != nil {
			return nil, fmt.Errorf("failed to set emulator host: %w", err)
		}
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = leaderboardTable
	}

	logger.Logger().Info("Connected to firestore",
		zap.String("project_id", cfg.ProjectID),
		zap.String("collection", collection))

	return &FirestoreRepository{
		client:     client,
		collection: collection,
	}, nil
}

func (r *FirestoreRepository) Close() error {
	return r.client.Close()
}

func (r *FirestoreRepository) ListEntries(ctx context.Context) ([]*model.Entry, error) {
	docs, err := r.client.Collection(r.collection).
		OrderBy(fieldReferralCount, firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard documents: %w", translateFirestoreError(err))
	}

	entries := make([]*model.Entry, 0, len(docs))
	for _, doc := range docs {
		var e firestoreEntry
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.Ref.ID, err)
		}
		entries = append(entries, e.toModel(doc.Ref.ID))
	}

	return entries, nil
}

func (r *FirestoreRepository) SetReferralCount(ctx context.Context, id string, count int) error {
	_, err := r.client.Collection(r.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: fieldReferralCount, Value: count},
	})
	if err != nil {
		return translateFirestoreError(err)
	}
	return nil
}

func (r *FirestoreRepository) IncrementReferralCount(ctx context.Context, id string) (int, error) {
	ref := r.client.Collection(r.collection).Doc(id)

	_, err := ref.Update(ctx, []firestore.Update{
		{Path: fieldReferralCount, Value: firestore.Increment(1)},
	})
	if err != nil {
		return 0, translateFirestoreError(err)
	}

	doc, err := ref.Get(ctx)
	if err != nil {
		return 0, translateFirestoreError(err)
	}

	var e firestoreEntry
	if err := doc.DataTo(&e); err != nil {
		return 0, fmt.Errorf("failed to decode document %s: %w", id, err)
	}

	return e.ReferralCount, nil
}

func (r *FirestoreRepository) CreateEntry(ctx context.Context, userID string) (*model.Entry, error) {
	e := firestoreEntry{UserID: userID, ReferralCount: 0}

	ref, _, err := r.client.Collection(r.collection).Add(ctx, map[string]interface{}{
		fieldUserID:        e.UserID,
		fieldReferralCount: e.ReferralCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add leaderboard document: %w", translateFirestoreError(err))
	}

	return e.toModel(ref.ID), nil
}

func translateFirestoreError(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}
