// Package storage implements the service persistence contracts on MongoDB.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entescheme/ente-api/internal/config"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Stores bundles one store per collection.
type Stores struct {
	Profiles *ProfileStore
	Schemes  *SchemeStore
	News     *NewsStore
	Users    *UserStore
	OTPs     *OTPStore
	Audit    *AuditStore
}

// New binds every store to its configured collection in db.
func New(db *mongo.Database, cfg *config.Config) *Stores {
	return &Stores{
		Profiles: &ProfileStore{coll: db.Collection(cfg.ProfileCollection)},
		Schemes:  &SchemeStore{coll: db.Collection(cfg.SchemeCollection)},
		News:     &NewsStore{coll: db.Collection(cfg.NewsCollection)},
		Users:    &UserStore{coll: db.Collection(cfg.UserCollection)},
		OTPs:     &OTPStore{coll: db.Collection(cfg.OTPCollection)},
		Audit:    &AuditStore{coll: db.Collection(cfg.AuditCollection)},
	}
}

// track opens a database span and returns a func that records the outcome.
func track(ctx context.Context, operation string, coll *mongo.Collection) (context.Context, func(error)) {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, operation, coll.Name())
	return ctx, func(err error) {
		status := "success"
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			status = "error"
			utils.RecordErrorInSpan(span, err, nil)
		}
		observability.DatabaseOperations.WithLabelValues(operation, status).Inc()
		cleanup()
	}
}

// replaceVersioned replaces the document matching filter at expectedVersion.
// When nothing matched it tells a missing document from a stale version.
func replaceVersioned(ctx context.Context, coll *mongo.Collection, filter bson.M, expectedVersion int64, doc interface{}, notFound error) error {
	versioned := bson.M{"version": expectedVersion}
	for k, v := range filter {
		versioned[k] = v
	}

	result, err := coll.ReplaceOne(ctx, versioned, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if count == 0 {
		return notFound
	}
	return models.ErrVersionConflict
}

// ProfileStore keeps one profile per user_id.
type ProfileStore struct {
	coll *mongo.Collection
}

// InsertProfile stores a new profile.
func (s *ProfileStore) InsertProfile(ctx context.Context, profile *models.Profile) (err error) {
	ctx, done := track(ctx, "insert_profile", s.coll)
	defer func() { done(err) }()

	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	if _, err = s.coll.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateProfile
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// FindProfile returns the profile of userID.
func (s *ProfileStore) FindProfile(ctx context.Context, userID string) (_ *models.Profile, err error) {
	ctx, done := track(ctx, "find_profile", s.coll)
	defer func() { done(err) }()

	var profile models.Profile
	if err = s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	profile.FillEmptyLists()
	return &profile, nil
}

// ReplaceProfile overwrites the profile when the stored version matches.
func (s *ProfileStore) ReplaceProfile(ctx context.Context, profile *models.Profile, expectedVersion int64) (err error) {
	ctx, done := track(ctx, "replace_profile", s.coll)
	defer func() { done(err) }()

	return replaceVersioned(ctx, s.coll, bson.M{"user_id": profile.UserID}, expectedVersion, profile, models.ErrProfileNotFound)
}

// SchemeStore keeps the scheme catalogue.
type SchemeStore struct {
	coll *mongo.Collection
}

// InsertScheme stores a new scheme.
func (s *SchemeStore) InsertScheme(ctx context.Context, scheme *models.Scheme) (err error) {
	ctx, done := track(ctx, "insert_scheme", s.coll)
	defer func() { done(err) }()

	if scheme.ID.IsZero() {
		scheme.ID = primitive.NewObjectID()
	}
	if _, err = s.coll.InsertOne(ctx, scheme); err != nil {
		return fmt.Errorf("insert scheme: %w", err)
	}
	return nil
}

// FindScheme returns the scheme with id.
func (s *SchemeStore) FindScheme(ctx context.Context, id primitive.ObjectID) (_ *models.Scheme, err error) {
	ctx, done := track(ctx, "find_scheme", s.coll)
	defer func() { done(err) }()

	var scheme models.Scheme
	if err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&scheme); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSchemeNotFound
		}
		return nil, fmt.Errorf("find scheme: %w", err)
	}
	scheme.FillEmptyLists()
	return &scheme, nil
}

// ListSchemes returns the catalogue in creation order.
func (s *SchemeStore) ListSchemes(ctx context.Context) (_ []models.Scheme, err error) {
	ctx, done := track(ctx, "list_schemes", s.coll)
	defer func() { done(err) }()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	defer cursor.Close(ctx)

	schemes := []models.Scheme{}
	if err = cursor.All(ctx, &schemes); err != nil {
		return nil, fmt.Errorf("decode schemes: %w", err)
	}
	for i := range schemes {
		schemes[i].FillEmptyLists()
	}
	return schemes, nil
}

// ReplaceScheme overwrites a scheme when the stored version matches.
func (s *SchemeStore) ReplaceScheme(ctx context.Context, scheme *models.Scheme, expectedVersion int64) (err error) {
	ctx, done := track(ctx, "replace_scheme", s.coll)
	defer func() { done(err) }()

	return replaceVersioned(ctx, s.coll, bson.M{"_id": scheme.ID}, expectedVersion, scheme, models.ErrSchemeNotFound)
}

// DeleteScheme removes the scheme with id.
func (s *SchemeStore) DeleteScheme(ctx context.Context, id primitive.ObjectID) (err error) {
	ctx, done := track(ctx, "delete_scheme", s.coll)
	defer func() { done(err) }()

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrSchemeNotFound
	}
	return nil
}

// NewsStore keeps portal announcements.
type NewsStore struct {
	coll *mongo.Collection
}

// InsertNews stores a news item.
func (s *NewsStore) InsertNews(ctx context.Context, news *models.News) (err error) {
	ctx, done := track(ctx, "insert_news", s.coll)
	defer func() { done(err) }()

	if news.ID.IsZero() {
		news.ID = primitive.NewObjectID()
	}
	if _, err = s.coll.InsertOne(ctx, news); err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

// FindNews returns the item with id.
func (s *NewsStore) FindNews(ctx context.Context, id primitive.ObjectID) (_ *models.News, err error) {
	ctx, done := track(ctx, "find_news", s.coll)
	defer func() { done(err) }()

	var news models.News
	if err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&news); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNewsNotFound
		}
		return nil, fmt.Errorf("find news: %w", err)
	}
	return &news, nil
}

// ListNews returns every item, newest first.
func (s *NewsStore) ListNews(ctx context.Context) (_ []models.News, err error) {
	ctx, done := track(ctx, "list_news", s.coll)
	defer func() { done(err) }()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer cursor.Close(ctx)

	news := []models.News{}
	if err = cursor.All(ctx, &news); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}
	return news, nil
}

// ReplaceNews overwrites an existing item.
func (s *NewsStore) ReplaceNews(ctx context.Context, news *models.News) (err error) {
	ctx, done := track(ctx, "replace_news", s.coll)
	defer func() { done(err) }()

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": news.ID}, news)
	if err != nil {
		return fmt.Errorf("replace news: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNewsNotFound
	}
	return nil
}

// DeleteNews removes the item with id.
func (s *NewsStore) DeleteNews(ctx context.Context, id primitive.ObjectID) (err error) {
	ctx, done := track(ctx, "delete_news", s.coll)
	defer func() { done(err) }()

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNewsNotFound
	}
	return nil
}

// UserStore keeps accounts with unique email and username.
type UserStore struct {
	coll *mongo.Collection
}

// InsertUser stores a new account.
func (s *UserStore) InsertUser(ctx context.Context, user *models.User) (err error) {
	ctx, done := track(ctx, "insert_user", s.coll)
	defer func() { done(err) }()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err = s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "username") {
				return models.ErrUsernameTaken
			}
			return models.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindUserByID returns the account with id.
func (s *UserStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, "find_user_by_id", bson.M{"_id": id})
}

// FindUserByEmail returns the account registered with email.
func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "find_user_by_email", bson.M{"email": strings.ToLower(email)})
}

func (s *UserStore) findOne(ctx context.Context, operation string, filter bson.M) (_ *models.User, err error) {
	ctx, done := track(ctx, operation, s.coll)
	defer func() { done(err) }()

	var user models.User
	if err = s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// SetEmailVerified marks the account's email as verified.
func (s *UserStore) SetEmailVerified(ctx context.Context, email string, at time.Time) (err error) {
	ctx, done := track(ctx, "set_email_verified", s.coll)
	defer func() { done(err) }()

	update := bson.M{"$set": bson.M{"is_email_verified": true, "updated_at": at}}
	result, err := s.coll.UpdateOne(ctx, bson.M{"email": strings.ToLower(email)}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// OTPStore keeps the current code per email. Expired documents are removed
// by the TTL index on expires_at.
type OTPStore struct {
	coll *mongo.Collection
}

// ReplaceOTP deletes earlier codes for the email and stores otp.
func (s *OTPStore) ReplaceOTP(ctx context.Context, otp *models.OTP) (err error) {
	ctx, done := track(ctx, "replace_otp", s.coll)
	defer func() { done(err) }()

	if _, err = s.coll.DeleteMany(ctx, bson.M{"email": otp.Email}); err != nil {
		return fmt.Errorf("delete previous otps: %w", err)
	}
	if otp.ID.IsZero() {
		otp.ID = primitive.NewObjectID()
	}
	if _, err = s.coll.InsertOne(ctx, otp); err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// FindOTP returns the newest code for email, or nil.
func (s *OTPStore) FindOTP(ctx context.Context, email string) (_ *models.OTP, err error) {
	ctx, done := track(ctx, "find_otp", s.coll)
	defer func() { done(err) }()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var otp models.OTP
	if err = s.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&otp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find otp: %w", err)
	}
	return &otp, nil
}

// UpdateOTP saves the state of an existing code.
func (s *OTPStore) UpdateOTP(ctx context.Context, otp *models.OTP) (err error) {
	ctx, done := track(ctx, "update_otp", s.coll)
	defer func() { done(err) }()

	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": otp.ID}, otp)
	if err != nil {
		return fmt.Errorf("update otp: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrOTPInvalid
	}
	return nil
}

// AuditStore appends audit records.
type AuditStore struct {
	coll *mongo.Collection
}

// WriteAudit inserts a batch with an unordered bulk write.
func (s *AuditStore) WriteAudit(ctx context.Context, records []models.AuditRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	ctx, done := track(ctx, "write_audit", s.coll)
	defer func() { done(err) }()

	operations := make([]mongo.WriteModel, 0, len(records))
	for i := range records {
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(records[i]))
	}

	if _, err = s.coll.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("write audit batch: %w", err)
	}
	return nil
}
