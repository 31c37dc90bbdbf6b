package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cineai/cineai-go/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"

	mongoConnectTimeout = 10 * time.Second
)

// MongoConfig captures the minimal settings required to establish a MongoDB
// connection for the devserver.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// ConnectMongo establishes a MongoDB client, verifies connectivity with a
// ping, and returns both the client and the selected database. A default
// timeout is applied when none is provided.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = mongoConnectTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// MongoAccounts stores accounts in MongoDB with sequential integer IDs
// allocated from a counters collection, matching the API's numeric user IDs.
type MongoAccounts struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewMongoAccounts(db *mongo.Database) *MongoAccounts {
	return &MongoAccounts{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoAccount struct {
	ID           int    `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	Bio          string `bson:"bio,omitempty"`
	PasswordHash string `bson:"password_hash"`
	IsAdmin      bool   `bson:"is_admin"`
	CreatedAt    int64  `bson:"created_at"`
	LastLogin    int64  `bson:"last_login,omitempty"`
}

func (r *MongoAccounts) nextID(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *MongoAccounts) Create(ctx context.Context, acc *Account) (*Account, error) {
	email := strings.ToLower(acc.Email)
	if _, err := r.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoAccount{
		ID:           id,
		Name:         acc.Name,
		Email:        email,
		Bio:          acc.Bio,
		PasswordHash: acc.PasswordHash,
		IsAdmin:      acc.IsAdmin,
		CreatedAt:    acc.CreatedAt.Unix(),
		LastLogin:    timeToUnix(acc.LastLogin),
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *MongoAccounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoAccounts) FindByID(ctx context.Context, id int) (*Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAccounts) Update(ctx context.Context, acc *Account) (*Account, error) {
	update := bson.M{"$set": bson.M{
		"name":          acc.Name,
		"bio":           acc.Bio,
		"password_hash": acc.PasswordHash,
		"last_login":    timeToUnix(acc.LastLogin),
	}}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": acc.ID}, update)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, acc.ID)
}

func (r *MongoAccounts) findOne(ctx context.Context, filter bson.M) (*Account, error) {
	var ma mongoAccount
	if err := r.users.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &Account{
		ID:           ma.ID,
		Name:         ma.Name,
		Email:        ma.Email,
		Bio:          ma.Bio,
		PasswordHash: ma.PasswordHash,
		IsAdmin:      ma.IsAdmin,
		CreatedAt:    unixToTime(ma.CreatedAt),
		LastLogin:    unixToTime(ma.LastLogin),
	}, nil
}

func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
