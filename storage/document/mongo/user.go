package mongorepos

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Br01t/feedback-fort/core/user"
)

type (
	userDoc struct {
		ID           string    `bson:"_id"`
		Email        string    `bson:"email"`
		PasswordHash []byte    `bson:"passwordHash,omitempty"`
		IsActive     *bool     `bson:"isActive,omitempty"`
		CreatedAt    time.Time `bson:"createdAt"`
		UpdatedAt    time.Time `bson:"updatedAt"`
		LastLogin    time.Time `bson:"lastLogin,omitempty"`
	}

	// profileDoc is keyed by the owner's user ID.
	profileDoc struct {
		UserID      string    `bson:"_id"`
		Email       string    `bson:"email"`
		Role        string    `bson:"role"`
		CompanyIDs  []string  `bson:"companyIds"`
		SiteIDs     []string  `bson:"siteIds"`
		DisplayName string    `bson:"displayName,omitempty"`
		CreatedAt   time.Time `bson:"createdAt"`
	}
)

func toUserDoc(usr user.User) userDoc {
	return userDoc{
		ID:           usr.ID,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		IsActive:     usr.IsActive,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
		LastLogin:    usr.LastLogin,
	}
}

func (doc userDoc) user() user.User {
	return user.User{
		ID:           doc.ID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		IsActive:     doc.IsActive,
		CreatedAt:    utc(doc.CreatedAt),
		UpdatedAt:    utc(doc.UpdatedAt),
		LastLogin:    utc(doc.LastLogin),
	}
}

func toProfileDoc(p user.Profile) profileDoc {
	doc := profileDoc(p)
	if doc.CompanyIDs == nil {
		doc.CompanyIDs = []string{}
	}
	if doc.SiteIDs == nil {
		doc.SiteIDs = []string{}
	}
	return doc
}

func (doc profileDoc) profile() user.Profile {
	p := user.Profile(doc)
	p.CreatedAt = utc(p.CreatedAt)
	if p.CompanyIDs == nil {
		p.CompanyIDs = []string{}
	}
	if p.SiteIDs == nil {
		p.SiteIDs = []string{}
	}
	return p
}

// utc drops the sub-millisecond part BSON dates cannot hold.
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Millisecond)
}

type userRepository struct {
	users    *mongo.Collection
	profiles *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{
		users:    db.Collection(usersCollection),
		profiles: db.Collection(profilesCollection),
	}
}

func trapDuplicateErr(err error, msg string) error {
	if mongo.IsDuplicateKeyError(err) {
		return user.ErrEmailExists
	}
	return errors.Wrap(err, msg)
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	filter := bson.M{"email": email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		filter["_id"] = bson.M{"$nin": ids}
	}
	n, err := repo.users.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if n > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	doc := toUserDoc(usr)
	if _, err := repo.users.InsertOne(ctx, doc); err != nil {
		return user.User{}, trapDuplicateErr(err, "inserting user")
	}
	return doc.user(), nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var q bson.M
	switch {
	case filter.ID != "":
		q = bson.M{"_id": filter.ID}
	case filter.Email != "":
		q = bson.M{"email": filter.Email}
	default:
		return user.User{}, user.ErrNotFound
	}

	var doc userDoc
	if err := repo.users.FindOne(ctx, q).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return doc.user(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := toUserDoc(usr)
	res, err := repo.users.ReplaceOne(ctx, bson.M{"_id": usr.ID}, doc)
	if err != nil {
		return user.User{}, trapDuplicateErr(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return doc.user(), nil
}

func (repo *userRepository) SaveProfile(ctx context.Context, p user.Profile) (user.Profile, error) {
	doc := toProfileDoc(p)
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.profiles.ReplaceOne(ctx, bson.M{"_id": doc.UserID}, doc, opts); err != nil {
		return user.Profile{}, errors.Wrap(err, "saving profile")
	}
	return doc.profile(), nil
}

func (repo *userRepository) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	var doc profileDoc
	if err := repo.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, errors.Wrap(err, "finding profile")
	}
	return doc.profile(), nil
}

func (repo *userRepository) QueryProfiles(ctx context.Context, filter user.QueryFilter) ([]user.Profile, error) {
	q := bson.M{}
	if filter.Role != "" {
		q["role"] = filter.Role
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		q["$or"] = bson.A{bson.M{"email": re}, bson.M{"displayName": re}}
	}

	cur, err := repo.profiles.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying profiles")
	}
	var docs []profileDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding profiles")
	}
	profiles := make([]user.Profile, 0, len(docs))
	for _, doc := range docs {
		profiles = append(profiles, doc.profile())
	}
	return profiles, nil
}
