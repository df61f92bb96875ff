package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/talentnest/src/models"
)

const (
	usersCollection              = "users"
	connectionRequestsCollection = "connection_requests"
	postsCollection              = "posts"
	notificationsCollection      = "notifications"
)

var _ Store = (*MongoStore)(nil)

// MongoStore keeps users, requests, posts and notifications as documents.
// Connection sets, likes and comments are embedded arrays updated with
// single-document operators so concurrent writers never lose an update.
type MongoStore struct {
	db            *mongo.Database
	users         *mongo.Collection
	requests      *mongo.Collection
	posts         *mongo.Collection
	notifications *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		db:            db,
		users:         db.Collection(usersCollection),
		requests:      db.Collection(connectionRequestsCollection),
		posts:         db.Collection(postsCollection),
		notifications: db.Collection(notificationsCollection),
	}
}

var withoutPassword = bson.M{"password": 0}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (s *MongoStore) Migrate(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		s.requests: {
			{
				Keys: bson.D{{Key: "pairKey", Value: 1}},
				Options: options.Index().
					SetName("pending_pair_key").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": models.ConnectionStatusPending}),
			},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		s.posts: {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		s.notifications: {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}

	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// mongoErr converts driver errors into the store's sentinel errors
func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	default:
		return err
	}
}

// Users

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	user.CreatedAt, user.UpdatedAt = now, now

	// arrays must exist for $addToSet and $pull to apply
	if user.Connections == nil {
		user.Connections = []primitive.ObjectID{}
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}
	if user.Experience == nil {
		user.Experience = []models.Experience{}
	}
	if user.Education == nil {
		user.Education = []models.Education{}
	}

	_, err := s.users.InsertOne(ctx, user)
	return mongoErr(err)
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) ListUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	opts := options.Find().SetProjection(withoutPassword)
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) ListUsersExcluding(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.User, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(withoutPassword).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$nin": exclude}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Headline != nil {
		set["headline"] = *update.Headline
	}
	if update.About != nil {
		set["about"] = *update.About
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.ProfilePicture != nil {
		set["profilePicture"] = *update.ProfilePicture
	}
	if update.BannerImg != nil {
		set["bannerImg"] = *update.BannerImg
	}
	if update.Skills != nil {
		set["skills"] = *update.Skills
	}
	if update.Experience != nil {
		set["experience"] = *update.Experience
	}
	if update.Education != nil {
		set["education"] = *update.Education
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func (s *MongoStore) AddConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"connections": otherID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) RemoveConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"connections": otherID}},
	)
	return err
}

// Connection requests

func (s *MongoStore) CreateConnectionRequest(ctx context.Context, req *models.ConnectionRequest) error {
	now := time.Now()
	if req.Id.IsZero() {
		req.Id = primitive.NewObjectID()
	}
	if req.Status == "" {
		req.Status = models.ConnectionStatusPending
	}
	req.PairKey = models.PairKey(req.Sender, req.Recipient)
	req.CreatedAt, req.UpdatedAt = now, now

	_, err := s.requests.InsertOne(ctx, req)
	return mongoErr(err)
}

func (s *MongoStore) findRequest(ctx context.Context, filter bson.M) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	if err := s.requests.FindOne(ctx, filter).Decode(&req); err != nil {
		return nil, mongoErr(err)
	}
	return &req, nil
}

func (s *MongoStore) GetConnectionRequest(ctx context.Context, id primitive.ObjectID) (*models.ConnectionRequest, error) {
	return s.findRequest(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.ConnectionRequest, error) {
	return s.findRequest(ctx, bson.M{
		"pairKey": models.PairKey(a, b),
		"status":  models.ConnectionStatusPending,
	})
}

func (s *MongoStore) TransitionConnectionRequest(ctx context.Context, id primitive.ObjectID, from, to models.ConnectionStatus) (*models.ConnectionRequest, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.ConnectionRequest
	if err := s.requests.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req); err != nil {
		return nil, mongoErr(err)
	}
	return &req, nil
}

func (s *MongoStore) ListPendingRequests(ctx context.Context, recipient primitive.ObjectID) ([]models.ConnectionRequest, error) {
	filter := bson.M{"recipient": recipient, "status": models.ConnectionStatusPending}
	cursor, err := s.requests.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.ConnectionRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Posts

func (s *MongoStore) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now()
	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	post.CreatedAt, post.UpdatedAt = now, now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	_, err := s.posts.InsertOne(ctx, post)
	return mongoErr(err)
}

func (s *MongoStore) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mongoErr(err)
	}
	return &post, nil
}

func (s *MongoStore) findPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cursor, err := s.posts.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoStore) ListPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	return s.findPosts(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) ListPostsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	if len(authors) == 0 {
		return []models.Post{}, nil
	}
	return s.findPosts(ctx, bson.M{"author": bson.M{"$in": authors}})
}

func (s *MongoStore) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	now := time.Now()
	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}
	comment.CreatedAt = now

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	if err := s.posts.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&post); err != nil {
		return nil, mongoErr(err)
	}
	return &post, nil
}

func (s *MongoStore) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	now := time.Now()

	unliked, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	if unliked.ModifiedCount > 0 {
		return false, nil
	}

	liked, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	if liked.MatchedCount > 0 {
		return true, nil
	}

	// neither filter matched: the post is gone, or another request liked it in between
	count, err := s.posts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return true, nil
}

// Notifications

func (s *MongoStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	n.CreatedAt, n.UpdatedAt = now, now

	_, err := s.notifications.InsertOne(ctx, n)
	return mongoErr(err)
}

func (s *MongoStore) ListNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	cursor, err := s.notifications.Find(ctx, bson.M{"recipient": recipient}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *MongoStore) MarkNotificationRead(ctx context.Context, id, recipient primitive.ObjectID) (*models.Notification, error) {
	filter := bson.M{"_id": id, "recipient": recipient}
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	if err := s.notifications.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n); err != nil {
		return nil, mongoErr(err)
	}
	return &n, nil
}

func (s *MongoStore) DeleteNotification(ctx context.Context, id, recipient primitive.ObjectID) error {
	res, err := s.notifications.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
