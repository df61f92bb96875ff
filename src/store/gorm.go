package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theleywin/talentnest/src/models"
)

var _ Store = (*GormStore)(nil)

// GormStore keeps the same aggregates in relational tables. Connection sets and
// likes are rows keyed by the pair, comments are rows ordered by creation.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&userRecord{},
		&connectionEdge{},
		&connectionRequestRecord{},
		&postRecord{},
		&commentRecord{},
		&likeRecord{},
		&notificationRecord{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormErr converts driver errors into the store's sentinel errors
func gormErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "duplicate key value"):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	default:
		return err
	}
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	user.CreatedAt, user.UpdatedAt = now, now

	rec := toUserRecord(user)
	return gormErr(s.db.WithContext(ctx).Create(&rec).Error)
}

// connectionsOf loads the connection sets of the given users in one query
func (s *GormStore) connectionsOf(ctx context.Context, userIDs []string) (map[string][]primitive.ObjectID, error) {
	var edges []connectionEdge
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at ASC, connection_id ASC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string][]primitive.ObjectID, len(userIDs))
	for _, e := range edges {
		out[e.UserID] = append(out[e.UserID], oid(e.ConnectionID))
	}
	return out, nil
}

func (s *GormStore) findUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		return nil, gormErr(err)
	}

	connections, err := s.connectionsOf(ctx, []string{rec.ID})
	if err != nil {
		return nil, err
	}

	user := rec.toModel(connections[rec.ID])
	return &user, nil
}

func (s *GormStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id.Hex())
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *GormStore) toUsers(ctx context.Context, recs []userRecord) ([]models.User, error) {
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}

	connections := map[string][]primitive.ObjectID{}
	if len(ids) > 0 {
		var err error
		if connections, err = s.connectionsOf(ctx, ids); err != nil {
			return nil, err
		}
	}

	users := make([]models.User, 0, len(recs))
	for _, rec := range recs {
		user := rec.toModel(connections[rec.ID])
		user.Password = ""
		users = append(users, user)
	}
	return users, nil
}

func (s *GormStore) ListUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var recs []userRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", hexes(ids)).Find(&recs).Error; err != nil {
		return nil, err
	}
	return s.toUsers(ctx, recs)
}

func (s *GormStore) ListUsersExcluding(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.User, error) {
	query := s.db.WithContext(ctx).Order("id ASC").Limit(limit)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", hexes(exclude))
	}

	var recs []userRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	return s.toUsers(ctx, recs)
}

func (s *GormStore) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec userRecord
		if err := tx.Where("id = ?", id.Hex()).First(&rec).Error; err != nil {
			return err
		}

		user := rec.toModel(nil)
		update.Apply(&user)
		user.UpdatedAt = time.Now()

		next := toUserRecord(&user)
		return tx.Save(&next).Error
	})
	if err != nil {
		return nil, gormErr(err)
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *GormStore) AddConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&userRecord{}).Where("id = ?", userID.Hex()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	edge := connectionEdge{UserID: userID.Hex(), ConnectionID: otherID.Hex(), CreatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error
}

func (s *GormStore) RemoveConnection(ctx context.Context, userID, otherID primitive.ObjectID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND connection_id = ?", userID.Hex(), otherID.Hex()).
		Delete(&connectionEdge{}).Error
}

// Connection requests

func (s *GormStore) CreateConnectionRequest(ctx context.Context, req *models.ConnectionRequest) error {
	now := time.Now()
	if req.Id.IsZero() {
		req.Id = primitive.NewObjectID()
	}
	if req.Status == "" {
		req.Status = models.ConnectionStatusPending
	}
	req.PairKey = models.PairKey(req.Sender, req.Recipient)
	req.CreatedAt, req.UpdatedAt = now, now

	rec := connectionRequestRecord{
		ID:          req.Id.Hex(),
		SenderID:    req.Sender.Hex(),
		RecipientID: req.Recipient.Hex(),
		PairKey:     req.PairKey,
		Status:      string(req.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return gormErr(s.db.WithContext(ctx).Create(&rec).Error)
}

func (s *GormStore) findRequest(ctx context.Context, query string, args ...interface{}) (*models.ConnectionRequest, error) {
	var rec connectionRequestRecord
	if err := s.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		return nil, gormErr(err)
	}
	req := rec.toModel()
	return &req, nil
}

func (s *GormStore) GetConnectionRequest(ctx context.Context, id primitive.ObjectID) (*models.ConnectionRequest, error) {
	return s.findRequest(ctx, "id = ?", id.Hex())
}

func (s *GormStore) FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.ConnectionRequest, error) {
	return s.findRequest(ctx, "pair_key = ? AND status = ?",
		models.PairKey(a, b), string(models.ConnectionStatusPending))
}

func (s *GormStore) TransitionConnectionRequest(ctx context.Context, id primitive.ObjectID, from, to models.ConnectionStatus) (*models.ConnectionRequest, error) {
	res := s.db.WithContext(ctx).
		Model(&connectionRequestRecord{}).
		Where("id = ? AND status = ?", id.Hex(), string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, gormErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetConnectionRequest(ctx, id)
}

func (s *GormStore) ListPendingRequests(ctx context.Context, recipient primitive.ObjectID) ([]models.ConnectionRequest, error) {
	var recs []connectionRequestRecord
	err := s.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipient.Hex(), string(models.ConnectionStatusPending)).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	requests := make([]models.ConnectionRequest, 0, len(recs))
	for _, rec := range recs {
		requests = append(requests, rec.toModel())
	}
	return requests, nil
}

// Posts

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now()
	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	post.CreatedAt, post.UpdatedAt = now, now
	post.Likes = []primitive.ObjectID{}
	post.Comments = []models.Comment{}

	rec := postRecord{
		ID:        post.Id.Hex(),
		AuthorID:  post.Author.Hex(),
		Content:   post.Content,
		Image:     post.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return gormErr(s.db.WithContext(ctx).Create(&rec).Error)
}

// assemble loads comments and likes for the given post rows, keeping row order
func (s *GormStore) assemble(ctx context.Context, recs []postRecord) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(recs))
	if len(recs) == 0 {
		return posts, nil
	}

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}

	var comments []commentRecord
	err := s.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	var likes []likeRecord
	err = s.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("created_at ASC, user_id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}

	commentsByPost := make(map[string][]commentRecord, len(recs))
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], c)
	}
	likesByPost := make(map[string][]likeRecord, len(recs))
	for _, l := range likes {
		likesByPost[l.PostID] = append(likesByPost[l.PostID], l)
	}

	for _, rec := range recs {
		posts = append(posts, rec.toModel(commentsByPost[rec.ID], likesByPost[rec.ID]))
	}
	return posts, nil
}

func (s *GormStore) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var rec postRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id.Hex()).First(&rec).Error; err != nil {
		return nil, gormErr(err)
	}

	posts, err := s.assemble(ctx, []postRecord{rec})
	if err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (s *GormStore) ListPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}

	var recs []postRecord
	err := s.db.WithContext(ctx).
		Where("id IN ?", hexes(ids)).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, recs)
}

func (s *GormStore) ListPostsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	if len(authors) == 0 {
		return []models.Post{}, nil
	}

	var recs []postRecord
	err := s.db.WithContext(ctx).
		Where("author_id IN ?", hexes(authors)).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, recs)
}

func (s *GormStore) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	return gormErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id.Hex()).Delete(&postRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("post_id = ?", id.Hex()).Delete(&commentRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id.Hex()).Delete(&likeRecord{}).Error
	}))
}

// touchPost bumps updated_at and fails with ErrRecordNotFound for a missing post
func touchPost(tx *gorm.DB, id string, now time.Time) error {
	res := tx.Model(&postRecord{}).Where("id = ?", id).Update("updated_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	now := time.Now()
	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchPost(tx, postID.Hex(), now); err != nil {
			return err
		}

		rec := commentRecord{
			ID:        comment.Id.Hex(),
			PostID:    postID.Hex(),
			UserID:    comment.User.Hex(),
			Content:   comment.Content,
			CreatedAt: now,
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, gormErr(err)
	}

	return s.GetPost(ctx, postID)
}

func (s *GormStore) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	var liked bool
	now := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchPost(tx, postID.Hex(), now); err != nil {
			return err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID.Hex(), userID.Hex()).Delete(&likeRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		like := likeRecord{PostID: postID.Hex(), UserID: userID.Hex(), CreatedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, gormErr(err)
	}
	return liked, nil
}

// Notifications

func (s *GormStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	n.CreatedAt, n.UpdatedAt = now, now

	rec := notificationRecord{
		ID:            n.Id.Hex(),
		RecipientID:   n.Recipient.Hex(),
		Type:          string(n.Type),
		RelatedUserID: hexOf(n.RelatedUser),
		RelatedPostID: hexOf(n.RelatedPost),
		Read:          n.Read,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return gormErr(s.db.WithContext(ctx).Create(&rec).Error)
}

func (s *GormStore) ListNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	var recs []notificationRecord
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipient.Hex()).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, 0, len(recs))
	for _, rec := range recs {
		notifications = append(notifications, rec.toModel())
	}
	return notifications, nil
}

func (s *GormStore) MarkNotificationRead(ctx context.Context, id, recipient primitive.ObjectID) (*models.Notification, error) {
	db := s.db.WithContext(ctx)

	res := db.Model(&notificationRecord{}).
		Where("id = ? AND recipient_id = ?", id.Hex(), recipient.Hex()).
		Updates(map[string]interface{}{
			"read":       true,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var rec notificationRecord
	if err := db.Where("id = ?", id.Hex()).First(&rec).Error; err != nil {
		return nil, gormErr(err)
	}
	n := rec.toModel()
	return &n, nil
}

func (s *GormStore) DeleteNotification(ctx context.Context, id, recipient primitive.ObjectID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id.Hex(), recipient.Hex()).
		Delete(&notificationRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
