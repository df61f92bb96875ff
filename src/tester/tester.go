// Package tester holds the fixtures shared by the package tests: throwaway
// sqlite and mongo stores, a mailer that records what it is asked to send and
// an in-memory asset store.
package tester

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/theleywin/talentnest/src/config"
	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/mail"
	"github.com/theleywin/talentnest/src/media"
	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/store"
)

// Password is the plain text password of every user created by NewUser
const Password = "password123"

func init() {
	logrus.SetLevel(logrus.WarnLevel)
}

// NewStore opens a migrated sqlite store in a temporary directory
func NewStore(t testing.TB) *store.GormStore {
	t.Helper()

	db, err := lib.OpenSQLite(filepath.Join(t.TempDir(), "talentnest.db"))
	require.NoError(t, err)

	st := store.NewGormStore(db)
	require.NoError(t, st.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = st.Close(context.Background())
	})
	return st
}

// NewMongoStore opens a migrated store on a fresh database of the server at
// MONGO_URI and drops that database afterwards. Without MONGO_URI the test is skipped.
func NewMongoStore(t testing.TB) *store.MongoStore {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	db, err := lib.ConnectMongo(context.Background(), uri, "talentnest_test_"+uuid.NewString()[:8])
	require.NoError(t, err)

	st := store.NewMongoStore(db)
	require.NoError(t, st.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = st.Close(context.Background())
	})
	return st
}

// Config returns settings suitable for tests
func Config() *config.Config {
	return &config.Config{
		Env:          "test",
		DBDriver:     config.DriverSQLite,
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		CookieName:   "jwt-talentnest",
		ClientURL:    "http://localhost:5173",
		CORSOrigins:  "http://localhost:5173",
		EmailTimeout: time.Second,
	}
}

// NewUser stores a user with fake profile data and Password as password
func NewUser(t testing.TB, st store.Store) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	first := gofakeit.FirstName()
	user := &models.User{
		Name:     first + " " + gofakeit.LastName(),
		Username: strings.ToLower(first) + "_" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@" + gofakeit.DomainName(),
		Password: string(hash),
		Headline: gofakeit.JobTitle(),
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

// Reload fetches the current state of a user
func Reload(t testing.TB, st store.Store, user *models.User) *models.User {
	t.Helper()

	fresh, err := st.GetUserByID(context.Background(), user.Id)
	require.NoError(t, err)
	return fresh
}

// Connect makes a and b connected without going through a request
func Connect(t testing.TB, st store.Store, a, b *models.User) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, st.AddConnection(ctx, a.Id, b.Id))
	require.NoError(t, st.AddConnection(ctx, b.Id, a.Id))
}

var _ mail.Mailer = (*Mailer)(nil)

// Mailer records every message instead of delivering it
type Mailer struct {
	mu   sync.Mutex
	sent []mail.Message
	Err  error
}

func (m *Mailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	return m.Err
}

func (m *Mailer) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mail.Message(nil), m.sent...)
}

// SentTo returns the messages of category addressed to email
func (m *Mailer) SentTo(email, category string) []mail.Message {
	var out []mail.Message
	for _, msg := range m.Sent() {
		if msg.ToEmail == email && msg.Category == category {
			out = append(out, msg)
		}
	}
	return out
}

var _ media.AssetStore = (*Assets)(nil)

// Assets keeps uploads in memory and hands out fake hosted URLs
type Assets struct {
	mu        sync.Mutex
	uploads   map[string]string
	deleted   []string
	UploadErr error
}

func NewAssets() *Assets {
	return &Assets{uploads: map[string]string{}}
}

func (a *Assets) Upload(ctx context.Context, payload string) (string, error) {
	if a.UploadErr != nil {
		return "", a.UploadErr
	}
	if err := media.ValidatePayload(payload); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	url := "https://res.cloudinary.test/image/upload/v1/talentnest/" + uuid.NewString() + ".png"
	a.uploads[url] = payload
	return url, nil
}

func (a *Assets) Delete(ctx context.Context, assetURL string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.uploads[assetURL]; !ok {
		return media.ErrUnknownAsset
	}
	delete(a.uploads, assetURL)
	a.deleted = append(a.deleted, assetURL)
	return nil
}

// Deleted lists the URLs removed so far
func (a *Assets) Deleted() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.deleted...)
}

// Stored reports whether url is currently hosted
func (a *Assets) Stored(url string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, ok := a.uploads[url]
	return ok
}

// ObjectID returns a fresh id that no record uses
func ObjectID() primitive.ObjectID {
	return primitive.NewObjectID()
}
