package service

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"commflock/internal/model"
	"commflock/internal/pkg"
	"commflock/internal/repository/mysql"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	pkg.SetJWTSecrets("test-access-secret", "test-refresh-secret")
	pkg.InitLogger("error", false)
	os.Exit(m.Run())
}

var testDBSeq atomic.Int64

// newTestDB opens a private in-memory database limited to one connection, so
// transactions serialize the same way a row lock would in production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeTokens is an in-process substitute for the redis session store.
type fakeTokens struct {
	mu sync.Mutex
	m  map[uint64]string
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{m: map[uint64]string{}}
}

func (f *fakeTokens) AddUserToken(usrID uint64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[usrID] = token
	return nil
}

func (f *fakeTokens) GetUserToken(usrID uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.m[usrID]
	if !ok {
		return "", fmt.Errorf("no token for user %d", usrID)
	}
	return token, nil
}

func (f *fakeTokens) DeleteUserToken(usrID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, usrID)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "unused"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedCommunity(t *testing.T, db *gorm.DB, ownerID uint64, slug, policy string) *model.Community {
	t.Helper()
	svc := NewCommunityService(db)
	c, err := svc.Create(ownerID, CreateCommunityInput{
		Name:       "Community " + slug,
		Slug:       slug,
		IsPublic:   true,
		JoinPolicy: policy,
	})
	if err != nil {
		t.Fatalf("seed community %s: %v", slug, err)
	}
	return c
}

func approveMember(t *testing.T, db *gorm.DB, communityID, userID uint64) {
	t.Helper()
	m := &model.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        model.RoleMember,
		Status:      model.StatusApproved,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("approve member %d: %v", userID, err)
	}
}

func strPtr(s string) *string { return &s }

func i64Ptr(n int64) *int64 { return &n }
