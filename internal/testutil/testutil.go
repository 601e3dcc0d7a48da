// Package testutil provides shared fixtures for package-level tests:
// an in-memory sqlite database, a fully wired router and a recording
// mail fake.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"phonebook_backend/database"
	"phonebook_backend/internal/app"
	"phonebook_backend/internal/config"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// FakeMailer records outbound mail instead of dialing SMTP.
type FakeMailer struct {
	mu sync.Mutex

	Sent []SentMail
	// Err, when set, is returned from every send.
	Err error
}

type SentMail struct {
	To      string
	Subject string
	Token   string
}

func (m *FakeMailer) Send(to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject})
	return nil
}

func (m *FakeMailer) SendVerification(to, verificationToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{
		To:      to,
		Subject: "Welcome to Phonebook",
		Token:   verificationToken,
	})
	return nil
}

// LastTo returns the most recent recipient, or "".
func (m *FakeMailer) LastTo() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1].To
}

// OpenTestDB opens a fresh in-memory sqlite database with the schema
// migrated. A single connection keeps the in-memory database alive for
// the whole test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get *sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// TestConfig builds a config rooted in the test's temp dir.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.BaseURL = "http://localhost:3000"
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.TTLHours = 20

	dir := t.TempDir()
	cfg.Storage.TmpDir = filepath.Join(dir, "tmp")
	cfg.Storage.AvatarDir = filepath.Join(dir, "avatars")

	return cfg
}

// TestServer bundles everything HTTP flow tests need.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Cfg    *config.Config
	Mailer *FakeMailer
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig(t)
	db := OpenTestDB(t)
	mailer := &FakeMailer{}

	router := app.SetupRouter(cfg, db, mailer)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server: server,
		DB:     db,
		Cfg:    cfg,
		Mailer: mailer,
	}
}

// SendRequest performs a JSON request and returns the response together
// with its body.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	res.Body.Close()

	return res, string(resBody)
}
