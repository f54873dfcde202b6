package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-auth-service"
	"github.com/goliatone/go-auth-service/migrations"
)

// testConfig satisfies auth.Config with static test values.
type testConfig struct{}

func (testConfig) GetSigningKey() string         { return "test-signing-key" }
func (testConfig) GetIssuer() string             { return "test-issuer" }
func (testConfig) GetContextKey() string         { return "claims" }
func (testConfig) GetAuthScheme() string         { return "Bearer" }
func (testConfig) GetTokenExpiration() int       { return 86400 }
func (testConfig) GetScopedTokenExpiration() int { return 3600 }

type sentNotification struct {
	To       string
	Template string
	Data     map[string]any
}

// recordingNotifier captures outbound notifications and can be told to
// fail the next send.
type recordingNotifier struct {
	Sent     []sentNotification
	FailNext bool
}

func (n *recordingNotifier) Send(_ context.Context, to, template string, data map[string]any) error {
	if n.FailNext {
		n.FailNext = false
		return fmt.Errorf("smtp unavailable")
	}
	n.Sent = append(n.Sent, sentNotification{To: to, Template: template, Data: data})
	return nil
}

// lastCode returns the OTP carried by the most recent notification.
func (n *recordingNotifier) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, n.Sent)
	code, ok := n.Sent[len(n.Sent)-1].Data["code"].(string)
	require.True(t, ok, "notification carries no code")
	return code
}

var testDBSeq atomic.Int64

type testHarness struct {
	App      *fiber.App
	Repo     auth.RepositoryManager
	Tokens   *auth.TokenServiceImpl
	Notifier *recordingNotifier
	DB       *bun.DB
}

// newTestHarness wires the whole service against an in-memory SQLite
// database with the real migrations applied.
func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "."))

	bunDB := bun.NewDB(db, sqlitedialect.New())

	cfg := testConfig{}
	repo := auth.NewRepositoryManager(bunDB)
	require.NoError(t, repo.Validate())

	tokens := auth.NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetIssuer(), nil)
	notifier := &recordingNotifier{}
	service := auth.NewService(repo, tokens, notifier, cfg)
	controller := auth.NewController(service, tokens, cfg)

	app := fiber.New()
	auth.RegisterRoutes(app, controller)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return &testHarness{
		App:      app,
		Repo:     repo,
		Tokens:   tokens,
		Notifier: notifier,
		DB:       bunDB,
	}
}
