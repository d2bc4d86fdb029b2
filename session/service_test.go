package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/speechturn/auth/password"
	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/redis"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testConfig() Config {
	return Config{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		DefaultUser:     "alice",
		DefaultPassword: "wonderland",
		AdminUsers:      []string{"root"},
	}
}

func newTestService(t *testing.T, cfg Config) (*Service, *clock) {
	t.Helper()
	clk := &clock{now: time.Now()}
	return New(cfg, nil, nil, WithClock(clk.Now)), clk
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "wonderland")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.TokenType != "bearer" || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("pair = %+v", pair)
	}
	if got := pair.RefreshExpiresAt.Sub(pair.AccessExpiresAt); got < 29*24*time.Hour {
		t.Fatalf("refresh lifetime too short: %v", got)
	}

	claims, err := svc.Authenticate(pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Subject != "alice" || claims.Type != TypeAccess {
		t.Fatalf("claims = %+v", claims)
	}
	if !claims.HasScope(ScopeSpeechWrite) || !claims.HasScope(ScopeSpeechRead) {
		t.Fatalf("scopes = %v", claims.Scopes)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != RoleUser {
		t.Fatalf("roles = %v", claims.Roles)
	}

	for _, tc := range []struct{ user, pass string }{{"alice", "nope"}, {"bob", "wonderland"}} {
		if _, err := svc.Login(ctx, tc.user, tc.pass); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			t.Errorf("Login(%s) err = %v", tc.user, err)
		}
	}
}

func TestLoginWithHash(t *testing.T) {
	hash, err := password.Hash("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.DefaultPassword = ""
	cfg.DefaultPasswordHash = hash
	svc, _ := newTestService(t, cfg)
	if _, err := svc.Login(context.Background(), "alice", "s3cret-pass"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestAdminRoles(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	if got := svc.RolesFor("root"); len(got) != 2 || got[0] != RoleAdmin {
		t.Fatalf("roles = %v", got)
	}
}

func TestNotConfigured(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	ctx := context.Background()
	checks := map[string]error{}
	_, checks["login"] = svc.Login(ctx, "a", "b")
	_, checks["refresh"] = svc.Refresh(ctx, "x")
	checks["logout"] = svc.Logout(ctx, "x")
	_, checks["authenticate"] = svc.Authenticate("x")
	_, checks["sign audio"] = svc.SignAudio("f.wav")
	for name, err := range checks {
		if !apperrors.HasCode(err, apperrors.ErrCodeServiceUnavailable) {
			t.Errorf("%s err = %v, want SERVICE_UNAVAILABLE", name, err)
		}
	}

	cfg := testConfig()
	cfg.DefaultUser = ""
	svc, _ = newTestService(t, cfg)
	if _, err := svc.Login(ctx, "alice", "wonderland"); !apperrors.HasCode(err, apperrors.ErrCodeServiceUnavailable) {
		t.Fatalf("missing credential err = %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	first, _ := svc.Login(ctx, "alice", "wonderland")

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh token must rotate")
	}
	if _, err := svc.Refresh(ctx, first.RefreshToken); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("reused refresh err = %v", err)
	}
	if _, err := svc.Refresh(ctx, second.AccessToken); !apperrors.HasCode(err, apperrors.ErrCodeInvalidToken) {
		t.Fatalf("access token as refresh err = %v", err)
	}
}

func TestLogoutRevokes(t *testing.T) {
	svc, _ := newTestService(t, testConfig())
	ctx := context.Background()
	pair, _ := svc.Login(ctx, "alice", "wonderland")

	if err := svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("refresh after logout err = %v", err)
	}
	if err := svc.Logout(ctx, "garbage"); err != nil {
		t.Fatalf("logout with garbage should be silent: %v", err)
	}
}

func TestAccessExpiry(t *testing.T) {
	svc, clk := newTestService(t, testConfig())
	pair, _ := svc.Login(context.Background(), "alice", "wonderland")
	clk.Advance(16 * time.Minute)
	if _, err := svc.Authenticate(pair.AccessToken); !apperrors.HasCode(err, apperrors.ErrCodeTokenExpired) {
		t.Fatalf("err = %v, want TOKEN_EXPIRED", err)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSecret = cfg.AccessSecret + "-r"
	svc, _ := newTestService(t, cfg)
	pair, _ := svc.Login(context.Background(), "alice", "wonderland")
	if _, err := svc.Authenticate(pair.RefreshToken); err == nil {
		t.Fatal("refresh token must not authenticate")
	}
}

func TestAudioTokens(t *testing.T) {
	svc, clk := newTestService(t, testConfig())
	const file = "0123456789abcdef0123456789abcdef.wav"

	token, err := svc.SignAudio(file)
	if err != nil {
		t.Fatalf("SignAudio: %v", err)
	}
	if err := svc.VerifyAudio(token, file); err != nil {
		t.Fatalf("VerifyAudio: %v", err)
	}
	if err := svc.VerifyAudio(token, "ffffffffffffffffffffffffffffffff.wav"); !apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
		t.Fatalf("other file err = %v", err)
	}

	pair, _ := svc.Login(context.Background(), "alice", "wonderland")
	if err := svc.VerifyAudio(pair.AccessToken, file); err == nil {
		t.Fatal("access token must not unlock audio")
	}

	clk.Advance(11 * time.Minute)
	if err := svc.VerifyAudio(token, file); err == nil {
		t.Fatal("expired audio token accepted")
	}
}

func TestAudioSecretFallback(t *testing.T) {
	cfg := testConfig()
	withFallback, _ := newTestService(t, cfg)
	cfg.AudioSecret = "audio-secret"
	dedicated, _ := newTestService(t, cfg)

	const file = "0123456789abcdef0123456789abcdef.mp3"
	token, _ := withFallback.SignAudio(file)
	if err := dedicated.VerifyAudio(token, file); err == nil {
		t.Fatal("token signed with the access secret must not verify under a dedicated audio secret")
	}
	if !withFallback.AudioConfigured() {
		t.Fatal("audio tokens should fall back to the access secret")
	}
}

func TestRefreshStoreInRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	client, err := redis.New(redis.Config{Enabled: true, Addr: mini.Addr()}, logger.NewNop())
	if err != nil {
		t.Fatalf("redis.New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	svc := New(testConfig(), redis.NewTypedStore[RefreshRecord](client, "refresh"), nil)
	ctx := context.Background()
	pair, err := svc.Login(ctx, "alice", "wonderland")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(mini.Keys()) != 1 {
		t.Fatalf("keys = %v", mini.Keys())
	}
	if ttl := mini.TTL(mini.Keys()[0]); ttl < 29*24*time.Hour {
		t.Fatalf("refresh record ttl = %v", ttl)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); err == nil {
		t.Fatal("rotated token must be rejected")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	if err := cfg.Validate(); err == nil {
		t.Fatal("identical secrets must be rejected")
	}
}
