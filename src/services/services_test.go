package services_test

import (
	"testing"

	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/services"
	"github.com/theleywin/talentnest/src/store"
	"github.com/theleywin/talentnest/src/tester"
)

type fixture struct {
	st     *store.GormStore
	mailer *tester.Mailer
	assets *tester.Assets
	tokens *lib.TokenManager
	svc    *services.Services
}

func setup(t *testing.T) *fixture {
	t.Helper()

	cfg := tester.Config()
	f := &fixture{
		st:     tester.NewStore(t),
		mailer: &tester.Mailer{},
		assets: tester.NewAssets(),
		tokens: lib.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
	}
	f.svc = services.New(f.st, f.mailer, f.assets, f.tokens, cfg)
	return f
}
