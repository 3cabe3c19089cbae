//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/app"
	"github.com/sandeepkv93/dexnote-client/internal/config"
	"github.com/sandeepkv93/dexnote-client/internal/nav"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
	"github.com/sandeepkv93/dexnote-client/internal/repository"
	"github.com/sandeepkv93/dexnote-client/internal/service"
	"github.com/sandeepkv93/dexnote-client/internal/view"
)

var backendSet = wire.NewSet(
	provideAPIClient,
	wire.Bind(new(service.IdentityResolver), new(*api.Client)),
	wire.Bind(new(service.AuthBackend), new(*api.Client)),
	wire.Bind(new(service.CatalogBackend), new(*api.Client)),
	wire.Bind(new(service.LearningBackend), new(*api.Client)),
)

var storageSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	repository.NewSettingRepository,
	repository.NewNoteRepository,
	provideTokenStore,
)

var serviceSet = wire.NewSet(
	provideSessionStore,
	service.NewAccountService,
	service.NewCatalogService,
	service.NewLearningService,
	service.NewNoteService,
)

var viewSet = wire.NewSet(
	provideRouteGuard,
	nav.NewNavigator,
	wire.Bind(new(nav.SessionSource), new(*service.SessionStore)),
	provideRenderer,
	view.NewPages,
	wire.Bind(new(view.CatalogLoader), new(*service.CatalogService)),
	wire.Bind(new(view.NoteLister), new(*service.NoteService)),
)

func InitializeApp(ctx context.Context, cfg *config.Config, rt *observability.Runtime) (*app.App, func(), error) {
	wire.Build(
		provideLogger,
		backendSet,
		storageSet,
		serviceSet,
		viewSet,
		app.New,
	)
	return nil, nil, nil
}
