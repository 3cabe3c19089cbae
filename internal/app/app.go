package app

import (
	"log/slog"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/config"
	"github.com/sandeepkv93/dexnote-client/internal/nav"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
	"github.com/sandeepkv93/dexnote-client/internal/service"
	"github.com/sandeepkv93/dexnote-client/internal/view"
)

// App holds the wired client. There is exactly one SessionStore per process.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Observability *observability.Runtime
	API           *api.Client
	Tokens        service.TokenStore
	Sessions      *service.SessionStore
	Accounts      *service.AccountService
	Catalog       *service.CatalogService
	Learning      *service.LearningService
	Notes         *service.NoteService
	Navigator     *nav.Navigator
	Pages         *view.Pages
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	runtime *observability.Runtime,
	client *api.Client,
	tokens service.TokenStore,
	sessions *service.SessionStore,
	accounts *service.AccountService,
	catalog *service.CatalogService,
	learning *service.LearningService,
	notes *service.NoteService,
	navigator *nav.Navigator,
	pages *view.Pages,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Observability: runtime,
		API:           client,
		Tokens:        tokens,
		Sessions:      sessions,
		Accounts:      accounts,
		Catalog:       catalog,
		Learning:      learning,
		Notes:         notes,
		Navigator:     navigator,
		Pages:         pages,
	}
}
