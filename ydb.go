// Package ydb is the YDB Wellness web site: marketing pages, shop, blog,
// research library, wellness assessment and the admin panel that edits the
// content collections. It is built with Echo and server-rendered views.
package ydb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/assessment"
	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/blobstore"
	"github.com/ydbwellness/ydb/catalog"
	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/docstore"
	"github.com/ydbwellness/ydb/newsletter"
	"github.com/ydbwellness/ydb/toast"
	"github.com/ydbwellness/ydb/views"
)

const (
	uploadsPrefix = "/uploads"
	tokenTTL      = 12 * time.Hour
)

// App is the central application. It wires together the stores, content
// managers, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Log    *zap.Logger
	Store  docstore.Store
	Blobs  *blobstore.FS
	Views  *views.Views

	Blogs   *content.Manager[content.BlogPost]
	Papers  *content.Manager[content.Paper]
	Areas   *content.Manager[content.Area]
	Members *content.Manager[content.Member]
	Uploads *content.Uploader

	Catalog    *catalog.Catalog
	Quiz       *assessment.Engine
	Auth       *auth.Local
	Policy     auth.Policy
	Newsletter *newsletter.Service
	Toasts     *toast.Registry

	mailer            newsletter.Mailer
	loginLimiter      *Limiter
	newsletterLimiter *Limiter
	customRoutes      []func(*App)
	ownStore          bool
	stop              context.CancelFunc
	sweepDone         chan struct{}
}

// New creates an App with the given configuration. log may be nil.
func New(cfg SiteConfig, log *zap.Logger, opts ...Option) *App {
	cfg.setDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Log:    log,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the stores, builds the content layer and registers
// middleware and routes. Start calls it; tests call it directly and drive
// a.Echo with httptest.
func (a *App) Init() error {
	if err := a.Config.validate(); err != nil {
		return err
	}

	if a.Store == nil {
		store, err := docstore.Open(a.Config.Database.Driver, a.Config.Database.DSN)
		if err != nil {
			return fmt.Errorf("ydb: init store: %w", err)
		}
		a.Store = store
		a.ownStore = true
	}

	blobs, err := blobstore.NewFS(a.Config.UploadsDir, uploadsPrefix)
	if err != nil {
		return fmt.Errorf("ydb: init uploads: %w", err)
	}
	a.Blobs = blobs

	if a.Views, err = views.New(); err != nil {
		return fmt.Errorf("ydb: init views: %w", err)
	}
	if a.Catalog, err = catalog.Load(); err != nil {
		return fmt.Errorf("ydb: init catalog: %w", err)
	}

	ttl := a.Config.ListCacheTTL
	a.Blogs = content.NewManager(content.NewCache(content.NewRepository(a.Store, content.BlogKind, a.Log), ttl))
	a.Papers = content.NewManager(content.NewCache(content.NewRepository(a.Store, content.PaperKind, a.Log), ttl))
	a.Areas = content.NewManager(content.NewCache(content.NewRepository(a.Store, content.AreaKind, a.Log), ttl))
	a.Members = content.NewManager(content.NewCache(content.NewRepository(a.Store, content.MemberKind, a.Log), ttl))
	a.Uploads = content.NewUploader(a.Blobs, a.Log)

	a.Quiz = assessment.New()
	a.Auth = auth.NewLocal(a.Store, a.Config.TokenSecret, tokenTTL, a.Log)
	a.Policy = auth.Policy{AdminEmail: a.Config.AdminEmail, Strict: a.Config.StrictAdmin}

	if a.mailer == nil {
		if a.Config.Mail.ResendAPIKey != "" {
			a.mailer = newsletter.NewResendMailer(a.Config.Mail.ResendAPIKey, a.Config.Mail.From, a.Log)
		} else {
			a.mailer = newsletter.LogMailer{Log: a.Log}
		}
	}
	a.Newsletter = newsletter.NewService(a.Store, a.mailer, a.Config.Name, a.Log)

	a.Toasts = toast.NewRegistry(a.Config.ToastTTL)
	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	a.sweepDone = make(chan struct{})
	go func() {
		defer close(a.sweepDone)
		a.Toasts.Run(ctx, toast.DefaultIdle/2)
	}()

	a.loginLimiter = NewLimiter(5, time.Minute)
	a.newsletterLimiter = NewLimiter(10, time.Hour)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Log.Info("listening", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.URL))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))))
	e.Static(uploadsPrefix, a.Config.UploadsDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleBlogList)
	e.GET("/blog/:id", a.handleBlogPost)
	e.GET("/research", a.handleResearch)
	e.GET("/science", a.handleScience)
	e.GET("/shop", a.handleShop)
	e.GET("/product/:id", a.handleProduct)
	e.GET("/assessment", a.handleAssessment)
	e.POST("/assessment", a.handleAssessmentStep)
	e.POST("/newsletter", a.handleNewsletter)
	e.POST("/toasts/:id/dismiss", a.handleToastDismiss)

	// Account
	e.GET("/login", a.handleLoginPage)
	e.POST("/login", a.handleLogin)
	e.POST("/logout", a.handleLogout)
	e.GET("/signup", a.handleSignupPage)
	e.POST("/signup", a.handleSignup)

	requireUser := auth.RequireUser("/login")
	e.GET("/create-blog", a.handleCreateBlogPage, requireUser)
	e.POST("/create-blog", a.handleCreateBlog, requireUser)

	admin := e.Group("/admin", auth.RequireAdmin(a.Policy, "/login", a.handleAccessDenied))
	admin.GET("", a.handleAdmin)
	a.blogResource().register(admin)
	a.paperResource().register(admin)
	a.areaResource().register(admin)
	a.memberResource().register(admin)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stop != nil {
		a.stop()
		<-a.sweepDone
	}
	if a.Toasts != nil {
		a.Toasts.Close()
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.newsletterLimiter != nil {
		a.newsletterLimiter.Stop()
	}
	if a.ownStore && a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
