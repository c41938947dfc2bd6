package provider

import (
	"github.com/paveworks/paveworks-api/internal/cache"
	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/credential"
	"github.com/paveworks/paveworks-api/internal/logger"
	"github.com/paveworks/paveworks-api/internal/models"
	"github.com/paveworks/paveworks-api/internal/queue"
	"github.com/paveworks/paveworks-api/internal/ratelimit"
	"github.com/paveworks/paveworks-api/internal/repository"
	"github.com/paveworks/paveworks-api/internal/service"
)

// Container wires repositories and services together and is shared by
// the HTTP handlers and the queue worker.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Limiter     *ratelimit.Limiter

	// Repositories
	UserRepo        repository.UserRepository
	ServiceRepo     repository.ServiceRepository
	ProjectRepo     repository.ProjectRepository
	BlogRepo        repository.BlogRepository
	TestimonialRepo repository.TestimonialRepository
	ContactRepo     repository.ContactRepository

	// Services
	EmailService       *service.EmailService
	AuthService        *service.AuthService
	UserService        *service.UserService
	CatalogService     *service.CatalogService
	ProjectService     *service.ProjectService
	BlogService        *service.BlogService
	TestimonialService *service.TestimonialService
	ContactService     *service.ContactService
	UploadService      *service.UploadService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()
	c.initLimiter()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ServiceRepo = repository.NewServiceRepository(db)
	c.ProjectRepo = repository.NewProjectRepository(db)
	c.BlogRepo = repository.NewBlogRepository(db)
	c.TestimonialRepo = repository.NewTestimonialRepository(db)
	c.ContactRepo = repository.NewContactRepository(db)
}

func (c *Container) initServices() {
	creds := credential.NewBcrypt(c.Config.Auth.BcryptCost)

	c.EmailService = service.NewEmailService(&c.Config.Email, &c.Config.Site)
	mailer := service.NewMailDispatcher(c.QueueClient, c.EmailService)

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, creds, mailer)
	c.UserService = service.NewUserService(c.UserRepo, creds, c.Config.Auth.PasswordPolicy, mailer)
	c.CatalogService = service.NewCatalogService(c.ServiceRepo)
	c.ProjectService = service.NewProjectService(c.ProjectRepo, c.ServiceRepo)
	c.BlogService = service.NewBlogService(c.BlogRepo)
	c.TestimonialService = service.NewTestimonialService(c.TestimonialRepo, c.ProjectRepo)
	c.ContactService = service.NewContactService(c.ContactRepo, c.ServiceRepo, mailer)
	c.UploadService = service.NewUploadService(&c.Config.Upload)
}

func (c *Container) initLimiter() {
	var store ratelimit.Store
	if cache.Enabled() {
		store = ratelimit.NewRedisStore(cache.Client(), cache.Prefix()+":rl")
	} else {
		store = ratelimit.NewMemoryStore()
	}
	c.Limiter = ratelimit.NewLimiter(store, c.Config.RateLimit.Enabled, c.Config.RateLimit.TrustedIPs)
}
