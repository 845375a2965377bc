package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/config"
	"github.com/Alikh-collab/TAZA-back/internal/middleware"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/ratelimit"
	"github.com/Alikh-collab/TAZA-back/internal/security"
	"github.com/Alikh-collab/TAZA-back/internal/service"
	"github.com/Alikh-collab/TAZA-back/internal/storage"
)

// ComplaintRepository is the complaint store plus the owner lookup used by
// the ownership guard.
type ComplaintRepository interface {
	service.ComplaintStore
	middleware.OwnerLookup
}

type UpdateLister interface {
	List(ctx context.Context) ([]models.Update, error)
}

// HealthCheck is one dependency probed by GET /api/health.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type Dependencies struct {
	Users      service.UserStore
	Complaints ComplaintRepository
	Updates    UpdateLister
	Files      storage.FileStore
	Limiter    ratelimit.Limiter
	Checks     []HealthCheck
}

type HandlerSet struct {
	log        zerolog.Logger
	cfg        *config.AppConfig
	tokens     *security.TokenIssuer
	auth       *service.AuthService
	complaints *service.ComplaintService
	admin      *service.AdminService
	uploads    *service.UploadService
	users      service.UserStore
	owners     middleware.OwnerLookup
	updates    UpdateLister
	limiter    ratelimit.Limiter
	checks     []HealthCheck
	started    time.Time
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	hasher := security.NewPasswordHasher(cfg.Security.PasswordScheme, cfg.Security.BcryptCost)
	uploads := service.NewUploadService(deps.Files, cfg.Upload, log)

	return HandlerSet{
		log:        log,
		cfg:        cfg,
		tokens:     tokens,
		auth:       service.NewAuthService(deps.Users, tokens, hasher, uploads, cfg.Security.PasswordMinLength, log),
		complaints: service.NewComplaintService(deps.Complaints, uploads, log),
		admin:      service.NewAdminService(deps.Users, deps.Complaints, log),
		uploads:    uploads,
		users:      deps.Users,
		owners:     deps.Complaints,
		updates:    deps.Updates,
		limiter:    deps.Limiter,
		checks:     deps.Checks,
		started:    time.Now(),
	}
}

// RegisterRoutes mounts every route on router, which is expected to be the /api
// group.
func (h HandlerSet) RegisterRoutes(router *gin.RouterGroup) {
	if h.limiter != nil {
		router.Use(middleware.RateLimit(h.limiter, h.log))
	}

	authenticated := middleware.Auth(h.tokens, h.users)
	ownsComplaint := middleware.RequireOwnership(h.owners, "id")

	router.GET("", h.Info)
	router.GET("/health", h.Health)

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", authenticated, h.Me)
		auth.PUT("/profile", authenticated, h.UpdateProfile)
		auth.POST("/change-password", authenticated, h.ChangePassword)
	}

	complaints := router.Group("/complaints")
	{
		complaints.POST("", authenticated, h.CreateComplaint)
		complaints.POST("/", authenticated, h.CreateComplaint)
		complaints.GET("/public", h.PublicComplaints)
		complaints.GET("/my", authenticated, h.MyComplaints)
		complaints.GET("/:id", h.GetComplaint)
		complaints.PUT("/:id", authenticated, ownsComplaint, h.UpdateComplaint)
		complaints.DELETE("/:id", authenticated, ownsComplaint, h.DeleteComplaint)
	}

	admin := router.Group("/admin", authenticated, middleware.RequireAdmin())
	{
		admin.GET("/complaints", h.AdminComplaints)
		admin.PATCH("/complaints/:id/status", h.SetComplaintStatus)
		admin.DELETE("/complaints/:id", h.DeleteComplaint)
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/users", h.ListUsers)
		admin.PATCH("/users/:id/role", h.SetUserRole)
	}

	router.GET("/updates", h.ListUpdates)

	upload := router.Group("/upload", authenticated)
	{
		upload.POST("", h.Upload)
		upload.POST("/", h.Upload)
		upload.POST("/multiple", h.UploadMultiple)
	}
}

// fail hands err to the error middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

var errInvalidBody = apperr.Validation("invalid request body")

// bind decodes a JSON or form body into dst.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBind(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return err
		}
		return errInvalidBody
	}
	return nil
}

// optionalFile returns the uploaded part named field, or nil when the
// request carries none.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return header, err
}

var errInvalidID = apperr.New(apperr.KindValidation, "invalid_id", "invalid id")

func pathID(c *gin.Context) (int64, error) {
	id, ok := middleware.ParamID(c, "id")
	if !ok {
		return 0, errInvalidID
	}
	return id, nil
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func pageFromQuery(c *gin.Context, def int) models.Page {
	return service.ClampPage(models.Page{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}, def)
}
