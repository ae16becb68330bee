package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/avesguide/academy_api/docs"
	"github.com/avesguide/academy_api/services/handlers"
	"github.com/avesguide/academy_api/shared"
)

type HttpService struct {
	context.DefaultService

	courseSvc    *CourseService
	mediaSvc     *MediaService
	rateLimitSvc *RateLimitService
	monSvc       *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.courseSvc = svc.Service(COURSE_SVC).(*CourseService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		ErrorHandler: svc.errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + shared.UserIDHeader,
	}))
	app.Use(MonitoringMiddleware(svc.monSvc))
	app.Use(svc.rateLimitSvc.RateLimit("api_general"))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	courseHandler := handlers.NewCourseHandler(svc.courseSvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	v1.Get("/courses", courseHandler.GetCourses)
	v1.Get("/courses/:courseId", svc.requireUser, courseHandler.GetCourse)

	v1.Post("/attempts", svc.requireUser, courseHandler.RecordAttempt)
	v1.Post("/activities/complete", svc.requireUser, svc.rateLimitSvc.UserRateLimit("submit"), courseHandler.CompleteActivity)
	v1.Post("/lessons/:lessonId/complete", svc.requireUser, svc.rateLimitSvc.UserRateLimit("submit"), courseHandler.CompleteLesson)

	v1.Get("/lessons/:lessonId/audio", mediaHandler.GetAudioStream)

	admin := v1.Group("/admin")
	admin.Post("/courses", courseHandler.CreateCourse)
	admin.Post("/lessons", courseHandler.CreateLesson)
	admin.Post("/lessons/:lessonId/audio", svc.rateLimitSvc.RateLimit("upload"), mediaHandler.UploadLessonAudio)
	admin.Delete("/lessons/:lessonId/audio", mediaHandler.DeleteLessonAudio)

	svc.server = app

	log.Printf("HTTP service listening on :%v", svc.port)
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// requireUser resolves the learner identity set by the edge gateway.
// Requests without it cannot touch enrollment state.
func (svc *HttpService) requireUser(c *fiber.Ctx) error {
	userID := c.Get(shared.UserIDHeader)
	if userID == "" {
		return shared.NewAppError(http.StatusUnauthorized, "missing_user", "Missing "+shared.UserIDHeader+" header")
	}

	c.Locals(shared.UserID, userID)
	return c.Next()
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	if appErr, ok := shared.GetAppError(err); ok {
		if errors.Is(err, shared.ErrActivitiesIncomplete) {
			log.Printf("Lesson completion blocked: %v missing activities", appErr.Data)
		}
		return c.Status(appErr.StatusCode).JSON(appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
