package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/tukio-app/tukio-api/docs"
	v1 "github.com/tukio-app/tukio-api/internal/api/handler/v1"
	"github.com/tukio-app/tukio-api/internal/api/middleware"
	"github.com/tukio-app/tukio-api/internal/config"
	"github.com/tukio-app/tukio-api/internal/pkg/mpesa"
	"github.com/tukio-app/tukio-api/internal/repository"
	"github.com/tukio-app/tukio-api/internal/repository/dao"
	"github.com/tukio-app/tukio-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	venueHandler := s.initVenueHandler(db)
	eventHandler := s.initEventHandler(db)
	bookingHandler := s.initBookingHandler(db)
	paymentHandler := s.initPaymentHandler(db)
	mpesaHandler := s.initMpesaHandler(db)
	ticketHandler := s.initSupportTicketHandler(db)
	messageHandler := s.initTicketMessageHandler(db)
	s.MountHandlers(authHandler, userHandler, venueHandler, eventHandler, bookingHandler, paymentHandler, mpesaHandler, ticketHandler, messageHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initVenueHandler(db *gorm.DB) *v1.VenueHandler {
	venueDAO := dao.NewVenueDAO(db)
	repo := repository.NewVenueRepository(venueDAO)
	svc := service.NewVenueService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewVenueHandler(svc, uSvc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initBookingHandler(db *gorm.DB) *v1.BookingHandler {
	bookingRepo := repository.NewBookingRepository(dao.NewBookingDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewBookingService(bookingRepo, eventRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewBookingHandler(svc, uSvc)

	return handler
}

func (s *Server) initPaymentHandler(db *gorm.DB) *v1.PaymentHandler {
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	bookingRepo := repository.NewBookingRepository(dao.NewBookingDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewPaymentService(paymentRepo, bookingRepo)
	bSvc := service.NewBookingService(bookingRepo, eventRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewPaymentHandler(svc, bSvc, uSvc)

	return handler
}

func (s *Server) initMpesaHandler(db *gorm.DB) *v1.MpesaHandler {
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	bookingRepo := repository.NewBookingRepository(dao.NewBookingDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	gateway := mpesa.NewClient(*s.Config.Mpesa)
	svc := service.NewMpesaService(gateway, paymentRepo)
	pSvc := service.NewPaymentService(paymentRepo, bookingRepo)
	bSvc := service.NewBookingService(bookingRepo, eventRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewMpesaHandler(svc, pSvc, bSvc, uSvc)

	return handler
}

func (s *Server) initSupportTicketHandler(db *gorm.DB) *v1.SupportTicketHandler {
	repo := repository.NewSupportTicketRepository(dao.NewSupportTicketDAO(db))
	svc := service.NewSupportTicketService(repo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewSupportTicketHandler(svc, uSvc)

	return handler
}

func (s *Server) initTicketMessageHandler(db *gorm.DB) *v1.TicketMessageHandler {
	repo := repository.NewTicketMessageRepository(dao.NewTicketMessageDAO(db))
	ticketRepo := repository.NewSupportTicketRepository(dao.NewSupportTicketDAO(db))
	svc := service.NewTicketMessageService(repo, ticketRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewTicketMessageHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	venueHandler *v1.VenueHandler,
	eventHandler *v1.EventHandler,
	bookingHandler *v1.BookingHandler,
	paymentHandler *v1.PaymentHandler,
	mpesaHandler *v1.MpesaHandler,
	ticketHandler *v1.SupportTicketHandler,
	messageHandler *v1.TicketMessageHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/events", eventHandler.HandleGetEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
		public.GET("/venues", venueHandler.HandleGetVenues)
		public.GET("/venues/:venueID", venueHandler.HandleGetVenue)

		// The gateway cannot authenticate; the callback is correlated by
		// the payment_id query parameter instead.
		public.POST("/mpesa/callback", mpesaHandler.HandleCallback)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator([]byte(s.Config.API.JWTSigningKey)).VerifyJWT())
	{
		authenticated.GET("/users", userHandler.HandleGetUsers)
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)
		authenticated.PUT("/users/:userID", userHandler.HandleUpdateUser)
		authenticated.DELETE("/users/:userID", userHandler.HandleDeleteUser)
		authenticated.GET("/users/:userID/bookings", bookingHandler.HandleGetBookingsByUser)

		authenticated.POST("/venues", venueHandler.HandleCreateVenue)
		authenticated.PUT("/venues/:venueID", venueHandler.HandleUpdateVenue)
		authenticated.DELETE("/venues/:venueID", venueHandler.HandleDeleteVenue)

		authenticated.POST("/events", eventHandler.HandleCreateEvent)
		authenticated.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authenticated.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)

		authenticated.POST("/bookings", bookingHandler.HandleCreateBooking)
		authenticated.GET("/bookings", bookingHandler.HandleGetBookings)
		authenticated.GET("/bookings/:bookingID", bookingHandler.HandleGetBooking)
		authenticated.PATCH("/bookings/:bookingID/status", bookingHandler.HandleUpdateBookingStatus)
		authenticated.PUT("/bookings/:bookingID", bookingHandler.HandleUpdateBooking)
		authenticated.DELETE("/bookings/:bookingID", bookingHandler.HandleDeleteBooking)
		authenticated.GET("/bookings/:bookingID/payment", paymentHandler.HandleGetPaymentByBooking)

		authenticated.POST("/payments", paymentHandler.HandleCreatePayment)
		authenticated.GET("/payments", paymentHandler.HandleGetPayments)
		authenticated.GET("/payments/:paymentID", paymentHandler.HandleGetPayment)
		authenticated.PUT("/payments/:paymentID", paymentHandler.HandleUpdatePayment)
		authenticated.DELETE("/payments/:paymentID", paymentHandler.HandleDeletePayment)

		authenticated.POST("/mpesa/stkpush", mpesaHandler.HandleSTKPush)

		authenticated.POST("/tickets", ticketHandler.HandleCreateTicket)
		authenticated.GET("/tickets", ticketHandler.HandleGetTickets)
		authenticated.GET("/tickets/:ticketID", ticketHandler.HandleGetTicket)
		authenticated.PUT("/tickets/:ticketID", ticketHandler.HandleUpdateTicket)
		authenticated.DELETE("/tickets/:ticketID", ticketHandler.HandleDeleteTicket)
		authenticated.GET("/tickets/:ticketID/messages", messageHandler.HandleGetMessagesByTicket)

		authenticated.POST("/ticket-messages", messageHandler.HandleCreateMessage)
		authenticated.PUT("/ticket-messages/:messageID", messageHandler.HandleUpdateMessage)
		authenticated.DELETE("/ticket-messages/:messageID", messageHandler.HandleDeleteMessage)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Tukio API"
	docs.SwaggerInfo.Description = "Event ticketing API with M-Pesa payments."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
