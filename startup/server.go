package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/authorization"
	"github.com/alaminrifat/house-hunter-server/casbinAuthorization"
	"github.com/alaminrifat/house-hunter-server/domain"
	"github.com/alaminrifat/house-hunter-server/handlers"
	application "github.com/alaminrifat/house-hunter-server/service"
	"github.com/alaminrifat/house-hunter-server/startup/config"
	"github.com/alaminrifat/house-hunter-server/store"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	msg := fmt.Sprintf("[%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Message,
	)
	return []byte(msg), nil
}

func initLogger(logFile string) {
	Logger.SetFormatter(&CustomFormatter{})
	if logFile == "" {
		Logger.SetOutput(os.Stdout)
		return
	}

	writer, err := rotatelogs.New(
		logFile+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		Logger.Warnf("Failed to create rotatelogs writer, logging to stdout: %v", err)
		Logger.SetOutput(os.Stdout)
		return
	}
	Logger.SetOutput(writer)
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(context.Background(), server.config.MongoURI, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initUserStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	return store.NewUserMongoDBStore(client, server.config.MongoDBName, tracer)
}

func (server *Server) initHouseStore(client *mongo.Client, tracer trace.Tracer) domain.HouseStore {
	return store.NewHouseMongoDBStore(client, server.config.MongoDBName, tracer)
}

func (server *Server) initBookingStore(client *mongo.Client, tracer trace.Tracer) domain.BookingStore {
	return store.NewBookingMongoDBStore(client, server.config.MongoDBName, tracer)
}

func (server *Server) Start() {

	initLogger(server.config.LogFile)

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("house_hunter")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	tokens, err := authorization.NewTokenManager([]byte(server.config.SecretKey))
	if err != nil {
		log.Fatalf("Failed to Initialize Token Manager: %v", err)
	}

	authorizer, err := casbinAuthorization.NewAuthorizer("./rbac_model.conf", "./policy.csv", Logger)
	if err != nil {
		log.Fatalf("Failed to Initialize Authorizer: %v", err)
	}

	userStore := server.initUserStore(mongoClient, tracer)
	houseStore := server.initHouseStore(mongoClient, tracer)
	bookingStore := server.initBookingStore(mongoClient, tracer)

	authService := application.NewAuthService(userStore, tokens, tracer, Logger)
	houseService := application.NewHouseService(houseStore, tracer, Logger)
	bookingService := application.NewBookingService(bookingStore, tracer, Logger)

	authHandler := handlers.NewAuthHandler(authService, tracer, Logger)
	houseHandler := handlers.NewHouseHandler(houseService, authorizer, tracer, Logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, authorizer, tracer, Logger)

	authMiddleware := handlers.NewAuthMiddleware(tokens, Logger)

	server.start(authHandler, houseHandler, bookingHandler, authMiddleware)
}

func (server *Server) start(authHandler *handlers.AuthHandler, houseHandler *handlers.HouseHandler, bookingHandler *handlers.BookingHandler, authMiddleware *handlers.AuthMiddleware) {
	router := mux.NewRouter()
	router.Use(handlers.MiddlewareContentTypeSet)
	router.Use(handlers.ExtractTraceInfoMiddleware)
	router.Use(handlers.RequestLogMiddleware(Logger))

	router.HandleFunc("/", func(writer http.ResponseWriter, req *http.Request) {
		_, _ = writer.Write([]byte(`{"message": "House Hunter Server is Running..."}`))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	public := api.NewRoute().Subrouter()
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)

	authHandler.Init(public)
	houseHandler.Init(public, protected)
	bookingHandler.Init(protected)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: router,
	}

	wait := time.Second * 15
	go func() {
		Logger.Infof("Server listening on port %s", server.config.Port)
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("house_hunter"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
