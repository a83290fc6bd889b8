//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rentwheels/service-rental/internal/application"
	"github.com/rentwheels/service-rental/internal/auth"
	accountDomain "github.com/rentwheels/service-rental/internal/domain/account"
	bookingDomain "github.com/rentwheels/service-rental/internal/domain/booking"
	vehicleDomain "github.com/rentwheels/service-rental/internal/domain/vehicle"
	"github.com/rentwheels/service-rental/internal/events"
	"github.com/rentwheels/service-rental/internal/repository"
)

const testTopic = "rental.booking.events"

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// rentalStack holds the wired-up service components.
type rentalStack struct {
	Bookings        *application.BookingService
	Vehicles        *application.VehicleService
	Accounts        *application.AccountService
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a
// connected GORM DB with the schema applied.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_rental",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_rental sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.VehicleModel{},
		&repository.UserModel{},
		&repository.BookingModel{},
	))
	// AutoMigrate cannot express the partial unique index.
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_bookings_active_vehicle
		 ON bookings (vehicle_id) WHERE status = 'active'`,
	).Error)

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, testTopic)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupRentalStack wires up the full service stack against the test DB.
func setupRentalStack(t *testing.T, db *gorm.DB, brokers []string) *rentalStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	vehicleRepo := repository.NewGormVehicleRepository(db)
	accountRepo := repository.NewGormAccountRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	transactor := repository.NewGormTransactor(db)
	producer := events.NewProducer(brokers, testTopic)
	jwtManager := auth.NewJWTManager("integration-test-secret")

	bookingSvc := application.NewBookingService(
		bookingRepo,
		vehicleRepo,
		bookingDomain.NewDailyRatePricing(),
		transactor,
		producer,
		logger,
	)
	vehicleSvc := application.NewVehicleService(vehicleRepo, bookingRepo, transactor, logger)
	accountSvc := application.NewAccountService(accountRepo, bookingRepo, transactor, jwtManager, logger)

	return &rentalStack{
		Bookings:        bookingSvc,
		Vehicles:        vehicleSvc,
		Accounts:        accountSvc,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedCustomer registers a customer account through the service.
func seedCustomer(t *testing.T, stack *rentalStack) *application.AccountDTO {
	t.Helper()
	dto, err := stack.Accounts.SignUp(context.Background(), application.SignUpRequest{
		Name:     "Test Customer",
		Email:    fmt.Sprintf("customer-%s@example.com", uuid.NewString()[:8]),
		Password: "s3cret",
		Phone:    "+60123456789",
		Role:     string(accountDomain.RoleCustomer),
	})
	require.NoError(t, err)
	return dto
}

// seedVehicle registers an available vehicle through the service.
func seedVehicle(t *testing.T, stack *rentalStack, dailyRate int64) *application.VehicleDTO {
	t.Helper()
	dto, err := stack.Vehicles.CreateVehicle(context.Background(), application.CreateVehicleRequest{
		VehicleName:        "Toyota Corolla",
		Type:               string(vehicleDomain.TypeCar),
		RegistrationNumber: fmt.Sprintf("REG-%s", uuid.NewString()[:8]),
		DailyRentPrice:     dailyRate,
	})
	require.NoError(t, err)
	return dto
}

// vehicleStatusInDB reads the availability flag straight from the table.
func vehicleStatusInDB(t *testing.T, db *gorm.DB, vehicleID uuid.UUID) string {
	t.Helper()
	var model repository.VehicleModel
	require.NoError(t, db.Where("id = ?", vehicleID).First(&model).Error)
	return model.AvailabilityStatus
}

// consumeOneEvent reads from the topic until it finds an event of the
// expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) events.Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.NewString()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		var envelope events.Envelope
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			continue
		}
		if envelope.Type == expectedType {
			return envelope
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with
// "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer func() { _ = conn.Close() }()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "failed to dial Kafka controller")
	defer func() { _ = controllerConn.Close() }()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(configs...), "failed to create topics")
}
