package email

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

func newTestService(rdb *redis.Client) *Service {
	return &Service{
		redis:       rdb,
		from:        "noreply@numdesk.example.com",
		fromName:    "NumDesk Team",
		smtpHost:    "smtp.test.com",
		smtpPort:    "587",
		smtpUser:    "test@example.com",
		smtpPass:    "password",
		frontendURL: "https://app.numdesk.example.com",
	}
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.Send(ctx, "generic", "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendPasswordReset(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*reset-password\?token=.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.SendPasswordReset(ctx, "user@example.com", "User", "tok-123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendWelcome(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.SendWelcome(ctx, "user@example.com", "User")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendRechargeReceipt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.SendRechargeReceipt(ctx, "user@example.com", "User", "500.00", "1500.00", "ref-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("emails").SetVal(5)

	svc := newTestService(db)

	length := svc.QueueLength(ctx)
	assert.Equal(t, int64(5), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(assert.AnError)

	svc := newTestService(db)

	err := svc.Send(ctx, "generic", "user@example.com", "User", "Hello", "Test body")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
