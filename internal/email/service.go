package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/logger"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis       *redis.Client
	from        string
	fromName    string
	smtpHost    string
	smtpPort    string
	smtpUser    string
	smtpPass    string
	frontendURL string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr, frontendURL string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:        fromEmail,
		fromName:    fromName,
		smtpHost:    smtpHost,
		smtpPort:    smtpPort,
		smtpUser:    smtpUser,
		smtpPass:    smtpPass,
		frontendURL: frontendURL,
	}
}

func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	metrics.RecordEmail(emailType, "queued")
	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending email to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Infof("Email sent successfully to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	metrics.RecordEmail(job.Type, "failed")
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(token))
	subject := "Reset Your Password"
	body := fmt.Sprintf(`Hi %s,

We received a request to reset your account password.

Open the link below to choose a new password. The link expires in 1 hour.

%s

If you did not request this, you can ignore this email.

- NumDesk Team`, name, link)

	return s.Send(ctx, "password_reset", to, name, subject, body)
}

func (s *Service) SendWelcome(ctx context.Context, to, name string) error {
	subject := "Welcome to NumDesk"
	body := fmt.Sprintf(`Hi %s,

Your reseller account has been created.

Log in to complete onboarding and recharge your wallet to activate your validity window.

- NumDesk Team`, name)

	return s.Send(ctx, "welcome", to, name, subject, body)
}

func (s *Service) SendRechargeReceipt(ctx context.Context, to, name, amount, balance, reference string) error {
	subject := "Wallet Recharge Received"
	body := fmt.Sprintf(`Hi %s,

Your wallet recharge has been applied.

Amount: %s
New Balance: %s
Reference: %s

Your validity window has been reset from today.

- NumDesk Team`, name, amount, balance, reference)

	return s.Send(ctx, "recharge_receipt", to, name, subject, body)
}
