package service

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/aligarduo/Naive-Dev/pkg/config"
)

const verifyCodeBody = `<html><body>
<p>Welcome! Your verification code is:</p>
<h2>%s</h2>
<p>The code expires in %d minutes. If you did not request it, ignore this email.</p>
</body></html>`

// MailService delivers transactional email over SMTP.
type MailService struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewMailService constructs a MailService.
func NewMailService(cfg config.SMTPConfig, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailService{cfg: cfg, logger: logger}
}

// SendVerifyCode mails the verification code to the recipient.
func (s *MailService) SendVerifyCode(ctx context.Context, to, code string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sender := s.cfg.Sender
	if sender == "" {
		sender = s.cfg.Account
	}

	body := fmt.Sprintf(verifyCodeBody, code, int(ttl.Minutes()))
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Welcome aboard\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s", sender, to, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Account, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	s.logger.Info("verification email sent", zap.String("to", to))
	return nil
}
