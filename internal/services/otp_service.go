package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/utils"
	"go.uber.org/zap"
)

const otpSubject = "Your Ente Scheme verification code"

// OTPConfig holds the code lifetime and abuse limits.
type OTPConfig struct {
	TTL                time.Duration
	ResendCooldown     time.Duration
	VerificationWindow time.Duration
	MaxAttempts        int
}

// OTPService issues and checks one-time email verification codes.
type OTPService struct {
	store   OTPStore
	mailer  Mailer
	limiter *RateLimiter
	cfg     OTPConfig
	logger  *logging.SafeLogger
	clock   utils.Clock
	newCode func() (string, error)
}

// OTPServiceOption configures an OTPService.
type OTPServiceOption func(*OTPService)

// WithOTPClock overrides the clock used for expiry and cooldowns.
func WithOTPClock(clock utils.Clock) OTPServiceOption {
	return func(s *OTPService) {
		s.clock = clock
	}
}

// WithCodeGenerator replaces the random code source.
func WithCodeGenerator(gen func() (string, error)) OTPServiceOption {
	return func(s *OTPService) {
		s.newCode = gen
	}
}

// NewOTPService creates a new OTP service. limiter may be nil.
func NewOTPService(store OTPStore, mailer Mailer, limiter *RateLimiter, cfg OTPConfig, logger *logging.SafeLogger, opts ...OTPServiceOption) *OTPService {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	s := &OTPService{
		store:   store,
		mailer:  mailer,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger,
		clock:   utils.SystemClock,
		newCode: generateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateCode returns a uniformly random 6 digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendOTP replaces any previous code for email with a new one and mails it.
func (s *OTPService) SendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateStruct(&models.SendOTPRequest{Email: email}).Err(); err != nil {
		return err
	}

	now := s.clock()
	existing, err := s.store.FindOTP(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load otp: %w", err)
	}
	if existing != nil && now.Sub(existing.CreatedAt) < s.cfg.ResendCooldown {
		observability.OTPEvents.WithLabelValues("send", "cooldown").Inc()
		return models.ErrOTPCooldown
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, "otp_send") {
		observability.OTPEvents.WithLabelValues("send", "rate_limited").Inc()
		return models.ErrOTPRateLimited
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}
	otp := &models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.TTL),
		CreatedAt: now,
	}
	if err := s.store.ReplaceOTP(ctx, otp); err != nil {
		observability.OTPEvents.WithLabelValues("send", "error").Inc()
		return fmt.Errorf("failed to store otp: %w", err)
	}

	minutes := int(s.cfg.TTL.Minutes())
	plain := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes)
	html := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, minutes)
	if err := s.mailer.Send(ctx, email, otpSubject, plain, html); err != nil {
		observability.OTPEvents.WithLabelValues("send", "error").Inc()
		return err
	}

	observability.OTPEvents.WithLabelValues("send", "success").Inc()
	s.logger.Info("otp sent", zap.String("email", observability.MaskEmail(email)))
	return nil
}

// VerifyOTP accepts code if it is the current, unused, unexpired code for
// email. Wrong codes count towards MaxAttempts, after which the code is burned.
func (s *OTPService) VerifyOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if err := utils.ValidateStruct(&models.VerifyOTPRequest{Email: email, Code: code}).Err(); err != nil {
		return err
	}

	now := s.clock()
	otp, err := s.store.FindOTP(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load otp: %w", err)
	}
	if otp == nil || otp.Used || otp.Expired(now) || otp.Attempts >= s.cfg.MaxAttempts {
		observability.OTPEvents.WithLabelValues("verify", "invalid").Inc()
		return models.ErrOTPInvalid
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		otp.Attempts++
		if err := s.store.UpdateOTP(ctx, otp); err != nil {
			s.logger.Warn("failed to record otp attempt", zap.Error(err))
		}
		observability.OTPEvents.WithLabelValues("verify", "mismatch").Inc()
		s.logger.Warn("otp mismatch",
			zap.String("email", observability.MaskEmail(email)),
			zap.Int("attempts", otp.Attempts))
		return models.ErrOTPInvalid
	}

	otp.Used = true
	otp.VerifiedAt = &now
	// the record must outlive the verification window under the TTL index
	otp.ExpiresAt = now.Add(s.cfg.VerificationWindow)
	if err := s.store.UpdateOTP(ctx, otp); err != nil {
		return fmt.Errorf("failed to mark otp used: %w", err)
	}

	observability.OTPEvents.WithLabelValues("verify", "success").Inc()
	s.logger.Info("otp verified", zap.String("email", observability.MaskEmail(email)))
	return nil
}

// ConsumeVerification reports true exactly once after a successful
// VerifyOTP, provided it is called within the verification window.
func (s *OTPService) ConsumeVerification(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	otp, err := s.store.FindOTP(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to load otp: %w", err)
	}
	if otp == nil || !otp.Used || otp.Consumed || otp.VerifiedAt == nil {
		return false, nil
	}
	if s.clock().Sub(*otp.VerifiedAt) > s.cfg.VerificationWindow {
		return false, nil
	}

	otp.Consumed = true
	if err := s.store.UpdateOTP(ctx, otp); err != nil {
		return false, fmt.Errorf("failed to consume verification: %w", err)
	}
	return true, nil
}
