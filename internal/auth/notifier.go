// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/agora/internal/platform/ctxutil"
	"github.com/taibuivan/agora/internal/platform/sec"
)

// Notifier delivers account messages to users. Delivery runs off the
// request path and its failures never reach the caller.
type Notifier interface {
	SendVerification(ctx context.Context, user *User, token string) error
}

// LogNotifier writes the verification token to the structured log instead
// of sending mail.
type LogNotifier struct{}

// SendVerification implements [Notifier].
func (LogNotifier) SendVerification(ctx context.Context, user *User, token string) error {
	ctxutil.GetLogger(ctx).InfoContext(ctx, "verification_token_issued",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("token", token),
	)
	return nil
}

// dispatchVerification stores a verification token and hands it to the
// notifier in the background. Every failure here is logged and swallowed.
func (service *Service) dispatchVerification(ctx context.Context, user *User) {
	logger := ctxutil.GetLogger(ctx)

	token, err := sec.GenerateSecureToken(sec.SecureTokenLength)
	if err != nil {
		logger.ErrorContext(ctx, "verify_token_generation_failed", slog.String("error", err.Error()))
		return
	}

	if err := service.verifications.Set(ctx, token, user.ID, VerificationTokenTTL); err != nil {
		logger.ErrorContext(ctx, "verify_token_store_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	// The request context ends with the response; keep its values only.
	detached := context.WithoutCancel(ctx)
	recipient := *user

	go func() {
		if err := service.notifier.SendVerification(detached, &recipient, token); err != nil {
			logger.WarnContext(detached, "verification_delivery_failed",
				slog.String("user_id", recipient.ID),
				slog.String("error", err.Error()),
			)
		}
	}()
}
