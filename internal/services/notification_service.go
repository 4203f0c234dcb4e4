package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecfinder/internal/models"
	"mecfinder/internal/utils"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/moderation"
	"mecfinder/pkg/push"
	"mecfinder/pkg/sms"
)

// NotificationService tells a user or mechanic that their account state changed.
type NotificationService interface {
	NotifyBanned(ctx context.Context, subject models.Bannable, kind models.SubjectKind)
	NotifyUnbanned(ctx context.Context, subject models.Bannable, kind models.SubjectKind)
}

type notificationService struct {
	sms     sms.SMSProvider
	push    *push.Dispatcher
	enabled bool
	logger  *logger.Logger
}

func NewNotificationService(smsProvider sms.SMSProvider, dispatcher *push.Dispatcher, enabled bool, logger *logger.Logger) NotificationService {
	if dispatcher == nil {
		dispatcher = push.NewDispatcher(nil)
	}
	return &notificationService{
		sms:     smsProvider,
		push:    dispatcher,
		enabled: enabled,
		logger:  logger,
	}
}

type notice struct {
	title string
	body  string
	event string
}

func banNotice(ban moderation.BanInfo) notice {
	body := "Your MecFinder account has been permanently suspended."
	if ban.BanType == moderation.BanTypeTemporary && ban.BanExpiresAt != nil {
		body = fmt.Sprintf("Your MecFinder account is suspended until %s.", ban.BanExpiresAt.In(istLocation()).Format("02 Jan 2006 15:04"))
	}
	if ban.BanReason != "" {
		body += " Reason: " + ban.BanReason
	}
	return notice{title: "Account suspended", body: body, event: "account_banned"}
}

func unbanNotice() notice {
	return notice{
		title: "Account restored",
		body:  "Your MecFinder account is active again.",
		event: "account_unbanned",
	}
}

func (s *notificationService) NotifyBanned(ctx context.Context, subject models.Bannable, kind models.SubjectKind) {
	s.send(ctx, subject, kind, banNotice(subject.GetBanInfo()))
}

func (s *notificationService) NotifyUnbanned(ctx context.Context, subject models.Bannable, kind models.SubjectKind) {
	s.send(ctx, subject, kind, unbanNotice())
}

// send delivers over SMS and every registered device. Failures are logged.
func (s *notificationService) send(ctx context.Context, subject models.Bannable, kind models.SubjectKind, n notice) {
	if !s.enabled {
		return
	}
	log := s.logger.WithFields(map[string]interface{}{
		"subject_type": string(kind),
		"subject_id":   subject.GetID().Hex(),
		"event":        n.event,
	})

	if phone := subject.GetPhone(); phone != "" && s.sms != nil {
		to := utils.FormatPhone(phone, utils.DefaultCountryCode)
		if !utils.IsValidPhone(to) {
			log.WithField("phone", utils.MaskPhone(to)).Warn("Skipping SMS notice for invalid phone")
		} else if _, err := s.sms.SendSMS(ctx, &sms.SMSRequest{
			To:      to,
			Message: n.body,
			Type:    sms.MessageTypeTransactional,
		}); err != nil {
			log.WithError(err).WithField("phone", utils.MaskPhone(to)).Warn("Failed to send SMS notice")
		}
	}

	if !s.push.Enabled() {
		return
	}
	for _, device := range subject.GetDeviceTokens() {
		_, err := s.push.Send(ctx, push.Platform(device.Platform), &push.NotificationRequest{
			Token:    device.Token,
			Title:    n.title,
			Body:     n.body,
			Priority: "high",
			Data: map[string]string{
				"type":      n.event,
				"subjectId": subject.GetID().Hex(),
			},
		})
		if err != nil && !errors.Is(err, push.ErrNoProvider) {
			log.WithError(err).Warn("Failed to send push notice")
		}
	}
}

func istLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}
