package service

import (
	"context"
	"errors"
	"fmt"

	"auralink/internal/mailer"
	"auralink/internal/model"
	"auralink/internal/payment"
	"auralink/internal/repository"
	apperrors "auralink/pkg/app_errors"
	"auralink/pkg/logger"

	"go.uber.org/zap"
)

const RegistrationNotice = "Registration received, a confirmation email was sent."

type RegistrationService interface {
	// Register 免費報名
	Register(ctx context.Context, slug string, input model.RegistrationInput) (*model.RegistrationOutcome, error)
	// Checkout 模擬付款後報名
	Checkout(ctx context.Context, slug string, input model.RegistrationInput) (*model.RegistrationOutcome, error)
}

type RegistrationServiceImpl struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	gateway          payment.Gateway
	mailer           mailer.Mailer
}

func NewRegistrationService(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	gateway payment.Gateway,
	mailer mailer.Mailer,
) RegistrationService {
	return &RegistrationServiceImpl{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		gateway:          gateway,
		mailer:           mailer,
	}
}

func (s *RegistrationServiceImpl) Register(ctx context.Context, slug string, input model.RegistrationInput) (*model.RegistrationOutcome, error) {
	event, reg, err := s.prepare(ctx, slug, input)
	if err != nil {
		return nil, err
	}

	created, err := s.registrationRepo.Create(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.notify(ctx, "Register", model.NewMail(
		created.Email,
		fmt.Sprintf("Registration confirmed for %s", event.Title),
		fmt.Sprintf("Thanks %s for registering for %s.", created.FullName, event.Title),
	))

	return &model.RegistrationOutcome{
		Registration: created,
		Event:        event,
		Notices:      []model.Notice{model.Success(RegistrationNotice)},
	}, nil
}

func (s *RegistrationServiceImpl) Checkout(ctx context.Context, slug string, input model.RegistrationInput) (*model.RegistrationOutcome, error) {
	event, reg, err := s.prepare(ctx, slug, input)
	if err != nil {
		return nil, err
	}

	receipt, err := s.gateway.Charge(ctx, payment.Charge{
		Amount:      event.Price,
		Email:       reg.Email,
		Description: event.Title,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentDeclined) {
			return nil, err
		}
		return nil, fmt.Errorf("charge: %w", err)
	}

	created, err := s.registrationRepo.Create(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.notify(ctx, "Checkout", model.NewMail(
		created.Email,
		fmt.Sprintf("Payment & Registration confirmed for %s", event.Title),
		fmt.Sprintf("Thanks %s, your payment for %s was received (reference %s).", created.FullName, event.Title, receipt.Reference),
	))

	return &model.RegistrationOutcome{
		Registration: created,
		Event:        event,
	}, nil
}

// prepare 取得活動並驗證表單，失敗時不寫入任何資料
func (s *RegistrationServiceImpl) prepare(ctx context.Context, slug string, input model.RegistrationInput) (*model.Event, *model.Registration, error) {
	event, err := s.eventRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	trimStrings(&input.FullName, &input.Email, &input.Phone)
	if verr := validateStruct(input); verr.HasErrors() {
		return event, nil, verr
	}

	reg := &model.Registration{
		EventID:  event.ID,
		FullName: input.FullName,
		Email:    input.Email,
	}
	if input.Phone != "" {
		phone := input.Phone
		reg.Phone = &phone
	}
	return event, reg, nil
}

// notify 通知信失敗只記錄，不影響報名結果
func (s *RegistrationServiceImpl) notify(ctx context.Context, operation string, mail *model.Mail) {
	if err := s.mailer.Send(ctx, mail); err != nil {
		logger.WithComponent("service").Warn("send confirmation failed",
			zap.String("operation", operation),
			zap.String("mail_id", mail.ID.String()),
			zap.Error(err),
		)
	}
}
