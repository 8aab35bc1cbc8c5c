package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"guildledger/domain/apperr"
	"guildledger/domain/entities"
	"guildledger/domain/interfaces"
	"guildledger/events"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

var (
	codePattern   = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	codeValidator = newCodeValidator()
)

func newCodeValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("redeemcode", func(fl validator.FieldLevel) bool {
		return codePattern.MatchString(fl.Field().String())
	})
	return v
}

// codeRules are the constraints a new or edited code must satisfy
type codeRules struct {
	Code    string `validate:"required,min=3,max=32,redeemcode"`
	Amount  int64  `validate:"gte=1,lte=100000000"`
	MaxUses int    `validate:"gte=1,lte=1000000"`
}

// redeemService implements the RedeemService interface
type redeemService struct {
	guildID        int64
	ledger         interfaces.LedgerService
	settings       interfaces.SettingsService
	codeRepo       interfaces.RedeemCodeRepository
	eventPublisher interfaces.EventPublisher
}

// NewRedeemService creates a new redeem code service for one guild
func NewRedeemService(
	guildID int64,
	ledger interfaces.LedgerService,
	settings interfaces.SettingsService,
	codeRepo interfaces.RedeemCodeRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.RedeemService {
	return &redeemService{
		guildID:        guildID,
		ledger:         ledger,
		settings:       settings,
		codeRepo:       codeRepo,
		eventPublisher: eventPublisher,
	}
}

func (s *redeemService) requireBanker(ctx context.Context, actor entities.Actor) error {
	eff, err := s.settings.Effective(ctx)
	if err != nil {
		return err
	}
	return RequireBanker(eff, actor)
}

func validateCode(code *entities.RedeemCode) error {
	rules := codeRules{Code: code.Code, Amount: code.Amount, MaxUses: code.MaxUses}
	if err := codeValidator.Struct(rules); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperr.InvalidParameter("invalid %s: failed %q rule", fe.Field(), fe.Tag())
		}
		return apperr.InvalidParameter("invalid code: %v", err)
	}
	return nil
}

// Create stores a new code on behalf of a banker
func (s *redeemService) Create(ctx context.Context, actor entities.Actor, code *entities.RedeemCode) (*entities.RedeemCode, error) {
	if err := s.requireBanker(ctx, actor); err != nil {
		return nil, err
	}

	code.Code = entities.NormalizeCode(code.Code)
	code.GuildID = s.guildID
	code.CreatedBy = actor.UserID
	code.Uses = 0
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if code.ExpiresAt != nil && !code.ExpiresAt.After(time.Now()) {
		return nil, apperr.InvalidParameter("expiry must be in the future")
	}

	if err := s.codeRepo.Create(ctx, code); err != nil {
		return nil, apperr.AsPersistence("create redeem code", err)
	}

	log.WithFields(log.Fields{
		"guildID": s.guildID,
		"code":    code.Code,
		"amount":  code.Amount,
		"maxUses": code.MaxUses,
	}).Info("Redeem code created")
	return code, nil
}

// Redeem claims a code for the actor. The code row stays locked until the
// transaction ends, so racing redeemers see each other's claims.
func (s *redeemService) Redeem(ctx context.Context, actor entities.Actor, rawCode string, now time.Time) (int64, int64, error) {
	eff, err := s.settings.Effective(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := CheckChannel(eff, actor); err != nil {
		return 0, 0, err
	}

	code := entities.NormalizeCode(rawCode)
	rc, err := s.codeRepo.GetForUpdate(ctx, code)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get redeem code: %w", err)
	}
	if rc == nil {
		return 0, 0, apperr.CodeInvalid(apperr.ReasonCodeNotFound, "code %s does not exist", code)
	}
	if rc.Disabled {
		return 0, 0, apperr.CodeInvalid(apperr.ReasonCodeDisabled, "code %s is disabled", code)
	}
	if rc.IsExpired(now) {
		return 0, 0, apperr.CodeInvalid(apperr.ReasonCodeExpired, "code %s has expired", code)
	}
	claimed, err := s.codeRepo.HasClaimed(ctx, code, actor.UserID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to check redeem claim: %w", err)
	}
	if claimed {
		return 0, 0, apperr.CodeInvalid(apperr.ReasonCodeAlreadyClaimed, "you already redeemed %s", code)
	}
	if rc.IsExhausted() {
		return 0, 0, apperr.CodeInvalid(apperr.ReasonCodeExhausted, "code %s has no uses left", code)
	}

	if err := s.codeRepo.AddClaim(ctx, code, actor.UserID, now); err != nil {
		return 0, 0, fmt.Errorf("failed to record redeem claim: %w", err)
	}
	rc.Uses++
	if err := s.codeRepo.Update(ctx, rc); err != nil {
		return 0, 0, fmt.Errorf("failed to update redeem code: %w", err)
	}

	balance, err := s.ledger.Apply(ctx, actor.UserID, rc.Amount, entities.LedgerChange{
		Type:     entities.TransactionTypeRedeem,
		Metadata: map[string]any{"code": code},
	})
	if err != nil {
		return 0, 0, err
	}

	if err := s.eventPublisher.Publish(events.CodeRedeemedEvent{
		GuildID:       s.guildID,
		UserID:        actor.UserID,
		Code:          code,
		Amount:        rc.Amount,
		RemainingUses: rc.RemainingUses(),
	}); err != nil {
		log.WithError(err).Error("Failed to publish code redeemed event")
	}
	return rc.Amount, balance, nil
}

// Edit applies a banker's changes to an existing code
func (s *redeemService) Edit(ctx context.Context, actor entities.Actor, rawCode string, edit entities.CodeEdit) (*entities.RedeemCode, error) {
	if err := s.requireBanker(ctx, actor); err != nil {
		return nil, err
	}

	code := entities.NormalizeCode(rawCode)
	rc, err := s.codeRepo.GetForUpdate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get redeem code: %w", err)
	}
	if rc == nil {
		return nil, apperr.CodeInvalid(apperr.ReasonCodeNotFound, "code %s does not exist", code)
	}

	if edit.Amount != nil {
		rc.Amount = *edit.Amount
	}
	if edit.MaxUses != nil {
		if *edit.MaxUses < rc.Uses {
			return nil, apperr.InvalidParameter("max uses cannot drop below the %d uses already claimed", rc.Uses)
		}
		rc.MaxUses = *edit.MaxUses
	}
	switch {
	case edit.ClearExpiry:
		rc.ExpiresAt = nil
	case edit.ExpiresAt != nil:
		rc.ExpiresAt = edit.ExpiresAt
	}
	if edit.Note != nil {
		rc.Note = *edit.Note
	}
	if edit.Enabled != nil {
		rc.Disabled = !*edit.Enabled
	}
	if err := validateCode(rc); err != nil {
		return nil, err
	}

	if err := s.codeRepo.Update(ctx, rc); err != nil {
		return nil, fmt.Errorf("failed to update redeem code: %w", err)
	}
	return rc, nil
}

func (s *redeemService) Delete(ctx context.Context, actor entities.Actor, rawCode string) error {
	if err := s.requireBanker(ctx, actor); err != nil {
		return err
	}
	code := entities.NormalizeCode(rawCode)
	deleted, err := s.codeRepo.Delete(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to delete redeem code: %w", err)
	}
	if !deleted {
		return apperr.CodeInvalid(apperr.ReasonCodeNotFound, "code %s does not exist", code)
	}
	return nil
}

func (s *redeemService) Disable(ctx context.Context, actor entities.Actor, rawCode string) error {
	enabled := false
	_, err := s.Edit(ctx, actor, rawCode, entities.CodeEdit{Enabled: &enabled})
	return err
}

func (s *redeemService) List(ctx context.Context, actor entities.Actor) ([]*entities.RedeemCode, error) {
	if err := s.requireBanker(ctx, actor); err != nil {
		return nil, err
	}
	codes, err := s.codeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list redeem codes: %w", err)
	}
	return codes, nil
}
