package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/internal/pricing"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, rule *models.DiscountRule) error
	Update(ctx context.Context, rule *models.DiscountRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountRule, error)
	ListAll(ctx context.Context) ([]models.DiscountRule, error)
	ListActive(ctx context.Context) ([]models.DiscountRule, error)
}

// Service exposes discount rule authoring plus the pricing-engine view of
// the active rule set.
type Service interface {
	List(ctx context.Context) ([]RuleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RuleDTO, error)
	Create(ctx context.Context, input CreateRuleInput) (*RuleDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateRuleInput) (*RuleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ActiveRules(ctx context.Context) ([]pricing.Rule, error)
}

type service struct {
	repo repository
}

// NewService builds a discounts service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	return &service{repo: repo}, nil
}

// RuleDTO is the admin-facing rule shape.
type RuleDTO struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Kind            enums.DiscountKind `json:"kind"`
	Value           int                `json:"value"`
	MinCartCount    *int               `json:"min_cart_count,omitempty"`
	FreeCount       *int               `json:"free_count,omitempty"`
	EligibleAll     bool               `json:"eligible_all"`
	EligibleEbookID []string           `json:"eligible_ebook_ids"`
	Active          bool               `json:"active"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CreateRuleInput captures the fields for authoring a rule.
type CreateRuleInput struct {
	Name            string
	Kind            enums.DiscountKind
	Value           int
	MinCartCount    *int
	FreeCount       *int
	EligibleAll     bool
	EligibleEbookID []string
	Active          bool
}

// UpdateRuleInput captures the mutable rule fields; nil means unchanged.
type UpdateRuleInput struct {
	Name            *string
	Value           *int
	MinCartCount    *int
	FreeCount       *int
	EligibleAll     *bool
	EligibleEbookID *[]string
	Active          *bool
}

func (s *service) List(ctx context.Context) ([]RuleDTO, error) {
	rules, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, mapRepoError(err, "listing discount rules")
	}
	out := make([]RuleDTO, 0, len(rules))
	for i := range rules {
		out = append(out, toDTO(&rules[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RuleDTO, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "loading discount rule")
	}
	dto := toDTO(rule)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateRuleInput) (*RuleDTO, error) {
	if err := validateRule(input.Name, input.Kind, input.Value, input.MinCartCount, input.FreeCount, input.EligibleAll, input.EligibleEbookID); err != nil {
		return nil, err
	}

	rule := &models.DiscountRule{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(input.Name),
		Kind:            input.Kind,
		Value:           input.Value,
		MinCartCount:    input.MinCartCount,
		FreeCount:       input.FreeCount,
		EligibleAll:     input.EligibleAll,
		EligibleEbookID: pq.StringArray(input.EligibleEbookID),
		Active:          input.Active,
	}
	if rule.EligibleEbookID == nil {
		rule.EligibleEbookID = pq.StringArray{}
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, mapRepoError(err, "creating discount rule")
	}
	dto := toDTO(rule)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateRuleInput) (*RuleDTO, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "loading discount rule")
	}

	if input.Name != nil {
		rule.Name = strings.TrimSpace(*input.Name)
	}
	if input.Value != nil {
		rule.Value = *input.Value
	}
	if input.MinCartCount != nil {
		rule.MinCartCount = input.MinCartCount
	}
	if input.FreeCount != nil {
		rule.FreeCount = input.FreeCount
	}
	if input.EligibleAll != nil {
		rule.EligibleAll = *input.EligibleAll
	}
	if input.EligibleEbookID != nil {
		rule.EligibleEbookID = pq.StringArray(*input.EligibleEbookID)
	}
	if input.Active != nil {
		rule.Active = *input.Active
	}

	if err := validateRule(rule.Name, rule.Kind, rule.Value, rule.MinCartCount, rule.FreeCount, rule.EligibleAll, rule.EligibleEbookID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, mapRepoError(err, "updating discount rule")
	}
	dto := toDTO(rule)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "deleting discount rule")
	}
	return nil
}

// ActiveRules converts the stored rule set into the pricing engine's tagged
// shape. Stored rows with unparseable eligible ids lose those ids rather
// than failing the whole quote.
func (s *service) ActiveRules(ctx context.Context) ([]pricing.Rule, error) {
	rules, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, mapRepoError(err, "loading active discount rules")
	}

	out := make([]pricing.Rule, 0, len(rules))
	for i := range rules {
		out = append(out, toPricingRule(&rules[i]))
	}
	return out, nil
}

func toPricingRule(rule *models.DiscountRule) pricing.Rule {
	eligibility := pricing.EligibleAll()
	if !rule.EligibleAll {
		ids := make([]uuid.UUID, 0, len(rule.EligibleEbookID))
		for _, raw := range rule.EligibleEbookID {
			if id, err := uuid.Parse(raw); err == nil {
				ids = append(ids, id)
			}
		}
		eligibility = pricing.EligibleOnly(ids...)
	}

	converted := pricing.Rule{
		ID:          rule.ID,
		Name:        rule.Name,
		Kind:        rule.Kind,
		Value:       rule.Value,
		Eligibility: eligibility,
		Active:      rule.Active,
	}
	if rule.MinCartCount != nil {
		converted.MinCartCount = *rule.MinCartCount
	}
	if rule.FreeCount != nil {
		converted.FreeCount = *rule.FreeCount
	}
	return converted
}

func toDTO(rule *models.DiscountRule) RuleDTO {
	ids := make([]string, len(rule.EligibleEbookID))
	copy(ids, rule.EligibleEbookID)
	return RuleDTO{
		ID:              rule.ID,
		Name:            rule.Name,
		Kind:            rule.Kind,
		Value:           rule.Value,
		MinCartCount:    rule.MinCartCount,
		FreeCount:       rule.FreeCount,
		EligibleAll:     rule.EligibleAll,
		EligibleEbookID: ids,
		Active:          rule.Active,
		CreatedAt:       rule.CreatedAt,
		UpdatedAt:       rule.UpdatedAt,
	}
}

func validateRule(name string, kind enums.DiscountKind, value int, minCartCount, freeCount *int, eligibleAll bool, eligibleIDs []string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown discount kind %q", kind))
	}

	switch kind {
	case enums.DiscountKindPercentageOff:
		if value <= 0 || value > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 1 and 100")
		}
	case enums.DiscountKindFixedAmountOff:
		if value <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
	case enums.DiscountKindBuyXGetYFree:
		if value <= 0 || value > 100 {
			return pkgerrors.New(pkgerrors.CodeValidation, "free-item percentage must be between 1 and 100")
		}
		if minCartCount == nil || *minCartCount <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "minimum cart count is required")
		}
		if freeCount == nil || *freeCount <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "free count is required")
		}
	}

	if !eligibleAll {
		if len(eligibleIDs) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "eligible ebook ids are required unless the rule covers all ebooks")
		}
		for _, raw := range eligibleIDs {
			if _, err := uuid.Parse(raw); err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid ebook id %q", raw))
			}
		}
	}
	return nil
}

func mapRepoError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "discount rule not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
