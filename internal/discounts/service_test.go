package discounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/internal/pricing"
	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	pkgerrors "github.com/halisidigital/halisi-backend/pkg/errors"
)

type stubRepo struct {
	rules map[uuid.UUID]*models.DiscountRule
	order []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{rules: map[uuid.UUID]*models.DiscountRule{}}
}

func (s *stubRepo) Create(ctx context.Context, rule *models.DiscountRule) error {
	s.rules[rule.ID] = rule
	s.order = append(s.order, rule.ID)
	return nil
}

func (s *stubRepo) Update(ctx context.Context, rule *models.DiscountRule) error {
	if _, ok := s.rules[rule.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.rules[rule.ID] = rule
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.rules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.rules, id)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DiscountRule, error) {
	if rule, ok := s.rules[id]; ok {
		return rule, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListAll(ctx context.Context) ([]models.DiscountRule, error) {
	out := make([]models.DiscountRule, 0, len(s.order))
	for _, id := range s.order {
		if rule, ok := s.rules[id]; ok {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (s *stubRepo) ListActive(ctx context.Context) ([]models.DiscountRule, error) {
	all, _ := s.ListAll(ctx)
	active := make([]models.DiscountRule, 0, len(all))
	for _, rule := range all {
		if rule.Active {
			active = append(active, rule)
		}
	}
	return active, nil
}

func intPtr(v int) *int { return &v }

func TestServiceCreateValidatesByKind(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []struct {
		name  string
		input CreateRuleInput
	}{
		{"missing name", CreateRuleInput{Kind: enums.DiscountKindPercentageOff, Value: 10, EligibleAll: true}},
		{"percentage too large", CreateRuleInput{Name: "big", Kind: enums.DiscountKindPercentageOff, Value: 150, EligibleAll: true}},
		{"zero fixed amount", CreateRuleInput{Name: "zero", Kind: enums.DiscountKindFixedAmountOff, Value: 0, EligibleAll: true}},
		{"bxgy missing min count", CreateRuleInput{Name: "bxgy", Kind: enums.DiscountKindBuyXGetYFree, Value: 100, FreeCount: intPtr(1), EligibleAll: true}},
		{"bxgy missing free count", CreateRuleInput{Name: "bxgy", Kind: enums.DiscountKindBuyXGetYFree, Value: 100, MinCartCount: intPtr(3), EligibleAll: true}},
		{"subset without ids", CreateRuleInput{Name: "subset", Kind: enums.DiscountKindPercentageOff, Value: 10}},
		{"subset with junk id", CreateRuleInput{Name: "subset", Kind: enums.DiscountKindPercentageOff, Value: 10, EligibleEbookID: []string{"not-a-uuid"}}},
		{"unknown kind", CreateRuleInput{Name: "odd", Kind: "mystery", Value: 10, EligibleAll: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestServiceCreateAndList(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateRuleInput{
		Name:        "Launch week 10% off",
		Kind:        enums.DiscountKindPercentageOff,
		Value:       10,
		EligibleAll: true,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Kind != enums.DiscountKindPercentageOff {
		t.Fatalf("unexpected kind %s", created.Kind)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("expected created rule in list, got %+v", list)
	}
}

func TestServiceUpdateTogglesActive(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateRuleInput{
		Name:        "Flat 200 off",
		Kind:        enums.DiscountKindFixedAmountOff,
		Value:       200,
		EligibleAll: true,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, UpdateRuleInput{Active: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Active {
		t.Fatal("expected rule deactivated")
	}

	rules, err := svc.ActiveRules(context.Background())
	if err != nil {
		t.Fatalf("active rules: %v", err)
	}
	if len(rules) != 0 {
		t.Fatalf("expected no active rules, got %d", len(rules))
	}
}

func TestServiceDeleteNotFound(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	gotErr := svc.Delete(context.Background(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestActiveRulesConversion(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	eligibleID := uuid.New()
	_, err = svc.Create(context.Background(), CreateRuleInput{
		Name:            "Buy 3 get cheapest free",
		Kind:            enums.DiscountKindBuyXGetYFree,
		Value:           100,
		MinCartCount:    intPtr(3),
		FreeCount:       intPtr(1),
		EligibleEbookID: []string{eligibleID.String()},
		Active:          true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rules, err := svc.ActiveRules(context.Background())
	if err != nil {
		t.Fatalf("active rules: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}

	rule := rules[0]
	if rule.Kind != enums.DiscountKindBuyXGetYFree {
		t.Fatalf("unexpected kind %s", rule.Kind)
	}
	if rule.MinCartCount != 3 || rule.FreeCount != 1 {
		t.Fatalf("counts not converted: min=%d free=%d", rule.MinCartCount, rule.FreeCount)
	}
	if !rule.Eligibility.Matches(eligibleID) {
		t.Fatal("expected eligibility to match listed ebook")
	}
	if rule.Eligibility.Matches(uuid.New()) {
		t.Fatal("expected eligibility to exclude other ebooks")
	}
}

func TestActiveRulesSkipsUnparseableEligibleIDs(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	// Seed directly to simulate a legacy row that predates id validation.
	good := uuid.New()
	rule := &models.DiscountRule{
		ID:              uuid.New(),
		Name:            "legacy subset",
		Kind:            enums.DiscountKindPercentageOff,
		Value:           10,
		EligibleAll:     false,
		EligibleEbookID: pq.StringArray{good.String(), "garbage"},
		Active:          true,
	}
	if err := repo.Create(context.Background(), rule); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rules, err := svc.ActiveRules(context.Background())
	if err != nil {
		t.Fatalf("active rules: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if !rules[0].Eligibility.Matches(good) {
		t.Fatal("expected parseable id retained")
	}
}

func TestActiveRulesFeedTheEngine(t *testing.T) {
	svc, err := NewService(newStubRepo())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateRuleInput{
		Name:        "Ten percent",
		Kind:        enums.DiscountKindPercentageOff,
		Value:       10,
		EligibleAll: true,
		Active:      true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rules, err := svc.ActiveRules(context.Background())
	if err != nil {
		t.Fatalf("active rules: %v", err)
	}

	quote := pricing.ComputeQuote([]pricing.LineItem{
		{ID: uuid.New(), UnitPrice: 1000},
		{ID: uuid.New(), UnitPrice: 2000},
	}, rules)

	if quote.DiscountAmount != 300 {
		t.Fatalf("expected discount 300, got %d", quote.DiscountAmount)
	}
}
