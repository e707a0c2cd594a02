package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"gamify-hexad/internal/domain"
)

type suggestionFixture struct {
	answers      *mockAnswerRepo
	profiles     *mockProfileRepo
	elements     *mockGameElementRepo
	attributions *mockAttributionRepo
	publisher    *mockPublisher
	observer     *mockObserver
	svc          *SuggestionService
}

func newSuggestionFixture(matrix domain.AffinityMatrix) *suggestionFixture {
	f := &suggestionFixture{
		answers:  newMockAnswerRepo(),
		profiles: newMockProfileRepo(),
		elements: &mockGameElementRepo{byCourse: map[string]map[domain.ElementType][]string{
			"c1": {
				domain.ElementBadge:  {"badge-1", "badge-2"},
				domain.ElementAvatar: {"avatar-1"},
			},
		}},
		attributions: &mockAttributionRepo{},
		publisher:    &mockPublisher{},
		observer:     &mockObserver{},
	}
	f.svc = NewSuggestionService(
		NewScoringService(f.answers, zap.NewNop()),
		matrix,
		f.profiles,
		f.elements,
		f.attributions,
		f.publisher,
		f.observer,
		zap.NewNop(),
	)
	return f
}

func TestSuggest_PersistsProfileAndAttributions(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	f.answers.answers["u1"] = answersFor("u1", map[int]int{5: 3, 6: 2})

	result, err := f.svc.Suggest(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Suggestion != domain.ElementBadge {
		t.Fatalf("expected badge, got %q", result.Suggestion)
	}
	if result.Traits.Achiever != 5 {
		t.Fatalf("expected achiever=5, got %v", result.Traits.Achiever)
	}

	profile, ok := f.profiles.profiles["u1"]
	if !ok || profile.Suggestion != domain.ElementBadge || profile.ID == "" {
		t.Fatalf("expected persisted badge profile, got %+v", profile)
	}
	decoded, err := domain.DecodeCombinedScores(profile.CombinedScores)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 6 || !almostEqual(decoded[domain.ElementBadge], 5) || !almostEqual(decoded[domain.ElementAvatar], 2.5) {
		t.Fatalf("unexpected stored scores: %+v", decoded)
	}

	if f.elements.lastType != domain.ElementBadge {
		t.Fatalf("expected lookup for badge elements, got %q", f.elements.lastType)
	}
	if len(f.attributions.created) != 2 || len(result.Attributions) != 2 {
		t.Fatalf("expected 2 attributions, got %+v", f.attributions.created)
	}
	for i, id := range []string{"badge-1", "badge-2"} {
		a := f.attributions.created[i]
		if a.GameElementID != id || a.UserID != "u1" || a.ID == "" || a.CreatedAt.IsZero() {
			t.Fatalf("unexpected attribution %d: %+v", i, a)
		}
	}

	if len(f.publisher.events) != 1 || f.publisher.events[0].Suggestion != "badge" {
		t.Fatalf("expected one suggestion event, got %+v", f.publisher.events)
	}
	if len(f.observer.records) != 1 || f.observer.records[0].err != nil || f.observer.records[0].attributions != 2 {
		t.Fatalf("unexpected observer records: %+v", f.observer.records)
	}
}

func TestPersistSuggestion_UpdatesInsteadOfDuplicating(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	ranking := []domain.ElementScore{{Element: domain.ElementBadge, Score: 5}, {Element: domain.ElementAvatar, Score: 2.5}}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.PersistSuggestion(context.Background(), "u1", "c1", domain.ElementBadge, ranking); err != nil {
			t.Fatalf("persist #%d: %v", i+1, err)
		}
	}
	if len(f.profiles.profiles) != 1 {
		t.Fatalf("expected exactly one profile, got %d", len(f.profiles.profiles))
	}
	if f.profiles.creates != 1 || f.profiles.updates != 1 {
		t.Fatalf("expected one create and one update, got creates=%d updates=%d", f.profiles.creates, f.profiles.updates)
	}
}

func TestPersistSuggestion_UpdateKeepsIdentity(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	ctx := context.Background()

	if _, err := f.svc.PersistSuggestion(ctx, "u1", "c1", domain.ElementBadge, []domain.ElementScore{{Element: domain.ElementBadge, Score: 5}}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	first := f.profiles.profiles["u1"]

	if _, err := f.svc.PersistSuggestion(ctx, "u1", "c1", domain.ElementAvatar, []domain.ElementScore{{Element: domain.ElementAvatar, Score: 3}}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	second := f.profiles.profiles["u1"]
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected id and created_at to be preserved, got %+v vs %+v", second, first)
	}
	if second.Suggestion != domain.ElementAvatar || second.CombinedScores != `{"avatar":3}` {
		t.Fatalf("expected overwritten suggestion, got %+v", second)
	}
}

func TestPersistSuggestion_NoElementsInCourse(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	attributions, err := f.svc.PersistSuggestion(context.Background(), "u1", "other-course", domain.ElementBadge, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(attributions) != 0 || len(f.attributions.created) != 0 {
		t.Fatalf("expected no attributions, got %+v", attributions)
	}
	if _, ok := f.profiles.profiles["u1"]; !ok {
		t.Fatalf("expected profile to be stored even without course elements")
	}
}

func TestPersistSuggestion_NullSuggestion(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	_, err := f.svc.PersistSuggestion(context.Background(), "u1", "c1", "", nil)
	if !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("expected ErrNoSuggestion, got %v", err)
	}
	if len(f.profiles.profiles) != 0 || len(f.attributions.created) != 0 {
		t.Fatalf("expected nothing persisted for a null suggestion")
	}
}

func TestPersistSuggestion_StorageErrorsPropagate(t *testing.T) {
	ranking := []domain.ElementScore{{Element: domain.ElementBadge, Score: 5}}

	t.Run("profile lookup", func(t *testing.T) {
		f := newSuggestionFixture(scenarioMatrix())
		storageErr := errors.New("connection lost")
		f.profiles.getErr = storageErr
		if _, err := f.svc.PersistSuggestion(context.Background(), "u1", "c1", domain.ElementBadge, ranking); !errors.Is(err, storageErr) {
			t.Fatalf("expected lookup error, got %v", err)
		}
		if f.profiles.creates != 0 {
			t.Fatalf("expected no insert after lookup failure")
		}
	})

	t.Run("profile insert", func(t *testing.T) {
		f := newSuggestionFixture(scenarioMatrix())
		dupErr := errors.New("duplicate key")
		f.profiles.createErr = dupErr
		if _, err := f.svc.PersistSuggestion(context.Background(), "u1", "c1", domain.ElementBadge, ranking); !errors.Is(err, dupErr) {
			t.Fatalf("expected insert error, got %v", err)
		}
	})

	t.Run("element lookup", func(t *testing.T) {
		f := newSuggestionFixture(scenarioMatrix())
		lookupErr := errors.New("timeout")
		f.elements.err = lookupErr
		if _, err := f.svc.PersistSuggestion(context.Background(), "u1", "c1", domain.ElementBadge, ranking); !errors.Is(err, lookupErr) {
			t.Fatalf("expected element lookup error, got %v", err)
		}
	})

	t.Run("attribution insert", func(t *testing.T) {
		f := newSuggestionFixture(scenarioMatrix())
		attrErr := errors.New("fk violation")
		f.attributions.err = attrErr
		if _, err := f.svc.PersistSuggestion(context.Background(), "u1", "c1", domain.ElementBadge, ranking); !errors.Is(err, attrErr) {
			t.Fatalf("expected attribution error, got %v", err)
		}
	})
}

func TestSuggest_FailureIsObservedAndNotPublished(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	storageErr := errors.New("read failed")
	f.answers.err = storageErr

	if _, err := f.svc.Suggest(context.Background(), "u1", "c1"); !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(f.publisher.events) != 0 {
		t.Fatalf("expected no event on failure")
	}
	if len(f.observer.records) != 1 || f.observer.records[0].err == nil {
		t.Fatalf("expected failure to be observed, got %+v", f.observer.records)
	}
}

func TestSuggest_PublishErrorDoesNotFail(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	f.publisher.err = errors.New("broker down")
	f.answers.answers["u1"] = answersFor("u1", map[int]int{5: 1})

	if _, err := f.svc.Suggest(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("expected publish failure to be tolerated, got %v", err)
	}
}

func TestSuggest_Validation(t *testing.T) {
	var nilSvc *SuggestionService
	if _, err := nilSvc.Suggest(context.Background(), "u1", "c1"); !errors.Is(err, ErrSuggestionNotConfigured) {
		t.Fatalf("expected ErrSuggestionNotConfigured, got %v", err)
	}
	f := newSuggestionFixture(scenarioMatrix())
	if _, err := f.svc.Suggest(context.Background(), "", "c1"); !errors.Is(err, ErrSuggestionInvalidUserID) {
		t.Fatalf("expected ErrSuggestionInvalidUserID, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	f := newSuggestionFixture(scenarioMatrix())
	if _, err := f.svc.GetProfile(context.Background(), "u1"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	f.answers.answers["u1"] = answersFor("u1", map[int]int{5: 3, 6: 2})
	if _, err := f.svc.Suggest(context.Background(), "u1", "c1"); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	stored, err := f.svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if stored.Profile.Suggestion != domain.ElementBadge || !almostEqual(stored.CombinedScores[domain.ElementBadge], 5) {
		t.Fatalf("unexpected stored profile: %+v", stored)
	}
	if len(stored.Attributions) != 2 {
		t.Fatalf("expected the two badge attributions, got %+v", stored.Attributions)
	}
}
