package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"gamify-hexad/internal/domain"
	"gamify-hexad/internal/event"
)

type mockAnswerRepo struct {
	answers map[string][]domain.Answer
	saved   []domain.Answer
	err     error
	saveErr error
}

func newMockAnswerRepo() *mockAnswerRepo {
	return &mockAnswerRepo{answers: make(map[string][]domain.Answer)}
}

func (m *mockAnswerRepo) UpsertMany(_ context.Context, answers []domain.Answer) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, a := range answers {
		replaced := false
		list := m.answers[a.UserID]
		for i := range list {
			if list[i].QuestionID == a.QuestionID {
				list[i] = a
				replaced = true
			}
		}
		if !replaced {
			list = append(list, a)
		}
		m.answers[a.UserID] = list
	}
	m.saved = append(m.saved, answers...)
	return nil
}

func (m *mockAnswerRepo) FindByUserID(_ context.Context, userID string) ([]domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.answers[userID], nil
}

type mockProfileRepo struct {
	profiles  map[string]domain.Profile
	creates   int
	updates   int
	getErr    error
	createErr error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]domain.Profile)}
}

func (m *mockProfileRepo) Create(_ context.Context, profile domain.Profile) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.creates++
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepo) Update(_ context.Context, profile domain.Profile) error {
	if _, ok := m.profiles[profile.UserID]; !ok {
		return pgx.ErrNoRows
	}
	m.updates++
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (domain.Profile, error) {
	if m.getErr != nil {
		return domain.Profile{}, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

type mockGameElementRepo struct {
	byCourse map[string]map[domain.ElementType][]string
	lastType domain.ElementType
	err      error
}

func (m *mockGameElementRepo) Create(context.Context, domain.GameElement) error {
	return nil
}

func (m *mockGameElementRepo) FindForSuggestion(_ context.Context, suggestion domain.ElementType, courseID string) ([]string, error) {
	m.lastType = suggestion
	if m.err != nil {
		return nil, m.err
	}
	return m.byCourse[courseID][suggestion], nil
}

type mockAttributionRepo struct {
	created []domain.Attribution
	err     error
}

func (m *mockAttributionRepo) Create(_ context.Context, a domain.Attribution) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, a)
	return nil
}

func (m *mockAttributionRepo) FindByUserID(_ context.Context, userID string) ([]domain.Attribution, error) {
	var out []domain.Attribution
	for _, a := range m.created {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockPublisher struct {
	events []event.SuggestionEvent
	err    error
}

func (m *mockPublisher) PublishSuggestion(_ context.Context, e event.SuggestionEvent) error {
	m.events = append(m.events, e)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

type recordedSuggestion struct {
	suggestion   domain.ElementType
	attributions int
	err          error
}

type mockObserver struct {
	records []recordedSuggestion
}

func (m *mockObserver) RecordSuggestion(_ time.Duration, suggestion domain.ElementType, attributions int, err error) {
	m.records = append(m.records, recordedSuggestion{suggestion: suggestion, attributions: attributions, err: err})
}

type allowAll struct{}

func (allowAll) Allow(string) bool { return true }

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func answersFor(userID string, scores map[int]int) []domain.Answer {
	var out []domain.Answer
	for q := 1; q <= domain.QuestionCount; q++ {
		if s, ok := scores[q]; ok {
			out = append(out, domain.Answer{UserID: userID, QuestionID: q, Score: s})
		}
	}
	return out
}

func scenarioMatrix() domain.AffinityMatrix {
	return domain.AffinityMatrix{
		domain.ElementAvatar: {domain.TraitAchiever: 0.5},
		domain.ElementBadge:  {domain.TraitAchiever: 1.0},
	}
}
