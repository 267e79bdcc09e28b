package ui

import (
	"context"
	"errors"
	"testing"

	"fitterm/internal/client"
	"fitterm/internal/config"
	"fitterm/internal/wger"
)

type stubCatalog struct {
	exercises []wger.Exercise
	err       error
}

func (s *stubCatalog) FetchExercises(ctx context.Context) ([]wger.Exercise, error) {
	return s.exercises, s.err
}

func newTestModel(catalog wger.CatalogFetcher) *model {
	repo := client.NewRepository(nil, nil)
	cfg := &config.Store{Config: config.Data{CatalogLanguage: 2}}
	return newModel(repo, catalog, cfg, nil)
}

func TestApplyExercises_Success(t *testing.T) {
	m := newTestModel(nil)
	m.state = stateClientDetail
	m.fetchSeq = 1
	m.detail.status = fetchLoading

	m.applyExercises(exercisesMsg{seq: 1, names: []string{"Squat", "Deadlift"}})
	if m.detail.status != fetchDone {
		t.Fatalf("status = %d, want fetchDone", m.detail.status)
	}
	if len(m.detail.exercises) != 2 {
		t.Fatalf("exercises = %v", m.detail.exercises)
	}
}

func TestApplyExercises_StaleResponseDropped(t *testing.T) {
	m := newTestModel(nil)
	m.state = stateClientDetail
	m.fetchSeq = 2
	m.detail.status = fetchLoading

	m.applyExercises(exercisesMsg{seq: 1, names: []string{"Old"}})
	if m.detail.status != fetchLoading {
		t.Fatalf("stale response should not change status, got %d", m.detail.status)
	}
	if len(m.detail.exercises) != 0 {
		t.Fatalf("stale exercises applied: %v", m.detail.exercises)
	}
}

func TestApplyExercises_CurrentFetchAppliesDuringEdit(t *testing.T) {
	// Stepping into the edit form while the fetch is in flight must not
	// strand the detail view on the loading message.
	m := newTestModel(nil)
	m.state = stateClientForm
	m.fetchSeq = 1
	m.detail.status = fetchLoading

	m.applyExercises(exercisesMsg{seq: 1, names: []string{"Squat"}})
	if m.detail.status != fetchDone {
		t.Fatalf("status = %d, want fetchDone", m.detail.status)
	}
	if len(m.detail.exercises) != 1 || m.detail.exercises[0] != "Squat" {
		t.Fatalf("exercises = %v", m.detail.exercises)
	}
}

func TestApplyExercises_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		msg  exercisesMsg
		want string
	}{
		{
			name: "http status",
			msg:  exercisesMsg{err: &wger.StatusError{Code: 503}},
			want: "Exercise catalog error (status 503).",
		},
		{
			name: "network",
			msg:  exercisesMsg{err: errors.New("dial tcp: connection refused")},
			want: "Could not reach the exercise catalog.",
		},
		{
			name: "empty catalog",
			msg:  exercisesMsg{names: nil},
			want: "No exercises found to suggest.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestModel(nil)
			m.state = stateClientDetail
			m.fetchSeq = 1
			tc.msg.seq = 1

			m.applyExercises(tc.msg)
			if m.detail.status != fetchFailed {
				t.Fatalf("status = %d, want fetchFailed", m.detail.status)
			}
			if m.detail.message != tc.want {
				t.Fatalf("message = %q, want %q", m.detail.message, tc.want)
			}
		})
	}
}

func TestFetchExercisesCmd_TagsEachFetch(t *testing.T) {
	catalog := &stubCatalog{exercises: []wger.Exercise{
		{ID: 1, Translations: []wger.Translation{{Language: 2, Name: "Plank"}}},
	}}
	m := newTestModel(catalog)

	first := m.fetchExercisesCmd()
	second := m.fetchExercisesCmd()

	msg, ok := second().(exercisesMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", second())
	}
	if msg.seq != m.fetchSeq {
		t.Fatalf("seq = %d, want %d", msg.seq, m.fetchSeq)
	}
	if msg.err != nil {
		t.Fatalf("unexpected error: %v", msg.err)
	}
	if len(msg.names) != 1 || msg.names[0] != "Plank" {
		t.Fatalf("names = %v", msg.names)
	}

	stale, ok := first().(exercisesMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", first())
	}
	if stale.seq == m.fetchSeq {
		t.Fatal("earlier fetch should carry an older seq")
	}
}

func TestResolveMenuSelection(t *testing.T) {
	cases := map[string]string{
		"1":          menuClients,
		"clients":    menuClients,
		"add client": menuAddClient,
		"set":        menuSettings,
		"q":          menuQuit,
		"nonsense":   "",
		"":           "",
	}
	for input, want := range cases {
		got, ok := resolveMenuSelection(mainMenuOptions, input)
		if want == "" {
			if ok {
				t.Fatalf("resolveMenuSelection(%q) = %q, want no match", input, got)
			}
			continue
		}
		if !ok || got != want {
			t.Fatalf("resolveMenuSelection(%q) = %q, %v, want %q", input, got, ok, want)
		}
	}
}
