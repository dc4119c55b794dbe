package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreate_WhenFetched_ThenEqualsInputWithFreshID(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	in := note{ID: "caller-supplied", Title: "hello", Tags: []string{"a", "b"}}

	// Act
	created, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	got, err := repo.Get(context.Background(), created.ID)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, "caller-supplied", created.ID)
	assert.Len(t, created.ID, 36)
	in.ID = created.ID
	assert.Equal(t, in, got)
}

func TestRepositoryGet_WhenMissing_ThenReturnsNotFound(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")

	// Act
	_, err := repo.Get(context.Background(), "nope")

	// Assert
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryUpdate_WhenMissing_ThenNotFoundAndFileUnchanged(t *testing.T) {
	// Arrange
	store, path := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	_, err := repo.Create(context.Background(), note{Title: "existing"})
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// Act
	_, err = repo.Update(context.Background(), "nope", func(n *note) error {
		n.Title = "changed"
		return nil
	})

	// Assert
	assert.ErrorIs(t, err, ErrNotFound)
	after, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, before, after)
}

func TestRepositoryUpdate_WhenApplyChangesID_ThenIdentifierPreserved(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	created, err := repo.Create(context.Background(), note{Title: "before"})
	require.NoError(t, err)

	// Act
	updated, err := repo.Update(context.Background(), created.ID, func(n *note) error {
		n.ID = "hijacked"
		n.Title = "after"
		return nil
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	got, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
}

func TestRepositoryUpdate_WhenApplyRejects_ThenCollectionUnchanged(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	created, err := repo.Create(context.Background(), note{Title: "before"})
	require.NoError(t, err)
	rejected := errors.New("rejected")

	// Act
	_, err = repo.Update(context.Background(), created.ID, func(n *note) error {
		n.Title = "after"
		return rejected
	})

	// Assert
	assert.ErrorIs(t, err, rejected)
	got, _ := repo.Get(context.Background(), created.ID)
	assert.Equal(t, "before", got.Title)
}

func TestRepositoryDelete_WhenCalledTwice_ThenSecondReturnsNotFound(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	created, err := repo.Create(context.Background(), note{Title: "doomed"})
	require.NoError(t, err)

	// Act
	first := repo.Delete(context.Background(), created.ID)
	second := repo.Delete(context.Background(), created.ID)

	// Assert
	assert.NoError(t, first)
	assert.ErrorIs(t, second, ErrNotFound)
	remaining, _ := repo.List(context.Background())
	assert.Empty(t, remaining)
}

func TestRepositoryDelete_WhenMiddleRecordRemoved_ThenOrderPreserved(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		created, err := repo.Create(context.Background(), note{Title: title})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	// Act
	require.NoError(t, repo.Delete(context.Background(), ids[1]))

	// Assert
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Title)
	assert.Equal(t, "three", got[1].Title)
}

func TestRepositoryCreate_WhenGuardVetoes_ThenNothingCommitted(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	_, err := repo.Create(context.Background(), note{Title: "taken"})
	require.NoError(t, err)
	errTaken := errors.New("taken")
	unique := func(existing note) error {
		if existing.Title == "taken" {
			return errTaken
		}
		return nil
	}

	// Act
	_, err = repo.Create(context.Background(), note{Title: "taken"}, unique)

	// Assert
	assert.ErrorIs(t, err, errTaken)
	got, _ := repo.List(context.Background())
	assert.Len(t, got, 1)
}

func TestRepositoryCreate_WhenConcurrent_ThenNoLostWrites(t *testing.T) {
	// Arrange
	store, path := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	const writers = 40

	ids := make([]string, writers)
	errs := make([]error, writers)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := repo.Create(context.Background(), note{Title: fmt.Sprintf("n%d", i)})
			ids[i], errs[i] = created.ID, err
		}(i)
	}
	wg.Wait()

	// Assert
	seen := make(map[string]struct{}, writers)
	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		seen[ids[i]] = struct{}{}
	}
	assert.Len(t, seen, writers)

	restarted := NewStore(path, []string{"notes"})
	require.NoError(t, restarted.Load(context.Background()))
	persisted, err := NewRepository[note](restarted, "notes").List(context.Background())
	require.NoError(t, err)
	assert.Len(t, persisted, writers)
}

func TestRepositoryUpdate_WhenConcurrentAcrossCollections_ThenAllApplied(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	notes := NewRepository[note](store, "notes")
	users := NewRepository[note](store, "users")
	counter, err := notes.Create(context.Background(), note{Title: ""})
	require.NoError(t, err)
	const rounds = 25
	var wg sync.WaitGroup

	// Act
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := notes.Update(context.Background(), counter.ID, func(n *note) error {
				n.Tags = append(n.Tags, "x")
				return nil
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := users.Create(context.Background(), note{Title: "u"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Assert
	got, err := notes.Get(context.Background(), counter.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, rounds)
	allUsers, _ := users.List(context.Background())
	assert.Len(t, allUsers, rounds)
}

func TestRepositoryUpsert_WhenAbsentThenPresent_ThenInsertsOnceAndUpdates(t *testing.T) {
	// Arrange
	store, _ := newLoadedStore(t)
	repo := NewRepository[note](store, "notes")
	var existsSeen []bool
	apply := func(title string) func(*note, bool) error {
		return func(n *note, exists bool) error {
			existsSeen = append(existsSeen, exists)
			n.Title = title
			return nil
		}
	}

	// Act
	_, err := repo.Upsert(context.Background(), "site", apply("v1"))
	require.NoError(t, err)
	_, err = repo.Upsert(context.Background(), "site", apply("v2"))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []bool{false, true}, existsSeen)
	all, _ := repo.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, note{ID: "site", Title: "v2"}, all[0])
}

func TestRepository_WhenMutationsCommit_ThenNotifierReceivesChanges(t *testing.T) {
	// Arrange
	notifier := &recordingNotifier{}
	store, _ := newLoadedStore(t, WithNotifier(notifier))
	repo := NewRepository[note](store, "notes")

	// Act
	created, err := repo.Create(context.Background(), note{Title: "a"})
	require.NoError(t, err)
	_, err = repo.Update(context.Background(), created.ID, func(n *note) error { return nil })
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), created.ID))
	_ = repo.Delete(context.Background(), created.ID)

	// Assert
	assert.Equal(t, []Change{
		{Collection: "notes", Action: ActionCreated, ID: created.ID},
		{Collection: "notes", Action: ActionUpdated, ID: created.ID},
		{Collection: "notes", Action: ActionDeleted, ID: created.ID},
	}, notifier.changes)
}

func TestRepository_WhenSeveralNotifiers_ThenEachReceivesChange(t *testing.T) {
	first, second := &recordingNotifier{}, &recordingNotifier{}
	store, _ := newLoadedStore(t, WithNotifier(first), WithNotifier(second))

	created, err := NewRepository[note](store, "notes").Create(context.Background(), note{Title: "a"})
	require.NoError(t, err)

	want := []Change{{Collection: "notes", Action: ActionCreated, ID: created.ID}}
	assert.Equal(t, want, first.changes)
	assert.Equal(t, want, second.changes)
}

// snapshotNotifier records the title the store holds at each notification.
type snapshotNotifier struct {
	store *Store
	mu    sync.Mutex
	seen  []string
}

func (n *snapshotNotifier) Notify(_ context.Context, change Change) {
	var rec note
	for _, raw := range n.store.Collection(change.Collection) {
		_ = json.Unmarshal(raw, &rec)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, rec.Title)
}

func TestRepository_WhenConcurrentUpdates_ThenNotifiedInCommitOrder(t *testing.T) {
	// Arrange
	notifier := &snapshotNotifier{}
	store, _ := newLoadedStore(t, WithNotifier(notifier))
	notifier.store = store
	repo := NewRepository[note](store, "notes")
	created, err := repo.Create(context.Background(), note{Title: "start"})
	require.NoError(t, err)
	const n = 30

	// Act
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.Update(context.Background(), created.ID, func(rec *note) error {
				rec.Title = fmt.Sprintf("v%d", i)
				return nil
			})
		}(i)
	}
	wg.Wait()

	// Assert
	final, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, notifier.seen, n+1)
	distinct := make(map[string]struct{}, len(notifier.seen))
	for _, title := range notifier.seen {
		distinct[title] = struct{}{}
	}
	assert.Len(t, distinct, n+1, "each notification must see its own commit")
	assert.Equal(t, final.Title, notifier.seen[n])
}

func TestRepository_WhenRecordHasUnknownFields_ThenUntouchedRecordsKeepThem(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "db.json")
	content := `{"notes": [{"id": "a", "title": "x", "legacy": true}, {"id": "b", "title": "y"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	store := NewStore(path, []string{"notes"})
	require.NoError(t, store.Load(context.Background()))
	repo := NewRepository[note](store, "notes")

	// Act
	_, err := repo.Update(context.Background(), "b", func(n *note) error {
		n.Title = "z"
		return nil
	})

	// Assert
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"legacy": true`)
}
