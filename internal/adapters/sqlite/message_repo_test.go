package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/whisper/internal/adapters/sqlite"
	"github.com/example/whisper/internal/core/message"
	"github.com/example/whisper/internal/ports/secondary"
)

// setupMessageTestDB creates the test database with users A, B and C.
func setupMessageTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDB := setupTestDB(t)
	seedUser(t, testDB, "A", "alice")
	seedUser(t, testDB, "B", "bob")
	seedUser(t, testDB, "C", "carol")
	return testDB
}

func createTestMessage(t *testing.T, repo *sqlite.MessageRepository, ctx context.Context, text, sender, receiver string) *secondary.MessageRecord {
	t.Helper()
	record, err := repo.Create(ctx, text, sender, receiver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return record
}

func texts(records []*secondary.MessageRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Text
	}
	return out
}

func TestMessageRepository_Create(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(fixedClock(epoch)))
	ctx := context.Background()

	created := createTestMessage(t, repo, ctx, "hola", "A", "B")
	if created.ID == "" {
		t.Fatal("expected ID to be assigned")
	}
	if !created.CreatedAt.Equal(epoch) {
		t.Errorf("expected CreatedAt %v, got %v", epoch, created.CreatedAt)
	}
	if created.ReadAt != nil {
		t.Error("expected new message to be unread")
	}

	retrieved, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Text != "hola" || retrieved.SenderID != "A" || retrieved.ReceiverID != "B" {
		t.Errorf("unexpected record: %+v", retrieved)
	}
	if !retrieved.CreatedAt.Equal(epoch) {
		t.Errorf("expected stored CreatedAt %v, got %v", epoch, retrieved.CreatedAt)
	}
	if retrieved.ReadAt != nil {
		t.Error("expected stored message to be unread")
	}
}

func TestMessageRepository_Create_UnknownUser(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db)

	_, err := repo.Create(context.Background(), "hola", "A", "NOBODY")
	if err == nil {
		t.Error("expected foreign key violation for unknown receiver")
	}
}

func TestMessageRepository_GetByID_NotFound(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageRepository_Thread_SymmetricAndOrdered(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(stepClock(epoch, time.Second)))
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "one", "A", "B")
	createTestMessage(t, repo, ctx, "two", "B", "A")
	createTestMessage(t, repo, ctx, "noise", "A", "C")
	createTestMessage(t, repo, ctx, "three", "A", "B")

	ab, totalAB, err := repo.Thread(ctx, "A", "B", 50, 0)
	if err != nil {
		t.Fatalf("Thread(A,B) failed: %v", err)
	}
	ba, totalBA, err := repo.Thread(ctx, "B", "A", 50, 0)
	if err != nil {
		t.Fatalf("Thread(B,A) failed: %v", err)
	}

	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(texts(ab), want) {
		t.Errorf("Thread(A,B) = %v, want %v", texts(ab), want)
	}
	if totalAB != 3 || totalBA != 3 {
		t.Errorf("expected totals 3/3, got %d/%d", totalAB, totalBA)
	}
	for i := range ab {
		if ab[i].ID != ba[i].ID {
			t.Errorf("position %d differs: %s vs %s", i, ab[i].ID, ba[i].ID)
		}
	}
}

func TestMessageRepository_Thread_EqualTimestampsKeepInsertOrder(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(fixedClock(epoch)))
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "first", "B", "A")
	createTestMessage(t, repo, ctx, "second", "A", "B")
	createTestMessage(t, repo, ctx, "third", "B", "A")

	page, _, err := repo.Thread(ctx, "A", "B", 0, 0)
	if err != nil {
		t.Fatalf("Thread failed: %v", err)
	}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(texts(page), want) {
		t.Errorf("Thread = %v, want %v", texts(page), want)
	}
}

func TestMessageRepository_Thread_Pagination(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(stepClock(epoch, time.Minute)))
	ctx := context.Background()

	for _, text := range []string{"m1", "m2", "m3", "m4", "m5"} {
		createTestMessage(t, repo, ctx, text, "A", "B")
	}

	tests := []struct {
		name          string
		limit, offset int
		want          []string
	}{
		{"first page", 2, 0, []string{"m1", "m2"}},
		{"middle page", 2, 2, []string{"m3", "m4"}},
		{"last partial page", 2, 4, []string{"m5"}},
		{"past the end", 2, 10, []string{}},
		{"no limit", 0, 1, []string{"m2", "m3", "m4", "m5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total, err := repo.Thread(ctx, "A", "B", tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("Thread failed: %v", err)
			}
			if total != 5 {
				t.Errorf("expected total 5, got %d", total)
			}
			if !reflect.DeepEqual(texts(page), tt.want) {
				t.Errorf("page = %v, want %v", texts(page), tt.want)
			}
		})
	}
}

func TestMessageRepository_MarkRead_Idempotent(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(stepClock(epoch, time.Hour)))
	ctx := context.Background()

	msg := createTestMessage(t, repo, ctx, "hola", "A", "B")

	ok, err := repo.MarkRead(ctx, msg.ID, "B")
	if err != nil || !ok {
		t.Fatalf("first MarkRead = %v, %v", ok, err)
	}
	first, _ := repo.GetByID(ctx, msg.ID)
	if first.ReadAt == nil {
		t.Fatal("expected ReadAt to be set")
	}

	ok, err = repo.MarkRead(ctx, msg.ID, "B")
	if err != nil || !ok {
		t.Fatalf("second MarkRead = %v, %v", ok, err)
	}
	second, _ := repo.GetByID(ctx, msg.ID)
	if !second.ReadAt.Equal(*first.ReadAt) {
		t.Errorf("ReadAt changed from %v to %v", *first.ReadAt, *second.ReadAt)
	}
}

func TestMessageRepository_MarkRead_Rejected(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()

	msg := createTestMessage(t, repo, ctx, "hola", "A", "B")

	tests := []struct {
		name   string
		id     string
		caller string
	}{
		{"sender cannot mark read", msg.ID, "A"},
		{"third party cannot mark read", msg.ID, "C"},
		{"unknown message", "missing", "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := repo.MarkRead(ctx, tt.id, tt.caller)
			if err != nil {
				t.Fatalf("MarkRead failed: %v", err)
			}
			if ok {
				t.Error("expected MarkRead to return false")
			}
		})
	}

	stored, _ := repo.GetByID(ctx, msg.ID)
	if stored.ReadAt != nil {
		t.Error("expected message to remain unread")
	}
}

func TestMessageRepository_MarkAllReadFromSender(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(stepClock(epoch, time.Second)))
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "b1", "B", "A")
	createTestMessage(t, repo, ctx, "b2", "B", "A")
	createTestMessage(t, repo, ctx, "a1", "A", "B")
	createTestMessage(t, repo, ctx, "c1", "C", "A")

	updated, err := repo.MarkAllReadFromSender(ctx, "B", "A")
	if err != nil {
		t.Fatalf("MarkAllReadFromSender failed: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 messages updated, got %d", updated)
	}

	if n, _ := repo.CountUnread(ctx, "B", "A"); n != 0 {
		t.Errorf("expected no unread from B, got %d", n)
	}
	if n, _ := repo.CountUnread(ctx, "A", "B"); n != 1 {
		t.Errorf("expected A's message to B to stay unread, got %d", n)
	}
	if n, _ := repo.CountUnread(ctx, "C", "A"); n != 1 {
		t.Errorf("expected C's message to stay unread, got %d", n)
	}

	updated, err = repo.MarkAllReadFromSender(ctx, "B", "A")
	if err != nil {
		t.Fatalf("second MarkAllReadFromSender failed: %v", err)
	}
	if updated != 0 {
		t.Errorf("expected second sweep to update nothing, got %d", updated)
	}
}

func TestMessageRepository_CountUnreadTotal(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "b1", "B", "A")
	createTestMessage(t, repo, ctx, "c1", "C", "A")
	createTestMessage(t, repo, ctx, "c2", "C", "A")
	read := createTestMessage(t, repo, ctx, "c3", "C", "A")
	createTestMessage(t, repo, ctx, "out", "A", "B")

	if _, err := repo.MarkRead(ctx, read.ID, "A"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	total, err := repo.CountUnreadTotal(ctx, "A")
	if err != nil {
		t.Fatalf("CountUnreadTotal failed: %v", err)
	}

	sum := 0
	for _, counterpart := range []string{"B", "C"} {
		n, err := repo.CountUnread(ctx, counterpart, "A")
		if err != nil {
			t.Fatalf("CountUnread failed: %v", err)
		}
		sum += n
	}

	if total != 3 {
		t.Errorf("expected 3 unread, got %d", total)
	}
	if total != sum {
		t.Errorf("total %d does not match per-counterpart sum %d", total, sum)
	}
}

func TestMessageRepository_MessagesForUser(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(stepClock(epoch, time.Second)))
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "m1", "A", "B")
	createTestMessage(t, repo, ctx, "m2", "C", "A")
	createTestMessage(t, repo, ctx, "unrelated", "B", "C")
	createTestMessage(t, repo, ctx, "m3", "B", "A")

	all, err := repo.MessagesForUser(ctx, "A", 0)
	if err != nil {
		t.Fatalf("MessagesForUser failed: %v", err)
	}
	if want := []string{"m3", "m2", "m1"}; !reflect.DeepEqual(texts(all), want) {
		t.Errorf("MessagesForUser = %v, want %v", texts(all), want)
	}

	limited, err := repo.MessagesForUser(ctx, "A", 2)
	if err != nil {
		t.Fatalf("MessagesForUser with limit failed: %v", err)
	}
	if want := []string{"m3", "m2"}; !reflect.DeepEqual(texts(limited), want) {
		t.Errorf("MessagesForUser(limit 2) = %v, want %v", texts(limited), want)
	}

	none, err := repo.MessagesForUser(ctx, "NOBODY", 0)
	if err != nil {
		t.Fatalf("MessagesForUser for unknown user failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no messages, got %d", len(none))
	}
}

func TestMessageRepository_LatestPerCounterpart(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(stepClock(epoch, time.Second)))
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "to B early", "A", "B")
	createTestMessage(t, repo, ctx, "from C", "C", "A")
	createTestMessage(t, repo, ctx, "from B late", "B", "A")

	latest, err := repo.LatestPerCounterpart(ctx, "A")
	if err != nil {
		t.Fatalf("LatestPerCounterpart failed: %v", err)
	}
	if want := []string{"from B late", "from C"}; !reflect.DeepEqual(texts(latest), want) {
		t.Errorf("LatestPerCounterpart = %v, want %v", texts(latest), want)
	}
	if !latest[0].CreatedAt.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("unexpected CreatedAt %v", latest[0].CreatedAt)
	}
}

func TestMessageRepository_LatestPerCounterpart_MatchesDescendingScan(t *testing.T) {
	db := setupMessageTestDB(t)
	// All messages share one instant so only insertion order separates them
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(fixedClock(epoch)))
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "b1", "A", "B")
	createTestMessage(t, repo, ctx, "c1", "C", "A")
	createTestMessage(t, repo, ctx, "b2", "B", "A")
	createTestMessage(t, repo, ctx, "c2", "A", "C")
	createTestMessage(t, repo, ctx, "b3", "A", "B")

	scan, err := repo.MessagesForUser(ctx, "A", 0)
	if err != nil {
		t.Fatalf("MessagesForUser failed: %v", err)
	}
	expected := message.FirstPerCounterpart("A", scan, func(r *secondary.MessageRecord) (string, string) {
		return r.SenderID, r.ReceiverID
	})

	latest, err := repo.LatestPerCounterpart(ctx, "A")
	if err != nil {
		t.Fatalf("LatestPerCounterpart failed: %v", err)
	}

	if !reflect.DeepEqual(texts(latest), texts(expected)) {
		t.Errorf("LatestPerCounterpart = %v, descending scan = %v", texts(latest), texts(expected))
	}
	if want := []string{"b3", "c2"}; !reflect.DeepEqual(texts(latest), want) {
		t.Errorf("LatestPerCounterpart = %v, want %v", texts(latest), want)
	}
}

func TestMessageRepository_Delete(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()

	msg := createTestMessage(t, repo, ctx, "oops", "A", "B")

	ok, err := repo.Delete(ctx, msg.ID, "B")
	if err != nil {
		t.Fatalf("Delete by receiver failed: %v", err)
	}
	if ok {
		t.Error("expected receiver delete to be rejected")
	}
	if _, err := repo.GetByID(ctx, msg.ID); err != nil {
		t.Errorf("expected message to survive, got %v", err)
	}

	ok, err = repo.Delete(ctx, msg.ID, "A")
	if err != nil {
		t.Fatalf("Delete by sender failed: %v", err)
	}
	if !ok {
		t.Error("expected sender delete to succeed")
	}

	page, total, err := repo.Thread(ctx, "A", "B", 50, 0)
	if err != nil {
		t.Fatalf("Thread failed: %v", err)
	}
	if total != 0 || len(page) != 0 {
		t.Errorf("expected empty thread after delete, got %d/%d", len(page), total)
	}

	ok, _ = repo.Delete(ctx, msg.ID, "A")
	if ok {
		t.Error("expected deleting a missing message to return false")
	}
}

func TestMessageRepository_UserDeleteCascades(t *testing.T) {
	db := setupMessageTestDB(t)
	repo := sqlite.NewMessageRepository(db)
	ctx := context.Background()

	msg := createTestMessage(t, repo, ctx, "bye", "A", "B")

	if _, err := db.Exec("DELETE FROM users WHERE id = ?", "B"); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	if _, err := repo.GetByID(ctx, msg.ID); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected message to be removed with its receiver, got %v", err)
	}
}

func TestMessageRepository_ConversationScenario(t *testing.T) {
	db := setupMessageTestDB(t)
	clock := epoch.Add(100 * time.Second)
	repo := sqlite.NewMessageRepository(db, sqlite.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	createTestMessage(t, repo, ctx, "hola", "A", "B")
	clock = epoch.Add(200 * time.Second)
	createTestMessage(t, repo, ctx, "hi", "B", "A")

	latest, err := repo.LatestPerCounterpart(ctx, "A")
	if err != nil {
		t.Fatalf("LatestPerCounterpart failed: %v", err)
	}
	if len(latest) != 1 || latest[0].Text != "hi" {
		t.Fatalf("expected single conversation ending in 'hi', got %v", texts(latest))
	}
	if n, _ := repo.CountUnread(ctx, "B", "A"); n != 1 {
		t.Errorf("expected 1 unread from B, got %d", n)
	}

	page, total, err := repo.Thread(ctx, "A", "B", 50, 0)
	if err != nil {
		t.Fatalf("Thread failed: %v", err)
	}
	if total != 2 || !reflect.DeepEqual(texts(page), []string{"hola", "hi"}) {
		t.Errorf("unexpected thread %v (total %d)", texts(page), total)
	}

	clock = epoch.Add(300 * time.Second)
	if _, err := repo.MarkAllReadFromSender(ctx, "B", "A"); err != nil {
		t.Fatalf("MarkAllReadFromSender failed: %v", err)
	}
	if n, _ := repo.CountUnreadTotal(ctx, "A"); n != 0 {
		t.Errorf("expected no unread after viewing, got %d", n)
	}
}
