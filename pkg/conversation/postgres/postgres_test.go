package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/azziedev/promptrelay/pkg/conversation"
	"github.com/azziedev/promptrelay/pkg/conversation/postgres"
)

// connStr returns the PostgreSQL connection string from the environment or
// skips the test.
func connStr() string {
	dsn := os.Getenv("RELAY_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("RELAY_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Postgres Store", func() {
	var (
		store *postgres.Store
		ctx   context.Context
		base  time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		dsn := connStr()

		var err error
		store, err = postgres.NewStore(ctx, dsn)
		Expect(err).NotTo(HaveOccurred())

		// Clean the table before each test for isolation.
		db, err := sql.Open("pgx", dsn)
		Expect(err).NotTo(HaveOccurred())
		_, err = db.ExecContext(ctx, "DELETE FROM conversations")
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Close()).To(Succeed())
	})

	AfterEach(func() {
		if store != nil {
			Expect(store.Close()).To(Succeed())
		}
	})

	turn := func(id, threadID string, at time.Time) *conversation.Turn {
		return &conversation.Turn{
			ID:          id,
			ThreadID:    threadID,
			Prompt:      "prompt " + id,
			Status:      conversation.StatusPending,
			Timestamp:   at,
			MaxTokens:   500,
			Temperature: 0.7,
		}
	}

	Describe("NewStore", func() {
		It("returns an error for an unreachable server", func() {
			_, err := postgres.NewStore(ctx, "host=invalid port=9999 user=bad dbname=bad sslmode=disable connect_timeout=1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Save", func() {
		It("rejects a nil turn", func() {
			Expect(store.Save(ctx, nil)).To(MatchError(conversation.ErrNilTurn))
		})

		It("round-trips all fields", func() {
			saved := turn("corr-1", "thread-1", base)
			saved.Status = conversation.StatusCompleted
			saved.Response = "the answer"
			Expect(store.Save(ctx, saved)).To(Succeed())

			turns, err := store.FindByThread(ctx, "thread-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))

			got := turns[0]
			Expect(got.ID).To(Equal("corr-1"))
			Expect(got.ThreadID).To(Equal("thread-1"))
			Expect(got.Prompt).To(Equal("prompt corr-1"))
			Expect(got.Response).To(Equal("the answer"))
			Expect(got.Status).To(Equal(conversation.StatusCompleted))
			Expect(got.Timestamp).To(BeTemporally("==", base))
			Expect(got.MaxTokens).To(Equal(500))
			Expect(got.Temperature).To(Equal(0.7))
		})

		It("upserts by id: a duplicate delivery updates the row in place", func() {
			Expect(store.Save(ctx, turn("corr-1", "thread-1", base))).To(Succeed())

			updated := turn("corr-1", "thread-1", base)
			updated.Status = conversation.StatusFailed
			updated.Response = "Error: boom"
			Expect(store.Save(ctx, updated)).To(Succeed())

			all, err := store.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0].Status).To(Equal(conversation.StatusFailed))
			Expect(all[0].Response).To(Equal("Error: boom"))
		})
	})

	Describe("FindByThread", func() {
		It("returns an empty slice for an unknown thread", func() {
			turns, err := store.FindByThread(ctx, "nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(BeEmpty())
		})

		It("orders turns by timestamp ascending with insertion tiebreak", func() {
			Expect(store.Save(ctx, turn("late", "thread-1", base.Add(time.Minute)))).To(Succeed())
			Expect(store.Save(ctx, turn("tie-a", "thread-1", base))).To(Succeed())
			Expect(store.Save(ctx, turn("tie-b", "thread-1", base))).To(Succeed())

			turns, err := store.FindByThread(ctx, "thread-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(3))
			Expect(turns[0].ID).To(Equal("tie-a"))
			Expect(turns[1].ID).To(Equal("tie-b"))
			Expect(turns[2].ID).To(Equal("late"))
		})

		It("excludes other threads", func() {
			Expect(store.Save(ctx, turn("a", "thread-1", base))).To(Succeed())
			Expect(store.Save(ctx, turn("b", "thread-2", base))).To(Succeed())

			turns, err := store.FindByThread(ctx, "thread-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].ID).To(Equal("a"))
		})
	})

	Describe("FindAll", func() {
		It("returns turns across threads", func() {
			Expect(store.Save(ctx, turn("a", "thread-1", base))).To(Succeed())
			Expect(store.Save(ctx, turn("b", "thread-2", base.Add(time.Second)))).To(Succeed())

			all, err := store.FindAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})
})
