package repositories

import (
	"dm-lab/contract"
	"dm-lab/domain"
	"dm-lab/search"
	"fmt"
	"testing"
	"time"

	"github.com/mama165/sdk-go/database"
	"github.com/stretchr/testify/require"
)

func Test_Mailbox_Performance(t *testing.T) {
	if testing.Short() {
		t.Skip("seeding skipped in short mode")
	}
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := database.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer database.CleanupDB(badgerDB, blugeWriter)

	repository := NewMessageRepository(badgerDB, log)
	index := search.NewIndex(blugeWriter, log)

	users := make([]domain.User, 50)
	for i := range users {
		users[i] = domain.User{ID: fmt.Sprintf("id-%d", i), Username: fmt.Sprintf("user%d", i)}
	}

	// Given 20k messages spread over 50 users
	total := 20_000
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	startSeed := time.Now()
	for i := 0; i < total; i++ {
		sender := users[i%len(users)]
		recipient := users[(i*7+1)%len(users)]
		if sender.Username == recipient.Username {
			recipient = users[(i+1)%len(users)]
		}
		message := domain.NewMessage(sender, recipient, fmt.Sprintf("payload %d for %s", i, recipient.Username),
			start.Add(time.Duration(i)*time.Millisecond))
		req.NoError(repository.Save(message))
		if i%10 == 0 {
			req.NoError(index.Index(contract.SearchDocument{
				ID:           message.ID,
				Content:      message.Content,
				Participants: []string{sender.Username, recipient.Username},
			}))
		}
	}
	t.Logf("Seeded %d messages in %v", total, time.Since(startSeed))

	// When the first and the last page of a mailbox are read
	startRead := time.Now()
	first, err := repository.GetMessagesForUser(domain.MessageParams{Username: "user0", PageNumber: 1, PageSize: 50}.Normalize())
	req.NoError(err)
	last, err := repository.GetMessagesForUser(domain.MessageParams{Username: "user0", PageNumber: first.TotalPages, PageSize: 50}.Normalize())
	req.NoError(err)
	elapsed := time.Since(startRead)

	// Then pages stay consistent and fast
	req.NotZero(first.TotalCount)
	req.Len(first.Items, 50)
	req.NotEmpty(last.Items)
	req.True(first.Items[0].CreatedAt.After(last.Items[len(last.Items)-1].CreatedAt))
	req.Less(elapsed, 2*time.Second)

	ids, hits, err := index.Search(ctx, "user0", "payload", 10)
	req.NoError(err)
	req.NotZero(hits)
	req.LessOrEqual(len(ids), 10)
	t.Logf("Two mailbox pages read in %v, %d search hits", elapsed, hits)
}
