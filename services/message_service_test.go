package services_test

import (
	"context"
	"dm-lab/domain"
	"dm-lab/domain/event"
	"dm-lab/dto"
	"dm-lab/errors"
	"dm-lab/mocks"
	"dm-lab/services"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	alice = domain.User{ID: "id-alice", Username: "alice"}
	bob   = domain.User{ID: "id-bob", Username: "bob"}
	now   = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	users     *mocks.MockIUserRepository
	messages  *mocks.MockIMessageRepository
	presence  *mocks.MockPresenceTracker
	publisher *mocks.MockPublisher
	searcher  *mocks.MockMessageSearcher
	service   *services.MessageService
}

func newFixture(t *testing.T, maxContentLength int) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		users:     mocks.NewMockIUserRepository(ctrl),
		messages:  mocks.NewMockIMessageRepository(ctrl),
		presence:  mocks.NewMockPresenceTracker(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		searcher:  mocks.NewMockMessageSearcher(ctrl),
	}
	f.service = services.NewMessageService(logs.GetLoggerFromLevel(slog.LevelDebug),
		f.users, f.messages, f.presence, f.publisher, f.searcher, nil, maxContentLength).
		WithClock(func() time.Time { return now })
	return f
}

func (f fixture) knownUsers() {
	f.users.EXPECT().GetUserByUsername("alice").Return(alice, nil).AnyTimes()
	f.users.EXPECT().GetUserByUsername("bob").Return(bob, nil).AnyTimes()
	f.users.EXPECT().GetUserByUsername(gomock.Any()).Return(domain.User{}, errors.ErrUserNotFound).AnyTimes()
}

func TestSendMessage_To_Offline_Recipient(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	// Given bob is offline
	f.presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(false, nil)

	// Then the message is stored unread
	var saved domain.Message
	f.messages.EXPECT().Save(gomock.Any()).DoAndReturn(func(message domain.Message) error {
		saved = message
		return nil
	}).Times(1)

	// And announced to the conversation group
	f.publisher.EXPECT().
		PublishToGroup(gomock.Any(), "alice-bob", event.NewMessage, gomock.AssignableToTypeOf(dto.MessageDto{})).
		DoAndReturn(func(_ context.Context, _ string, _ event.Name, payload any) error {
			req.Equal(saved.ID.String(), payload.(dto.MessageDto).ID)
			return nil
		}).Times(1)

	// When alice sends "hi" to bob
	message, err := f.service.SendMessage(context.Background(), "alice", "bob", "hi")

	req.NoError(err)
	req.Nil(message.ReadAt)
	req.Equal("alice-bob", message.Group())
	req.Equal("hi", message.Content)
	req.Equal("id-alice", message.SenderID)
	req.Equal("id-bob", message.RecipientID)
	req.Equal(now, message.CreatedAt)
	req.Equal(saved, message)
}

func TestSendMessage_To_Online_Recipient_Is_Read(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	f.presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(true, nil)
	f.messages.EXPECT().Save(gomock.Any()).Return(nil)
	f.publisher.EXPECT().PublishToGroup(gomock.Any(), "alice-bob", event.NewMessage, gomock.Any()).Return(nil)

	message, err := f.service.SendMessage(context.Background(), "alice", "bob", "hi")

	req.NoError(err)
	req.NotNil(message.ReadAt)
	req.Equal(message.CreatedAt, *message.ReadAt)
}

func TestSendMessage_Presence_Failure_Means_Offline(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	f.presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(false, fmt.Errorf("redis down"))
	f.messages.EXPECT().Save(gomock.Any()).Return(nil)
	f.publisher.EXPECT().PublishToGroup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	message, err := f.service.SendMessage(context.Background(), "alice", "bob", "hi")

	req.NoError(err)
	req.Nil(message.ReadAt)
}

func TestSendMessage_To_Self_Is_Rejected(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)

	// No store, presence or publisher interaction is expected
	for _, recipient := range []string{"alice", "ALICE", " alice "} {
		_, err := f.service.SendMessage(context.Background(), "alice", recipient, "hi")
		req.ErrorIs(err, errors.ErrSelfMessage)
	}
}

func TestSendMessage_To_Unknown_Recipient(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	// No Save and no PublishToGroup expected
	_, err := f.service.SendMessage(context.Background(), "alice", "charlie", "hi")

	req.ErrorIs(err, errors.ErrRecipientNotFound)
}

func TestSendMessage_Unknown_Sender(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	_, err := f.service.SendMessage(context.Background(), "ghost", "bob", "hi")

	req.ErrorIs(err, errors.ErrSenderNotFound)
}

func TestSendMessage_Content_Validation(t *testing.T) {
	f := newFixture(t, 5)

	testCases := []struct {
		name    string
		content string
		err     error
	}{
		{"empty", "", errors.ErrEmptyContent},
		{"blank", "  \n\t", errors.ErrEmptyContent},
		{"too long", "abcdef", errors.ErrContentTooLong},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.SendMessage(context.Background(), "alice", "bob", tc.content)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSendMessage_Length_Counts_Characters(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 5)
	f.knownUsers()
	f.presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(false, nil)
	f.messages.EXPECT().Save(gomock.Any()).Return(nil)
	f.publisher.EXPECT().PublishToGroup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	// 5 runes, 10 bytes
	_, err := f.service.SendMessage(context.Background(), "alice", "bob", "ééééé")
	req.NoError(err)
}

func TestSendMessage_Persistence_Failure_Skips_Fanout(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	cause := fmt.Errorf("disk full")
	f.presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(false, nil)
	f.messages.EXPECT().Save(gomock.Any()).Return(cause)
	// No PublishToGroup expected

	_, err := f.service.SendMessage(context.Background(), "alice", "bob", "hi")

	req.ErrorIs(err, errors.ErrPersistenceFailed)
	req.ErrorIs(err, cause)
}

func TestSendMessage_Fanout_Failure_Is_Not_Surfaced(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	f.presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(false, nil)
	f.messages.EXPECT().Save(gomock.Any()).Return(nil)
	f.publisher.EXPECT().PublishToGroup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.ErrFanoutSaturated)

	message, err := f.service.SendMessage(context.Background(), "alice", "bob", "hi")

	req.NoError(err)
	req.Equal("hi", message.Content)
}

func TestSendMessage_Cancelled_Request_Still_Notifies(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)
	f.knownUsers()

	ctx, cancel := context.WithCancel(context.Background())
	f.presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(false, nil)
	f.messages.EXPECT().Save(gomock.Any()).DoAndReturn(func(domain.Message) error {
		// The client goes away while the message is being stored
		cancel()
		return nil
	})
	f.publisher.EXPECT().PublishToGroup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ event.Name, _ any) error {
			req.NoError(ctx.Err())
			return nil
		})

	_, err := f.service.SendMessage(ctx, "alice", "bob", "hi")
	req.NoError(err)
}

func TestSendMessage_Content_Filter(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	presence := mocks.NewMockPresenceTracker(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	filter := mocks.NewMockContentFilter(ctrl)

	service := services.NewMessageService(logs.GetLoggerFromLevel(slog.LevelDebug),
		users, messages, presence, publisher, nil, filter, 0)

	users.EXPECT().GetUserByUsername("alice").Return(alice, nil)
	users.EXPECT().GetUserByUsername("bob").Return(bob, nil)
	presence.EXPECT().IsOnline(gomock.Any(), "bob").Return(false, nil)
	filter.EXPECT().Censor("you badger").Return("you ******", []string{"badger"})
	messages.EXPECT().Save(gomock.Any()).DoAndReturn(func(message domain.Message) error {
		req.Equal("you ******", message.Content)
		return nil
	})
	publisher.EXPECT().PublishToGroup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	message, err := service.SendMessage(context.Background(), "alice", "bob", "you badger")
	req.NoError(err)
	req.Equal("you ******", message.Content)
}

func TestGetMessagesForUser_Normalizes_Params(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)

	expected := domain.NewPagedList([]domain.Message{}, 0, 1, domain.MaxPageSize)
	f.messages.EXPECT().GetMessagesForUser(domain.MessageParams{
		Username:   "alice",
		PageNumber: 1,
		PageSize:   domain.MaxPageSize,
		Container:  domain.ContainerAll,
	}).Return(expected, nil)

	page, err := f.service.GetMessagesForUser(context.Background(), domain.MessageParams{Username: "Alice", PageNumber: -3, PageSize: 500})
	req.NoError(err)
	req.Equal(expected, page)
}

func TestGetMessageThread(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)

	thread := []domain.Message{domain.NewMessage(alice, bob, "hi", now)}
	f.messages.EXPECT().GetMessageThread("alice", "bob").Return(thread, nil)

	result, err := f.service.GetMessageThread(context.Background(), "alice", "BOB")
	req.NoError(err)
	req.Equal(thread, result)
}

func TestMarkThreadRead_Notifies_Sender(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)

	f.messages.EXPECT().MarkThreadRead("bob", "alice", now).Return(2, nil)
	f.publisher.EXPECT().
		PublishToGroup(gomock.Any(), "alice-bob", event.MessagesRead, event.MessagesReadPayload{Username: "bob", Count: 2}).
		Return(nil)

	count, err := f.service.MarkThreadRead(context.Background(), "bob", "alice")
	req.NoError(err)
	req.Equal(2, count)
}

func TestMarkThreadRead_Nothing_To_Acknowledge(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)

	// No event when nothing changed
	f.messages.EXPECT().MarkThreadRead("bob", "alice", now).Return(0, nil)

	count, err := f.service.MarkThreadRead(context.Background(), "bob", "alice")
	req.NoError(err)
	req.Zero(count)
}

func TestSearchMessages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)

	mine := domain.NewMessage(alice, bob, "lunch?", now)
	f.searcher.EXPECT().Search(gomock.Any(), "alice", "lunch", domain.DefaultPageSize).
		Return([]uuid.UUID{mine.ID}, uint64(1), nil)
	f.messages.EXPECT().GetByID(mine.ID).Return(mine, nil)

	messages, total, err := f.service.SearchMessages(context.Background(), "alice", "lunch", 0)
	req.NoError(err)
	req.Equal([]domain.Message{mine}, messages)
	req.Equal(uint64(1), total)
}

func TestSearchMessages_Rejections(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 0)

	_, _, err := f.service.SearchMessages(context.Background(), "alice", "   ", 10)
	req.ErrorIs(err, errors.ErrInvalidRequest)

	disabled := services.NewMessageService(logs.GetLoggerFromLevel(slog.LevelDebug),
		f.users, f.messages, f.presence, f.publisher, nil, nil, 0)
	_, _, err = disabled.SearchMessages(context.Background(), "alice", "lunch", 10)
	req.ErrorIs(err, errors.ErrSearchUnavailable)
}
