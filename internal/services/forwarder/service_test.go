package forwarder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"wishbot/internal/entities"
	"wishbot/internal/queue"
	"wishbot/internal/repository/in_memory_repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	tele "gopkg.in/telebot.v3"
)

type sent struct {
	To   string
	Text string
}

type senderStub struct {
	mu   sync.Mutex
	sent []sent
	fail map[string]bool
}

func (s *senderStub) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[to.Recipient()] {
		return nil, errors.New("bot was blocked by the user")
	}
	s.sent = append(s.sent, sent{To: to.Recipient(), Text: what.(string)})
	return &tele.Message{ID: len(s.sent)}, nil
}

func (s *senderStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestRender(t *testing.T) {
	actual := render(&entities.User{Id: 1234, DisplayName: "Ana", Handle: "ana_tg", SocialHandle: "@ana.insta"})
	expected := "💰 <a href=\"tg://user?id=1234\">Ana</a> claimed the discount (@ana_tg)\n📱 Instagram: @ana.insta"
	assert.Equal(t, expected, actual)
}

func TestRenderEscapesHTML(t *testing.T) {
	actual := render(&entities.User{Id: 1, DisplayName: "<b>&</b>"})
	expected := "💰 <a href=\"tg://user?id=1\">&lt;b&gt;&amp;&lt;/b&gt;</a> claimed the discount"
	assert.Equal(t, expected, actual)
}

func TestRenderWithoutName(t *testing.T) {
	assert.Equal(t, "💰 <a href=\"tg://user?id=7\">7</a> claimed the discount", render(&entities.User{Id: 7}))
}

func TestServiceRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := in_memory_repo.New()
	require.NoError(t, repo.UpsertUser(context.Background(), 5, entities.UserFields{
		DisplayName:  entities.Ptr("Ana"),
		SocialHandle: entities.Ptr("@ana.insta"),
	}))
	q := queue.NewQueue[entities.Lead]()
	bot := &senderStub{fail: map[string]bool{"2": true}}
	s := New([]int64{1, 2, 3}, bot, q, repo, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- s.Run(ctx) }()

	q.Put(entities.Lead{UserId: 404})
	q.Put(entities.Lead{UserId: 5, SocialHandle: "@ana.insta"})
	assert.Eventually(t, func() bool { return bot.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-errCh)
	assert.Equal(t, "1", bot.sent[0].To)
	assert.Equal(t, "3", bot.sent[1].To)
	assert.Contains(t, bot.sent[0].Text, "@ana.insta")
}
