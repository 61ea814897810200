package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/eliseohh/ytbot/internal/history"
	"github.com/eliseohh/ytbot/internal/paginator"
	"github.com/eliseohh/ytbot/internal/youtube"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type Bot struct {
	api     *tele.Bot
	yt      youtube.Lister
	pages   *paginator.Registry
	history *history.Store
	cfg     Config
	log     *zap.Logger

	ctx       context.Context
	started   time.Time
	now       func() time.Time
	messenger func(c tele.Context) paginator.Messenger
}

type Config struct {
	Token       string
	PollTimeout time.Duration
	// MaxResults caps the amount accepted by /search.
	MaxResults int
	// HistoryLimit is how many entries /history shows.
	HistoryLimit int
}

// New connects to Telegram and registers every command. store may be nil
// when history is disabled.
func New(cfg Config, yt youtube.Lister, pages *paginator.Registry, store *history.Store, log *zap.Logger) (*Bot, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}

	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			log.Warn("handler failed", zap.Error(err))
		},
	}

	api, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		api:     api,
		yt:      yt,
		pages:   pages,
		history: store,
		cfg:     cfg,
		log:     log,
		ctx:     context.Background(),
		started: time.Now(),
		now:     time.Now,
	}
	b.messenger = func(c tele.Context) paginator.Messenger {
		return newChatMessenger(b.api, c.Chat())
	}
	b.register()
	return b, nil
}

// Run polls Telegram until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.started = b.now()
	b.log.Info("bot started", zap.String("username", b.api.Me.Username))

	go b.api.Start()
	<-ctx.Done()

	b.log.Info("stopping bot")
	b.api.Stop()
	b.pages.CloseAll(context.WithoutCancel(ctx))
	return nil
}

func (b *Bot) register() {
	b.api.Handle("/start", b.handleHelp)
	b.api.Handle("/help", b.handleHelp)
	b.api.Handle("/search", b.handleSearch)
	b.api.Handle("/dump", b.handleDump)
	b.api.Handle("/pldump", b.handleDump)
	b.api.Handle("/history", b.handleHistory)
	b.api.Handle("/uptime", b.handleUptime)
	b.api.Handle(&navBtn, b.handleNav)
}

const helpText = `Commands:
/search [amount=1] <query> - search videos
/search channel [amount=1] <query>
/search playlist [amount=1] <query>
/search live [amount=1] <query>
/dump <playlist link> - all video links of a playlist
/history [clear] - your recent searches
/uptime - how long the bot has been running

If your query starts with a number, put it in quotes.`

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(helpText)
}

// /search router
func (b *Bot) handleSearch(c tele.Context) error {
	payload := strings.TrimSpace(c.Message().Payload)
	sub, rest := cutWord(payload)

	req := youtube.SearchRequest{Kind: youtube.KindVideo}
	switch strings.ToLower(sub) {
	case "video":
		payload = rest
	case "channel":
		req.Kind = youtube.KindChannel
		payload = rest
	case "playlist":
		req.Kind = youtube.KindPlaylist
		payload = rest
	case "live", "livestream":
		req.Live = true
		payload = rest
	}

	query, limit, err := youtube.ParseQuery(payload, b.cfg.MaxResults)
	if err != nil {
		var argErr *youtube.ArgumentError
		if errors.As(err, &argErr) {
			return c.Send(argErr.Error())
		}
		return err
	}
	req.Query, req.Limit = query, limit

	return b.search(c, req)
}

func (b *Bot) search(c tele.Context, req youtube.SearchRequest) error {
	links, res, err := youtube.Search(b.ctx, b.yt, req, b.log)
	if err != nil {
		return err
	}
	b.record(c, req, len(links))

	if len(links) == 0 {
		b.log.Debug("search returned nothing",
			zap.String("query", req.Query),
			zap.Stringer("stop", res.Stop))
		return c.Send(fmt.Sprintf("No %ss found.", req.Kind))
	}

	return b.paginate(c, links)
}

// record logs a search in the history store. Failures never reach the user.
func (b *Bot) record(c tele.Context, req youtube.SearchRequest, results int) {
	if b.history == nil || c.Sender() == nil {
		return
	}
	kind := req.Kind.String()
	if req.Live {
		kind = "live"
	}
	_, err := b.history.Record(b.ctx, history.Entry{
		UserID:  c.Sender().ID,
		Kind:    kind,
		Query:   req.Query,
		Results: results,
	})
	if err != nil {
		b.log.Warn("record history failed", zap.Error(err))
	}
}

func (b *Bot) paginate(c tele.Context, entries []string) error {
	if c.Sender() == nil {
		return nil
	}
	_, err := b.pages.Start(b.ctx, b.messenger(c), entries, userID(c.Sender()))
	if err != nil {
		b.log.Warn("pager failed", zap.Error(err))
		return c.Send(fmt.Sprintf("⛔ Error: %v", err))
	}
	return nil
}

func (b *Bot) handleNav(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil || c.Sender() == nil {
		return nil
	}
	// Acknowledge the press so the client stops its spinner; nothing to do
	// if that fails.
	_ = c.Respond()

	action, ok := paginator.ParseAction(cb.Data)
	if !ok {
		return nil
	}
	return b.pages.Dispatch(b.ctx, paginator.Event{
		Action:  action,
		Actor:   userID(c.Sender()),
		Message: messageID(cb.Message.Chat.ID, cb.Message.ID),
	})
}

// /dump <link>
func (b *Bot) handleDump(c tele.Context) error {
	link := strings.TrimSpace(c.Message().Payload)
	if link == "" {
		return c.Send("Usage: /dump <playlist link>")
	}

	id, ok := youtube.PlaylistID(link)
	if !ok {
		return c.Send("This is not a valid link.")
	}

	links, res, err := youtube.PlaylistLinks(b.ctx, b.yt, id, b.log)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		if res.Stop == youtube.StopFailed {
			return c.Send("This is not a valid playlist.")
		}
		return c.Send("This playlist is empty.")
	}

	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(youtube.ExportText(links))),
		FileName: "playlist.txt",
		MIME:     "text/plain",
	}
	return c.Send(doc)
}

// /history [clear]
func (b *Bot) handleHistory(c tele.Context) error {
	if b.history == nil {
		return c.Send("History is disabled.")
	}
	if c.Sender() == nil {
		return nil
	}

	action, _ := cutWord(strings.TrimSpace(c.Message().Payload))
	switch strings.ToLower(action) {
	case "":
	case "clear":
		n, err := b.history.Clear(b.ctx, c.Sender().ID)
		if err != nil {
			return err
		}
		return c.Send(fmt.Sprintf("✅ Cleared %d searches.", n))
	default:
		return c.Send("Usage: /history [clear]")
	}

	entries, err := b.history.Recent(b.ctx, c.Sender().ID, b.cfg.HistoryLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return c.Send("No searches yet.")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("🔎 %s: %s\n%d results, %s",
			e.Kind, e.Query, e.Results, e.CreatedAt.UTC().Format("2006-01-02 15:04 MST")))
	}
	return b.paginate(c, lines)
}

func (b *Bot) handleUptime(c tele.Context) error {
	return c.Send(fmt.Sprintf("Uptime: %s", humanDuration(b.now().Sub(b.started))))
}

// cutWord splits off the first whitespace separated word.
func cutWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
