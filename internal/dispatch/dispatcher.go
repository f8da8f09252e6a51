// Package dispatch routes a chat message to the first platform whose link it
// contains and delivers exactly one reply for it.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/linkmatch"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/platforms"
)

// Outcome is what Handle did with an event.
type Outcome int

const (
	Ignored    Outcome = iota // not a message, or no supported link
	Replied                   // preview delivered
	Apologized                // fetch or format failed, apology delivered
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Replied:
		return "replied"
	case Apologized:
		return "apologized"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Replier delivers a message chain back to the chat the event came from.
type Replier interface {
	Reply(ctx context.Context, chain domain.MessageChain) error
}

// ReplyCache stores successful previews. Get returns nil, nil on a miss.
type ReplyCache interface {
	Get(ctx context.Context, key string) (*domain.Reply, error)
	Set(ctx context.Context, key string, reply domain.Reply) error
}

type Option func(*Dispatcher)

// WithCache enables reply caching. A nil cache leaves caching off.
func WithCache(c ReplyCache) Option {
	return func(d *Dispatcher) { d.cache = c }
}

// Dispatcher owns the immutable platform table built at startup.
// It is safe for concurrent use.
type Dispatcher struct {
	matcher   *linkmatch.Matcher
	platforms map[string]platforms.Platform
	log       logger.Logger
	cache     ReplyCache
}

// New builds a Dispatcher over list, matched in list order.
func New(list []platforms.Platform, log logger.Logger, opts ...Option) (*Dispatcher, error) {
	rules := make([]linkmatch.Rule, 0, len(list))
	table := make(map[string]platforms.Platform, len(list))
	for _, p := range list {
		rule, err := linkmatch.NewRule(p.Name(), p.Patterns()...)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
		table[p.Name()] = p
	}

	matcher, err := linkmatch.New(rules...)
	if err != nil {
		return nil, fmt.Errorf("build link table: %w", err)
	}

	d := &Dispatcher{matcher: matcher, platforms: table, log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Platforms returns the enabled platform names in match order.
func (d *Dispatcher) Platforms() []string { return d.matcher.Platforms() }

// Handle processes one inbound event. It replies at most once: the preview on
// success, the platform's apology on any fetch or format failure, nothing when
// the event carries no supported link. The error is non-nil only when the
// replier fails.
func (d *Dispatcher) Handle(ctx context.Context, ev domain.Event, r Replier) (Outcome, error) {
	if !ev.Kind.IsMessage() {
		d.log.Debug("ignoring non-message event",
			logger.String("event_id", ev.ID),
			logger.String("kind", string(ev.Kind)))
		return Ignored, nil
	}

	msg := strings.TrimSpace(ev.Message.String())
	match, ok := d.matcher.Match(msg)
	if !ok {
		return Ignored, nil
	}
	p := d.platforms[match.Platform]

	log := d.log.With(
		logger.String("event_id", ev.ID),
		logger.String("platform", match.Platform),
		logger.String("link", match.FullMatch))
	log.Debug("link matched")

	key := cacheKey(match)
	reply, cached := d.lookup(ctx, key, log)
	if !cached {
		var err error
		reply, err = preview(ctx, p, match)
		if err != nil {
			log.Warn("preview failed",
				logger.String("kind", domain.KindOf(err)),
				logger.Error(err))
			return Apologized, deliver(ctx, r, domain.MessageChain{domain.TextSegment(p.Apology())}, log)
		}
		d.store(ctx, key, reply, log)
	}

	log.Info("preview sent", logger.Bool("cached", cached), logger.Bool("image", reply.ImageURL != ""))
	return Replied, deliver(ctx, r, reply.Chain(), log)
}

// preview runs fetch and format as one failure boundary; panics become errors.
func preview(ctx context.Context, p platforms.Platform, m domain.MatchResult) (reply domain.Reply, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s: recovered panic: %v", p.Name(), rec)
		}
	}()

	meta, err := p.Fetch(ctx, m)
	if err != nil {
		return domain.Reply{}, err
	}
	return p.Format(meta)
}

func deliver(ctx context.Context, r Replier, chain domain.MessageChain, log logger.Logger) error {
	if err := r.Reply(ctx, chain); err != nil {
		log.Error("failed to deliver reply", logger.Error(err))
		return fmt.Errorf("deliver reply: %w", err)
	}
	return nil
}

// cacheKey identifies a link by platform and captured groups, ex: github:golang/go
func cacheKey(m domain.MatchResult) string {
	return m.Platform + ":" + strings.Join(m.Groups, "/")
}

func (d *Dispatcher) lookup(ctx context.Context, key string, log logger.Logger) (domain.Reply, bool) {
	if d.cache == nil {
		return domain.Reply{}, false
	}
	reply, err := d.cache.Get(ctx, key)
	if err != nil {
		log.Warn("reply cache read failed", logger.Error(err))
		return domain.Reply{}, false
	}
	if reply == nil {
		return domain.Reply{}, false
	}
	return *reply, true
}

func (d *Dispatcher) store(ctx context.Context, key string, reply domain.Reply, log logger.Logger) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Set(ctx, key, reply); err != nil {
		log.Warn("reply cache write failed", logger.Error(err))
	}
}
