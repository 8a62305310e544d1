package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"heartlink/internal/apierr"
	"heartlink/internal/metrics"
	"heartlink/internal/model"
	"heartlink/internal/scheduler"
)

// DefaultPollInterval is how often an open conversation is refreshed.
const DefaultPollInterval = 10 * time.Second

var (
	// ErrMatchIDRequired is returned by Open for an empty match id.
	ErrMatchIDRequired = errors.New("match id is required")

	// ErrNotOpen is returned when no conversation is open.
	ErrNotOpen = errors.New("no conversation is open")

	// ErrMessageNotFound is returned by Retry for an unknown id.
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotRetryable is returned by Retry for an entry that has not failed.
	ErrNotRetryable = errors.New("only failed messages can be retried")
)

// Gateway is the part of the API a conversation needs.
type Gateway interface {
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	ListMessages(ctx context.Context, matchID string) ([]model.Message, error)
	SendMessage(ctx context.Context, matchID, content string) (model.Message, error)
}

// Options configures a ViewModel.
type Options struct {
	PollInterval time.Duration
	Logger       *zerolog.Logger
	// SelfID returns the signed-in user's id, or "" when unknown.
	SelfID           func() string
	SchedulerOptions []scheduler.Option
	Now              func() time.Time
}

// ViewModel owns the message list of the one mounted conversation. It merges
// server snapshots with optimistic local sends and keeps exactly one polling
// task alive while a conversation is open. All state changes happen under mu
// so readers never observe a half-applied update.
type ViewModel struct {
	gateway      Gateway
	pollInterval time.Duration
	logger       zerolog.Logger
	selfID       func() string
	schedOpts    []scheduler.Option
	now          func() time.Time

	mu          sync.Mutex
	matchID     string
	generation  uint64
	epoch       uint64 // bumped whenever per-conversation state is reset
	messages    []model.Message
	participant *model.Participant
	draft       string
	loading     bool
	loadError   error
	pending     map[string]struct{} // content of sends awaiting the API
	seq         uint64
	confirmed   map[string]uint64 // server id -> seq at which a send confirmed it
	poller      *scheduler.Scheduler
}

// New builds an idle ViewModel.
func New(gateway Gateway, opts Options) *ViewModel {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "conversation").Logger()
	}
	selfID := opts.SelfID
	if selfID == nil {
		selfID = func() string { return "" }
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &ViewModel{
		gateway:      gateway,
		pollInterval: interval,
		logger:       logger,
		selfID:       selfID,
		schedOpts:    opts.SchedulerOptions,
		now:          now,
		pending:      make(map[string]struct{}),
		confirmed:    make(map[string]uint64),
	}
}

// Open loads matchID and starts polling it. Any previous poller is stopped
// first. On failure the error is kept as the load error, messages keep their
// previous value (empty when switching conversations) and polling still
// starts so a later tick can recover.
func (vm *ViewModel) Open(ctx context.Context, matchID string) error {
	if matchID == "" {
		return ErrMatchIDRequired
	}

	vm.mu.Lock()
	old := vm.poller
	vm.poller = nil
	vm.generation++
	gen := vm.generation
	if vm.matchID != matchID {
		vm.resetLocked()
		vm.matchID = matchID
	}
	vm.loading = true
	vm.mu.Unlock()

	stopPoller(old)

	requestSeq := vm.currentSeq()
	var (
		fetched     []model.Message
		participant *model.Participant
	)

	var g errgroup.Group
	g.Go(func() error {
		msgs, err := vm.gateway.ListMessages(ctx, matchID)
		if err != nil {
			return err
		}
		fetched = msgs
		return nil
	})
	g.Go(func() error {
		p, err := vm.resolveParticipant(ctx, matchID)
		if err != nil {
			vm.logger.Warn().Err(err).Str("match_id", matchID).Msg("resolve participant")
			return nil
		}
		participant = p
		return nil
	})
	loadErr := g.Wait()

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if gen != vm.generation {
		// superseded by a later Open or Close
		return loadErr
	}

	vm.loading = false
	if participant != nil {
		vm.participant = participant
	}
	if loadErr != nil {
		vm.loadError = loadErr
		vm.logger.Warn().Err(loadErr).Str("match_id", matchID).Msg("load conversation")
	} else {
		vm.loadError = nil
		vm.applySnapshotLocked(fetched, requestSeq)
	}

	vm.poller = scheduler.New(scheduler.TaskFunc(vm.pollTask(gen, matchID)), vm.pollInterval, &vm.logger, vm.schedOpts...)
	if err := vm.poller.Start(context.Background()); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	return loadErr
}

// Close stops polling and forgets the conversation. A tick already in flight
// finishes before Close returns and does not change any state. Close is safe
// to call repeatedly.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	old := vm.poller
	vm.poller = nil
	vm.generation++
	vm.resetLocked()
	vm.mu.Unlock()

	stopPoller(old)
}

// SetDraft replaces the composer text.
func (vm *ViewModel) SetDraft(draft string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.draft = draft
}

// Send appends an optimistic pending entry for content, clears the draft and
// posts it. The entry is then replaced in place by the confirmed message, or
// marked failed. Blank content is a no-op that returns ErrEmptyContent;
// content identical to a send still pending returns ErrDuplicateSend. The
// returned message is the entry's final state.
func (vm *ViewModel) Send(ctx context.Context, content string) (model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, apierr.ErrEmptyContent
	}

	vm.mu.Lock()
	if vm.matchID == "" {
		vm.mu.Unlock()
		return model.Message{}, ErrNotOpen
	}
	if _, dup := vm.pending[content]; dup {
		vm.mu.Unlock()
		return model.Message{}, apierr.ErrDuplicateSend
	}

	stamp := vm.now().UTC().Format(time.RFC3339Nano)
	entry := model.Message{
		ID:            vm.newTempID(),
		MatchID:       vm.matchID,
		Sender:        model.SenderID(vm.selfSenderID()),
		Content:       content,
		CreatedAt:     stamp,
		UpdatedAt:     stamp,
		DeliveryState: model.DeliveryPending,
	}
	if vm.participant != nil {
		entry.Receiver = vm.participant.ID
	}
	vm.messages = append(vm.messages, entry)
	vm.draft = ""
	vm.pending[content] = struct{}{}
	matchID, epoch := vm.matchID, vm.epoch
	vm.mu.Unlock()

	return vm.deliver(ctx, matchID, epoch, entry.ID, content)
}

// Retry resends a failed entry. The entry turns pending again and resolves in
// place like a fresh send.
func (vm *ViewModel) Retry(ctx context.Context, id string) (model.Message, error) {
	vm.mu.Lock()
	i := vm.indexLocked(id)
	if i < 0 {
		vm.mu.Unlock()
		return model.Message{}, ErrMessageNotFound
	}
	entry := vm.messages[i]
	if entry.DeliveryState != model.DeliveryFailed {
		vm.mu.Unlock()
		return model.Message{}, ErrNotRetryable
	}
	if _, dup := vm.pending[entry.Content]; dup {
		vm.mu.Unlock()
		return model.Message{}, apierr.ErrDuplicateSend
	}
	vm.messages[i].DeliveryState = model.DeliveryPending
	vm.pending[entry.Content] = struct{}{}
	matchID, epoch := vm.matchID, vm.epoch
	vm.mu.Unlock()

	return vm.deliver(ctx, matchID, epoch, id, entry.Content)
}

// deliver posts content and resolves tempID. A send that outlives the
// conversation it was made in (epoch changed) touches no state.
func (vm *ViewModel) deliver(ctx context.Context, matchID string, epoch uint64, tempID, content string) (model.Message, error) {
	metrics.PendingMessages.Inc()
	sent, sendErr := vm.gateway.SendMessage(ctx, matchID, content)
	metrics.PendingMessages.Dec()

	vm.mu.Lock()
	defer vm.mu.Unlock()

	i := -1
	if vm.epoch == epoch {
		delete(vm.pending, content)
		i = vm.indexLocked(tempID)
	}

	if sendErr != nil {
		metrics.Sends.WithLabelValues(metrics.ResultError).Inc()
		vm.logger.Warn().Err(sendErr).Str("match_id", matchID).Str("message_id", tempID).Msg("send failed")
		if i < 0 {
			return model.Message{}, sendErr
		}
		vm.messages[i].DeliveryState = model.DeliveryFailed
		return vm.messages[i], sendErr
	}

	metrics.Sends.WithLabelValues(metrics.ResultOK).Inc()
	sent.DeliveryState = model.DeliveryConfirmed
	if i < 0 {
		// the conversation was closed or switched while the send was in flight
		return sent, nil
	}

	vm.messages[i] = sent
	vm.dropDuplicatesLocked(sent.ID, i)
	vm.seq++
	vm.confirmed[sent.ID] = vm.seq
	return sent, nil
}

func (vm *ViewModel) pollTask(gen uint64, matchID string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		vm.mu.Lock()
		if gen != vm.generation {
			vm.mu.Unlock()
			return nil
		}
		requestSeq := vm.seq
		vm.mu.Unlock()

		fetched, err := vm.gateway.ListMessages(ctx, matchID)

		vm.mu.Lock()
		defer vm.mu.Unlock()

		if gen != vm.generation {
			metrics.PollTicks.WithLabelValues(metrics.ResultSkipped).Inc()
			return nil
		}
		if err != nil {
			metrics.PollTicks.WithLabelValues(metrics.ResultError).Inc()
			return fmt.Errorf("refresh %s: %w", matchID, err)
		}

		metrics.PollTicks.WithLabelValues(metrics.ResultOK).Inc()
		vm.loadError = nil
		vm.applySnapshotLocked(fetched, requestSeq)
		return nil
	}
}

func (vm *ViewModel) resolveParticipant(ctx context.Context, matchID string) (*model.Participant, error) {
	conversations, err := vm.gateway.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range conversations {
		if c.MatchID == matchID && c.User != nil {
			p := *c.User
			return &p, nil
		}
	}
	return nil, nil
}

func (vm *ViewModel) currentSeq() uint64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.seq
}

// applySnapshotLocked replaces messages with snapshot, keeping unconfirmed
// entries and sends confirmed after requestSeq.
func (vm *ViewModel) applySnapshotLocked(snapshot []model.Message, requestSeq uint64) {
	inSnapshot := make(map[string]struct{}, len(snapshot))
	for _, msg := range snapshot {
		inSnapshot[msg.ID] = struct{}{}
	}
	for id := range vm.confirmed {
		if _, ok := inSnapshot[id]; ok {
			delete(vm.confirmed, id)
		}
	}

	vm.messages = mergeSnapshot(snapshot, vm.messages, func(msg model.Message) bool {
		seq, ok := vm.confirmed[msg.ID]
		return ok && seq > requestSeq
	})
}

func (vm *ViewModel) dropDuplicatesLocked(id string, keep int) {
	out := vm.messages[:0]
	for j, msg := range vm.messages {
		if j != keep && msg.ID == id {
			continue
		}
		out = append(out, msg)
	}
	vm.messages = out
}

func (vm *ViewModel) indexLocked(id string) int {
	for i, msg := range vm.messages {
		if msg.ID == id {
			return i
		}
	}
	return -1
}

func (vm *ViewModel) resetLocked() {
	vm.epoch++
	vm.matchID = ""
	vm.messages = nil
	vm.participant = nil
	vm.draft = ""
	vm.loading = false
	vm.loadError = nil
	vm.pending = make(map[string]struct{})
	vm.confirmed = make(map[string]uint64)
}

func (vm *ViewModel) selfSenderID() string {
	if id := vm.selfID(); id != "" {
		return id
	}
	return model.LocalSenderID
}

func (vm *ViewModel) newTempID() string {
	return fmt.Sprintf("%s%d-%s", model.TempIDPrefix, vm.now().UnixNano(), uuid.NewString())
}

func stopPoller(s *scheduler.Scheduler) {
	if s == nil {
		return
	}
	_ = s.Stop()
}
