package negotiation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/errors"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
)

const sweepInterval = time.Minute

// basketProvider is the slice of the cart registry the engine needs to
// commit an accepted offer.
type basketProvider interface {
	ForUser(userKey string) *cart.Store
}

// Message is one transcript entry of a negotiation chat.
type Message struct {
	ID     int                 `json:"id"`
	Sender enums.MessageSender `json:"sender"`
	Body   string              `json:"body"`
	SentAt time.Time           `json:"sent_at"`
}

// Offer is a computed bulk price awaiting the customer's decision.
type Offer struct {
	Quantity  int               `json:"quantity"`
	UnitPrice int64             `json:"unit_price"`
	Status    enums.OfferStatus `json:"status"`
}

// Snapshot is a detached copy of a session's visible state.
type Snapshot struct {
	ID          uuid.UUID              `json:"id"`
	ProductID   int64                  `json:"product_id"`
	ProductName string                 `json:"product_name"`
	Unit        enums.ProductUnit      `json:"unit"`
	BasePrice   int64                  `json:"base_price"`
	SellerName  string                 `json:"seller_name"`
	State       enums.NegotiationState `json:"state"`
	Messages    []Message              `json:"messages"`
	Offer       *Offer                 `json:"offer,omitempty"`
	Preview     *Offer                 `json:"preview,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// OpenInput carries the product context a new session is opened against.
type OpenInput struct {
	ProductID   int64
	ProductName string
	Unit        enums.ProductUnit
	BasePrice   int64
	SellerName  string
}

type session struct {
	id          uuid.UUID
	userKey     string
	productID   int64
	productName string
	unit        enums.ProductUnit
	basePrice   int64
	sellerName  string
	state       enums.NegotiationState
	messages    []Message
	nextMsgID   int
	offer       *Offer
	preview     *Offer
	// offerAnnounced flips once the scheduled seller reply carrying the
	// offer has landed in the transcript.
	offerAnnounced bool
	updatedAt      time.Time
}

// Engine runs every live negotiation session. Sessions are in-memory,
// scoped to the owning user, and reaped after a period of inactivity.
type Engine struct {
	mu         sync.RWMutex
	sessions   map[uuid.UUID]*session
	carts      basketProvider
	scheduler  ReplyScheduler
	replyDelay time.Duration
	sessionTTL time.Duration
	logg       *logger.Logger
	now        func() time.Time
}

type Options struct {
	Carts      basketProvider
	Scheduler  ReplyScheduler
	ReplyDelay time.Duration
	SessionTTL time.Duration
	Logger     *logger.Logger
}

func NewEngine(opts Options) (*Engine, error) {
	if opts.Carts == nil {
		return nil, fmt.Errorf("negotiation: cart provider is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("negotiation: logger is required")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}

	return &Engine{
		sessions:   map[uuid.UUID]*session{},
		carts:      opts.Carts,
		scheduler:  opts.Scheduler,
		replyDelay: opts.ReplyDelay,
		sessionTTL: opts.SessionTTL,
		logg:       opts.Logger,
		now:        time.Now,
	}, nil
}

// Open starts a fresh session for the user and product. The seller's
// greeting and quantity prompt land immediately; the session is then
// waiting on the customer's quantity.
func (e *Engine) Open(ctx context.Context, userKey string, in OpenInput) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	s := &session{
		id:          uuid.New(),
		userKey:     userKey,
		productID:   in.ProductID,
		productName: in.ProductName,
		unit:        in.Unit,
		basePrice:   in.BasePrice,
		sellerName:  in.SellerName,
		state:       enums.NegotiationStateGreeting,
		updatedAt:   now,
	}
	s.append(enums.MessageSenderSeller, scriptGreeting(in.SellerName, in.ProductName), now)
	s.append(enums.MessageSenderSeller, scriptAskQuantity(in.Unit), now)
	s.state = enums.NegotiationStateAwaitingQuantity
	e.sessions[s.id] = s

	e.logg.Info(e.logg.WithSessionID(ctx, s.id.String()), "negotiation opened")
	return s.snapshot()
}

// Get returns the session's current state. Sessions owned by another
// user are reported as missing rather than forbidden.
func (e *Engine) Get(sessionID uuid.UUID, userKey string) (Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, err := e.lookup(sessionID, userKey)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(), nil
}

// ListForUser returns snapshots of every session the user owns.
func (e *Engine) ListForUser(userKey string) []Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Snapshot
	for _, s := range e.sessions {
		if s.userKey == userKey {
			out = append(out, s.snapshot())
		}
	}
	return out
}

// SubmitQuantity feeds the customer's typed quantity into the script.
// Input failing the bulk floor gets a scripted hint back without any
// state change; valid input produces a pending offer and a delayed
// seller reply announcing it.
func (e *Engine) SubmitQuantity(ctx context.Context, sessionID uuid.UUID, userKey, raw string) (Snapshot, error) {
	e.mu.Lock()

	s, err := e.lookup(sessionID, userKey)
	if err != nil {
		e.mu.Unlock()
		return Snapshot{}, err
	}
	if s.state.IsTerminal() {
		e.mu.Unlock()
		return Snapshot{}, errors.New(errors.CodeStateConflict, "negotiation already settled")
	}

	now := e.now()
	quantity, parseErr := ParseQuantity(raw)
	if parseErr != nil {
		s.append(enums.MessageSenderUser, raw, now)
		s.append(enums.MessageSenderSeller, msgQuantityHint, now)
		s.updatedAt = now
		snap := s.snapshot()
		e.mu.Unlock()
		return snap, nil
	}

	price := OfferPrice(s.basePrice, quantity)
	s.append(enums.MessageSenderUser, scriptUserQuantity(quantity, s.unit), now)
	s.offer = &Offer{Quantity: quantity, UnitPrice: price, Status: enums.OfferStatusPending}
	s.preview = nil
	s.offerAnnounced = false
	s.state = enums.NegotiationStateOfferPending
	s.updatedAt = now
	snap := s.snapshot()

	// Schedule outside the lock: an inline scheduler delivers the reply
	// before this returns, and announceOffer takes the lock itself.
	e.mu.Unlock()
	e.scheduler.Schedule(sessionID, e.replyDelay, func() {
		e.announceOffer(sessionID)
	})

	e.logg.Info(e.logg.WithSessionID(ctx, sessionID.String()), "offer computed")
	return snap, nil
}

// PreviewOffer recomputes the offer for a quantity the customer is still
// editing. It shares the guard and formula with SubmitQuantity but never
// touches the transcript or the state machine.
func (e *Engine) PreviewOffer(sessionID uuid.UUID, userKey, raw string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.lookup(sessionID, userKey)
	if err != nil {
		return Snapshot{}, err
	}
	if s.state.IsTerminal() {
		return Snapshot{}, errors.New(errors.CodeStateConflict, "negotiation already settled")
	}

	quantity, parseErr := ParseQuantity(raw)
	if parseErr != nil {
		return Snapshot{}, parseErr
	}

	s.preview = &Offer{
		Quantity:  quantity,
		UnitPrice: OfferPrice(s.basePrice, quantity),
		Status:    enums.OfferStatusPending,
	}
	return s.snapshot(), nil
}

// Accept settles the pending offer: the negotiated price and quantity
// are committed to the customer's basket, and the session absorbs.
func (e *Engine) Accept(ctx context.Context, sessionID uuid.UUID, userKey string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.lookup(sessionID, userKey)
	if err != nil {
		return Snapshot{}, err
	}
	if s.state != enums.NegotiationStateOfferPending || s.offer == nil {
		return Snapshot{}, errors.New(errors.CodeStateConflict, "no offer to accept")
	}

	now := e.now()
	e.scheduler.Cancel(sessionID)
	e.flushOffer(s, now)

	s.append(enums.MessageSenderUser, scriptUserAccept(), now)
	e.carts.ForUser(userKey).UpdatePriceAndQuantity(s.productID, s.offer.UnitPrice, s.offer.Quantity)
	s.offer.Status = enums.OfferStatusAccepted
	s.state = enums.NegotiationStateAccepted
	s.append(enums.MessageSenderSeller, scriptAcceptConfirm(s.offer.Quantity, s.unit, s.productName, s.offer.UnitPrice), now)
	s.updatedAt = now

	e.logg.Info(e.logg.WithSessionID(ctx, sessionID.String()), "offer accepted")
	return s.snapshot(), nil
}

// Reject declines the pending offer. The basket is untouched.
func (e *Engine) Reject(ctx context.Context, sessionID uuid.UUID, userKey string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.lookup(sessionID, userKey)
	if err != nil {
		return Snapshot{}, err
	}
	if s.state != enums.NegotiationStateOfferPending || s.offer == nil {
		return Snapshot{}, errors.New(errors.CodeStateConflict, "no offer to reject")
	}

	now := e.now()
	e.scheduler.Cancel(sessionID)
	e.flushOffer(s, now)

	s.append(enums.MessageSenderUser, scriptUserReject(), now)
	s.offer.Status = enums.OfferStatusRejected
	s.state = enums.NegotiationStateRejected
	s.append(enums.MessageSenderSeller, scriptRejectFarewell(s.basePrice, s.unit), now)
	s.updatedAt = now

	e.logg.Info(e.logg.WithSessionID(ctx, sessionID.String()), "offer rejected")
	return s.snapshot(), nil
}

// Close abandons a session. Any scheduled seller reply is cancelled so
// no timer outlives the conversation it belongs to.
func (e *Engine) Close(ctx context.Context, sessionID uuid.UUID, userKey string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.lookup(sessionID, userKey); err != nil {
		return err
	}
	e.scheduler.Cancel(sessionID)
	delete(e.sessions, sessionID)

	e.logg.Info(e.logg.WithSessionID(ctx, sessionID.String()), "negotiation closed")
	return nil
}

// Sweep drops sessions idle past the TTL, cancelling their timers, and
// reports how many were removed.
func (e *Engine) Sweep(now time.Time) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := 0
	for id, s := range e.sessions {
		if now.Sub(s.updatedAt) > e.sessionTTL {
			e.scheduler.Cancel(id)
			delete(e.sessions, id)
			removed++
		}
	}
	return removed
}

// Run periodically sweeps expired sessions until the context ends.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := e.Sweep(now); removed > 0 {
				e.logg.Info(e.logg.WithField(ctx, "sessions_removed", removed), "expired negotiations swept")
			}
		}
	}
}

// Shutdown discards all outstanding timers.
func (e *Engine) Shutdown() {
	e.scheduler.Stop()
}

// Live reports the number of open sessions.
func (e *Engine) Live() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}

// lookup resolves a session and enforces ownership. Callers hold e.mu.
func (e *Engine) lookup(sessionID uuid.UUID, userKey string) (*session, error) {
	s, ok := e.sessions[sessionID]
	if !ok || s.userKey != userKey {
		return nil, errors.New(errors.CodeNotFound, "negotiation session not found")
	}
	return s, nil
}

// announceOffer appends the delayed seller reply. The session may have
// been settled or abandoned since the reply was scheduled.
func (e *Engine) announceOffer(sessionID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[sessionID]
	if !ok || s.state != enums.NegotiationStateOfferPending || s.offer == nil || s.offerAnnounced {
		return
	}
	e.flushOffer(s, e.now())
}

// flushOffer appends the seller's offer line if it has not landed yet.
// Accept and Reject call this so the transcript always shows the offer
// before the customer's decision. Callers hold e.mu.
func (e *Engine) flushOffer(s *session, now time.Time) {
	if s.offerAnnounced || s.offer == nil {
		return
	}
	s.append(enums.MessageSenderSeller, scriptOffer(s.offer.Quantity, s.unit, s.offer.UnitPrice), now)
	s.offerAnnounced = true
	s.updatedAt = now
}

func (s *session) append(sender enums.MessageSender, body string, at time.Time) {
	s.nextMsgID++
	s.messages = append(s.messages, Message{
		ID:     s.nextMsgID,
		Sender: sender,
		Body:   body,
		SentAt: at,
	})
}

func (s *session) snapshot() Snapshot {
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)

	snap := Snapshot{
		ID:          s.id,
		ProductID:   s.productID,
		ProductName: s.productName,
		Unit:        s.unit,
		BasePrice:   s.basePrice,
		SellerName:  s.sellerName,
		State:       s.state,
		Messages:    messages,
		UpdatedAt:   s.updatedAt,
	}
	if s.offer != nil {
		offer := *s.offer
		snap.Offer = &offer
	}
	if s.preview != nil {
		preview := *s.preview
		snap.Preview = &preview
	}
	return snap
}
