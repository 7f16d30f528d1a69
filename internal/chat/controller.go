package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/gennadis/pdfchatui/internal/client"
	"github.com/gennadis/pdfchatui/internal/flight"
	"github.com/gennadis/pdfchatui/internal/session"
	"github.com/gennadis/pdfchatui/internal/status"
)

const msgUploadFirst = "Please upload a PDF first"

var (
	ErrNoSession    = errors.New("no document uploaded")
	ErrEmptyMessage = errors.New("message is empty")
)

// Asker is the part of the backend client the controller needs.
type Asker interface {
	Chat(ctx context.Context, req client.ChatRequest) (*client.ChatResponse, error)
}

// Exchange is one issued question. SessionID is captured when the
// exchange begins, so a later upload does not redirect it.
type Exchange struct {
	ctx       context.Context
	ticket    flight.Ticket
	SessionID string
	Message   string
}

type Reply struct {
	Response *client.ChatResponse
	Err      error
}

// Controller owns the transcript and the single in-flight chat request.
type Controller struct {
	mu       sync.Mutex
	api      Asker
	session  *session.Holder
	banner   *status.Banner
	guard    flight.Guard
	messages []Message
}

func NewController(api Asker, holder *session.Holder, banner *status.Banner) *Controller {
	return &Controller{
		api:     api,
		session: holder,
		banner:  banner,
	}
}

// Begin validates text and, if it may be sent, appends it to the transcript
// before any network activity.
//
// It returns flight.ErrBusy while a reply is pending, ErrNoSession (with an
// error status) when no document was uploaded, and ErrEmptyMessage for
// whitespace-only input. None of these touch the transcript.
func (c *Controller) Begin(ctx context.Context, text string) (*Exchange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.guard.Busy() {
		return nil, flight.ErrBusy
	}

	sess := c.session.Current()
	if !sess.Active() {
		c.banner.Error(msgUploadFirst)
		return nil, ErrNoSession
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	exCtx, ticket, err := c.guard.Begin(ctx)
	if err != nil {
		return nil, err
	}
	c.messages = append(c.messages, userMessage(text))

	slog.Debug("message sent",
		slog.String("session_id", sess.ID),
		slog.Int("transcript_len", len(c.messages)),
	)
	return &Exchange{ctx: exCtx, ticket: ticket, SessionID: sess.ID, Message: text}, nil
}

// Run performs the network call for ex. It touches no controller state.
func (c *Controller) Run(ex *Exchange) Reply {
	resp, err := c.api.Chat(ex.ctx, client.ChatRequest{
		SessionID: ex.SessionID,
		Message:   ex.Message,
	})
	return Reply{Response: resp, Err: err}
}

// Finish appends exactly one bot message for ex: the answer, or
// FallbackReply on any failure. It returns the appended message and the
// failure, if any. A cancelled or superseded exchange appends nothing and
// returns flight.ErrStale.
func (c *Controller) Finish(ex *Exchange, reply Reply) (Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard.Finish(ex.ticket, reply.Err != nil); err != nil {
		slog.Debug("discarding stale reply", slog.String("session_id", ex.SessionID))
		return Message{}, err
	}

	var msg Message
	if reply.Err != nil {
		slog.Error("Chat request failed", "session_id", ex.SessionID, "error", reply.Err)
		msg = botMessage(FallbackReply)
	} else {
		msg = botMessage(reply.Response.Answer)
	}
	c.messages = append(c.messages, msg)
	return msg, reply.Err
}

// Send runs Begin, Run and Finish in sequence.
func (c *Controller) Send(ctx context.Context, text string) (Message, error) {
	ex, err := c.Begin(ctx, text)
	if err != nil {
		return Message{}, err
	}
	return c.Finish(ex, c.Run(ex))
}

// Cancel abandons the pending request. The user message stays in the
// transcript and no reply is appended for it.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guard.Cancel()
}

// Messages returns a copy of the transcript in display order.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *Controller) State() flight.State {
	return c.guard.State()
}

func (c *Controller) Busy() bool {
	return c.guard.Busy()
}
