package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/VrindaSoni2/hire.ai/internal/logging"
	"github.com/VrindaSoni2/hire.ai/internal/server"
	httperrors "github.com/VrindaSoni2/hire.ai/pkg/http/errors"
	ws "github.com/VrindaSoni2/hire.ai/pkg/http/ws"
)

// HandleWebSocket upgrades the connection and streams generation progress.
// Route: GET /ws/interview-questions
func (h *HTTPHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	connID := uuid.New()
	// Generation outlives the upgrade request; it ends with the socket.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	s := &wsSession{
		handler: h,
		id:      connID,
		conn:    ws.NewConnection(conn, h.logger.With().Str("conn_id", connID.String()).Logger()),
		ctx:     ctx,
	}
	h.serveSession(s)
	cancel()
}

func (h *HTTPHandler) serveSession(s *wsSession) {
	h.hub.Register(s.id, s.conn)
	go s.conn.WritePump()

	s.conn.ReadPump(s.handleMessage)

	s.cancelActive()
	s.wg.Wait()
	h.hub.Unregister(s.id)
}

// wsSession is one websocket client. At most one generation runs at a time.
type wsSession struct {
	handler *HTTPHandler
	id      uuid.UUID
	conn    *ws.Connection
	ctx     context.Context

	mu     sync.Mutex
	active context.CancelFunc
	wg     sync.WaitGroup
}

func (s *wsSession) handleMessage(msg ws.Message) error {
	switch msg.Type {
	case ws.TypeGenerate:
		return s.handleGenerate(msg)
	case ws.TypeCancel:
		s.cancelActive()
		return nil
	case ws.TypePing:
		return s.send(ws.TypePong, msg.RequestID, nil)
	default:
		return s.sendError(msg.RequestID, errorReply{Code: httperrors.ErrCodeUnknownMessageType, Message: fmt.Sprintf("Unknown message type: %s", msg.Type)}, "")
	}
}

func (s *wsSession) handleGenerate(msg ws.Message) error {
	var body requestBody
	if err := json.Unmarshal(msg.Payload, &body); err != nil {
		return s.sendError(msg.RequestID, errorReply{Code: httperrors.ErrCodeInvalidPayload, Message: "Invalid generate payload"}, "")
	}

	h := s.handler
	req := GenerationRequest{
		Role:          body.Role,
		Skills:        body.Skills,
		Complexity:    h.complexity,
		QuestionCount: h.opts.DefaultQuestionCount,
	}
	if body.QuestionComplexity != nil {
		req.Complexity = *body.QuestionComplexity
	}
	if body.NumberOfQuestions != nil {
		req.QuestionCount = *body.NumberOfQuestions
	}

	requestID := msg.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return s.sendError(requestID, errorReply{Code: httperrors.ErrCodeInvalidRequest, Message: "A generation is already running on this connection"}, "")
	}
	ctx, cancel := context.WithCancel(s.ctx)
	s.active = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.finish()
		s.generate(ctx, requestID, req)
	}()
	return nil
}

func (s *wsSession) generate(ctx context.Context, requestID string, req GenerationRequest) {
	ctx = logging.WithRequestID(ctx, requestID)
	ctx = WithTransitionObserver(ctx, func(t StateTransition) {
		if err := s.send(ws.TypeGenerationState, requestID, ws.GenerationStatePayload{
			State:   string(t.To),
			From:    string(t.From),
			Attempt: t.Attempt,
			WaitMs:  t.Wait.Milliseconds(),
			Reason:  t.Reason,
		}); err != nil {
			s.handler.logger.Debug().Err(err).Msg("state update dropped")
		}
	})

	result, err := s.handler.svc.GenerateQuestions(ctx, req)
	if err != nil {
		reply := describeError(err, s.ctx.Err() != nil)
		if reply.Silent {
			return
		}
		_ = s.sendError(requestID, reply, requestID)
		return
	}
	_ = s.send(ws.TypeGenerationResult, requestID, result)
}

func (s *wsSession) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active()
		s.active = nil
	}
}

func (s *wsSession) cancelActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active()
	}
}

func (s *wsSession) send(msgType, requestID string, payload any) error {
	msg, err := ws.NewMessage(msgType, requestID, payload)
	if err != nil {
		return err
	}
	return s.conn.Send(msg)
}

func (s *wsSession) sendError(requestID string, reply errorReply, correlationID string) error {
	return s.send(ws.TypeError, requestID, ws.ErrorPayload{
		Code:          reply.Code,
		Message:       reply.Message,
		Field:         reply.Field,
		CorrelationID: correlationID,
	})
}
