package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordhover/internal/gate"
	"codeberg.org/snonux/wordhover/internal/messaging"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Extension pages and content scripts connect from arbitrary origins.
	CheckOrigin: func(*http.Request) bool { return true },
}

type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type pendingPayload struct {
	Anchor gate.Point `json:"anchor"`
}

type tooltipPayload struct {
	Anchor gate.Point `json:"anchor"`
	translateResponse
}

// handleEvents streams hub messages to a websocket client. The client may
// send translate requests on the same socket and gets the reply there. It
// may also stream raw selection events, which are debounced per connection
// and answered with pending, tooltip and hide messages.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	msgs, cancel := s.cfg.Hub.Subscribe()
	defer cancel()

	var mu sync.Mutex
	write := func(msg messaging.Message) error {
		mu.Lock()
		defer mu.Unlock()
		data, err := msg.Encode()
		if err != nil {
			return err
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	debouncer := s.newDebouncer(r, write)
	defer debouncer.Close()

	// Translate requests run beside the read loop. On exit the reader is
	// stopped first, then pending requests are cancelled and awaited.
	var requests sync.WaitGroup
	ctx, cancelRequests := context.WithCancel(r.Context())
	done := make(chan struct{})
	defer func() {
		conn.Close()
		<-done
		cancelRequests()
		requests.Wait()
	}()

	go func() {
		defer close(done)
		for {
			var in inbound
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			s.handleInbound(ctx, in, write, debouncer, &requests)
		}
	}()

	s.log.Debug("event stream connected", zap.String("remote", r.RemoteAddr))
	for {
		select {
		case <-done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := write(msg); err != nil {
				s.log.Debug("event stream write failed", zap.Error(err))
				return
			}
		}
	}
}

// newDebouncer creates the selection debouncer of one event stream. Pending
// is only sent once the gate is held; a selection dropped as busy hides the
// tooltip.
func (s *Server) newDebouncer(r *http.Request, write func(messaging.Message) error) *gate.Debouncer {
	send := func(msg messaging.Message) {
		if err := write(msg); err != nil {
			s.log.Debug("event stream write failed", zap.Error(err))
		}
	}

	return gate.NewDebouncer(r.Context(), s.cfg.Gate, s.translateFunc, gate.Config{
		Window: s.cfg.DebounceWindow,
		Clock:  s.cfg.Clock,
		Logger: s.log,
		OnPending: func(sel gate.Selection) {
			send(messaging.Pending(pendingPayload{Anchor: sel.Anchor}))
		},
		OnResult: func(res gate.Result) {
			payload := tooltipPayload{Anchor: res.Selection.Anchor}
			switch res.Outcome {
			case gate.OutcomeBusy:
				send(messaging.Hide())
				return
			case gate.OutcomeSuccess:
				payload.Translation = res.Translation.Translation
				payload.Hiragana = res.Translation.Hiragana
			default:
				payload.translateResponse = failure(res.Err)
			}
			send(messaging.Tooltip(payload))
		},
		OnHide: func() {
			send(messaging.Hide())
		},
	})
}

func (s *Server) handleInbound(ctx context.Context, in inbound, write func(messaging.Message) error,
	debouncer *gate.Debouncer, requests *sync.WaitGroup) {
	switch in.Type {
	case messaging.TypeTranslate:
		var p messaging.TranslatePayload
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			s.log.Debug("bad translate message", zap.Error(err))
			return
		}
		requests.Add(1)
		go func() {
			defer requests.Done()
			body, _ := s.translate(ctx, p.Word, p.TargetLanguage)
			if err := write(messaging.Translate(body)); err != nil {
				s.log.Debug("event stream write failed", zap.Error(err))
			}
		}()
	case messaging.TypeSelect:
		var sel gate.Selection
		if err := json.Unmarshal(in.Payload, &sel); err != nil {
			s.log.Debug("bad select message", zap.Error(err))
			return
		}
		debouncer.Submit(sel)
	case messaging.TypeHide:
		debouncer.Hide()
	default:
		s.log.Debug("ignoring message", zap.String("type", in.Type))
	}
}
