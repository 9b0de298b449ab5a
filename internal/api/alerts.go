package api

import (
    "encoding/json"
    "fmt"
    "net/http"
    "sync"
    "time"

    "github.com/gorilla/websocket"
    "go.uber.org/zap"
)

var (
    sseHeartbeat = 15 * time.Second
    wsPingEvery  = 20 * time.Second
)

// AlertStreamHandler handles GET /weather/alerts/stream?state= as Server-Sent Events.
func (s *Server) AlertStreamHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodGet) { return }
    flusher, ok := w.(http.Flusher)
    if !ok {
        writeError(w, http.StatusInternalServerError, "Streaming unsupported", "")
        return
    }
    state := stateParam(r)
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")

    ch := s.Broker.Subscribe(state)
    defer s.Broker.Unsubscribe(state, ch)

    heartbeat := func() {
        fmt.Fprintf(w, "event: heartbeat\n")
        fmt.Fprintf(w, "data: {\"state\":%q,\"ts\":%q}\n\n", state, time.Now().UTC().Format(time.RFC3339))
        flusher.Flush()
    }
    heartbeat()

    ticker := time.NewTicker(sseHeartbeat)
    defer ticker.Stop()
    for {
        select {
        case <-r.Context().Done():
            return
        case evt, ok := <-ch:
            if !ok { return }
            b, err := json.Marshal(evt.Data)
            if err != nil {
                s.Log.Warn("encode alert", zap.String("type", evt.Type), zap.Error(err))
                continue
            }
            if evt.ID != "" { fmt.Fprintf(w, "id: %s\n", evt.ID) }
            fmt.Fprintf(w, "event: %s\n", evt.Type)
            fmt.Fprintf(w, "data: %s\n\n", b)
            flusher.Flush()
        case <-ticker.C:
            heartbeat()
        }
    }
}

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// wsMessage frames the alert WebSocket protocol: the client sends
// connection_init, then subscribe {state} per region; the server answers with
// connection_ack and streams next {event} frames until complete.
type wsMessage struct {
    Type    string          `json:"type"`
    ID      string          `json:"id,omitempty"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

type wsSubscribePayload struct {
    State string `json:"state"`
}

// AlertWSHandler handles GET /weather/alerts/ws. The state query parameter is
// the default region for subscribe messages that do not name one.
func (s *Server) AlertWSHandler(w http.ResponseWriter, r *http.Request) {
    defaultState := stateParam(r)
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    defer func() { _ = conn.Close() }()

    type sub struct {
        state string
        ch    chan AlertEvent
    }
    subs := map[string]sub{}
    done := make(chan struct{})
    defer close(done)

    conn.SetReadLimit(1 << 16)
    _ = conn.SetReadDeadline(time.Now().Add(3 * wsPingEvery))
    conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(3 * wsPingEvery)) })

    // gorilla allows one concurrent writer
    var wmu sync.Mutex
    write := func(v any) error {
        wmu.Lock()
        defer wmu.Unlock()
        _ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
        return conn.WriteJSON(v)
    }

    initialised := false
    for {
        var msg wsMessage
        if err := conn.ReadJSON(&msg); err != nil {
            break
        }
        _ = conn.SetReadDeadline(time.Now().Add(3 * wsPingEvery))
        switch msg.Type {
        case "connection_init":
            if initialised { continue }
            initialised = true
            _ = write(wsMessage{Type: "connection_ack"})
            go func() {
                ticker := time.NewTicker(wsPingEvery)
                defer ticker.Stop()
                for {
                    select {
                    case <-done:
                        return
                    case <-ticker.C:
                        if err := write(wsMessage{Type: "ping"}); err != nil { return }
                    }
                }
            }()
        case "ping":
            _ = write(wsMessage{Type: "pong"})
        case "subscribe":
            if msg.ID == "" {
                _ = write(wsMessage{Type: "error", Payload: []byte(`{"message":"id required"}`)})
                continue
            }
            if _, dup := subs[msg.ID]; dup {
                _ = write(wsMessage{Type: "error", ID: msg.ID, Payload: []byte(`{"message":"subscription id already in use"}`)})
                continue
            }
            var pl wsSubscribePayload
            if len(msg.Payload) > 0 {
                if err := json.Unmarshal(msg.Payload, &pl); err != nil {
                    _ = write(wsMessage{Type: "error", ID: msg.ID, Payload: []byte(`{"message":"invalid payload"}`)})
                    continue
                }
            }
            if pl.State == "" { pl.State = defaultState }
            ch := s.Broker.Subscribe(pl.State)
            subs[msg.ID] = sub{state: pl.State, ch: ch}
            go func(id string, c chan AlertEvent) {
                for evt := range c {
                    payload, err := json.Marshal(map[string]any{"event": evt})
                    if err != nil { continue }
                    if err := write(wsMessage{Type: "next", ID: id, Payload: payload}); err != nil { return }
                }
                _ = write(wsMessage{Type: "complete", ID: id})
            }(msg.ID, ch)
        case "complete":
            if s0, ok := subs[msg.ID]; ok {
                s.Broker.Unsubscribe(s0.state, s0.ch)
                delete(subs, msg.ID)
            }
        default:
            // ignore
        }
    }
    for id, s0 := range subs {
        s.Broker.Unsubscribe(s0.state, s0.ch)
        delete(subs, id)
    }
}
