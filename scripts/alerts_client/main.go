// Package main runs a demo WebSocket client for region weather alerts.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	state := os.Getenv("STATE")
	if state == "" {
		state = "KL"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Connect WS
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/weather/alerts/ws", RawQuery: "state=" + url.QueryEscape(state)}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		log.Fatal(err)
	}
	pl, _ := json.Marshal(map[string]string{"state": state})
	if err := c.WriteJSON(wsMessage{Type: "subscribe", ID: "1", Payload: pl}); err != nil {
		log.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg wsMessage
			if err := c.ReadJSON(&msg); err != nil {
				log.Println("read:", err)
				return
			}
			switch msg.Type {
			case "next":
				log.Printf("alert: %s", string(msg.Payload))
			case "ping":
				_ = c.WriteJSON(wsMessage{Type: "pong"})
			default:
				log.Printf("%s", msg.Type)
			}
		}
	}()

	// Trigger an unschedulable alert: no region offers 30 workable days
	time.Sleep(200 * time.Millisecond)
	body := []byte(fmt.Sprintf(`{"state":%q,"tasks":[{"name":"foundation","duration_days":30,"weather_sensitivity":"high"}]}`, state))
	resp, err := http.Post(base+"/weather/schedule-optimization", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()
	log.Printf("schedule-optimization: %s", resp.Status)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = c.WriteJSON(wsMessage{Type: "complete", ID: "1"})
		time.Sleep(100 * time.Millisecond)
	}
}
