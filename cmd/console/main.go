package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"

	"github.com/gorilla/websocket"

	"voxelhouse.ai/internal/protocol"
)

func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name  = flag.String("name", "console", "operator name")
		token = flag.String("token", "", "operator token (maps to an access level)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[console] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		OperatorName:    *name,
		Token:           *token,
		MaxQueue:        64,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	var (
		mu sync.Mutex
		st state
	)
	done := make(chan struct{})

	// Reader goroutine.
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Printf("connection closed: %v", err)
				return
			}
			mu.Lock()
			line := st.observe(msg)
			mu.Unlock()
			if line != "" {
				logger.Print(line)
			}
		}
	}()

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	for {
		select {
		case <-stop:
			return
		case <-done:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			mu.Lock()
			out, err := st.parse(line)
			mu.Unlock()
			if err != nil {
				logger.Printf("%v", err)
				continue
			}
			if out == nil {
				continue
			}
			b, _ := json.Marshal(out)
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				logger.Printf("send: %v", err)
				return
			}
		}
	}
}
