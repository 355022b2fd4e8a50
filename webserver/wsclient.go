package webserver

import (
	"log"

	"github.com/gorilla/websocket"
)

const wsSendBufferSize = 32

type wsClient struct {
	ws           *websocket.Conn
	send         chan []byte
	removeClient chan<- *wsClient
	hubDone      <-chan struct{}
	handleMsg    func([]byte)
}

// trySend hands data to the writer without blocking the hub. Slow
// clients lose messages.
func (c *wsClient) trySend(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("websocket client %v too slow; message dropped\n", c.ws.RemoteAddr())
	}
}

func (c *wsClient) write() {
	defer c.ws.Close()

	for msg := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Println("websocket:", err)
			return
		}
	}
	c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *wsClient) read() {
	defer func() {
		c.unregister()
		c.ws.Close()
	}()

	log.Printf("websocket client %v connected\n", c.ws.RemoteAddr())

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			log.Printf("websocket client %v disconnected\n", c.ws.RemoteAddr())
			return
		}
		c.handleMsg(data)
	}
}

// unregister removes the client from the hub. It returns immediately if
// the hub has already been shut down.
func (c *wsClient) unregister() {
	select {
	case c.removeClient <- c:
	case <-c.hubDone:
	}
}
