package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// 這些測試不開真正的連線，pump 不會啟動，
// 只驗證註冊表和廣播在併發下的行為
func newTestClient(roomID, userID uint, buffer int) *Client {
	return &Client{
		UserID:   userID,
		RoomID:   roomID,
		Role:     "spectator",
		SendChan: make(chan Event, buffer),
	}
}

func TestPublishDropsEventWhenBufferFull(t *testing.T) {
	m := NewWebSocketManager(zap.NewNop().Sugar())

	// 容量 1 的通道會被 addClient 的上線事件填滿
	client := newTestClient(1, 42, 1)
	m.addClient(client)
	assert.Equal(t, 1, m.RoomClientCount(1))

	// 隊列已滿時事件被丟棄，客戶端仍然留在房間裡
	m.Publish(1, Event{Type: EventNewTurn})
	m.Publish(1, Event{Type: EventNewTurn})
	assert.Equal(t, 1, m.RoomClientCount(1))
	assert.Len(t, client.SendChan, 1)
}

func TestRemoveClientClosesSendChanExactlyOnce(t *testing.T) {
	m := NewWebSocketManager(zap.NewNop().Sugar())

	client := newTestClient(7, 1, 8)
	m.addClient(client)

	m.removeClient(client)
	// 重複移除不能造成二次關閉
	m.removeClient(client)
	assert.Equal(t, 0, m.RoomClientCount(7))

	for {
		if _, open := <-client.SendChan; !open {
			break
		}
	}

	// 客戶端移除後的廣播不會送進已關閉的通道
	m.Publish(7, Event{Type: EventDebateStatus})
}

func TestPublishConcurrentWithDisconnect(t *testing.T) {
	m := NewWebSocketManager(zap.NewNop().Sugar())

	clients := make([]*Client, 10)
	for i := range clients {
		clients[i] = newTestClient(3, uint(i+1), 4)
		m.addClient(clients[i])
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Publish(3, Event{Type: EventNewReaction})
		}()
	}
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			m.removeClient(c)
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 0, m.RoomClientCount(3))
}
