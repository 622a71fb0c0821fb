package service

import "sync"

// roomLocks 管理以房間 ID 為鍵的互斥鎖。
//
// 儲存層沒有跨鍵交易，並發的提交可能同時通過樂觀預檢，
// 所以複檢加寫入的臨界區必須由同一把房間鎖保護。
// 鎖是惰性創建且重複使用的；每次呼叫都換新鎖的話競爭就會重新出現。
// 鎖只存在於本進程，多實例部署時這個保證退化為單實例內有效。
type roomLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uint]*sync.Mutex)}
}

// get 取得房間的鎖，不存在時創建
// 創建本身由 l.mu 保護，避免兩個請求各拿到一把不同的鎖
func (l *roomLocks) get(roomID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[roomID] = lock
	}
	return lock
}

// forget 在房間結束後釋放鎖的記憶體
func (l *roomLocks) forget(roomID uint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, roomID)
}
