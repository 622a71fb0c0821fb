package service

import "errors"

// 提交檢查的錯誤分成兩類：
// 客戶端輸入錯誤（房間不存在、不是參與者、回合數超界）立即回絕，不改動任何狀態；
// 並發競爭錯誤（回合已滿、連續發言）會在鎖外預檢和鎖內複檢各偵測一次。
var (
	ErrRoomNotFound    = errors.New("房間不存在")
	ErrRoomNotOngoing  = errors.New("辯論尚未開始或已結束")
	ErrInvalidRound    = errors.New("回合數超出房間設定")
	ErrNotParticipant  = errors.New("用戶未加入此房間")
	ErrRoundFull       = errors.New("此回合的發言已滿")
	ErrConsecutiveTurn = errors.New("不能連續發言")

	ErrNotHost        = errors.New("只有主持人可以執行此操作")
	ErrRoomNotOpen    = errors.New("房間不開放加入")
	ErrDebaterInMatch = errors.New("辯論進行中不能離開")
	ErrNoResult       = errors.New("辯論結果尚未產生")

	ErrFeedbackEmpty   = errors.New("回饋內容不能為空")
	ErrFeedbackTooLong = errors.New("回饋內容超過長度上限")
)
