// Package logging 提供全應用共用的 zap logger。
package logging

import "go.uber.org/zap"

// New 創建一個新的 zap logger
func New() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}
