package repository

import "fmt"

type selectionKey struct {
	sessionID  string
	propertyID int64
}

func redisSelectionKey(sessionID string, propertyID int64) string {
	return fmt.Sprintf("selection:%s:%d", sessionID, propertyID)
}
