package models

// User is the catalog profile bound to a Telegram identity.
type User struct {
	ID         int    `json:"id" validate:"gt=0"`
	TelegramID *int64 `json:"telegramId"`
	GroupID    int    `json:"groupId" validate:"gt=0"`
	RegionID   int    `json:"regionId" validate:"gt=0"`
	IsAdmin    bool   `json:"isAdmin"`
}
