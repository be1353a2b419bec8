package dto

// CreateUserRequest registers a Telegram identity with the catalog.
type CreateUserRequest struct {
	TelegramID int64  `json:"telegramId" validate:"required,gt=0"`
	Username   string `json:"username,omitempty"`
	GroupID    int    `json:"groupId" validate:"required,gt=0"`
	RegionID   int    `json:"regionId" validate:"required,gt=0"`
	IsAdmin    bool   `json:"isAdmin"`
}

// ChangeGroupRequest moves a user to another group.
type ChangeGroupRequest struct {
	GroupID int `json:"groupId" validate:"required,gt=0"`
}

// ChangeRegionRequest moves a user to another region.
type ChangeRegionRequest struct {
	RegionID int `json:"regionId" validate:"required,gt=0"`
}
