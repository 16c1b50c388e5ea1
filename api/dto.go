package api

type LinkDTO struct {
	Id           int64
	Code         string
	TargetURL    string
	OwnerId      int64
	AdminKeyHash []byte
	CreatedDate  int64
	Clicks       int64
}

type UserDTO struct {
	Id           int64
	Username     string
	PasswordHash []byte
	IsAdmin      bool
	CreatedDate  int64
}
