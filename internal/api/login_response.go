package api

type LoginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	Error    string `json:"error,omitempty"`
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}
