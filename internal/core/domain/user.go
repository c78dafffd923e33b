package domain

// Principal models the authenticated identity attached to a client session.
type Principal struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	// JoinDate is date-only (YYYY-MM-DD), normalised from the profile's
	// created_at timestamp.
	JoinDate string `json:"join_date,omitempty"`
	IsDemo   bool   `json:"is_demo"`
	RoleTag  string `json:"role,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}
