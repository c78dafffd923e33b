package domain

// demoPersonas is the fixed table of canned identities used for product
// demonstrations. Read-only; DemoPersona returns copies.
var demoPersonas = map[Role]Principal{
	RoleCollector: {
		ID:            "demo-collector",
		Email:         "alex.collector@demo.r3alm.io",
		Name:          "Alex Collector",
		AvatarURL:     "https://cdn.r3alm.io/avatars/alex.png",
		WalletAddress: "0x4c01Ae5162fD1b3f7cDd2a6B0e9aB8F3d2c6E901",
		JoinDate:      "2024-01-15",
		IsDemo:        true,
		RoleTag:       "collector",
	},
	RoleCreator: {
		ID:            "demo-creator",
		Email:         "maya.artist@demo.r3alm.io",
		Name:          "Maya Artist",
		AvatarURL:     "https://cdn.r3alm.io/avatars/maya.png",
		WalletAddress: "0x9E77bD30c41Aa8253B1f00E4d7fA5c8B6e2D4F10",
		JoinDate:      "2023-11-02",
		IsDemo:        true,
		RoleTag:       "creator",
	},
	RoleInvestor: {
		ID:            "demo-investor",
		Email:         "ivan.investor@demo.r3alm.io",
		Name:          "Ivan Investor",
		AvatarURL:     "https://cdn.r3alm.io/avatars/ivan.png",
		WalletAddress: "0x12f8C904dEa61B7acA95502f3b1D8e6C0a7B3344",
		JoinDate:      "2024-02-20",
		IsDemo:        true,
		RoleTag:       "investor",
	},
	RoleAdmin: {
		ID:       "demo-admin",
		Email:    "rae.admin@demo.r3alm.io",
		Name:     "Rae Admin",
		JoinDate: "2023-09-01",
		IsDemo:   true,
		RoleTag:  "admin",
		IsAdmin:  true,
	},
}

// DemoPersona looks up the canned principal for a persona key
// ("collector", "creator", "investor" or "admin").
func DemoPersona(kind string) (Principal, bool) {
	p, ok := demoPersonas[Role(kind)]
	return p, ok
}
