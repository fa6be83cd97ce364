package steam

// Profile is the normalized subset of a Steam player summary exposed to clients
type Profile struct {
	SteamID     string `json:"steamId"`
	PersonaName string `json:"name"`
	AvatarURL   string `json:"avatar"`
	ProfileURL  string `json:"profileUrl"`
}

// PlayerSummary mirrors one entry of GetPlayerSummaries' players array
type PlayerSummary struct {
	SteamID                  string `json:"steamid"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	Avatar                   string `json:"avatar"`
	AvatarMedium             string `json:"avatarmedium"`
	AvatarFull               string `json:"avatarfull"`
	PersonaState             int    `json:"personastate"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	ProfileState             int    `json:"profilestate"`
	LastLogoff               int64  `json:"lastlogoff"`
	CommentPermission        int    `json:"commentpermission"`
}

type playerSummariesResponse struct {
	Response struct {
		Players []PlayerSummary `json:"players"`
	} `json:"response"`
}

// Profile normalizes the summary. The full size avatar is preferred.
func (p PlayerSummary) Profile() Profile {
	avatar := p.AvatarFull
	if avatar == "" {
		avatar = p.Avatar
	}
	return Profile{
		SteamID:     p.SteamID,
		PersonaName: p.PersonaName,
		AvatarURL:   avatar,
		ProfileURL:  p.ProfileURL,
	}
}
