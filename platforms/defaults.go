package platforms

// DefaultPlatforms returns the supported platforms. Only Steam is enabled; the
// others are announced as coming soon.
func DefaultPlatforms() []Platform {
	return []Platform{
		{
			ID:          "steam",
			Name:        "steam",
			DisplayName: "Steam",
			Description: "The largest digital distribution platform for PC games",
			LogoURL:     "https://store.steampowered.com/public/shared/images/header/logo_steam.svg",
			ColorScheme: ColorScheme{Primary: "#1b2838", Secondary: "#66c0f4"},
			Endpoints: Endpoints{
				BaseURL:      "https://api.steampowered.com",
				Auth:         "https://steamcommunity.com/openid/login",
				UserProfile:  "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v0002/",
				GameLibrary:  "https://api.steampowered.com/IPlayerService/GetOwnedGames/v0001/",
				Achievements: "https://api.steampowered.com/ISteamUserStats/GetPlayerAchievements/v0001/",
				FriendsList:  "https://api.steampowered.com/ISteamUser/GetFriendList/v0001/",
				GameStats:    "https://api.steampowered.com/ISteamUserStats/GetUserStatsForGame/v0002/",
			},
			AuthConfig: AuthConfig{
				Type:           AuthTypeOpenID,
				SecretRequired: true,
				RedirectURI:    "ghub://steam-auth",
				Scopes:         []string{},
			},
			Features: Features{
				GameLibrary:  true,
				Achievements: true,
				FriendsList:  true,
				GameStats:    true,
				GameTime:     true,
			},
			IsEnabled: true,
			Priority:  1,
		},
		{
			ID:          "epic",
			Name:        "epic_games",
			DisplayName: "Epic Games",
			Description: "Epic Games store with weekly free games",
			LogoURL:     "https://cdn2.unrealengine.com/Fortnite+Esports%2Fstatic%2Fimages%2FEpic_Games_logo.svg",
			ColorScheme: ColorScheme{Primary: "#0078f3", Secondary: "#ffffff"},
			Endpoints: Endpoints{
				BaseURL:      "https://api.epicgames.dev",
				Auth:         "https://www.epicgames.com/id/api/redirect",
				UserProfile:  "https://api.epicgames.dev/epic/id/v1/accounts",
				GameLibrary:  "https://api.epicgames.dev/epic/library/v1/items",
				Achievements: "https://api.epicgames.dev/epic/achievements/v1/player",
			},
			AuthConfig: AuthConfig{
				Type:             AuthTypeOAuth2,
				ClientIDRequired: true,
				SecretRequired:   true,
				RedirectURI:      "ghub://epic-auth",
				Scopes:           []string{"basic_profile", "library", "achievements"},
			},
			Features:   Features{GameLibrary: true, Achievements: true},
			ComingSoon: true,
			Priority:   2,
		},
		{
			ID:          "xbox",
			Name:        "xbox_live",
			DisplayName: "Xbox Live",
			Description: "Microsoft's online network for Xbox and PC games",
			LogoURL:     "https://logos-world.net/wp-content/uploads/2020/11/Xbox-Logo.png",
			ColorScheme: ColorScheme{Primary: "#107c10", Secondary: "#ffffff"},
			Endpoints: Endpoints{
				BaseURL:      "https://xbl.io/api/v2",
				Auth:         "https://login.microsoftonline.com/consumers/oauth2/v2.0/authorize",
				UserProfile:  "https://profile.xboxlive.com/users/me/profile/settings",
				GameLibrary:  "https://titlehub.xboxlive.com/users/xuid({xuid})/titles/titlehistory/decoration/detail,image",
				Achievements: "https://achievements.xboxlive.com/users/xuid({xuid})/achievements",
				FriendsList:  "https://social.xboxlive.com/users/me/people",
				GameStats:    "https://userstats.xboxlive.com/users/xuid({xuid})/stats",
			},
			AuthConfig: AuthConfig{
				Type:             AuthTypeOAuth2,
				ClientIDRequired: true,
				SecretRequired:   true,
				RedirectURI:      "ghub://xbox-auth",
				Scopes:           []string{"Xboxlive.signin", "Xboxlive.offline_access"},
			},
			Features: Features{
				GameLibrary:  true,
				Achievements: true,
				FriendsList:  true,
				GameStats:    true,
				GameTime:     true,
			},
			ComingSoon: true,
			Priority:   3,
		},
		{
			ID:          "playstation",
			Name:        "playstation_network",
			DisplayName: "PlayStation Network",
			Description: "Sony's online network for PlayStation games",
			LogoURL:     "https://gmedia.playstation.com/is/image/GMCTNS/ps-logo-and-wordmark-copyright-white-01-en-14sep21",
			ColorScheme: ColorScheme{Primary: "#003791", Secondary: "#ffffff"},
			Endpoints: Endpoints{
				BaseURL:      "https://us-prof.np.community.playstation.net/userProfile/v1/users",
				Auth:         "https://id.sonyentertainmentnetwork.com/signin/",
				UserProfile:  "https://us-prof.np.community.playstation.net/userProfile/v1/users/me/profile2",
				GameLibrary:  "https://us-prof.np.community.playstation.net/userProfile/v1/users/me/gameList",
				Achievements: "https://us-prof.np.community.playstation.net/userProfile/v1/users/me/trophyList",
			},
			AuthConfig: AuthConfig{
				Type:             AuthTypeOAuth2,
				ClientIDRequired: true,
				SecretRequired:   true,
				RedirectURI:      "ghub://playstation-auth",
				Scopes:           []string{"psn:mobile.v1", "psn:clientapp"},
			},
			Features:   Features{GameLibrary: true, Achievements: true},
			ComingSoon: true,
			Priority:   4,
		},
	}
}
