package league

// Achievement ids. The stored set on a player only ever gains entries; the
// repeatable ones re-notify on every qualifying game even once stored.
const (
	AchWelcomeToTheParty      = "WELCOME_TO_THE_PARTY_PAL"
	AchWelcomeToTheBigLeagues = "WELCOME_TO_THE_BIG_LEAGUES"
	AchKingSlayer             = "KING_SLAYER"
	AchHotStreak              = "HOT_STREAK"
	AchButterfingers          = "BUTTERFINGERS"
	AchRivalRevenge           = "RIVAL_REVENGE"
	AchCoinFlipChampion       = "COIN_FLIP_CHAMPION"
	AchYoYo                   = "YO_YO"
	AchShouldBeWorking        = "SHOULD_BE_WORKING"
)

var repeatableAchievements = map[string]bool{
	AchKingSlayer:       true,
	AchHotStreak:        true,
	AchButterfingers:    true,
	AchRivalRevenge:     true,
	AchCoinFlipChampion: true,
	AchYoYo:             true,
	AchShouldBeWorking:  true,
}

// AchievementRepeatable reports whether an achievement re-notifies on every
// qualifying occurrence.
func AchievementRepeatable(id string) bool {
	return repeatableAchievements[id]
}
