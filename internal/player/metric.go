package player

// LeaderboardSize is how many entries a leaderboard shows.
const LeaderboardSize = 10

// Metric extracts the value a leaderboard ranks by.
type Metric func(p *Player) int64

var metrics = map[string]Metric{
	"trident":         MaxTrident,
	"files":           func(p *Player) int64 { return p.Files },
	"deaths":          func(p *Player) int64 { return p.Deaths },
	"messages":        func(p *Player) int64 { return p.ChatMessages() },
	"commands":        func(p *Player) int64 { return p.SentCommands },
	"rolled_tridents": func(p *Player) int64 { return p.TridentsRolled },
	"gunpowder":       func(p *Player) int64 { return p.BestGP },
	"gp":              func(p *Player) int64 { return p.BestGP },
}

// MetricByName looks up a leaderboard metric.
func MetricByName(name string) (Metric, bool) {
	m, ok := metrics[name]
	return m, ok
}

// MaxTrident ranks by best trident roll.
func MaxTrident(p *Player) int64 { return p.MaxTrident }
