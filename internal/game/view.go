package game

// CardView is a read-only snapshot of a card instance. Views are detached
// copies; mutating one never touches engine state.
type CardView struct {
	UID         int            `json:"uid"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Supertype   Supertype      `json:"supertype"`
	Stage       Stage          `json:"stage,omitempty"`
	EvolvesFrom string         `json:"evolves_from,omitempty"`
	HP          int            `json:"hp,omitempty"`
	Damage      int            `json:"damage"`
	Attached    map[string]int `json:"attached,omitempty"`
	Conditions  []string       `json:"conditions,omitempty"`
}

// ZoneCounts summarises a player's zone sizes.
type ZoneCounts struct {
	Deck    int `json:"deck"`
	Hand    int `json:"hand"`
	Bench   int `json:"bench"`
	Active  int `json:"active"`
	Discard int `json:"discard"`
	Prizes  int `json:"prizes"`
}

// PlayerView is a read-only snapshot of one player's visible state.
type PlayerView struct {
	Active *CardView   `json:"active"`
	Bench  []*CardView `json:"bench"`
	Zones  ZoneCounts  `json:"zones"`
}

// StateView is a read-only snapshot of the whole match.
type StateView struct {
	MatchID    string        `json:"match_id"`
	Turn       int           `json:"turn"`
	TurnPlayer int           `json:"turn_player"`
	Phase      string        `json:"phase"`
	Players    [2]PlayerView `json:"players"`
	Over       bool          `json:"over"`
	Winner     int           `json:"winner"` // -1 while the match is live
}

func snapshotCard(c *CardInstance) *CardView {
	if c == nil {
		return nil
	}
	view := &CardView{
		UID:       c.UID,
		ID:        c.Template.ID,
		Name:      c.Name(),
		Supertype: c.Template.Supertype,
		Damage:    c.Damage,
	}
	if data := c.Template.Pokemon; data != nil {
		view.Stage = data.Stage
		view.EvolvesFrom = data.EvolvesFrom
		view.HP = data.HP
	}
	if len(c.Attached) > 0 {
		view.Attached = make(map[string]int, len(c.Attached))
		for t, n := range c.Attached {
			view.Attached[string(t)] = n
		}
	}
	for cond, on := range c.Conditions {
		if on {
			view.Conditions = append(view.Conditions, string(cond))
		}
	}
	return view
}

func snapshotZones(p *PlayerState) ZoneCounts {
	counts := ZoneCounts{
		Deck:    len(p.Deck),
		Hand:    len(p.Hand),
		Bench:   p.BenchCount(),
		Discard: len(p.Discard),
		Prizes:  len(p.Prizes),
	}
	if p.Active != nil {
		counts.Active = 1
	}
	return counts
}

func snapshotPlayer(p *PlayerState) PlayerView {
	view := PlayerView{
		Active: snapshotCard(p.Active),
		Zones:  snapshotZones(p),
	}
	for _, c := range p.Bench {
		if c != nil {
			view.Bench = append(view.Bench, snapshotCard(c))
		}
	}
	return view
}
